/*
Package sqlite provides a SQLite-backed implementation of domain.View.

PURPOSE:
  Persists the fiscal movement of one branch (purchases, printer day
  closes, sales, inventories, product catalog) and serves the period
  queries the file generator consumes. In production the same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  domain.View: Period-scoped read model for the generator

KEY TABLES:
  branch:                Single-row establishment facts
  suppliers:             Supplier identification (CNPJ/CPF, registration)
  receiving_orders:      Received purchase invoices
  receiving_order_items: Invoice lines with ICMS rate and quantity
  fiscal_days:           Printer Z-reduction summaries
  fiscal_day_taxes:      Per-bracket tax totals of each Z-reduction
  sales:                 Confirmed/paid sales with sale-level discount
  sale_items:            Sold lines per sellable
  inventories:           Closed inventory counts
  inventory_items:       Counted lines with ownership and cost
  sellables:             Product master (code, NCM, unit, ICMS data)

MONEY AND QUANTITIES:
  Stored as decimal strings, never floats. The generator scales them
  at the record boundary; the store hands them over untouched.

INDEXES:
  Period queries filter by date, so every dated table carries a date
  index. Item tables are indexed by their parent id.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better
  concurrency: readers don't block the importer feeding the store.

USAGE:
  store, err := sqlite.New("./data/fiscal.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  data, err := generator.Generate(ctx, store, start, end)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - domain/view.go: The interface this package implements
  - domain/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/sintegra-engine/domain"
)

const dateLayout = "2006-01-02"

// Store implements domain.View backed by SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Establishment facts (a database holds exactly one branch)
	CREATE TABLE IF NOT EXISTS branch (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		cgc INTEGER NOT NULL,
		state_registration TEXT NOT NULL,
		company TEXT NOT NULL,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		fax INTEGER DEFAULT 0,
		street TEXT NOT NULL,
		street_number INTEGER DEFAULT 0,
		complement TEXT DEFAULT '',
		district TEXT NOT NULL,
		postal_code INTEGER DEFAULT 0,
		manager TEXT DEFAULT '',
		phone INTEGER DEFAULT 0
	);

	-- Suppliers
	CREATE TABLE IF NOT EXISTS suppliers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		cnpj INTEGER DEFAULT 0,
		cpf INTEGER DEFAULT 0,
		state_registration TEXT DEFAULT ''
	);

	-- Received purchase invoices
	CREATE TABLE IF NOT EXISTS receiving_orders (
		id TEXT PRIMARY KEY,
		supplier_id TEXT NOT NULL REFERENCES suppliers(id),
		receival_date TEXT NOT NULL,
		state TEXT NOT NULL,
		model INTEGER NOT NULL,
		serial TEXT NOT NULL,
		number INTEGER NOT NULL,
		cfop TEXT NOT NULL,
		emitter TEXT NOT NULL,
		situation TEXT NOT NULL,
		goods_total TEXT NOT NULL,
		freight TEXT NOT NULL DEFAULT '0',
		insurance TEXT NOT NULL DEFAULT '0',
		expense TEXT NOT NULL DEFAULT '0',
		discount TEXT NOT NULL DEFAULT '0'
	);

	CREATE INDEX IF NOT EXISTS idx_receiving_orders_date
		ON receiving_orders(receival_date);

	CREATE TABLE IF NOT EXISTS receiving_order_items (
		order_id TEXT NOT NULL REFERENCES receiving_orders(id),
		position INTEGER NOT NULL,
		sellable_code TEXT NOT NULL,
		icms_rate TEXT NOT NULL,
		quantity TEXT NOT NULL,
		gross_value TEXT NOT NULL,
		PRIMARY KEY (order_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_receiving_order_items_order
		ON receiving_order_items(order_id);

	-- Fiscal-printer Z-reductions
	CREATE TABLE IF NOT EXISTS fiscal_days (
		id TEXT PRIMARY KEY,
		emission_date TEXT NOT NULL,
		printer_serial TEXT NOT NULL,
		printer_id INTEGER NOT NULL,
		coupon_start INTEGER DEFAULT 0,
		coupon_end INTEGER DEFAULT 0,
		crz INTEGER DEFAULT 0,
		cro INTEGER DEFAULT 0,
		period_total TEXT NOT NULL DEFAULT '0',
		total TEXT NOT NULL DEFAULT '0'
	);

	CREATE INDEX IF NOT EXISTS idx_fiscal_days_date
		ON fiscal_days(emission_date);

	CREATE TABLE IF NOT EXISTS fiscal_day_taxes (
		day_id TEXT NOT NULL REFERENCES fiscal_days(id),
		position INTEGER NOT NULL,
		code TEXT NOT NULL,
		value TEXT NOT NULL,
		kind TEXT NOT NULL,
		PRIMARY KEY (day_id, position)
	);

	-- Sales
	CREATE TABLE IF NOT EXISTS sales (
		id TEXT PRIMARY KEY,
		confirm_date TEXT NOT NULL,
		status TEXT NOT NULL,
		discount TEXT NOT NULL DEFAULT '0'
	);

	CREATE INDEX IF NOT EXISTS idx_sales_date
		ON sales(confirm_date);
	CREATE INDEX IF NOT EXISTS idx_sales_status
		ON sales(status);

	CREATE TABLE IF NOT EXISTS sale_items (
		sale_id TEXT NOT NULL REFERENCES sales(id),
		position INTEGER NOT NULL,
		sellable_code TEXT NOT NULL,
		quantity TEXT NOT NULL,
		gross_value TEXT NOT NULL,
		PRIMARY KEY (sale_id, position)
	);

	-- Closed inventories
	CREATE TABLE IF NOT EXISTS inventories (
		id TEXT PRIMARY KEY,
		close_date TEXT NOT NULL,
		state TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_inventories_date
		ON inventories(close_date);

	CREATE TABLE IF NOT EXISTS inventory_items (
		inventory_id TEXT NOT NULL REFERENCES inventories(id),
		position INTEGER NOT NULL,
		sellable_code TEXT NOT NULL,
		quantity TEXT NOT NULL,
		total_cost TEXT NOT NULL DEFAULT '0',
		has_recorded_cost BOOLEAN NOT NULL DEFAULT FALSE,
		current_cost TEXT NOT NULL DEFAULT '0',
		ownership INTEGER NOT NULL DEFAULT 1,
		owner_cgc INTEGER DEFAULT 0,
		owner_state_registration TEXT DEFAULT '',
		PRIMARY KEY (inventory_id, position)
	);

	-- Product master
	CREATE TABLE IF NOT EXISTS sellables (
		code TEXT PRIMARY KEY,
		ncm TEXT DEFAULT '',
		description TEXT NOT NULL,
		unit TEXT DEFAULT '',
		ipi_rate TEXT NOT NULL DEFAULT '0',
		icms_rate TEXT NOT NULL DEFAULT '0',
		icms_reduction TEXT NOT NULL DEFAULT '0',
		icms_base TEXT NOT NULL DEFAULT '0'
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// WRITE SIDE (used by importers and tests)
// =============================================================================

// SaveBranch stores the establishment facts, replacing any previous row.
func (s *Store) SaveBranch(ctx context.Context, b domain.BranchFacts) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO branch (id, cgc, state_registration, company, city, state, fax,
			street, street_number, complement, district, postal_code, manager, phone)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			cgc = excluded.cgc,
			state_registration = excluded.state_registration,
			company = excluded.company,
			city = excluded.city,
			state = excluded.state,
			fax = excluded.fax,
			street = excluded.street,
			street_number = excluded.street_number,
			complement = excluded.complement,
			district = excluded.district,
			postal_code = excluded.postal_code,
			manager = excluded.manager,
			phone = excluded.phone
	`

	_, err := s.db.ExecContext(ctx, query,
		b.CGC, b.StateRegistration, b.Company, b.City, b.State, b.Fax,
		b.Street, b.StreetNumber, b.Complement, b.District, b.PostalCode,
		b.Manager, b.Phone,
	)
	return err
}

// SaveSellable upserts one product master row.
func (s *Store) SaveSellable(ctx context.Context, m domain.SellableMaster) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO sellables (code, ncm, description, unit, ipi_rate, icms_rate,
			icms_reduction, icms_base)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			ncm = excluded.ncm,
			description = excluded.description,
			unit = excluded.unit,
			ipi_rate = excluded.ipi_rate,
			icms_rate = excluded.icms_rate,
			icms_reduction = excluded.icms_reduction,
			icms_base = excluded.icms_base
	`

	_, err := s.db.ExecContext(ctx, query,
		m.Code, m.NCM, m.Description, m.Unit,
		m.IPIRate.String(), m.ICMSRate.String(),
		m.ICMSReduction.String(), m.ICMSBase.String(),
	)
	return err
}

// SaveReceivingOrder stores one received invoice, its supplier and its
// lines atomically.
func (s *Store) SaveReceivingOrder(ctx context.Context, id string, order domain.ReceivingOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	supplierID := fmt.Sprintf("%s/%d/%d", order.Supplier.Name, order.Supplier.CNPJ, order.Supplier.CPF)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO suppliers (id, name, cnpj, cpf, state_registration)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state_registration = excluded.state_registration`,
		supplierID, order.Supplier.Name, order.Supplier.CNPJ,
		order.Supplier.CPF, order.Supplier.StateRegistration,
	)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO receiving_orders (id, supplier_id, receival_date, state, model,
			serial, number, cfop, emitter, situation, goods_total, freight,
			insurance, expense, discount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, supplierID, order.ReceivalDate.Format(dateLayout), order.State,
		order.Model, order.Serial, order.Number, order.CFOP, order.Emitter,
		order.Situation, order.GoodsTotal.String(), order.Freight.String(),
		order.Insurance.String(), order.Expense.String(), order.Discount.String(),
	)
	if err != nil {
		return err
	}

	for i, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO receiving_order_items (order_id, position, sellable_code,
				icms_rate, quantity, gross_value)
			VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, item.SellableCode, item.ICMSRate.String(),
			item.Quantity.String(), item.GrossValue.String(),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveFiscalDay stores one Z-reduction and its tax brackets atomically.
func (s *Store) SaveFiscalDay(ctx context.Context, id string, day domain.FiscalDaySummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO fiscal_days (id, emission_date, printer_serial, printer_id,
			coupon_start, coupon_end, crz, cro, period_total, total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, day.EmissionDate.Format(dateLayout), day.PrinterSerial, day.PrinterID,
		day.CouponStart, day.CouponEnd, day.CRZ, day.CRO,
		day.PeriodTotal.String(), day.Total.String(),
	)
	if err != nil {
		return err
	}

	for i, tax := range day.Taxes {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO fiscal_day_taxes (day_id, position, code, value, kind)
			VALUES (?, ?, ?, ?, ?)`,
			id, i, tax.Code, tax.Value.String(), string(tax.Kind),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveSale stores one sale and its lines atomically.
func (s *Store) SaveSale(ctx context.Context, id string, sale domain.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, confirm_date, status, discount)
		VALUES (?, ?, ?, ?)`,
		id, sale.ConfirmDate.Format(dateLayout), string(sale.Status),
		sale.Discount.String(),
	)
	if err != nil {
		return err
	}

	for i, item := range sale.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_items (sale_id, position, sellable_code, quantity, gross_value)
			VALUES (?, ?, ?, ?, ?)`,
			id, i, item.SellableCode, item.Quantity.String(), item.GrossValue.String(),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveInventory stores one closed inventory and its counted lines.
func (s *Store) SaveInventory(ctx context.Context, id string, inv domain.Inventory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO inventories (id, close_date, state)
		VALUES (?, ?, ?)`,
		id, inv.CloseDate.Format(dateLayout), inv.State,
	)
	if err != nil {
		return err
	}

	for i, item := range inv.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO inventory_items (inventory_id, position, sellable_code,
				quantity, total_cost, has_recorded_cost, current_cost, ownership,
				owner_cgc, owner_state_registration)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, item.SellableCode, item.Quantity.String(),
			item.TotalCost.String(), item.HasRecordedCost, item.CurrentCost.String(),
			item.Ownership, item.OwnerCGC, item.OwnerStateRegistration,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"inventory_items", "inventories", "sale_items", "sales",
		"fiscal_day_taxes", "fiscal_days", "receiving_order_items",
		"receiving_orders", "suppliers", "sellables", "branch",
	}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// READ SIDE (domain.View)
// =============================================================================

// BranchFacts returns the establishment identification.
func (s *Store) BranchFacts(ctx context.Context) (domain.BranchFacts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var b domain.BranchFacts
	err := s.db.QueryRowContext(ctx, `
		SELECT cgc, state_registration, company, city, state, fax, street,
			street_number, complement, district, postal_code, manager, phone
		FROM branch WHERE id = 1`,
	).Scan(&b.CGC, &b.StateRegistration, &b.Company, &b.City, &b.State, &b.Fax,
		&b.Street, &b.StreetNumber, &b.Complement, &b.District, &b.PostalCode,
		&b.Manager, &b.Phone)

	if err == sql.ErrNoRows {
		return b, fmt.Errorf("no branch configured: %w", err)
	}
	if err != nil {
		return b, fmt.Errorf("failed to load branch: %w", err)
	}
	return b, nil
}

// ReceivedOrdersBetween returns purchase orders received in [start, end].
func (s *Store) ReceivedOrdersBetween(ctx context.Context, start, end time.Time) ([]domain.ReceivingOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT o.id, o.receival_date, o.state, o.model, o.serial, o.number,
			o.cfop, o.emitter, o.situation, o.goods_total, o.freight,
			o.insurance, o.expense, o.discount,
			su.name, su.cnpj, su.cpf, su.state_registration
		FROM receiving_orders o
		JOIN suppliers su ON su.id = o.supplier_id
		WHERE o.receival_date >= ? AND o.receival_date <= ?
		ORDER BY o.receival_date ASC, o.number ASC`,
		start.Format(dateLayout), end.Format(dateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.ReceivingOrder
	var ids []string
	for rows.Next() {
		var (
			o    domain.ReceivingOrder
			id   string
			date string
			str  [5]string
		)
		if err := rows.Scan(&id, &date, &o.State, &o.Model, &o.Serial, &o.Number,
			&o.CFOP, &o.Emitter, &o.Situation, &str[0], &str[1], &str[2], &str[3], &str[4],
			&o.Supplier.Name, &o.Supplier.CNPJ, &o.Supplier.CPF,
			&o.Supplier.StateRegistration); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		if o.ReceivalDate, err = time.Parse(dateLayout, date); err != nil {
			return nil, err
		}
		if o.GoodsTotal, err = decimal.NewFromString(str[0]); err != nil {
			return nil, err
		}
		if o.Freight, err = decimal.NewFromString(str[1]); err != nil {
			return nil, err
		}
		if o.Insurance, err = decimal.NewFromString(str[2]); err != nil {
			return nil, err
		}
		if o.Expense, err = decimal.NewFromString(str[3]); err != nil {
			return nil, err
		}
		if o.Discount, err = decimal.NewFromString(str[4]); err != nil {
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		items, err := s.orderItems(ctx, id)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (s *Store) orderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sellable_code, icms_rate, quantity, gross_value
		FROM receiving_order_items
		WHERE order_id = ?
		ORDER BY position ASC`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var (
			item             domain.OrderItem
			rate, qty, gross string
		)
		if err := rows.Scan(&item.SellableCode, &rate, &qty, &gross); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		if item.ICMSRate, err = decimal.NewFromString(rate); err != nil {
			return nil, err
		}
		if item.Quantity, err = decimal.NewFromString(qty); err != nil {
			return nil, err
		}
		if item.GrossValue, err = decimal.NewFromString(gross); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// FiscalDayHistoryBetween returns printer day closes emitted in [start, end].
func (s *Store) FiscalDayHistoryBetween(ctx context.Context, start, end time.Time) ([]domain.FiscalDaySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, emission_date, printer_serial, printer_id, coupon_start,
			coupon_end, crz, cro, period_total, total
		FROM fiscal_days
		WHERE emission_date >= ? AND emission_date <= ?
		ORDER BY emission_date ASC`,
		start.Format(dateLayout), end.Format(dateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query fiscal days: %w", err)
	}
	defer rows.Close()

	var days []domain.FiscalDaySummary
	var ids []string
	for rows.Next() {
		var (
			day           domain.FiscalDaySummary
			id, date      string
			period, total string
		)
		if err := rows.Scan(&id, &date, &day.PrinterSerial, &day.PrinterID,
			&day.CouponStart, &day.CouponEnd, &day.CRZ, &day.CRO,
			&period, &total); err != nil {
			return nil, fmt.Errorf("failed to scan fiscal day: %w", err)
		}
		if day.EmissionDate, err = time.Parse(dateLayout, date); err != nil {
			return nil, err
		}
		if day.PeriodTotal, err = decimal.NewFromString(period); err != nil {
			return nil, err
		}
		if day.Total, err = decimal.NewFromString(total); err != nil {
			return nil, err
		}
		days = append(days, day)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		taxes, err := s.dayTaxes(ctx, id)
		if err != nil {
			return nil, err
		}
		days[i].Taxes = taxes
	}
	return days, nil
}

func (s *Store) dayTaxes(ctx context.Context, dayID string) ([]domain.TaxEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, value, kind
		FROM fiscal_day_taxes
		WHERE day_id = ?
		ORDER BY position ASC`,
		dayID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query day taxes: %w", err)
	}
	defer rows.Close()

	var taxes []domain.TaxEntry
	for rows.Next() {
		var (
			tax         domain.TaxEntry
			value, kind string
		)
		if err := rows.Scan(&tax.Code, &value, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan day tax: %w", err)
		}
		if tax.Value, err = decimal.NewFromString(value); err != nil {
			return nil, err
		}
		tax.Kind = domain.TaxKind(kind)
		taxes = append(taxes, tax)
	}
	return taxes, rows.Err()
}

// SalesBetween returns countable sales confirmed in [start, end].
func (s *Store) SalesBetween(ctx context.Context, start, end time.Time) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, confirm_date, status, discount
		FROM sales
		WHERE confirm_date >= ? AND confirm_date <= ?
		  AND status IN (?, ?)
		ORDER BY confirm_date ASC`,
		start.Format(dateLayout), end.Format(dateLayout),
		string(domain.SaleConfirmed), string(domain.SalePaid),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var sales []domain.Sale
	var ids []string
	for rows.Next() {
		var (
			sale                   domain.Sale
			id, date, status, disc string
		)
		if err := rows.Scan(&id, &date, &status, &disc); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		if sale.ConfirmDate, err = time.Parse(dateLayout, date); err != nil {
			return nil, err
		}
		if sale.Discount, err = decimal.NewFromString(disc); err != nil {
			return nil, err
		}
		sale.Status = domain.SaleStatus(status)
		sales = append(sales, sale)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		items, err := s.saleItems(ctx, id)
		if err != nil {
			return nil, err
		}
		sales[i].Items = items
	}
	return sales, nil
}

func (s *Store) saleItems(ctx context.Context, saleID string) ([]domain.SaleItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sellable_code, quantity, gross_value
		FROM sale_items
		WHERE sale_id = ?
		ORDER BY position ASC`,
		saleID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale items: %w", err)
	}
	defer rows.Close()

	var items []domain.SaleItem
	for rows.Next() {
		var (
			item       domain.SaleItem
			qty, gross string
		)
		if err := rows.Scan(&item.SellableCode, &qty, &gross); err != nil {
			return nil, fmt.Errorf("failed to scan sale item: %w", err)
		}
		if item.Quantity, err = decimal.NewFromString(qty); err != nil {
			return nil, err
		}
		if item.GrossValue, err = decimal.NewFromString(gross); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// InventoriesClosedBetween returns inventories closed in [start, end].
func (s *Store) InventoriesClosedBetween(ctx context.Context, start, end time.Time) ([]domain.Inventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, close_date, state
		FROM inventories
		WHERE close_date >= ? AND close_date <= ?
		ORDER BY close_date ASC`,
		start.Format(dateLayout), end.Format(dateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventories: %w", err)
	}
	defer rows.Close()

	var inventories []domain.Inventory
	var ids []string
	for rows.Next() {
		var (
			inv      domain.Inventory
			id, date string
		)
		if err := rows.Scan(&id, &date, &inv.State); err != nil {
			return nil, fmt.Errorf("failed to scan inventory: %w", err)
		}
		if inv.CloseDate, err = time.Parse(dateLayout, date); err != nil {
			return nil, err
		}
		inventories = append(inventories, inv)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		items, err := s.inventoryItems(ctx, id)
		if err != nil {
			return nil, err
		}
		inventories[i].Items = items
	}
	return inventories, nil
}

func (s *Store) inventoryItems(ctx context.Context, inventoryID string) ([]domain.InventoryItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sellable_code, quantity, total_cost, has_recorded_cost,
			current_cost, ownership, owner_cgc, owner_state_registration
		FROM inventory_items
		WHERE inventory_id = ?
		ORDER BY position ASC`,
		inventoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory items: %w", err)
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		var (
			item                 domain.InventoryItem
			qty, total, current  string
		)
		if err := rows.Scan(&item.SellableCode, &qty, &total, &item.HasRecordedCost,
			&current, &item.Ownership, &item.OwnerCGC,
			&item.OwnerStateRegistration); err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		if item.Quantity, err = decimal.NewFromString(qty); err != nil {
			return nil, err
		}
		if item.TotalCost, err = decimal.NewFromString(total); err != nil {
			return nil, err
		}
		if item.CurrentCost, err = decimal.NewFromString(current); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SellableMaster returns the product master row for code.
func (s *Store) SellableMaster(ctx context.Context, code string) (domain.SellableMaster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		m                         domain.SellableMaster
		ipi, icms, reduction, base string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT code, ncm, description, unit, ipi_rate, icms_rate,
			icms_reduction, icms_base
		FROM sellables WHERE code = ?`,
		code,
	).Scan(&m.Code, &m.NCM, &m.Description, &m.Unit, &ipi, &icms, &reduction, &base)

	if err == sql.ErrNoRows {
		return m, fmt.Errorf("sellable %q: %w", code, domain.ErrSellableNotFound)
	}
	if err != nil {
		return m, fmt.Errorf("failed to load sellable: %w", err)
	}

	if m.IPIRate, err = decimal.NewFromString(ipi); err != nil {
		return m, err
	}
	if m.ICMSRate, err = decimal.NewFromString(icms); err != nil {
		return m, err
	}
	if m.ICMSReduction, err = decimal.NewFromString(reduction); err != nil {
		return m, err
	}
	if m.ICMSBase, err = decimal.NewFromString(base); err != nil {
		return m, err
	}
	return m, nil
}
