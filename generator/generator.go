/*
generator.go - Domain-to-ledger driver

PURPOSE:
  Walks one reporting period of business data and assembles the
  Sintegra file in the prescribed order:

    1. Header pair (10, 11) from the branch facts
    2. Received purchase orders: type-50 per ICMS bracket with
       proportional charge allocation, type-54 per line plus special
       rows for freight/insurance/expense
    3. Fiscal-printer day closes ascending by date: 60M + 60A per
       non-zero tax bracket
    4. Monthly per-product sales aggregation: 60R ascending by code
    5. Closed inventories: type-74 per counted item
    6. Product master: type-75 for every sellable the file referenced
    7. Close (type-90 summaries)

PROPORTIONAL ALLOCATION:
  Order-level freight, insurance, expense and discount are spread over
  the line groups by the factor

    (goods + freight + insurance + expense - discount) / goods

  so the type-50 group totals conserve the order's real total. Orders
  with a zero goods total skip the allocation (factor 1) to avoid
  dividing by zero.

FAILURE MODEL:
  Any error aborts the whole run. Generate returns either the complete
  file bytes or an error, never a partial file; GenerateTo writes
  nothing on failure.

SEE ALSO:
  - domain/view.go: The data this driver consumes
  - sintegra/ledger.go: The container it drives
*/
package generator

import (
	"context"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/sintegra-engine/domain"
	"github.com/warp/sintegra-engine/logging"
	"github.com/warp/sintegra-engine/sintegra"
)

var log = logging.GetLogger("generator")

// Generate walks the domain view for [start, end] and returns the
// complete Sintegra file bytes.
func Generate(ctx context.Context, view domain.View, start, end time.Time) ([]byte, error) {
	ledger := sintegra.NewLedger()
	d := &driver{
		view:       view,
		ledger:     ledger,
		start:      start,
		end:        end,
		referenced: make(map[string]bool),
	}
	if err := d.run(ctx); err != nil {
		return nil, err
	}
	return ledger.Bytes()
}

// GenerateTo generates the file and writes it to w in one piece.
// Nothing reaches w when generation fails.
func GenerateTo(ctx context.Context, view domain.View, start, end time.Time, w io.Writer) error {
	data, err := Generate(ctx, view, start, end)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// =============================================================================
// DRIVER
// =============================================================================

type driver struct {
	view   domain.View
	ledger *sintegra.Ledger
	start  time.Time
	end    time.Time

	// Every sellable code referenced by purchases, sales or
	// inventories; drives the type-75 product master emission.
	referenced map[string]bool
}

func (d *driver) run(ctx context.Context) error {
	if err := d.emitHeader(ctx); err != nil {
		return err
	}
	if err := d.emitPurchases(ctx); err != nil {
		return err
	}
	if err := d.emitFiscalDays(ctx); err != nil {
		return err
	}
	if err := d.emitMonthlySales(ctx); err != nil {
		return err
	}
	if err := d.emitInventories(ctx); err != nil {
		return err
	}
	if err := d.emitProductMaster(ctx); err != nil {
		return err
	}
	return d.ledger.Close()
}

// =============================================================================
// 1. HEADER PAIR
// =============================================================================

func (d *driver) emitHeader(ctx context.Context) error {
	facts, err := d.view.BranchFacts(ctx)
	if err != nil {
		return err
	}
	if err := d.ledger.AddHeader(facts.CGC, facts.StateRegistration, facts.Company,
		facts.City, facts.State, facts.Fax, d.start, d.end); err != nil {
		return err
	}
	return d.ledger.AddComplement(facts.Street, facts.StreetNumber, facts.Complement,
		facts.District, facts.PostalCode, facts.Manager, facts.Phone)
}

// =============================================================================
// 2. RECEIVED PURCHASE ORDERS
// =============================================================================

var cfopPattern = regexp.MustCompile(`^\d\.\d{3}$`)

func (d *driver) emitPurchases(ctx context.Context) error {
	orders, err := d.view.ReceivedOrdersBetween(ctx, d.start, d.end)
	if err != nil {
		return err
	}
	for _, order := range orders {
		if err := d.emitOrder(order); err != nil {
			return err
		}
	}
	return nil
}

func (d *driver) emitOrder(order domain.ReceivingOrder) error {
	taxID, ok := order.Supplier.TaxID()
	if !ok {
		return &MissingSupplierTaxIDError{Supplier: order.Supplier.Name}
	}
	stateReg, err := supplierStateRegistration(order.Supplier)
	if err != nil {
		return err
	}
	cfop, err := parseCFOP(order)
	if err != nil {
		return err
	}

	factor := allocationFactor(order)

	// One type-50 per distinct ICMS rate, ascending.
	for _, group := range groupByRate(order.Items) {
		total := group.total.Mul(factor).Round(2)
		base := decimal.Zero
		icms := decimal.Zero
		other := decimal.Zero
		if group.rate.IsPositive() {
			base = total
			icms = base.Mul(group.rate).Div(oneHundred).Round(2)
		} else {
			other = total
		}
		if err := d.ledger.AddPurchaseDoc(taxID, stateReg, order.ReceivalDate,
			order.State, order.Model, order.Serial, order.Number, cfop, order.Emitter,
			total, base, icms, decimal.Zero, other, group.rate, order.Situation); err != nil {
			return err
		}
	}

	// One type-54 per line, numbered from 1 in input order.
	for i, item := range order.Items {
		base := decimal.Zero
		if item.ICMSRate.IsPositive() {
			base = item.GrossValue.Mul(factor).Round(2)
		}
		if err := d.ledger.AddPurchaseLine(taxID, order.Model, order.Serial,
			order.Number, cfop, int64(i+1), item.SellableCode,
			item.Quantity, item.GrossValue, decimal.Zero, base,
			decimal.Zero, decimal.Zero, item.ICMSRate); err != nil {
			return err
		}
		d.referenced[item.SellableCode] = true
	}

	// Special rows for non-zero order-level charges.
	charges := []struct {
		item  int64
		value decimal.Decimal
	}{
		{sintegra.ItemFreight, order.Freight},
		{sintegra.ItemInsurance, order.Insurance},
		{sintegra.ItemExpense, order.Expense},
	}
	for _, c := range charges {
		if !c.value.IsPositive() {
			continue
		}
		if err := d.ledger.AddPurchaseCharge(taxID, order.Model, order.Serial,
			order.Number, cfop, c.item, c.value); err != nil {
			return err
		}
	}
	return nil
}

// supplierStateRegistration resolves the type-50 registration column.
// Individuals without a registration file as exempt; companies must
// have one on record.
func supplierStateRegistration(s domain.Supplier) (string, error) {
	if s.StateRegistration != "" {
		return s.StateRegistration, nil
	}
	if s.IsIndividual() {
		return "ISENTO", nil
	}
	return "", &MissingStateRegistrationError{Supplier: s.Name}
}

// parseCFOP strips the dot from a N.NNN operation code.
func parseCFOP(order domain.ReceivingOrder) (int64, error) {
	if !cfopPattern.MatchString(order.CFOP) {
		return 0, &InvalidCFOPError{Code: order.CFOP, Supplier: order.Supplier.Name, Document: order.Number}
	}
	n, err := strconv.ParseInt(strings.Replace(order.CFOP, ".", "", 1), 10, 64)
	if err != nil {
		return 0, &InvalidCFOPError{Code: order.CFOP, Supplier: order.Supplier.Name, Document: order.Number}
	}
	return n, nil
}

var oneHundred = decimal.NewFromInt(100)

// allocationFactor spreads freight, insurance, expense and discount
// over the order's goods total. Zero goods totals skip allocation.
func allocationFactor(order domain.ReceivingOrder) decimal.Decimal {
	if order.GoodsTotal.IsZero() {
		return decimal.NewFromInt(1)
	}
	adjusted := order.GoodsTotal.
		Add(order.Freight).
		Add(order.Insurance).
		Add(order.Expense).
		Sub(order.Discount)
	return adjusted.Div(order.GoodsTotal)
}

type rateGroup struct {
	rate  decimal.Decimal
	total decimal.Decimal
}

// groupByRate folds order lines into per-ICMS-rate subtotals,
// ascending by rate.
func groupByRate(items []domain.OrderItem) []rateGroup {
	byRate := make(map[string]*rateGroup)
	for _, item := range items {
		key := item.ICMSRate.String()
		g, ok := byRate[key]
		if !ok {
			g = &rateGroup{rate: item.ICMSRate}
			byRate[key] = g
		}
		g.total = g.total.Add(item.GrossValue)
	}
	groups := make([]rateGroup, 0, len(byRate))
	for _, g := range byRate {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].rate.LessThan(groups[j].rate)
	})
	return groups
}

// =============================================================================
// 3. FISCAL DAY CLOSES
// =============================================================================

func (d *driver) emitFiscalDays(ctx context.Context) error {
	days, err := d.view.FiscalDayHistoryBetween(ctx, d.start, d.end)
	if err != nil {
		return err
	}
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].EmissionDate.Before(days[j].EmissionDate)
	})
	for _, day := range days {
		if err := d.ledger.AddDayClose(day.EmissionDate, day.PrinterSerial, day.PrinterID,
			day.CouponStart, day.CouponEnd, day.CRZ, day.CRO,
			day.PeriodTotal, day.Total); err != nil {
			return err
		}
		for _, tax := range day.Taxes {
			if tax.Value.IsZero() {
				continue
			}
			code := tax.Code
			if tax.Kind == domain.TaxISS {
				code = "ISS"
			}
			if err := d.ledger.AddDayTax(day.EmissionDate, day.PrinterSerial,
				code, tax.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

// =============================================================================
// 4. MONTHLY SALES AGGREGATION
// =============================================================================

type productTotals struct {
	quantity decimal.Decimal
	net      decimal.Decimal
}

func (d *driver) emitMonthlySales(ctx context.Context) error {
	sales, err := d.view.SalesBetween(ctx, d.start, d.end)
	if err != nil {
		return err
	}

	totals := make(map[string]*productTotals)
	for _, sale := range sales {
		if !sale.Status.Countable() {
			log.Warnw("view returned a non-countable sale, skipping",
				"status", sale.Status, "date", sale.ConfirmDate)
			continue
		}
		subtotal := decimal.Zero
		for _, item := range sale.Items {
			subtotal = subtotal.Add(item.GrossValue)
		}
		// Spread the sale-level discount across lines.
		factor := decimal.NewFromInt(1)
		if sale.Discount.IsPositive() && subtotal.IsPositive() {
			factor = subtotal.Sub(sale.Discount).Div(subtotal)
		}
		for _, item := range sale.Items {
			t, ok := totals[item.SellableCode]
			if !ok {
				t = &productTotals{}
				totals[item.SellableCode] = t
			}
			t.quantity = t.quantity.Add(item.Quantity)
			t.net = t.net.Add(item.GrossValue.Mul(factor).Round(2))
		}
	}

	codes := make([]string, 0, len(totals))
	for code := range totals {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		master, err := d.view.SellableMaster(ctx, code)
		if err != nil {
			return err
		}
		t := totals[code]
		base := decimal.Zero
		if master.ICMSRate.IsPositive() {
			base = t.net
		}
		if err := d.ledger.AddMonthlyProduct(d.start, code,
			t.quantity, t.net, base, master.ICMSRate); err != nil {
			return err
		}
		d.referenced[code] = true
	}
	return nil
}

// =============================================================================
// 5. INVENTORIES
// =============================================================================

func (d *driver) emitInventories(ctx context.Context) error {
	inventories, err := d.view.InventoriesClosedBetween(ctx, d.start, d.end)
	if err != nil {
		return err
	}
	for _, inv := range inventories {
		for _, item := range inv.Items {
			total := item.TotalCost
			if !item.HasRecordedCost {
				total = item.CurrentCost.Mul(item.Quantity).Round(2)
			}
			if err := d.ledger.AddInventoryLine(inv.CloseDate, item.SellableCode,
				item.Quantity, total, item.Ownership, item.OwnerCGC,
				item.OwnerStateRegistration, inv.State); err != nil {
				return err
			}
			d.referenced[item.SellableCode] = true
		}
	}
	return nil
}

// =============================================================================
// 6. PRODUCT MASTER
// =============================================================================

func (d *driver) emitProductMaster(ctx context.Context) error {
	codes := make([]string, 0, len(d.referenced))
	for code := range d.referenced {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		master, err := d.view.SellableMaster(ctx, code)
		if err != nil {
			return err
		}
		if err := d.ledger.AddProductMaster(d.start, d.end, code,
			master.NCM, master.Description, master.Unit,
			master.IPIRate, master.ICMSRate, master.ICMSReduction,
			master.ICMSBase); err != nil {
			return err
		}
	}
	return nil
}
