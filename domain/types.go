/*
Package domain defines the read-only business data the engine consumes.

PURPOSE:
  The ERP owns sales, purchases, inventories and the product catalogue;
  this engine only reads them. The types in this file are the boundary
  aggregates, and view.go defines the accessor interface adapters must
  supply. The engine never writes through this boundary.

KEY CONCEPTS IN THIS FILE (types.go):
  - BranchFacts: header identity of the filing branch
  - ReceivingOrder / OrderItem: received purchase invoices
  - FiscalDaySummary / TaxEntry: fiscal-printer Z-reductions
  - Sale / SaleItem: confirmed or paid sales in the period
  - Inventory / InventoryItem: closed stock counts
  - SellableMaster: product master data

DESIGN PRINCIPLES:
  1. Precision: money and quantities are decimal.Decimal, never float
  2. Read-only: no aggregate carries identity back to the store
  3. Completeness: a View hands the engine everything it needs for one
     reporting period in a handful of range queries

SEE ALSO:
  - view.go: The accessor interface
  - memory.go: In-memory View for tests and demos
  - store/sqlite: SQLite-backed View
*/
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// BRANCH
// =============================================================================

// BranchFacts carries the filing branch identity for the header pair.
type BranchFacts struct {
	CGC               int64  // company taxpayer id, 14 digits
	StateRegistration string // state tax roll id, or "ISENTO"
	Company           string // fancy name
	City              string
	State             string // two-letter code
	Fax               int64

	// Complement (type-11) facts.
	Street       string
	StreetNumber int64
	Complement   string
	District     string
	PostalCode   int64
	Manager      string // responsible person named on the file
	Phone        int64
}

// =============================================================================
// SUPPLIERS AND RECEIVED PURCHASES
// =============================================================================

// Supplier identifies the counterparty of a received purchase order.
// Exactly one of CNPJ (company) or CPF (individual) is expected; zero
// means "not on file".
type Supplier struct {
	Name              string
	CNPJ              int64
	CPF               int64
	StateRegistration string
}

// TaxID returns the supplier's taxpayer identifier, preferring the
// company id. ok is false when neither is on file.
func (s Supplier) TaxID() (id int64, ok bool) {
	if s.CNPJ != 0 {
		return s.CNPJ, true
	}
	if s.CPF != 0 {
		return s.CPF, true
	}
	return 0, false
}

// IsIndividual reports whether the supplier is a natural person.
func (s Supplier) IsIndividual() bool { return s.CNPJ == 0 && s.CPF != 0 }

// OrderItem is one line of a received purchase order.
type OrderItem struct {
	SellableCode string
	ICMSRate     decimal.Decimal // percent, e.g. 18
	Quantity     decimal.Decimal
	GrossValue   decimal.Decimal
}

// ReceivingOrder is a received purchase invoice.
type ReceivingOrder struct {
	Supplier     Supplier
	ReceivalDate time.Time
	State        string
	Model        int64  // fiscal document model code
	Serial       string // document series
	Number       int64
	CFOP         string // dotted form, e.g. "5.949"
	Emitter      string // originator flag
	Situation    string

	GoodsTotal decimal.Decimal
	Freight    decimal.Decimal
	Insurance  decimal.Decimal
	Expense    decimal.Decimal
	Discount   decimal.Decimal

	Items []OrderItem
}

// =============================================================================
// FISCAL DAY HISTORY
// =============================================================================

// TaxKind distinguishes the goods tax from the services tax on a
// fiscal-printer bracket.
type TaxKind string

const (
	TaxICMS TaxKind = "ICMS"
	TaxISS  TaxKind = "ISS"
)

// TaxEntry is one per-bracket total attached to a Z-reduction.
type TaxEntry struct {
	Code  string // bracket code, e.g. "2500"
	Value decimal.Decimal
	Kind  TaxKind
}

// FiscalDaySummary is one fiscal-printer Z-reduction.
type FiscalDaySummary struct {
	EmissionDate  time.Time
	PrinterSerial string // 20 characters
	PrinterID     int64  // 1..999 within the branch
	CouponStart   int64
	CouponEnd     int64
	CRZ           int64
	CRO           int64
	PeriodTotal   decimal.Decimal
	Total         decimal.Decimal
	Taxes         []TaxEntry
}

// =============================================================================
// SALES
// =============================================================================

// SaleStatus is the lifecycle state of a sale. Only confirmed and paid
// sales enter the monthly aggregation.
type SaleStatus string

const (
	SaleConfirmed SaleStatus = "confirmed"
	SalePaid      SaleStatus = "paid"
	SaleCanceled  SaleStatus = "canceled"
	SaleQuoted    SaleStatus = "quoted"
)

// Countable reports whether the sale enters fiscal aggregation.
func (s SaleStatus) Countable() bool { return s == SaleConfirmed || s == SalePaid }

// SaleItem is one product line of a sale.
type SaleItem struct {
	SellableCode string
	Quantity     decimal.Decimal
	GrossValue   decimal.Decimal // line total before the sale discount
}

// Sale is one confirmed or paid sale.
type Sale struct {
	ConfirmDate time.Time
	Status      SaleStatus
	Discount    decimal.Decimal // sale-level, allocated across lines
	Items       []SaleItem
}

// =============================================================================
// INVENTORIES
// =============================================================================

// Stock ownership codes of the type-74 record.
const (
	OwnershipOwn        = 1 // held and owned by the branch
	OwnershipThirdParty = 2 // held by the branch, owned by a third party
	OwnershipElsewhere  = 3 // owned by the branch, held elsewhere
)

// InventoryItem is one counted stock line.
type InventoryItem struct {
	SellableCode string
	Quantity     decimal.Decimal

	// TotalCost is the recorded cost of the counted quantity. When no
	// cost was recorded (HasRecordedCost false) the engine falls back
	// to CurrentCost * Quantity.
	TotalCost       decimal.Decimal
	HasRecordedCost bool
	CurrentCost     decimal.Decimal

	Ownership              int64
	OwnerCGC               int64
	OwnerStateRegistration string
}

// Inventory is one closed stock count.
type Inventory struct {
	CloseDate time.Time
	State     string
	Items     []InventoryItem
}

// =============================================================================
// PRODUCT MASTER
// =============================================================================

// SellableMaster is catalogue master data for one sellable.
type SellableMaster struct {
	Code          string
	NCM           string // 8-digit fiscal classification
	Description   string
	Unit          string // abbreviation, at most 6 characters
	IPIRate       decimal.Decimal
	ICMSRate      decimal.Decimal
	ICMSReduction decimal.Decimal
	ICMSBase      decimal.Decimal
}
