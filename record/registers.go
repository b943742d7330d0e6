/*
registers.go - Concrete Sintegra record layouts

PURPOSE:
  Declares the field layout, uniqueness rule and prerequisites of every
  record type the file format knows, plus one typed constructor per
  type. Callers never build layouts by hand; the constructors are the
  only way a bound Record comes into existence.

LAYOUTS ARE FROZEN:
  Field order, names and widths define the bytes of the output file.
  They match the government-published layout and must never change.

UNITS AT THIS BOUNDARY:
  Everything is already scaled when it reaches a constructor: money in
  hundredths, quantities in thousandths, rates in hundredths of a
  percent, dates as YYYYMMDD integers. The sintegra package owns those
  conversions.

SEE ALSO:
  - field.go: Rendering rules
  - sintegra/ledger.go: Ordering, uniqueness and summary generation
*/
package record

// Record numbers.
const (
	TypeHeader        = 10
	TypeComplement    = 11
	TypePurchaseDoc   = 50
	TypePurchaseLine  = 54
	TypeDaily         = 60 // shared by the M, A and R subtypes
	TypeInventoryLine = 74
	TypeProductMaster = 75
	TypeSummary       = 90
)

// SummaryTotal is the type-90 sub-type of the final totalising row.
const SummaryTotal = 99

// headerRequires is shared by every record that needs the header pair.
var headerRequires = []int{TypeHeader, TypeComplement}

// =============================================================================
// 10 - HEADER
// =============================================================================

var headerLayout = []Field{
	{"cgc", 14, KindNumber},
	{"state_registration", 14, KindText},
	{"company", 35, KindText},
	{"city", 30, KindText},
	{"state", 2, KindText},
	{"fax", 10, KindNumber},
	{"start_date", 8, KindNumber},
	{"end_date", 8, KindNumber},
	{"codes", 3, KindText},
}

// NewHeader builds the type-10 header. codes is the 3-character
// convention identifier ("331" for the layout this engine emits).
func NewHeader(cgc int64, stateRegistration, company, city, state string,
	fax int64, startDate, endDate int64, codes string) (*Record, error) {
	return New(TypeHeader, headerLayout, true, nil,
		Number(cgc),
		Text(stateRegistration),
		Text(company),
		Text(city),
		Text(state),
		Number(fax),
		Number(startDate),
		Number(endDate),
		Text(codes),
	)
}

// =============================================================================
// 11 - COMPLEMENT HEADER
// =============================================================================

var complementLayout = []Field{
	{"place", 34, KindText},
	{"number", 5, KindNumber},
	{"complement", 22, KindText},
	{"district", 15, KindText},
	{"postal_code", 8, KindNumber},
	{"name", 28, KindText},
	{"phone", 12, KindNumber},
}

// NewComplement builds the type-11 address/contact complement.
func NewComplement(place string, number int64, complement, district string,
	postalCode int64, name string, phone int64) (*Record, error) {
	return New(TypeComplement, complementLayout, true, []int{TypeHeader},
		Text(place),
		Number(number),
		Text(complement),
		Text(district),
		Number(postalCode),
		Text(name),
		Number(phone),
	)
}

// =============================================================================
// 50 - PURCHASE DOCUMENT (one per received invoice, per ICMS bracket)
// =============================================================================

var purchaseDocLayout = []Field{
	{"cgc", 14, KindNumber},
	{"state_registration", 14, KindText},
	{"date", 8, KindNumber},
	{"state", 2, KindText},
	{"model", 2, KindNumber},
	{"serial", 3, KindText},
	{"number", 6, KindNumber},
	{"cfop", 4, KindNumber},
	{"emitter", 1, KindText},
	{"total", 13, KindNumber},
	{"icms_base", 13, KindNumber},
	{"icms_value", 13, KindNumber},
	{"exempt", 13, KindNumber},
	{"other", 13, KindNumber},
	{"rate", 4, KindNumber},
	{"situation", 1, KindText},
}

// NewPurchaseDoc builds one type-50 row.
func NewPurchaseDoc(cgc int64, stateRegistration string, date int64, state string,
	model int64, serial string, number, cfop int64, emitter string,
	total, icmsBase, icmsValue, exempt, other, rate int64, situation string) (*Record, error) {
	return New(TypePurchaseDoc, purchaseDocLayout, false, headerRequires,
		Number(cgc),
		Text(stateRegistration),
		Number(date),
		Text(state),
		Number(model),
		Text(serial),
		Number(number),
		Number(cfop),
		Text(emitter),
		Number(total),
		Number(icmsBase),
		Number(icmsValue),
		Number(exempt),
		Number(other),
		Number(rate),
		Text(situation),
	)
}

// =============================================================================
// 54 - PURCHASE LINE (one per invoice line, plus freight/insurance/expense)
// =============================================================================

var purchaseLineLayout = []Field{
	{"cgc", 14, KindNumber},
	{"model", 2, KindNumber},
	{"serial", 3, KindText},
	{"number", 6, KindNumber},
	{"cfop", 4, KindNumber},
	{"cst", 3, KindText},
	{"item_number", 3, KindNumber},
	{"product_code", 14, KindText},
	{"quantity", 11, KindNumber},
	{"gross_value", 12, KindNumber},
	{"discount", 12, KindNumber},
	{"icms_base", 12, KindNumber},
	{"icms_subst_base", 12, KindNumber},
	{"ipi", 12, KindNumber},
	{"icms_rate", 4, KindNumber},
}

// NewPurchaseLine builds one type-54 row. cst, productCode and
// quantity take Value so the freight/insurance/expense special rows
// can blank them (None) while regular lines bind them.
func NewPurchaseLine(cgc, model int64, serial string, number, cfop int64,
	cst Value, itemNumber int64, productCode, quantity Value,
	grossValue, discount, icmsBase, icmsSubstBase, ipi, icmsRate int64) (*Record, error) {
	return New(TypePurchaseLine, purchaseLineLayout, false, headerRequires,
		Number(cgc),
		Number(model),
		Text(serial),
		Number(number),
		Number(cfop),
		cst,
		Number(itemNumber),
		productCode,
		quantity,
		Number(grossValue),
		Number(discount),
		Number(icmsBase),
		Number(icmsSubstBase),
		Number(ipi),
		Number(icmsRate),
	)
}

// =============================================================================
// 60M - DAY CLOSE (one per fiscal-printer Z-reduction)
// =============================================================================

var dayCloseLayout = []Field{
	{"subtype", 1, KindText},
	{"date", 8, KindNumber},
	{"printer_serial", 20, KindText},
	{"printer_id", 3, KindNumber},
	{"model", 2, KindText},
	{"start_coupon", 6, KindNumber},
	{"end_coupon", 6, KindNumber},
	{"crz", 6, KindNumber},
	{"cro", 3, KindNumber},
	{"period_total", 16, KindNumber},
	{"total", 16, KindNumber},
}

// NewDayClose builds one type-60 master (subtype M) row.
func NewDayClose(date int64, printerSerial string, printerID int64, model string,
	startCoupon, endCoupon, crz, cro, periodTotal, total int64) (*Record, error) {
	return New(TypeDaily, dayCloseLayout, false, headerRequires,
		Text("M"),
		Number(date),
		Text(printerSerial),
		Number(printerID),
		Text(model),
		Number(startCoupon),
		Number(endCoupon),
		Number(crz),
		Number(cro),
		Number(periodTotal),
		Number(total),
	)
}

// =============================================================================
// 60A - DAY TAX (one per tax bracket per Z-reduction)
// =============================================================================

var dayTaxLayout = []Field{
	{"subtype", 1, KindText},
	{"date", 8, KindNumber},
	{"printer_serial", 20, KindText},
	{"tax", 4, KindText},
	{"value", 12, KindNumber},
}

// NewDayTax builds one type-60 analytic (subtype A) row. tax is the
// bracket code, or the literal "ISS" for service tax.
func NewDayTax(date int64, printerSerial, tax string, value int64) (*Record, error) {
	return New(TypeDaily, dayTaxLayout, false, headerRequires,
		Text("A"),
		Number(date),
		Text(printerSerial),
		Text(tax),
		Number(value),
	)
}

// =============================================================================
// 60R - MONTHLY PRODUCT (aggregated per-product sales)
// =============================================================================

var monthlyProductLayout = []Field{
	{"subtype", 1, KindText},
	{"month_year", 6, KindNumber},
	{"product_code", 14, KindText},
	{"quantity", 13, KindNumber},
	{"total", 16, KindNumber},
	{"icms_base", 16, KindNumber},
	{"icms_rate", 4, KindNumber},
}

// NewMonthlyProduct builds one type-60 summarised (subtype R) row.
// monthYear is MMYYYY of the period start.
func NewMonthlyProduct(monthYear int64, productCode string,
	quantity, total, icmsBase, icmsRate int64) (*Record, error) {
	return New(TypeDaily, monthlyProductLayout, false, headerRequires,
		Text("R"),
		Number(monthYear),
		Text(productCode),
		Number(quantity),
		Number(total),
		Number(icmsBase),
		Number(icmsRate),
	)
}

// =============================================================================
// 74 - INVENTORY LINE
// =============================================================================

var inventoryLineLayout = []Field{
	{"date", 8, KindNumber},
	{"product_code", 14, KindText},
	{"quantity", 13, KindNumber},
	{"total", 13, KindNumber},
	{"ownership", 1, KindNumber},
	{"owner_cgc", 14, KindNumber},
	{"owner_state_registration", 14, KindText},
	{"state", 2, KindText},
}

// NewInventoryLine builds one type-74 row. ownerStateRegistration
// takes Value because own-stock rows blank it entirely.
func NewInventoryLine(date int64, productCode string, quantity, total, ownership,
	ownerCGC int64, ownerStateRegistration Value, state string) (*Record, error) {
	return New(TypeInventoryLine, inventoryLineLayout, false, headerRequires,
		Number(date),
		Text(productCode),
		Number(quantity),
		Number(total),
		Number(ownership),
		Number(ownerCGC),
		ownerStateRegistration,
		Text(state),
	)
}

// =============================================================================
// 75 - PRODUCT MASTER
// =============================================================================

var productMasterLayout = []Field{
	{"start_date", 8, KindNumber},
	{"end_date", 8, KindNumber},
	{"product_code", 14, KindText},
	{"ncm", 8, KindText},
	{"description", 53, KindText},
	{"unit", 6, KindText},
	{"ipi_rate", 5, KindNumber},
	{"icms_rate", 4, KindNumber},
	{"icms_reduction", 5, KindNumber},
	{"icms_base", 13, KindNumber},
}

// NewProductMaster builds one type-75 row.
func NewProductMaster(startDate, endDate int64, productCode, ncm, description, unit string,
	ipiRate, icmsRate, icmsReduction, icmsBase int64) (*Record, error) {
	return New(TypeProductMaster, productMasterLayout, false, headerRequires,
		Number(startDate),
		Number(endDate),
		Text(productCode),
		Text(ncm),
		Text(description),
		Text(unit),
		Number(ipiRate),
		Number(icmsRate),
		Number(icmsReduction),
		Number(icmsBase),
	)
}

// =============================================================================
// 90 - SUMMARY
// =============================================================================

var summaryLayout = []Field{
	{"cgc", 14, KindNumber},
	{"state_registration", 14, KindText},
	{"type", 2, KindNumber},
	{"registers", 8, KindNumber},
	{"number", 1, KindNumber},
}

// NewSummary builds one type-90 row. summarised is the record number
// being counted, or SummaryTotal for the final totaliser. number is
// the count of type-90 rows in the file.
func NewSummary(cgc int64, stateRegistration string,
	summarised, registers, number int64) (*Record, error) {
	return New(TypeSummary, summaryLayout, false, headerRequires,
		Number(cgc),
		Text(stateRegistration),
		Number(summarised),
		Number(registers),
		Number(number),
	)
}
