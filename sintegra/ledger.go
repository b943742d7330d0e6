/*
ledger.go - Append-only ordered record buffer

PURPOSE:
  The Ledger is the single container a Sintegra file is assembled in.
  Records go in through Add (or the convenience adders below), the
  closing summaries are generated by Close, and the finished file
  comes out through Write or Bytes.

CRITICAL INVARIANTS:
  1. APPEND-ONLY: Records are never removed or reordered.
  2. PREREQUISITES: A record only enters after every record type it
     requires is already present. This forces the header pair (10, 11)
     to open every file.
  3. UNIQUENESS: Unique record types appear at most once.
  4. SINGLE-USE: After Close, no further Add. Close twice fails.
  5. NO PARTIAL OUTPUT: Write refuses an unclosed ledger.

CLOSING:
  Close tallies records per record number and appends one type-90
  summary per distinct number in ascending order, then a final type-90
  totaliser (sub-type 99) whose count is the full file size including
  the totaliser itself. The branch's cgc and state registration are
  cached when the header is appended and stamped on every summary.

CONCURRENCY:
  A Ledger is single-use and confined to one goroutine. Two goroutines
  may each own their own Ledger.

SEE ALSO:
  - record/registers.go: The primitives appended here
  - generator/generator.go: Walks the domain and drives these adders
*/
package sintegra

import (
	"bytes"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/sintegra-engine/record"
)

// conventionCodes identifies the layout convention in the type-10
// header: version 3, nature 3, purpose 1.
const conventionCodes = "331"

// Ledger is an ordered, append-only buffer of Sintegra records.
type Ledger struct {
	records []*record.Record
	counts  map[int]int
	closed  bool

	// Cached from the header record for the closing summaries.
	cgc               int64
	stateRegistration string
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{counts: make(map[int]int)}
}

// =============================================================================
// CORE OPERATIONS
// =============================================================================

// Add appends a record after enforcing the ledger invariants.
func (l *Ledger) Add(r *record.Record) error {
	if l.closed {
		return ErrLedgerClosed
	}
	if r.Unique() && l.counts[r.Number()] > 0 {
		return &DuplicateUniqueRecordError{Number: r.Number()}
	}
	for _, req := range r.Requires() {
		if l.counts[req] == 0 {
			return &MissingPrerequisiteError{Number: r.Number(), Missing: req}
		}
	}
	l.records = append(l.records, r)
	l.counts[r.Number()]++

	if r.Number() == record.TypeHeader {
		if v, ok := r.Get("cgc"); ok {
			l.cgc = v.Int()
		}
		if v, ok := r.Get("state_registration"); ok {
			l.stateRegistration = v.Str()
		}
	}
	return nil
}

// Close generates the closing type-90 summaries. After Close the
// ledger accepts no further records.
func (l *Ledger) Close() error {
	if l.closed {
		return ErrAlreadyClosed
	}

	numbers := make([]int, 0, len(l.counts))
	for n := range l.counts {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	// One type-90 per summarised number, plus the totaliser.
	summaryRows := int64(len(numbers) + 1)

	for _, n := range numbers {
		r, err := record.NewSummary(l.cgc, l.stateRegistration,
			int64(n), int64(l.counts[n]), summaryRows)
		if err != nil {
			return err
		}
		if err := l.Add(r); err != nil {
			return err
		}
	}

	// The totaliser counts every record in the file, itself included.
	total := int64(len(l.records)) + 1
	r, err := record.NewSummary(l.cgc, l.stateRegistration,
		record.SummaryTotal, total, summaryRows)
	if err != nil {
		return err
	}
	if err := l.Add(r); err != nil {
		return err
	}

	l.closed = true
	return nil
}

// Write streams every record in order to w. The ledger must have been
// closed first; partial output is never produced.
func (l *Ledger) Write(w io.Writer) error {
	if !l.closed {
		return ErrNotClosed
	}
	for _, r := range l.records {
		if _, err := w.Write(r.Line()); err != nil {
			return err
		}
	}
	return nil
}

// Bytes returns the complete file contents.
func (l *Ledger) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(l.records) * record.LineWidth)
	if err := l.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Records returns the appended records in order. Read-only.
func (l *Ledger) Records() []*record.Record {
	out := make([]*record.Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of appended records.
func (l *Ledger) Len() int { return len(l.records) }

// =============================================================================
// CONVENIENCE ADDERS - domain events in, primitives out
// =============================================================================

// AddHeader appends the type-10 header.
func (l *Ledger) AddHeader(cgc int64, stateRegistration, company, city, state string,
	fax int64, start, end time.Time) error {
	r, err := record.NewHeader(cgc, stateRegistration, company, city, state,
		fax, DateInt(start), DateInt(end), conventionCodes)
	if err != nil {
		return err
	}
	return l.Add(r)
}

// AddComplement appends the type-11 address/contact complement.
func (l *Ledger) AddComplement(place string, number int64, complement, district string,
	postalCode int64, name string, phone int64) error {
	r, err := record.NewComplement(place, number, complement, district,
		postalCode, name, phone)
	if err != nil {
		return err
	}
	return l.Add(r)
}

// AddPurchaseDoc appends one type-50 purchase-document row.
func (l *Ledger) AddPurchaseDoc(cgc int64, stateRegistration string, date time.Time,
	state string, model int64, serial string, number, cfop int64, emitter string,
	total, icmsBase, icmsValue, exempt, other, rate decimal.Decimal, situation string) error {
	r, err := record.NewPurchaseDoc(cgc, stateRegistration, DateInt(date), state,
		model, serial, number, cfop, emitter,
		Cents(total), Cents(icmsBase), Cents(icmsValue), Cents(exempt), Cents(other),
		RateHundredths(rate), situation)
	if err != nil {
		return err
	}
	return l.Add(r)
}

// AddPurchaseLine appends one type-54 row for an invoice line item.
func (l *Ledger) AddPurchaseLine(cgc, model int64, serial string, number, cfop int64,
	itemNumber int64, productCode string,
	quantity, grossValue, discount, icmsBase, icmsSubstBase, ipi, icmsRate decimal.Decimal) error {
	r, err := record.NewPurchaseLine(cgc, model, serial, number, cfop,
		record.None(), // cst is not tracked on purchases
		itemNumber,
		record.Text(ProductCode(productCode)),
		record.Number(Thousandths(quantity)),
		Cents(grossValue), Cents(discount), Cents(icmsBase), Cents(icmsSubstBase),
		Cents(ipi), RateHundredths(icmsRate))
	if err != nil {
		return err
	}
	return l.Add(r)
}

// Special type-54 item numbers for order-level charges.
const (
	ItemFreight   = 991
	ItemInsurance = 992
	ItemExpense   = 999
)

// AddPurchaseCharge appends a special type-54 row carrying an
// order-level charge (freight, insurance or expense). The cst,
// product-code and quantity columns are blanked.
func (l *Ledger) AddPurchaseCharge(cgc, model int64, serial string, number, cfop int64,
	itemNumber int64, value decimal.Decimal) error {
	r, err := record.NewPurchaseLine(cgc, model, serial, number, cfop,
		record.None(), itemNumber, record.None(), record.None(),
		Cents(value), 0, 0, 0, 0, 0)
	if err != nil {
		return err
	}
	return l.Add(r)
}

// AddDayClose appends one type-60M fiscal-printer Z-reduction row.
func (l *Ledger) AddDayClose(date time.Time, printerSerial string, printerID int64,
	startCoupon, endCoupon, crz, cro int64, periodTotal, total decimal.Decimal) error {
	r, err := record.NewDayClose(DateInt(date), printerSerial, printerID, "2D",
		startCoupon, endCoupon, crz, cro, Cents(periodTotal), Cents(total))
	if err != nil {
		return err
	}
	return l.Add(r)
}

// AddDayTax appends one type-60A per-bracket row for a Z-reduction.
func (l *Ledger) AddDayTax(date time.Time, printerSerial, tax string, value decimal.Decimal) error {
	r, err := record.NewDayTax(DateInt(date), printerSerial, tax, Cents(value))
	if err != nil {
		return err
	}
	return l.Add(r)
}

// AddMonthlyProduct appends one type-60R aggregated-sales row for the
// month of periodStart.
func (l *Ledger) AddMonthlyProduct(periodStart time.Time, productCode string,
	quantity, total, icmsBase, icmsRate decimal.Decimal) error {
	r, err := record.NewMonthlyProduct(MonthYearInt(periodStart), ProductCode(productCode),
		Thousandths(quantity), Cents(total), Cents(icmsBase), RateHundredths(icmsRate))
	if err != nil {
		return err
	}
	return l.Add(r)
}

// OwnershipOwn marks inventory held and owned by the filing branch.
// Own stock blanks the owner identification columns.
const OwnershipOwn = 1

// AddInventoryLine appends one type-74 row. For ownership 1 the owner
// cgc renders as 14 zeros and the owner state registration as spaces,
// regardless of the supplied values.
func (l *Ledger) AddInventoryLine(date time.Time, productCode string,
	quantity, total decimal.Decimal, ownership, ownerCGC int64,
	ownerStateRegistration, state string) error {
	ownerReg := record.Text(ownerStateRegistration)
	if ownership == OwnershipOwn {
		ownerCGC = 0
		ownerReg = record.None()
	}
	r, err := record.NewInventoryLine(DateInt(date), ProductCode(productCode),
		Thousandths(quantity), Cents(total), ownership, ownerCGC, ownerReg, state)
	if err != nil {
		return err
	}
	return l.Add(r)
}

// AddProductMaster appends one type-75 row.
func (l *Ledger) AddProductMaster(start, end time.Time, productCode, ncm, description, unit string,
	ipiRate, icmsRate, icmsReduction, icmsBase decimal.Decimal) error {
	r, err := record.NewProductMaster(DateInt(start), DateInt(end),
		ProductCode(productCode), ncm, description, unit,
		RateHundredths(ipiRate), RateHundredths(icmsRate),
		RateHundredths(icmsReduction), Cents(icmsBase))
	if err != nil {
		return err
	}
	return l.Add(r)
}
