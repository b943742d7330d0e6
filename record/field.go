/*
field.go - Fixed-width field descriptors and record rendering

PURPOSE:
  The lowest layer of the engine. A Record is a bound set of values for
  an ordered list of field descriptors, and knows how to render itself
  into one fixed-width output line. Everything above this layer deals
  in domain concepts; everything at this layer deals in columns.

CRITICAL INVARIANTS:
  1. Every rendered line is exactly 128 bytes: 2-digit record number,
     124 body characters, CRLF.
  2. Every body byte is printable 7-bit ASCII (0x20..0x7E).
  3. Records are immutable once constructed.

RENDERING RULES:
  Number fields: right-aligned, zero-padded. A value too wide for its
  column is clamped to all nines (the receiving validator tolerates
  this; rejecting would diverge from the legacy behaviour). The clamp
  is logged at warn level.

  Text fields: transliterated to ASCII (see latscii.go), left-aligned,
  space-padded, truncated from the right when too long. Truncation is
  logged at warn level.

  Unset fields render as spaces across the full column width, for both
  kinds.

SEE ALSO:
  - latscii.go: ASCII transliteration table
  - registers.go: Concrete record layouts
  - sintegra/ledger.go: Ordered container enforcing cross-record rules
*/
package record

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/warp/sintegra-engine/logging"
)

var log = logging.GetLogger("record")

// BodyWidth is the content width of every output line, excluding the
// 2-digit record number prefix and the CRLF terminator.
const BodyWidth = 124

// LineWidth is the total byte length of a rendered line.
const LineWidth = 2 + BodyWidth + 2

// =============================================================================
// FIELD DESCRIPTORS
// =============================================================================

// Kind is the semantic type of a field.
type Kind int

const (
	// KindNumber renders right-aligned and zero-padded.
	KindNumber Kind = iota
	// KindText renders transliterated, left-aligned and space-padded.
	KindText
)

// Field describes one column of a record layout.
type Field struct {
	Name  string
	Width int
	Kind  Kind
}

// =============================================================================
// VALUES
// =============================================================================

// Value is a bound field value. The zero Value is "unset" and renders
// as spaces; use Number or Text for bound values.
type Value struct {
	set  bool
	kind Kind
	num  int64
	text string
}

// Number binds an integer value.
func Number(v int64) Value { return Value{set: true, kind: KindNumber, num: v} }

// Text binds a text value.
func Text(s string) Value { return Value{set: true, kind: KindText, text: s} }

// None is an explicitly unset value, rendered as spaces.
func None() Value { return Value{} }

// IsSet reports whether the value is bound.
func (v Value) IsSet() bool { return v.set }

// Int returns the bound integer, or zero when unset or text.
func (v Value) Int() int64 { return v.num }

// Str returns the bound text, or empty when unset or numeric.
func (v Value) Str() string { return v.text }

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrBadFieldType is returned when a bound value does not match its
	// field descriptor's kind.
	ErrBadFieldType = errors.New("value kind does not match field kind")

	// ErrFieldCount is returned when a record is constructed with the
	// wrong number of values. This is always a programming error.
	ErrFieldCount = errors.New("wrong number of values for layout")

	// ErrLayoutTooWide is returned when a layout's total width exceeds
	// the line body width. This is always a programming error.
	ErrLayoutTooWide = errors.New("layout exceeds body width")
)

// BadFieldTypeError names the offending field of an ErrBadFieldType.
type BadFieldTypeError struct {
	RecordNumber int
	FieldName    string
	Want         Kind
}

func (e *BadFieldTypeError) Error() string {
	kind := "number"
	if e.Want == KindText {
		kind = "text"
	}
	return fmt.Sprintf("record %02d: field %q requires a %s value", e.RecordNumber, e.FieldName, kind)
}

func (e *BadFieldTypeError) Unwrap() error { return ErrBadFieldType }

// =============================================================================
// RECORD
// =============================================================================

// Record is an immutable bound record, ready to render.
type Record struct {
	number   int
	layout   []Field
	unique   bool
	requires []int
	values   []Value
}

// New binds values to a layout. It validates arity, per-field kinds
// and the total layout width. Values must be given in layout order.
func New(number int, layout []Field, unique bool, requires []int, values ...Value) (*Record, error) {
	if len(values) != len(layout) {
		return nil, fmt.Errorf("record %02d: %w: got %d, layout has %d",
			number, ErrFieldCount, len(values), len(layout))
	}
	total := 0
	for _, f := range layout {
		total += f.Width
	}
	if total > BodyWidth {
		return nil, fmt.Errorf("record %02d: %w: %d > %d", number, ErrLayoutTooWide, total, BodyWidth)
	}
	for i, v := range values {
		if v.set && v.kind != layout[i].Kind {
			return nil, &BadFieldTypeError{RecordNumber: number, FieldName: layout[i].Name, Want: layout[i].Kind}
		}
	}
	return &Record{
		number:   number,
		layout:   layout,
		unique:   unique,
		requires: requires,
		values:   values,
	}, nil
}

// Number returns the 2-digit record number.
func (r *Record) Number() int { return r.number }

// Unique reports whether the record may appear at most once per file.
func (r *Record) Unique() bool { return r.unique }

// Requires returns the record numbers that must already be present
// before this record may be appended.
func (r *Record) Requires() []int { return r.requires }

// Get returns the bound value of the named field.
func (r *Record) Get(name string) (Value, bool) {
	for i, f := range r.layout {
		if f.Name == name {
			return r.values[i], true
		}
	}
	return Value{}, false
}

// Line renders the record as a complete 128-byte output line.
func (r *Record) Line() []byte {
	var b bytes.Buffer
	b.Grow(LineWidth)
	fmt.Fprintf(&b, "%02d", r.number)
	for i, f := range r.layout {
		b.WriteString(r.renderField(f, r.values[i]))
	}
	for b.Len() < 2+BodyWidth {
		b.WriteByte(' ')
	}
	b.WriteString("\r\n")
	return b.Bytes()
}

func (r *Record) renderField(f Field, v Value) string {
	if !v.set {
		return strings.Repeat(" ", f.Width)
	}
	if f.Kind == KindNumber {
		return r.renderNumber(f, v.num)
	}
	return r.renderText(f, v.text)
}

func (r *Record) renderNumber(f Field, v int64) string {
	max := pow10(f.Width) - 1
	if v > max {
		log.Warnw("numeric field overflow, clamping",
			"record", r.number, "field", f.Name, "width", f.Width, "value", v)
		v = max
	}
	if v < 0 {
		log.Warnw("negative numeric field, clamping to zero",
			"record", r.number, "field", f.Name, "value", v)
		v = 0
	}
	return fmt.Sprintf("%0*d", f.Width, v)
}

func (r *Record) renderText(f Field, v string) string {
	s := Transliterate(v)
	if len(s) > f.Width {
		log.Warnw("text field too long, truncating",
			"record", r.number, "field", f.Name, "width", f.Width, "length", len(s))
		s = s[:f.Width]
	}
	return s + strings.Repeat(" ", f.Width-len(s))
}

// pow10 returns 10^n for the field widths in use (n <= 18).
func pow10(n int) int64 {
	p := int64(1)
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}
