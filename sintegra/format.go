/*
format.go - Boundary unit conversions

PURPOSE:
  The record layer deals only in pre-scaled integers; the rest of the
  engine deals in decimals and time.Time. This file is the single place
  where one becomes the other. No float ever crosses this boundary.

SCALING:
  Money       x100   (reais to hundredths)
  Quantities  x1000  (units to thousandths)
  Rates       x100   (18% -> 1800)
  Dates       YYYYMMDD integers; 60R carries MMYYYY of the period start

SEE ALSO:
  - ledger.go: The convenience adders using these conversions
*/
package sintegra

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)
var thousand = decimal.NewFromInt(1000)

// Cents converts a money value to integer hundredths, rounding to the
// nearest cent.
func Cents(d decimal.Decimal) int64 {
	return d.Mul(hundred).Round(0).IntPart()
}

// Thousandths converts a quantity to integer thousandths.
func Thousandths(d decimal.Decimal) int64 {
	return d.Mul(thousand).Round(0).IntPart()
}

// RateHundredths converts a percentage rate to hundredths of a
// percent (18 -> 1800).
func RateHundredths(d decimal.Decimal) int64 {
	return d.Mul(hundred).Round(0).IntPart()
}

// DateInt renders a date as a YYYYMMDD integer.
func DateInt(t time.Time) int64 {
	return int64(t.Year())*10000 + int64(t.Month())*100 + int64(t.Day())
}

// MonthYearInt renders a date as an MMYYYY integer, the form the
// type-60R month column uses.
func MonthYearInt(t time.Time) int64 {
	return int64(t.Month())*10000 + int64(t.Year())
}

// ProductCode left-pads a sellable code with zeros to the 14-character
// product-code column width.
func ProductCode(code string) string {
	if len(code) >= 14 {
		return code
	}
	return strings.Repeat("0", 14-len(code)) + code
}
