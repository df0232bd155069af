// Package money provides an immutable currency amount for display and
// serialization boundaries. The arbitrage engine itself computes in float64;
// Amount exists so reporters and the gateway format stakes and profits
// consistently instead of sprinkling fmt verbs around.
package money

import (
	"github.com/shopspring/decimal"
)

// Symbol is the display symbol for the single currency this system deals in.
const Symbol = "€"

// Amount is an immutable Value Object representing a currency amount.
type Amount struct {
	dec decimal.Decimal
}

// FromFloat creates an Amount from a float64 currency value.
func FromFloat(v float64) Amount {
	return Amount{dec: decimal.NewFromFloat(v)}
}

// FromInt creates an Amount from whole currency units.
func FromInt(v int64) Amount {
	return Amount{dec: decimal.NewFromInt(v)}
}

// Zero is the zero Amount.
func Zero() Amount {
	return Amount{dec: decimal.Zero}
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{dec: a.dec.Add(b.dec)}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{dec: a.dec.Sub(b.dec)}
}

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool {
	return a.dec.IsZero()
}

// IsPositive reports whether the amount is greater than zero.
func (a Amount) IsPositive() bool {
	return a.dec.IsPositive()
}

// Float64 returns the amount as a float64. Boundary function - use for
// interop, not arithmetic.
func (a Amount) Float64() float64 {
	f, _ := a.dec.Float64()
	return f
}

// Decimal returns the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal {
	return a.dec
}

// String formats the amount with two decimal places and the currency symbol,
// e.g. "€1000.00".
func (a Amount) String() string {
	return Symbol + a.dec.StringFixed(2)
}

// Whole formats the amount with no decimal places, e.g. "€476" - the form
// used for bet instructions, where stakes are whole units.
func (a Amount) Whole() string {
	return Symbol + a.dec.Round(0).StringFixed(0)
}
