package pricing

import (
	"fmt"
	"math"
)

// Money keeps amounts in integer minor units (kopecks) to avoid floating point drift.
type Money int64

// FromUnits converts whole currency units.
func FromUnits(units int64) Money {
	return Money(units * 100)
}

// FromFloat converts a decimal amount, rounding half away from zero to the minor unit.
func FromFloat(amount float64) Money {
	return Money(math.Round(amount * 100))
}

// Float returns the amount in major units.
func (m Money) Float() float64 {
	return float64(m) / 100
}

// Multiply multiplies the amount by the provided factor.
func (m Money) Multiply(times int64) Money {
	return m * Money(times)
}

// Percent returns pct percent of m, rounded to the minor unit.
func (m Money) Percent(pct float64) Money {
	return Money(math.Round(float64(m) * pct / 100))
}

// String formats the amount as "1234.50".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
