package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a percentage expressed 0-100. It is divided by 100 only at the
// point of use so intermediate ratios never accumulate rounding error.
type Percent struct {
	value decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// NewPercent creates a Percent, rejecting values outside 0-100
func NewPercent(value decimal.Decimal) (Percent, error) {
	if value.IsNegative() || value.GreaterThan(hundred) {
		return Percent{}, fmt.Errorf("percentage must be between 0 and 100, got %s", value)
	}
	return Percent{value: value}, nil
}

// NewPercentFromFloat creates a Percent from a float64 value
func NewPercentFromFloat(value float64) (Percent, error) {
	return NewPercent(decimal.NewFromFloat(value))
}

// MustPercent creates a Percent, panicking on out-of-range values. For
// constants and tests only.
func MustPercent(value float64) Percent {
	p, err := NewPercentFromFloat(value)
	if err != nil {
		panic(err)
	}
	return p
}

// ZeroPercent returns a zero percentage
func ZeroPercent() Percent {
	return Percent{value: decimal.Zero}
}

// Value returns the raw 0-100 value
func (p Percent) Value() decimal.Decimal {
	return p.value
}

// IsZero returns true if the percentage is zero
func (p Percent) IsZero() bool {
	return p.value.IsZero()
}

// Of returns the given share of an amount: amount * p / 100, unrounded
func (p Percent) Of(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(p.value).Div(hundred)
}

// Ratio returns the percentage as a fraction (p / 100), unrounded
func (p Percent) Ratio() decimal.Decimal {
	return p.value.Div(hundred)
}

// String returns the percentage with a trailing percent sign
func (p Percent) String() string {
	return p.value.String() + "%"
}
