package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// minorUnitsPerUnit is the number of minor units (cents) in one currency unit
const minorUnitsPerUnit = 100

// ToMinorUnits converts a decimal currency amount (e.g. dollars) to integer
// minor units, truncating toward zero: 19.999 becomes 1999, never 2000.
// All storage and comparison happens in minor units; floats never enter
// balance arithmetic.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	minor := amount.Mul(decimal.NewFromInt(minorUnitsPerUnit)).Truncate(0)
	if !minor.BigInt().IsInt64() {
		return 0, ErrAmountOverflow
	}
	return minor.BigInt().Int64(), nil
}

// FromMinorUnits converts integer minor units back to a decimal currency amount
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(decimal.NewFromInt(minorUnitsPerUnit))
}

// AddChecked adds two minor-unit amounts, failing instead of wrapping around
func AddChecked(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, ErrAmountOverflow
	}
	return a + b, nil
}

// PercentOf returns pct percent of amount in minor units, truncated, with
// overflow checking on the intermediate product.
func PercentOf(amount int64, pct int64) (int64, error) {
	if amount != 0 && pct != 0 {
		if amount > math.MaxInt64/pct {
			return 0, ErrAmountOverflow
		}
	}
	return amount * pct / 100, nil
}
