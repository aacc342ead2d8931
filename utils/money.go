package utils

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Round2 rounds x to 2 decimal places (half away from zero).
func Round2(x decimal.Decimal) decimal.Decimal {
	return x.Round(2)
}

// Percent returns part/whole*100, or zero when whole is not positive.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// Sum adds up a list of amounts.
func Sum(xs ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, x := range xs {
		total = total.Add(x)
	}
	return total
}
