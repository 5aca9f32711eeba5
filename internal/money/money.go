package money

import (
	"github.com/shopspring/decimal"
)

// Round2 rounds an amount to 2 decimal places (half up). All persisted money
// values go through this so that totals computed in different orders agree.
func Round2(amount float64) float64 {
	v, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return v
}

// ApplyPercent returns value adjusted by pct percent, rounded to 2 decimals.
// pct may be negative (discount).
func ApplyPercent(value, pct float64) float64 {
	d := decimal.NewFromFloat(value)
	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(pct).Div(decimal.NewFromInt(100)))
	v, _ := d.Mul(factor).Round(2).Float64()
	return v
}

// ApplyFixed returns value plus a fixed delta, floored at 0 so a negative delta
// can never drive a price below zero. Rounded to 2 decimals.
func ApplyFixed(value, delta float64) float64 {
	d := decimal.NewFromFloat(value).Add(decimal.NewFromFloat(delta))
	if d.IsNegative() {
		return 0
	}
	v, _ := d.Round(2).Float64()
	return v
}

// SplitEven divides total into n parts rounded to 2 decimals, with the last
// part absorbing the rounding residual so the parts sum to total exactly.
func SplitEven(total float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	t := decimal.NewFromFloat(total).Round(2)
	per := t.Div(decimal.NewFromInt(int64(n))).Round(2)

	parts := make([]float64, n)
	acc := decimal.Zero
	for i := 0; i < n-1; i++ {
		parts[i], _ = per.Float64()
		acc = acc.Add(per)
	}
	last, _ := t.Sub(acc).Float64()
	parts[n-1] = last
	return parts
}
