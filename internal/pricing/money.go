package pricing

import "github.com/shopspring/decimal"

// DisplayPlaces is the number of decimal places used at the presentation boundary.
// Intermediate values keep full precision.
const DisplayPlaces = 2

var (
	one     = decimal.NewFromInt(1)
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// Round rounds d half away from zero to DisplayPlaces.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(DisplayPlaces)
}

// Format renders d with exactly DisplayPlaces decimals.
func Format(d decimal.Decimal) string {
	return d.StringFixed(DisplayPlaces)
}

// clampNonNegative returns zero and true when d is negative.
func clampNonNegative(d decimal.Decimal) (decimal.Decimal, bool) {
	if d.IsNegative() {
		return decimal.Zero, true
	}
	return d, false
}

func sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
