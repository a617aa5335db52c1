package pricing

import "github.com/shopspring/decimal"

// SquareInchesPerSquareFoot converts door dimensions in inches to billing square feet.
const SquareInchesPerSquareFoot = 144

var sqInPerSqFt = decimal.NewFromInt(SquareInchesPerSquareFoot)

// BaseCostBreakdown is the area-times-thickness-rate cost of a door before attributes.
type BaseCostBreakdown struct {
	AreaSqFt      decimal.Decimal `json:"area_sqft"`
	RatePerSqFt   decimal.Decimal `json:"rate_per_sqft"`
	CostPerUnit   decimal.Decimal `json:"cost_per_unit"`
	Quantity      int             `json:"quantity"`
	TotalBaseCost decimal.Decimal `json:"total_base_cost"`
}

// BaseCost prices a door of length x breadth inches at ratePerSqFt.
func BaseCost(length, breadth, ratePerSqFt decimal.Decimal, quantity int) (BaseCostBreakdown, error) {
	if quantity <= 0 {
		return BaseCostBreakdown{}, validationError("quantity must be positive, got %d", quantity)
	}
	if length.IsNegative() || breadth.IsNegative() {
		return BaseCostBreakdown{}, validationError("dimensions must not be negative (length=%s, breadth=%s)", length, breadth)
	}
	if ratePerSqFt.IsNegative() {
		return BaseCostBreakdown{}, validationError("thickness rate must not be negative, got %s", ratePerSqFt)
	}

	area := length.Mul(breadth).Div(sqInPerSqFt)
	costPerUnit := area.Mul(ratePerSqFt)

	return BaseCostBreakdown{
		AreaSqFt:      area,
		RatePerSqFt:   ratePerSqFt,
		CostPerUnit:   costPerUnit,
		Quantity:      quantity,
		TotalBaseCost: costPerUnit.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}
