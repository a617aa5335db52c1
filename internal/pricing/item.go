package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ItemCostBreakdown is the per-unit price pipeline of one line item and its total.
type ItemCostBreakdown struct {
	BaseCostPerUnit         decimal.Decimal `json:"base_cost_per_unit"`
	AttributeCostPerUnit    decimal.Decimal `json:"attribute_cost_per_unit"`
	UnitPriceBeforeDiscount decimal.Decimal `json:"unit_price_before_discount"`
	DiscountAmount          decimal.Decimal `json:"discount_amount"`
	UnitPriceAfterDiscount  decimal.Decimal `json:"unit_price_after_discount"`
	TaxPercentage           decimal.Decimal `json:"tax_percentage"`
	UnitPriceFinal          decimal.Decimal `json:"unit_price_final"`
	Quantity                int             `json:"quantity"`
	TotalBaseCost           decimal.Decimal `json:"total_base_cost"`
	TotalAttributeCost      decimal.Decimal `json:"total_attribute_cost"`
	TotalDiscount           decimal.Decimal `json:"total_discount"`
	TotalTax                decimal.Decimal `json:"total_tax"`
	TotalItemCost           decimal.Decimal `json:"total_item_cost"`
	Adjustments             []Adjustment    `json:"adjustments,omitempty"`
}

// AggregateItem combines the base cost and attribute totals of one unit, subtracts the flat
// per-unit discount, applies tax, then multiplies by quantity. Each stage is clamped at zero.
func AggregateItem(
	baseCostPerUnit decimal.Decimal,
	attributes []AttributeCostBreakdown,
	discountAmount decimal.Decimal,
	taxPercentage decimal.Decimal,
	quantity int,
) (ItemCostBreakdown, error) {
	if quantity <= 0 {
		return ItemCostBreakdown{}, validationError("quantity must be positive, got %d", quantity)
	}
	if discountAmount.IsNegative() {
		return ItemCostBreakdown{}, validationError("discount must not be negative, got %s", discountAmount)
	}
	if taxPercentage.IsNegative() {
		return ItemCostBreakdown{}, validationError("tax percentage must not be negative, got %s", taxPercentage)
	}

	totals := make([]decimal.Decimal, 0, len(attributes))
	for _, a := range attributes {
		totals = append(totals, a.TotalCost)
	}
	attributeCost := sum(totals)

	out := ItemCostBreakdown{
		BaseCostPerUnit:      baseCostPerUnit,
		AttributeCostPerUnit: attributeCost,
		DiscountAmount:       discountAmount,
		TaxPercentage:        taxPercentage,
		Quantity:             quantity,
	}

	beforeDiscount, corrected := clampNonNegative(baseCostPerUnit.Add(attributeCost))
	if corrected {
		out.Adjustments = append(out.Adjustments, Adjustment{
			Code:    AdjustUnitPriceClamped,
			Message: fmt.Sprintf("unit price %s clamped to 0", baseCostPerUnit.Add(attributeCost)),
		})
	}

	afterDiscount, corrected := clampNonNegative(beforeDiscount.Sub(discountAmount))
	if corrected {
		out.Adjustments = append(out.Adjustments, Adjustment{
			Code:    AdjustDiscountClamped,
			Message: fmt.Sprintf("discount %s exceeds unit price %s, clamped to 0", discountAmount, beforeDiscount),
		})
	}

	final, corrected := clampNonNegative(afterDiscount.Mul(one.Add(taxPercentage.Div(hundred))))
	if corrected {
		out.Adjustments = append(out.Adjustments, Adjustment{
			Code:    AdjustFinalPriceClamped,
			Message: "taxed unit price clamped to 0",
		})
	}

	qty := decimal.NewFromInt(int64(quantity))
	out.UnitPriceBeforeDiscount = beforeDiscount
	out.UnitPriceAfterDiscount = afterDiscount
	out.UnitPriceFinal = final
	out.TotalBaseCost = baseCostPerUnit.Mul(qty)
	out.TotalAttributeCost = attributeCost.Mul(qty)
	out.TotalDiscount = beforeDiscount.Sub(afterDiscount).Mul(qty)
	out.TotalTax = final.Sub(afterDiscount).Mul(qty)
	out.TotalItemCost = final.Mul(qty)
	return out, nil
}
