package pricing

// AdjustmentCode identifies a degraded-but-recoverable condition handled during pricing.
type AdjustmentCode string

const (
	AdjustNegativeCostClamped  AdjustmentCode = "negative_cost_clamped"
	AdjustMissingCostDefaulted AdjustmentCode = "missing_cost_defaulted"
	AdjustDirectCostMissing    AdjustmentCode = "direct_cost_missing"
	AdjustUnitPriceClamped     AdjustmentCode = "unit_price_clamped"
	AdjustDiscountClamped      AdjustmentCode = "discount_clamped"
	AdjustFinalPriceClamped    AdjustmentCode = "final_price_clamped"
)

// Adjustment records a correction applied instead of failing the calculation.
type Adjustment struct {
	Code        AdjustmentCode `json:"code"`
	AttributeID int64          `json:"attribute_id,omitempty"`
	Message     string         `json:"message"`
}
