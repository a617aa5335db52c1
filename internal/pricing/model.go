package pricing

import "github.com/shopspring/decimal"

// UnitKind describes how many magnitudes a measurement carries.
type UnitKind string

const (
	UnitLinear UnitKind = "linear"
	UnitVector UnitKind = "vector"
)

// Unit is immutable reference data describing how a quantity is measured.
type Unit struct {
	ID   int64    `json:"id"`
	Name string   `json:"name"`
	Kind UnitKind `json:"kind"`
}

// ThicknessOption fixes the per-square-foot rate used for the base cost of a door.
type ThicknessOption struct {
	ID             int64           `json:"id"`
	DoorTypeID     int64           `json:"door_type_id"`
	ThicknessValue decimal.Decimal `json:"thickness_value"`
	CostPerSqFt    decimal.Decimal `json:"cost_per_sqft"`
}

// CostKind selects the resolver used for an attribute.
type CostKind string

const (
	CostConstant CostKind = "constant"
	CostVariable CostKind = "variable"
	CostDirect   CostKind = "direct"
	CostNested   CostKind = "nested"
)

// AttributeDefinition is a catalog entry describing how one configurable feature is priced.
// Children holds the ordered child attribute ids of a nested attribute.
type AttributeDefinition struct {
	ID                 int64               `json:"id"`
	Name               string              `json:"name"`
	CostKind           CostKind            `json:"cost_kind"`
	FixedCost          decimal.NullDecimal `json:"fixed_cost"`
	CostPerUnit        decimal.NullDecimal `json:"cost_per_unit"`
	UnitID             int64               `json:"unit_id,omitempty"`
	SupportsDoubleSide bool                `json:"supports_double_side"`
	Children           []int64             `json:"children,omitempty"`
}

// AttributeOption is one selectable choice of an attribute. A null Cost or CostPerUnit
// falls back to the attribute's own value.
type AttributeOption struct {
	ID          int64               `json:"id"`
	AttributeID int64               `json:"attribute_id"`
	Name        string              `json:"name"`
	Cost        decimal.NullDecimal `json:"cost"`
	CostPerUnit decimal.NullDecimal `json:"cost_per_unit"`
}

// Measurement is one measured quantity attached to a selection. A zero UnitID means the
// attribute's own unit.
type Measurement struct {
	UnitID int64               `json:"unit_id,omitempty"`
	Value1 decimal.Decimal     `json:"value1"`
	Value2 decimal.NullDecimal `json:"value2"`
}

// AttributeSelection is one user choice on one line item.
type AttributeSelection struct {
	AttributeID      int64               `json:"attribute_id"`
	SelectedOptionID int64               `json:"selected_option_id,omitempty"`
	DoubleSide       bool                `json:"double_side"`
	DirectCost       decimal.NullDecimal `json:"direct_cost"`
	Measurements     []Measurement       `json:"measurements,omitempty"`
	// ChildOptions maps a nested child attribute id to its selected option id.
	ChildOptions map[int64]int64 `json:"child_options,omitempty"`
}

// LineItem is one door on a quotation. Length and breadth are in inches.
type LineItem struct {
	Length            decimal.Decimal      `json:"length"`
	Breadth           decimal.Decimal      `json:"breadth"`
	Quantity          int                  `json:"quantity"`
	ThicknessOptionID int64                `json:"thickness_option_id"`
	DiscountAmount    decimal.Decimal      `json:"discount_amount"`
	TaxPercentage     decimal.Decimal      `json:"tax_percentage"`
	Selections        []AttributeSelection `json:"selections,omitempty"`
}

// Quotation owns its line items.
type Quotation struct {
	Items []LineItem `json:"items"`
}
