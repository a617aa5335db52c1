package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/Simplici0/doorquote/internal/errors"
)

// threeLevelCatalog builds A(10, B(20, C(30))).
func threeLevelCatalog(t *testing.T) *MemoryCatalog {
	t.Helper()
	return newTestCatalog(t, []AttributeDefinition{
		{ID: 1, Name: "A", CostKind: CostNested, Children: []int64{11, 2}},
		{ID: 11, Name: "A fixed", CostKind: CostConstant, FixedCost: nullDec(t, "10")},
		{ID: 2, Name: "B", CostKind: CostNested, Children: []int64{21, 3}},
		{ID: 21, Name: "B fixed", CostKind: CostConstant, FixedCost: nullDec(t, "20")},
		{ID: 3, Name: "C", CostKind: CostNested, Children: []int64{31}},
		{ID: 31, Name: "C fixed", CostKind: CostConstant, FixedCost: nullDec(t, "30")},
	}, nil)
}

func TestExpandNested_MultiplierAppliesOnceAtRoot(t *testing.T) {
	calc := NewCalculator(threeLevelCatalog(t))

	got, err := calc.ExpandNested(1, decimal.NewFromInt(2), nil)
	if err != nil {
		t.Fatalf("ExpandNested: %v", err)
	}

	decimalEqual(t, "unscaledTotal", got.UnscaledTotal, "60")
	decimalEqual(t, "totalCost", got.TotalCost, "120")

	b := got.Children[1].Nested
	if b == nil || b.Name != "B" {
		t.Fatalf("expected B sub-breakdown, got %+v", got.Children[1])
	}
	decimalEqual(t, "B multiplier", b.Multiplier, "1")
	decimalEqual(t, "B totalCost", b.TotalCost, "50")
}

func TestExpandNested_ChildrenInDeclarationOrder(t *testing.T) {
	calc := NewCalculator(threeLevelCatalog(t))

	got, err := calc.ExpandNested(1, decimal.NewFromInt(1), nil)
	if err != nil {
		t.Fatalf("ExpandNested: %v", err)
	}
	if len(got.Children) != 2 || got.Children[0].Name != "A fixed" || got.Children[1].Name != "B" {
		t.Fatalf("unexpected children order: %+v", got.Children)
	}
}

func TestExpandNested_ChildOptionsAreGlobalAcrossLevels(t *testing.T) {
	catalog := newTestCatalog(t, []AttributeDefinition{
		{ID: 1, Name: "Hardware Kit", CostKind: CostNested, Children: []int64{2, 3}},
		{ID: 2, Name: "Handle", CostKind: CostConstant, FixedCost: nullDec(t, "15")},
		{ID: 3, Name: "Lock Set", CostKind: CostNested, Children: []int64{4, 5}},
		{ID: 4, Name: "Cylinder", CostKind: CostConstant, FixedCost: nullDec(t, "40")},
		{ID: 5, Name: "Weatherstrip", CostKind: CostVariable, CostPerUnit: nullDec(t, "1.5"), UnitID: unitLinFt},
	}, []AttributeOption{
		{ID: 20, AttributeID: 2, Name: "Brass", Cost: nullDec(t, "25")},
		{ID: 40, AttributeID: 4, Name: "High Security", Cost: nullDec(t, "90")},
		{ID: 50, AttributeID: 5, Name: "Silicone", CostPerUnit: nullDec(t, "2.5")},
	})
	calc := NewCalculator(catalog)

	got, err := calc.ExpandNested(1, decimal.NewFromInt(4), map[int64]int64{2: 20, 4: 40, 5: 50})
	if err != nil {
		t.Fatalf("ExpandNested: %v", err)
	}

	// (25 + (90 + 2.5)) * 4
	decimalEqual(t, "unscaledTotal", got.UnscaledTotal, "117.5")
	decimalEqual(t, "totalCost", got.TotalCost, "470")
	if got.Children[0].OptionID != 20 || got.Children[0].Source != SourceOption {
		t.Fatalf("expected handle option applied, got %+v", got.Children[0])
	}
}

func TestExpandNested_CycleHitsDepthGuard(t *testing.T) {
	catalog := newTestCatalog(t, []AttributeDefinition{
		{ID: 1, Name: "Loop A", CostKind: CostNested, Children: []int64{2}},
		{ID: 2, Name: "Loop B", CostKind: CostNested, Children: []int64{1}},
	}, nil)
	calc := NewCalculator(catalog, WithMaxDepth(5))

	_, err := calc.ExpandNested(1, decimal.NewFromInt(1), nil)
	requireCode(t, err, pkgerrors.CodeConfiguration)
	if depth := pkgerrors.As(err).Details()["depth"]; depth != 6 {
		t.Fatalf("depth detail=%v, want 6", depth)
	}
}

func TestExpandNested_DepthWithinGuardSucceeds(t *testing.T) {
	calc := NewCalculator(threeLevelCatalog(t), WithMaxDepth(3))
	if _, err := calc.ExpandNested(1, decimal.NewFromInt(1), nil); err != nil {
		t.Fatalf("three levels with max depth 3 should succeed: %v", err)
	}

	tight := NewCalculator(threeLevelCatalog(t), WithMaxDepth(2))
	_, err := tight.ExpandNested(1, decimal.NewFromInt(1), nil)
	requireCode(t, err, pkgerrors.CodeConfiguration)
}

func TestExpandNested_UnknownChildIsConfigurationError(t *testing.T) {
	calc := NewCalculator(newTestCatalog(t, []AttributeDefinition{
		{ID: 1, Name: "Kit", CostKind: CostNested, Children: []int64{404}},
	}, nil))

	_, err := calc.ExpandNested(1, decimal.NewFromInt(1), nil)
	requireCode(t, err, pkgerrors.CodeConfiguration)
}

func TestExpandNested_ChildOptionFromOtherAttributeIsValidationError(t *testing.T) {
	calc := NewCalculator(newTestCatalog(t, []AttributeDefinition{
		{ID: 1, Name: "Kit", CostKind: CostNested, Children: []int64{2}},
		{ID: 2, Name: "Handle", CostKind: CostConstant, FixedCost: nullDec(t, "15")},
		{ID: 3, Name: "Hinge", CostKind: CostConstant, FixedCost: nullDec(t, "5")},
	}, []AttributeOption{
		{ID: 30, AttributeID: 3, Name: "Steel", Cost: nullDec(t, "6")},
	}))

	_, err := calc.ExpandNested(1, decimal.NewFromInt(1), map[int64]int64{2: 30})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestExpandNested_RejectsNonNestedAttribute(t *testing.T) {
	calc := NewCalculator(threeLevelCatalog(t))

	_, err := calc.ExpandNested(11, decimal.NewFromInt(1), nil)
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestAttributeCost_NestedScalesByMeasuredQuantity(t *testing.T) {
	catalog := newTestCatalog(t, []AttributeDefinition{
		{ID: 1, Name: "Frame Kit", CostKind: CostNested, UnitID: unitLinFt, SupportsDoubleSide: true, Children: []int64{2, 3}},
		{ID: 2, Name: "Moulding", CostKind: CostVariable, CostPerUnit: nullDec(t, "3"), UnitID: unitLinFt},
		{ID: 3, Name: "Fixings", CostKind: CostConstant, FixedCost: nullDec(t, "1")},
	}, nil)
	calc := NewCalculator(catalog)
	def, _ := catalog.Attribute(1)

	withMeasure, err := calc.AttributeCost(def, nil, []Measurement{{Value1: dec(t, "6")}, {Value1: dec(t, "4")}}, false, decimal.NullDecimal{}, nil)
	if err != nil {
		t.Fatalf("AttributeCost: %v", err)
	}
	decimalEqual(t, "measured totalCost", withMeasure.TotalCost, "40")

	noMeasure, err := calc.AttributeCost(def, nil, nil, true, decimal.NullDecimal{}, nil)
	if err != nil {
		t.Fatalf("AttributeCost: %v", err)
	}
	decimalEqual(t, "default multiplier doubled", noMeasure.TotalCost, "8")
	decimalEqual(t, "nested multiplier", noMeasure.Nested.Multiplier, "1")
}
