package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/Simplici0/doorquote/internal/errors"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func nullDec(t *testing.T, s string) decimal.NullDecimal {
	t.Helper()
	return decimal.NewNullDecimal(dec(t, s))
}

func decimalEqual(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	w, err := decimal.NewFromString(want)
	if err != nil {
		t.Fatalf("parse want %q: %v", want, err)
	}
	if !got.Equal(w) {
		t.Fatalf("%s = %s, want %s", name, got, want)
	}
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != code {
		t.Fatalf("expected %s error, got %v", code, err)
	}
}

func hasAdjustment(adjustments []Adjustment, code AdjustmentCode) bool {
	for _, a := range adjustments {
		if a.Code == code {
			return true
		}
	}
	return false
}

const (
	unitSqFt   int64 = 1
	unitLinFt  int64 = 2
	thickness1 int64 = 1
)

func newTestCatalog(t *testing.T, attrs []AttributeDefinition, opts []AttributeOption) *MemoryCatalog {
	t.Helper()
	c, err := NewMemoryCatalog(Snapshot{
		Units: []Unit{
			{ID: unitSqFt, Name: "Square Foot", Kind: UnitVector},
			{ID: unitLinFt, Name: "Linear Foot", Kind: UnitLinear},
		},
		ThicknessOptions: []ThicknessOption{
			{ID: thickness1, DoorTypeID: 1, ThicknessValue: decimal.NewFromInt(35), CostPerSqFt: decimal.NewFromInt(10)},
		},
		Attributes: attrs,
		Options:    opts,
	})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return c
}

func TestBaseCost_OneSquareFoot(t *testing.T) {
	got, err := BaseCost(dec(t, "12"), dec(t, "12"), dec(t, "10"), 1)
	if err != nil {
		t.Fatalf("BaseCost: %v", err)
	}

	decimalEqual(t, "area", got.AreaSqFt, "1")
	decimalEqual(t, "costPerUnit", got.CostPerUnit, "10.00")
	decimalEqual(t, "totalBaseCost", got.TotalBaseCost, "10.00")
}

func TestBaseCost_QuantityMultipliesTotalOnly(t *testing.T) {
	got, err := BaseCost(dec(t, "84"), dec(t, "36"), dec(t, "25"), 3)
	if err != nil {
		t.Fatalf("BaseCost: %v", err)
	}

	decimalEqual(t, "area", got.AreaSqFt, "21")
	decimalEqual(t, "costPerUnit", got.CostPerUnit, "525")
	decimalEqual(t, "totalBaseCost", got.TotalBaseCost, "1575")
}

func TestBaseCost_KeepsPrecisionUntilDisplay(t *testing.T) {
	got, err := BaseCost(dec(t, "100"), dec(t, "50"), dec(t, "3"), 1)
	if err != nil {
		t.Fatalf("BaseCost: %v", err)
	}

	// 5000/144*3 = 104.1666...
	if got.CostPerUnit.Equal(Round(got.CostPerUnit)) {
		t.Fatalf("expected unrounded cost, got %s", got.CostPerUnit)
	}
	if Format(got.CostPerUnit) != "104.17" {
		t.Fatalf("Format = %s, want 104.17", Format(got.CostPerUnit))
	}
}

func TestBaseCost_RejectsNonPositiveQuantity(t *testing.T) {
	for _, qty := range []int{0, -1} {
		_, err := BaseCost(dec(t, "12"), dec(t, "12"), dec(t, "10"), qty)
		requireCode(t, err, pkgerrors.CodeValidation)
	}
}

func TestBaseCost_RejectsNegativeDimensions(t *testing.T) {
	_, err := BaseCost(dec(t, "-12"), dec(t, "12"), dec(t, "10"), 1)
	requireCode(t, err, pkgerrors.CodeValidation)
}
