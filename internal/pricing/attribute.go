package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RateSource tells whether a price came from the selected option or the attribute itself.
type RateSource string

const (
	SourceOption    RateSource = "option"
	SourceAttribute RateSource = "attribute"
	SourceDefault   RateSource = "default"
)

// VariableDetail explains a measured cost.
type VariableDetail struct {
	TotalUnits  decimal.Decimal `json:"total_units"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
	UnitName    string          `json:"unit_name"`
	Source      RateSource      `json:"source"`
}

// AttributeCostBreakdown is the priced result of one attribute selection.
// CalculatedCost and TotalCost only differ when a direct cost overrides the computation.
type AttributeCostBreakdown struct {
	AttributeID       int64               `json:"attribute_id"`
	AttributeName     string              `json:"attribute_name"`
	CostKind          CostKind            `json:"cost_kind"`
	OptionID          int64               `json:"option_id,omitempty"`
	CalculatedCost    decimal.Decimal     `json:"calculated_cost"`
	DirectCost        decimal.NullDecimal `json:"direct_cost"`
	TotalCost         decimal.Decimal     `json:"total_cost"`
	DirectOverride    bool                `json:"direct_override"`
	DoubleSideApplied bool                `json:"double_side_applied"`
	Source            RateSource          `json:"source,omitempty"`
	Variable          *VariableDetail     `json:"variable,omitempty"`
	Nested            *NestedBreakdown    `json:"nested,omitempty"`
	Adjustments       []Adjustment        `json:"adjustments,omitempty"`
}

// AttributeCost prices one attribute selection.
//
// A non-null directCost is returned as the total without further computation, including
// zero and including double-side. Otherwise the cost is resolved by kind, doubled when both
// the selection and the attribute allow it, and clamped to zero if negative.
func (c *Calculator) AttributeCost(
	def AttributeDefinition,
	opt *AttributeOption,
	measurements []Measurement,
	doubleSide bool,
	directCost decimal.NullDecimal,
	childOptions map[int64]int64,
) (AttributeCostBreakdown, error) {
	if opt != nil && opt.AttributeID != def.ID {
		return AttributeCostBreakdown{}, validationError("option %d does not belong to attribute %d", opt.ID, def.ID).
			With("attribute_id", def.ID).
			With("option_id", opt.ID)
	}

	out := AttributeCostBreakdown{
		AttributeID:   def.ID,
		AttributeName: def.Name,
		CostKind:      def.CostKind,
		DirectCost:    directCost,
	}
	if opt != nil {
		out.OptionID = opt.ID
	}

	if directCost.Valid {
		if directCost.Decimal.IsNegative() {
			return AttributeCostBreakdown{}, validationError("direct cost must not be negative, got %s", directCost.Decimal).
				With("attribute_id", def.ID)
		}
		out.DirectOverride = true
		out.TotalCost = directCost.Decimal
		return out, nil
	}

	var cost decimal.Decimal
	switch def.CostKind {
	case CostConstant:
		cost, out.Source = constantCost(def, opt)
		if out.Source == SourceDefault {
			out.Adjustments = append(out.Adjustments, Adjustment{
				Code:        AdjustMissingCostDefaulted,
				AttributeID: def.ID,
				Message:     "no fixed cost on attribute or option, priced at 0",
			})
		}

	case CostVariable:
		unit, err := c.attributeUnit(def)
		if err != nil {
			return AttributeCostBreakdown{}, err
		}
		units, err := c.measuredQuantity(def, measurements)
		if err != nil {
			return AttributeCostBreakdown{}, err
		}
		rate, source := variableRate(def, opt)
		cost = units.Mul(rate)
		out.Source = source
		out.Variable = &VariableDetail{
			TotalUnits:  units,
			CostPerUnit: rate,
			UnitName:    unit.Name,
			Source:      source,
		}

	case CostDirect:
		out.Adjustments = append(out.Adjustments, Adjustment{
			Code:        AdjustDirectCostMissing,
			AttributeID: def.ID,
			Message:     "direct-cost attribute selected without a direct cost, priced at 0",
		})

	case CostNested:
		multiplier := one
		if len(measurements) > 0 {
			var err error
			if multiplier, err = c.measuredQuantity(def, measurements); err != nil {
				return AttributeCostBreakdown{}, err
			}
		}
		nested, err := c.expandRoot(def, multiplier, childOptions)
		if err != nil {
			return AttributeCostBreakdown{}, err
		}
		cost = nested.TotalCost
		out.Nested = &nested

	default:
		return AttributeCostBreakdown{}, configError(def.ID, "attribute %d has unknown cost kind %q", def.ID, def.CostKind)
	}

	if doubleSide && def.SupportsDoubleSide {
		cost = cost.Mul(two)
		out.DoubleSideApplied = true
	}

	if clamped, corrected := clampNonNegative(cost); corrected {
		out.Adjustments = append(out.Adjustments, Adjustment{
			Code:        AdjustNegativeCostClamped,
			AttributeID: def.ID,
			Message:     fmt.Sprintf("computed cost %s clamped to 0", cost),
		})
		cost = clamped
	}

	out.CalculatedCost = cost
	out.TotalCost = cost
	return out, nil
}

func constantCost(def AttributeDefinition, opt *AttributeOption) (decimal.Decimal, RateSource) {
	if opt != nil && opt.Cost.Valid {
		return opt.Cost.Decimal, SourceOption
	}
	if def.FixedCost.Valid {
		return def.FixedCost.Decimal, SourceAttribute
	}
	return decimal.Zero, SourceDefault
}

func variableRate(def AttributeDefinition, opt *AttributeOption) (decimal.Decimal, RateSource) {
	if opt != nil && opt.CostPerUnit.Valid {
		return opt.CostPerUnit.Decimal, SourceOption
	}
	if def.CostPerUnit.Valid {
		return def.CostPerUnit.Decimal, SourceAttribute
	}
	return decimal.Zero, SourceDefault
}

func (c *Calculator) attributeUnit(def AttributeDefinition) (Unit, error) {
	if def.UnitID == 0 {
		return Unit{}, configError(def.ID, "variable attribute %d has no unit", def.ID)
	}
	unit, ok := c.catalog.Unit(def.UnitID)
	if !ok {
		return Unit{}, configError(def.ID, "attribute %d references unknown unit %d", def.ID, def.UnitID)
	}
	return unit, nil
}

// measuredQuantity sums the effective quantity of every measurement.
func (c *Calculator) measuredQuantity(def AttributeDefinition, measurements []Measurement) (decimal.Decimal, error) {
	total := decimal.Zero
	for i, m := range measurements {
		unitID := m.UnitID
		if unitID == 0 {
			unitID = def.UnitID
		}
		if unitID == 0 {
			return decimal.Zero, configError(def.ID, "measurement %d of attribute %d has no unit", i, def.ID)
		}
		unit, ok := c.catalog.Unit(unitID)
		if !ok {
			return decimal.Zero, configError(def.ID, "measurement %d of attribute %d references unknown unit %d", i, def.ID, unitID)
		}
		if m.Value1.IsNegative() || (m.Value2.Valid && m.Value2.Decimal.IsNegative()) {
			return decimal.Zero, validationError("measurement %d of attribute %d must not be negative", i, def.ID).
				With("attribute_id", def.ID)
		}

		switch unit.Kind {
		case UnitLinear:
			total = total.Add(m.Value1)
		case UnitVector:
			if !m.Value2.Valid {
				return decimal.Zero, configError(def.ID, "measurement %d of attribute %d uses vector unit %q without a second value", i, def.ID, unit.Name)
			}
			total = total.Add(m.Value1.Mul(m.Value2.Decimal))
		default:
			return decimal.Zero, configError(def.ID, "unit %d has unknown kind %q", unit.ID, unit.Kind)
		}
	}
	return total, nil
}
