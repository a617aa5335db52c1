package pricing

import "github.com/shopspring/decimal"

// NestedChild is one child line of a nested expansion. Cost is the child's unscaled
// contribution: its fixed cost, its per-unit rate, or its own unscaled composite total.
type NestedChild struct {
	AttributeID int64            `json:"attribute_id"`
	Name        string           `json:"name"`
	CostKind    CostKind         `json:"cost_kind"`
	OptionID    int64            `json:"option_id,omitempty"`
	Source      RateSource       `json:"source"`
	Cost        decimal.Decimal  `json:"cost"`
	Nested      *NestedBreakdown `json:"nested,omitempty"`
}

// NestedBreakdown is the recursive cost of a nested attribute.
type NestedBreakdown struct {
	AttributeID   int64           `json:"attribute_id"`
	Name          string          `json:"name"`
	Multiplier    decimal.Decimal `json:"multiplier"`
	UnscaledTotal decimal.Decimal `json:"unscaled_total"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Children      []NestedChild   `json:"children"`
	Adjustments   []Adjustment    `json:"adjustments,omitempty"`
}

// ExpandNested computes the composite cost of the nested attribute nestedID.
//
// Children are priced in declaration order against the shared childOptions map. The
// multiplier scales the whole composite once, at the root; inner levels contribute their
// unscaled totals. Exceeding the calculator's max depth is a configuration error.
func (c *Calculator) ExpandNested(nestedID int64, multiplier decimal.Decimal, childOptions map[int64]int64) (NestedBreakdown, error) {
	def, ok := c.catalog.Attribute(nestedID)
	if !ok {
		return NestedBreakdown{}, validationError("attribute %d does not exist", nestedID)
	}
	if def.CostKind != CostNested {
		return NestedBreakdown{}, validationError("attribute %d is %s, not nested", nestedID, def.CostKind).
			With("attribute_id", nestedID)
	}
	return c.expandRoot(def, multiplier, childOptions)
}

func (c *Calculator) expandRoot(def AttributeDefinition, multiplier decimal.Decimal, childOptions map[int64]int64) (NestedBreakdown, error) {
	if multiplier.IsNegative() {
		return NestedBreakdown{}, validationError("nested multiplier must not be negative, got %s", multiplier).
			With("attribute_id", def.ID)
	}
	b, err := c.expand(def, childOptions, 1)
	if err != nil {
		return NestedBreakdown{}, err
	}
	// Inner levels keep a multiplier of 1; only the root is scaled.
	b.Multiplier = multiplier
	b.TotalCost = b.UnscaledTotal.Mul(multiplier)
	return b, nil
}

func (c *Calculator) expand(def AttributeDefinition, childOptions map[int64]int64, depth int) (NestedBreakdown, error) {
	if depth > c.maxDepth {
		return NestedBreakdown{}, configError(def.ID, "nested attribute %d exceeds max depth %d", def.ID, c.maxDepth).
			With("depth", depth)
	}
	if len(def.Children) == 0 {
		return NestedBreakdown{}, configError(def.ID, "nested attribute %d has no children", def.ID)
	}

	out := NestedBreakdown{
		AttributeID: def.ID,
		Name:        def.Name,
		Multiplier:  one,
		Children:    make([]NestedChild, 0, len(def.Children)),
	}

	total := decimal.Zero
	for _, childID := range def.Children {
		child, ok := c.catalog.Attribute(childID)
		if !ok {
			return NestedBreakdown{}, configError(def.ID, "nested attribute %d references unknown child %d", def.ID, childID)
		}
		opt, err := c.resolveOption(child, childOptions[child.ID])
		if err != nil {
			return NestedBreakdown{}, err
		}

		line := NestedChild{
			AttributeID: child.ID,
			Name:        child.Name,
			CostKind:    child.CostKind,
		}
		if opt != nil {
			line.OptionID = opt.ID
		}

		switch child.CostKind {
		case CostConstant:
			line.Cost, line.Source = constantCost(child, opt)
			if line.Source == SourceDefault {
				out.Adjustments = append(out.Adjustments, Adjustment{
					Code:        AdjustMissingCostDefaulted,
					AttributeID: child.ID,
					Message:     "no fixed cost on nested child or option, priced at 0",
				})
			}
		case CostVariable:
			if _, err := c.attributeUnit(child); err != nil {
				return NestedBreakdown{}, err
			}
			line.Cost, line.Source = variableRate(child, opt)
		case CostDirect:
			line.Source = SourceDefault
			out.Adjustments = append(out.Adjustments, Adjustment{
				Code:        AdjustDirectCostMissing,
				AttributeID: child.ID,
				Message:     "direct-cost child inside a nested attribute priced at 0",
			})
		case CostNested:
			sub, err := c.expand(child, childOptions, depth+1)
			if err != nil {
				return NestedBreakdown{}, err
			}
			line.Cost = sub.UnscaledTotal
			line.Source = SourceAttribute
			line.Nested = &sub
		default:
			return NestedBreakdown{}, configError(child.ID, "attribute %d has unknown cost kind %q", child.ID, child.CostKind)
		}

		total = total.Add(line.Cost)
		out.Children = append(out.Children, line)
	}

	out.UnscaledTotal = total
	out.TotalCost = total
	return out, nil
}
