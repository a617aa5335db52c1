// Package pricing turns door dimensions and attribute selections into a deterministic price.
//
// All functions are pure over their inputs and the injected Catalog; nothing is written back
// to catalog data. Money uses shopspring/decimal at full precision and is rounded only by
// Round, Format and Display at the presentation boundary.
package pricing

import "fmt"

// LineItemPricing groups every breakdown produced for one line item.
type LineItemPricing struct {
	Base       BaseCostBreakdown        `json:"base"`
	Attributes []AttributeCostBreakdown `json:"attributes"`
	Cost       ItemCostBreakdown        `json:"cost"`
}

// Adjustments returns every recorded correction of the item, nested ones included.
func (p LineItemPricing) Adjustments() []Adjustment {
	var out []Adjustment
	for _, a := range p.Attributes {
		out = append(out, a.Adjustments...)
		if a.Nested != nil {
			out = appendNestedAdjustments(out, *a.Nested)
		}
	}
	return append(out, p.Cost.Adjustments...)
}

func appendNestedAdjustments(out []Adjustment, b NestedBreakdown) []Adjustment {
	out = append(out, b.Adjustments...)
	for _, child := range b.Children {
		if child.Nested != nil {
			out = appendNestedAdjustments(out, *child.Nested)
		}
	}
	return out
}

// QuotationPricing is the full result of pricing a quotation.
type QuotationPricing struct {
	Items  []LineItemPricing `json:"items"`
	Totals QuotationTotals   `json:"totals"`
}

// PriceLineItem prices the base door and every selection, then aggregates them.
func (c *Calculator) PriceLineItem(item LineItem) (LineItemPricing, error) {
	thickness, ok := c.catalog.ThicknessOption(item.ThicknessOptionID)
	if !ok {
		return LineItemPricing{}, validationError("thickness option %d does not exist", item.ThicknessOptionID)
	}

	base, err := BaseCost(item.Length, item.Breadth, thickness.CostPerSqFt, item.Quantity)
	if err != nil {
		return LineItemPricing{}, err
	}

	attributes := make([]AttributeCostBreakdown, 0, len(item.Selections))
	for i, sel := range item.Selections {
		def, ok := c.catalog.Attribute(sel.AttributeID)
		if !ok {
			return LineItemPricing{}, validationError("selection %d references unknown attribute %d", i, sel.AttributeID)
		}
		opt, err := c.resolveOption(def, sel.SelectedOptionID)
		if err != nil {
			return LineItemPricing{}, fmt.Errorf("selection %d: %w", i, err)
		}
		breakdown, err := c.AttributeCost(def, opt, sel.Measurements, sel.DoubleSide, sel.DirectCost, sel.ChildOptions)
		if err != nil {
			return LineItemPricing{}, fmt.Errorf("selection %d (%s): %w", i, def.Name, err)
		}
		attributes = append(attributes, breakdown)
	}

	cost, err := AggregateItem(base.CostPerUnit, attributes, item.DiscountAmount, item.TaxPercentage, item.Quantity)
	if err != nil {
		return LineItemPricing{}, err
	}

	return LineItemPricing{Base: base, Attributes: attributes, Cost: cost}, nil
}

// PriceQuotation prices every item and totals them. On error no partial result is returned,
// so callers can treat a recompute as all-or-nothing.
func (c *Calculator) PriceQuotation(q Quotation) (QuotationPricing, error) {
	items := make([]LineItemPricing, 0, len(q.Items))
	costs := make([]ItemCostBreakdown, 0, len(q.Items))
	for i, item := range q.Items {
		priced, err := c.PriceLineItem(item)
		if err != nil {
			return QuotationPricing{}, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, priced)
		costs = append(costs, priced.Cost)
	}
	return QuotationPricing{Items: items, Totals: Totalize(costs)}, nil
}
