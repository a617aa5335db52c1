package main

import (
	"fmt"
	"strings"

	"github.com/Simplici0/doorquote/internal/pricing"
	"github.com/Simplici0/doorquote/internal/quotes"
)

// quotationText renders the stored snapshot as a plain-text summary.
func quotationText(q quotes.Quotation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Quotation %s\n", q.Number)
	fmt.Fprintf(&b, "Customer: %s\n", q.CustomerName)
	fmt.Fprintf(&b, "Status: %s\n", q.Status)
	fmt.Fprintf(&b, "Date: %s\n", q.CreatedAt.Format("2006-01-02 15:04"))

	for i, priced := range q.Pricing.Items {
		b.WriteString("\n")
		if i < len(q.Input.Items) {
			in := q.Input.Items[i]
			fmt.Fprintf(&b, "Item %d: %s x %s in, qty %d\n", i+1, in.Length, in.Breadth, in.Quantity)
		} else {
			fmt.Fprintf(&b, "Item %d\n", i+1)
		}

		fmt.Fprintf(&b, "  Base: %s per unit (%s sqft at %s)\n",
			pricing.Format(priced.Base.CostPerUnit), priced.Base.AreaSqFt.StringFixed(2), pricing.Format(priced.Base.RatePerSqFt))
		for _, a := range priced.Attributes {
			line := fmt.Sprintf("  %s: %s", a.AttributeName, pricing.Format(a.TotalCost))
			switch {
			case a.DirectOverride:
				line += " (direct)"
			case a.DoubleSideApplied:
				line += " (double side)"
			}
			b.WriteString(line + "\n")
		}

		c := priced.Cost
		fmt.Fprintf(&b, "  Unit price: %s\n", pricing.Format(c.UnitPriceBeforeDiscount))
		if c.DiscountAmount.IsPositive() {
			fmt.Fprintf(&b, "  Discount: -%s per unit\n", pricing.Format(c.DiscountAmount))
		}
		if c.TaxPercentage.IsPositive() {
			fmt.Fprintf(&b, "  Tax (%s%%): %s\n", c.TaxPercentage, pricing.Format(c.TotalTax))
		}
		fmt.Fprintf(&b, "  Item total: %s\n", pricing.Format(c.TotalItemCost))
	}

	t := q.Pricing.Totals.Display()
	b.WriteString("\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", t.Subtotal)
	fmt.Fprintf(&b, "Discount: %s\n", t.TotalDiscount)
	fmt.Fprintf(&b, "Tax: %s\n", t.TotalTax)
	fmt.Fprintf(&b, "Total: %s\n", t.TotalQuotationCost)
	return b.String()
}
