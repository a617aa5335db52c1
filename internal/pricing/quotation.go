package pricing

import "github.com/shopspring/decimal"

// QuotationTotals sums item breakdowns. Subtotal is base plus attributes before discount and
// tax and is informational; TotalQuotationCost is the sum of item totals.
type QuotationTotals struct {
	TotalBaseCost      decimal.Decimal `json:"total_base_cost"`
	TotalAttributeCost decimal.Decimal `json:"total_attribute_cost"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	TotalDiscount      decimal.Decimal `json:"total_discount"`
	TotalTax           decimal.Decimal `json:"total_tax"`
	TotalQuotationCost decimal.Decimal `json:"total_quotation_cost"`
	ItemCount          int             `json:"item_count"`
}

// Totalize sums items. It has no side effects, so repeated calls give the same totals.
func Totalize(items []ItemCostBreakdown) QuotationTotals {
	out := QuotationTotals{ItemCount: len(items)}
	for _, item := range items {
		out.TotalBaseCost = out.TotalBaseCost.Add(item.TotalBaseCost)
		out.TotalAttributeCost = out.TotalAttributeCost.Add(item.TotalAttributeCost)
		out.TotalDiscount = out.TotalDiscount.Add(item.TotalDiscount)
		out.TotalTax = out.TotalTax.Add(item.TotalTax)
		out.TotalQuotationCost = out.TotalQuotationCost.Add(item.TotalItemCost)
	}
	out.Subtotal = out.TotalBaseCost.Add(out.TotalAttributeCost)
	return out
}

// DisplayTotals is QuotationTotals rounded for presentation.
type DisplayTotals struct {
	TotalBaseCost      string `json:"total_base_cost"`
	TotalAttributeCost string `json:"total_attribute_cost"`
	Subtotal           string `json:"subtotal"`
	TotalDiscount      string `json:"total_discount"`
	TotalTax           string `json:"total_tax"`
	TotalQuotationCost string `json:"total_quotation_cost"`
	ItemCount          int    `json:"item_count"`
}

func (t QuotationTotals) Display() DisplayTotals {
	return DisplayTotals{
		TotalBaseCost:      Format(t.TotalBaseCost),
		TotalAttributeCost: Format(t.TotalAttributeCost),
		Subtotal:           Format(t.Subtotal),
		TotalDiscount:      Format(t.TotalDiscount),
		TotalTax:           Format(t.TotalTax),
		TotalQuotationCost: Format(t.TotalQuotationCost),
		ItemCount:          t.ItemCount,
	}
}
