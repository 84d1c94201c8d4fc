package pricing

import "fmt"

// DefaultTaxRate is applied when no jurisdiction-specific rate is known to
// the review screen. Real tax-table lookups happen on the quote service side.
const DefaultTaxRate = 0.07

// Quote is the itemized cost breakdown returned by the quote service.
// Fields are currency-formatted strings and are treated as opaque except
// for the numeric re-parsing needed to recompute totals.
type Quote struct {
	BaseCost           string `json:"base_cost"`
	MaterialCost       string `json:"material_cost"`
	ShippingCost       string `json:"shipping_cost"`
	RushOrderSurcharge string `json:"rush_order_surcharge,omitempty"`
	SalesTax           string `json:"sales_tax,omitempty"`
	TotalCostWithTax   string `json:"total_cost_with_tax,omitempty"`
}

// ShippingRateOption is one candidate carrier service from the rate
// service. Ordering from the service is significant: the first option is
// the default (cheapest) selection.
type ShippingRateOption struct {
	ServiceCode   string  `json:"serviceCode"`
	ServiceName   string  `json:"serviceName"`
	Cost          float64 `json:"cost"`
	EstimatedDays int     `json:"estimatedDays,omitempty"`
	DisplayCost   string  `json:"displayCost,omitempty"`
}

// PricedOrder is the cross-checked monetary view shown on the review
// screen. It is recomputed in full on every shipping reselection; the five
// monetary lines are either all consistent or the view is stale.
type PricedOrder struct {
	BaseCost       float64 `json:"base_cost"`
	MaterialCost   float64 `json:"material_cost"`
	ShippingAmount float64 `json:"shipping_amount"`
	RushAmount     float64 `json:"rush_amount"`
	Subtotal       float64 `json:"subtotal"`
	Tax            float64 `json:"tax"`
	Total          float64 `json:"total"`
}

// Compose recomputes the priced view from a quote and the currently
// selected shipping option. The selected option's cost wins over the
// quote's own shipping line; never both. The computation is deterministic
// and side-effect-free: identical inputs produce a bit-identical result.
func Compose(quote *Quote, selected *ShippingRateOption, rushOrder bool, taxRate float64) (*PricedOrder, error) {
	base, err := ParseCurrency(quote.BaseCost)
	if err != nil {
		return nil, fmt.Errorf("base cost: %w", err)
	}
	material, err := ParseCurrency(quote.MaterialCost)
	if err != nil {
		return nil, fmt.Errorf("material cost: %w", err)
	}

	var shipping float64
	if selected != nil {
		shipping = selected.Cost
	} else {
		shipping, err = ParseCurrency(quote.ShippingCost)
		if err != nil {
			return nil, fmt.Errorf("shipping cost: %w", err)
		}
	}

	var rush float64
	if rushOrder && quote.RushOrderSurcharge != "" {
		rush, err = ParseCurrency(quote.RushOrderSurcharge)
		if err != nil {
			return nil, fmt.Errorf("rush surcharge: %w", err)
		}
	}

	subtotal := base + material + shipping + rush
	tax := subtotal * taxRate

	return &PricedOrder{
		BaseCost:       base,
		MaterialCost:   material,
		ShippingAmount: shipping,
		RushAmount:     rush,
		Subtotal:       subtotal,
		Tax:            tax,
		Total:          subtotal + tax,
	}, nil
}
