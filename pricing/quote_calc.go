package pricing

const (
	// BaseCost is the fixed per-order setup cost in dollars.
	BaseCost = 20.0

	// RushSurcharge is the flat expedited-processing fee in dollars.
	RushSurcharge = 20.0

	// MinimumWeightG is the floor applied when the derived model weight is
	// implausibly small.
	MinimumWeightG = 0.1

	// PackagingWeightFactor estimates packaging weight as a share of the
	// model weight for shipping purposes.
	PackagingWeightFactor = 0.15
)

// QuoteInput carries everything the quote calculation needs. Shipping cost
// and tax rate are resolved by the caller so the calculation itself stays a
// pure function.
type QuoteInput struct {
	PricePerKg   float64
	DensityGCm3  float64
	Quantity     int
	RushOrder    bool
	VolumeCm3    float64
	WeightG      float64 // client-supplied weight wins over the density estimate
	ShippingCost float64
	TaxRate      float64
}

// QuoteBreakdown is the itemized result of a quote calculation. Amounts are
// dollars; String fields are produced separately via ToQuote.
type QuoteBreakdown struct {
	WeightG          float64
	ShippingWeightKg float64
	BaseCost         float64
	MaterialCost     float64
	ShippingCost     float64
	RushSurcharge    float64
	Subtotal         float64
	SalesTax         float64
	Total            float64
}

// EffectiveWeightG resolves the model weight in grams: the client-supplied
// weight when present, otherwise volume times material density, floored at
// the minimum.
func EffectiveWeightG(volumeCm3, weightG, densityGCm3 float64) float64 {
	if weightG > 0 {
		return weightG
	}
	derived := volumeCm3 * densityGCm3
	if derived < MinimumWeightG {
		return MinimumWeightG
	}
	return derived
}

// ShippingWeightKg adds the packaging allowance and converts to kilograms.
func ShippingWeightKg(modelWeightG float64) float64 {
	return (modelWeightG + modelWeightG*PackagingWeightFactor) / 1000
}

// CalculateQuote produces the itemized breakdown for one order
// configuration. Material cost scales with quantity; the base cost, rush
// surcharge and shipping cost are charged once per order.
func CalculateQuote(in QuoteInput) QuoteBreakdown {
	weightG := EffectiveWeightG(in.VolumeCm3, in.WeightG, in.DensityGCm3)
	weightKg := weightG / 1000

	quantity := in.Quantity
	if quantity < 1 {
		quantity = 1
	}

	materialCost := weightKg * in.PricePerKg * float64(quantity)

	var rush float64
	if in.RushOrder {
		rush = RushSurcharge
	}

	subtotal := BaseCost + materialCost + in.ShippingCost + rush
	tax := subtotal * in.TaxRate

	return QuoteBreakdown{
		WeightG:          weightG,
		ShippingWeightKg: ShippingWeightKg(weightG),
		BaseCost:         BaseCost,
		MaterialCost:     materialCost,
		ShippingCost:     in.ShippingCost,
		RushSurcharge:    rush,
		Subtotal:         subtotal,
		SalesTax:         tax,
		Total:            subtotal + tax,
	}
}

// ToQuote renders the breakdown as the currency-string response shape the
// quote endpoint serves.
func (b QuoteBreakdown) ToQuote() *Quote {
	return &Quote{
		BaseCost:           FormatCurrency(b.BaseCost),
		MaterialCost:       FormatCurrency(b.MaterialCost),
		ShippingCost:       FormatCurrency(b.ShippingCost),
		RushOrderSurcharge: FormatCurrency(b.RushSurcharge),
		SalesTax:           FormatCurrency(b.SalesTax),
		TotalCostWithTax:   FormatCurrency(b.Total),
	}
}

// TotalCents converts the final total into integer cents for persistence
// and for the payment provider.
func (b QuoteBreakdown) TotalCents() int {
	return int(b.Total*100 + 0.5)
}
