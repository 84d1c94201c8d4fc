package shipping

import (
	"fmt"
	"sort"

	"github.com/printforge/printforge-api/pricing"
)

// Service codes follow the carrier's two-digit convention. "03" (ground) is
// also the checkout fallback when no rate was selected.
const (
	ServiceCodeGroundAdvantage = "03"
	ServiceCodePriorityMail    = "01"
	ServiceCodeExpress         = "02"
)

const (
	// MinimumWeightLbs is substituted when the computed shipping weight is
	// zero or missing.
	MinimumWeightLbs = 0.5

	// GramsPerPound converts model weight into carrier weight.
	GramsPerPound = 453.592

	// PoundsPerKg converts metric shipping weight into carrier weight.
	PoundsPerKg = 2.20462

	maxWeightLbs = 70
)

// ounce brackets below one pound, keyed by their upper bound in ounces.
var ounceBrackets = []float64{4, 8, 12, 15.999}

// WeightBracket returns the rate-table bracket for a weight in pounds.
// Below one pound the carrier rates by ounce tiers; at and above one pound
// by whole pounds, capped at the 70 lb maximum.
func WeightBracket(weightLbs float64) (bracket float64, isOunces bool) {
	if weightLbs < 1 {
		oz := weightLbs * 16
		for _, tier := range ounceBrackets {
			if oz <= tier {
				return tier, true
			}
		}
		return ounceBrackets[len(ounceBrackets)-1], true
	}

	lbs := int(weightLbs)
	if float64(lbs) < weightLbs {
		lbs++ // round part-pounds up
	}
	if lbs > maxWeightLbs {
		lbs = maxWeightLbs
	}
	return float64(lbs), false
}

// ZoneForDistance maps a shipping distance in miles onto carrier zones 1-9.
func ZoneForDistance(miles float64) int {
	switch {
	case miles < 50:
		return 1
	case miles < 150:
		return 2
	case miles < 300:
		return 3
	case miles < 600:
		return 4
	case miles < 1000:
		return 5
	case miles < 1400:
		return 6
	case miles < 1800:
		return 7
	case miles < 2000:
		return 8
	default:
		return 9
	}
}

// originZipPrefix is the first three digits of the fulfillment location's
// ZIP code.
const originZipPrefix = 182

// ZoneForZip estimates the carrier zone for a destination ZIP code. Without
// a full ZIP coordinate table, the 3-digit prefix distance is used as a
// proxy for geographic distance; prefixes run roughly east to west.
func ZoneForZip(zipCode string) int {
	if len(zipCode) < 3 {
		return 5 // mid-range default for malformed input
	}
	prefix := 0
	for _, c := range zipCode[:3] {
		if c < '0' || c > '9' {
			return 5
		}
		prefix = prefix*10 + int(c-'0')
	}

	diff := prefix - originZipPrefix
	if diff < 0 {
		diff = -diff
	}
	// Prefix units are on the order of a few miles each across the lower 48.
	return ZoneForDistance(float64(diff) * 3.4)
}

// serviceRates maps a weight bracket onto per-zone rates (index 0 unused,
// zones 1-9). Values follow the carrier's published retail rate shape:
// monotonically increasing by weight and by zone.
type serviceRates map[float64][9 + 1]float64

var groundAdvantageRates = serviceRates{
	4:      {0, 4.60, 4.70, 4.85, 5.05, 5.35, 5.60, 5.80, 6.05, 6.35},
	8:      {0, 5.25, 5.35, 5.50, 5.75, 6.10, 6.40, 6.65, 6.95, 7.30},
	12:     {0, 6.15, 6.25, 6.45, 6.75, 7.15, 7.55, 7.85, 8.20, 8.60},
	15.999: {0, 7.10, 7.25, 7.45, 7.80, 8.30, 8.75, 9.15, 9.55, 10.05},
	1:      {0, 7.90, 8.05, 8.30, 8.70, 9.25, 9.80, 10.25, 10.70, 11.25},
	2:      {0, 8.65, 8.85, 9.15, 9.65, 10.35, 11.00, 11.55, 12.10, 12.80},
	3:      {0, 9.45, 9.70, 10.05, 10.65, 11.50, 12.30, 12.95, 13.60, 14.45},
	5:      {0, 10.95, 11.25, 11.75, 12.55, 13.70, 14.75, 15.65, 16.50, 17.60},
	10:     {0, 14.35, 14.80, 15.55, 16.80, 18.55, 20.15, 21.50, 22.85, 24.55},
	20:     {0, 21.10, 21.85, 23.10, 25.15, 28.05, 30.75, 33.00, 35.20, 38.00},
	70:     {0, 54.50, 56.60, 60.10, 65.95, 74.15, 81.75, 88.10, 94.40, 102.40},
}

var priorityMailRates = serviceRates{
	4:      {0, 9.35, 9.50, 9.75, 10.10, 10.60, 11.10, 11.50, 11.90, 12.40},
	8:      {0, 9.85, 10.05, 10.35, 10.80, 11.45, 12.05, 12.55, 13.05, 13.70},
	12:     {0, 10.40, 10.60, 10.95, 11.50, 12.30, 13.00, 13.60, 14.20, 15.00},
	15.999: {0, 10.95, 11.20, 11.60, 12.25, 13.15, 14.00, 14.70, 15.40, 16.30},
	1:      {0, 11.55, 11.80, 12.25, 12.95, 13.95, 14.90, 15.65, 16.45, 17.45},
	2:      {0, 12.45, 12.75, 13.30, 14.15, 15.35, 16.45, 17.40, 18.30, 19.50},
	3:      {0, 13.40, 13.75, 14.40, 15.40, 16.85, 18.15, 19.25, 20.35, 21.75},
	5:      {0, 15.30, 15.80, 16.60, 17.95, 19.85, 21.60, 23.05, 24.50, 26.35},
	10:     {0, 19.65, 20.35, 21.55, 23.50, 26.25, 28.80, 30.90, 33.00, 35.70},
	20:     {0, 27.75, 28.85, 30.70, 33.75, 38.05, 42.00, 45.30, 48.60, 52.80},
	70:     {0, 65.80, 68.60, 73.30, 81.10, 92.10, 102.20, 110.65, 119.10, 129.85},
}

var expressRates = serviceRates{
	4:      {0, 28.75, 29.30, 30.20, 31.70, 33.80, 35.75, 37.35, 39.00, 41.05},
	8:      {0, 29.95, 30.55, 31.55, 33.25, 35.60, 37.75, 39.60, 41.40, 43.70},
	12:     {0, 31.25, 31.95, 33.10, 35.00, 37.65, 40.10, 42.15, 44.20, 46.80},
	15.999: {0, 32.65, 33.40, 34.70, 36.85, 39.85, 42.65, 44.95, 47.25, 50.20},
	1:      {0, 34.15, 35.00, 36.45, 38.85, 42.25, 45.35, 47.95, 50.55, 53.85},
	2:      {0, 36.85, 37.85, 39.55, 42.40, 46.40, 50.05, 53.10, 56.15, 60.05},
	3:      {0, 39.70, 40.90, 42.90, 46.20, 50.85, 55.15, 58.70, 62.30, 66.80},
	5:      {0, 45.40, 46.95, 49.55, 53.90, 60.00, 65.60, 70.30, 74.95, 80.90},
	10:     {0, 58.45, 60.70, 64.40, 70.60, 79.30, 87.35, 94.05, 100.75, 109.25},
	20:     {0, 82.75, 86.20, 92.00, 101.60, 115.15, 127.65, 138.05, 148.50, 161.75},
	70:     {0, 196.90, 205.75, 220.55, 245.15, 279.85, 311.80, 338.45, 365.10, 398.95},
}

type serviceDef struct {
	code          string
	name          string
	rates         serviceRates
	estimatedDays int
}

var services = []serviceDef{
	{code: ServiceCodeGroundAdvantage, name: "USPS Ground Advantage", rates: groundAdvantageRates, estimatedDays: 5},
	{code: ServiceCodePriorityMail, name: "USPS Priority Mail", rates: priorityMailRates, estimatedDays: 3},
	{code: ServiceCodeExpress, name: "USPS Priority Mail Express", rates: expressRates, estimatedDays: 1},
}

// rateFor looks up the retail rate for one service. The bracket always
// exists because WeightBracket only returns table keys; missing zones
// cannot happen for zones 1-9.
func rateFor(def serviceDef, weightLbs float64, zone int) float64 {
	bracket, isOunces := WeightBracket(weightLbs)
	if !isOunces {
		// Snap whole-pound brackets up to the next table tier.
		tiers := []float64{1, 2, 3, 5, 10, 20, 70}
		for _, tier := range tiers {
			if bracket <= tier {
				bracket = tier
				break
			}
		}
	}
	return def.rates[bracket][zone]
}

// AvailableRates returns the candidate shipping services for a destination
// and weight, ordered cheapest first. The first element is the intake
// flow's default selection. Rush orders exclude the slowest service.
func AvailableRates(zipCode string, weightLbs float64, rushOrder bool) []pricing.ShippingRateOption {
	if weightLbs <= 0 {
		weightLbs = MinimumWeightLbs
	}
	zone := ZoneForZip(zipCode)

	options := make([]pricing.ShippingRateOption, 0, len(services))
	for _, def := range services {
		if rushOrder && def.estimatedDays > 3 {
			continue
		}
		cost := rateFor(def, weightLbs, zone)
		options = append(options, pricing.ShippingRateOption{
			ServiceCode:   def.code,
			ServiceName:   def.name,
			Cost:          cost,
			EstimatedDays: def.estimatedDays,
			DisplayCost:   fmt.Sprintf("$%.2f", cost),
		})
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Cost < options[j].Cost
	})
	return options
}
