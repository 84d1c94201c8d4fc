package pricing

// Combined state and average local sales tax rates. Loaded into memory once
// at process start as read-only reference data; quoting never mutates it.
var stateTaxRates = map[string]float64{
	"AL": 0.0925, "AK": 0.0176, "AZ": 0.0838, "AR": 0.0948, "CA": 0.0885,
	"CO": 0.0781, "CT": 0.0635, "DE": 0.0000, "FL": 0.0702, "GA": 0.0738,
	"HI": 0.0450, "ID": 0.0603, "IL": 0.0886, "IN": 0.0700, "IA": 0.0694,
	"KS": 0.0875, "KY": 0.0600, "LA": 0.0956, "ME": 0.0550, "MD": 0.0600,
	"MA": 0.0625, "MI": 0.0600, "MN": 0.0804, "MS": 0.0707, "MO": 0.0830,
	"MT": 0.0000, "NE": 0.0697, "NV": 0.0824, "NH": 0.0000, "NJ": 0.0660,
	"NM": 0.0762, "NY": 0.0853, "NC": 0.0700, "ND": 0.0704, "OH": 0.0724,
	"OK": 0.0899, "OR": 0.0000, "PA": 0.0634, "RI": 0.0700, "SC": 0.0744,
	"SD": 0.0641, "TN": 0.0955, "TX": 0.0820, "UT": 0.0727, "VT": 0.0636,
	"VA": 0.0575, "WA": 0.0938, "WV": 0.0657, "WI": 0.0543, "WY": 0.0544,
	"DC": 0.0600,
}

// zipPrefixStates maps the first digit of a ZIP code onto candidate states
// in ascending 3-digit prefix order. Coarse, but quoting only needs the
// state for a tax-rate lookup.
type zipRange struct {
	lo, hi int // inclusive 3-digit prefix range
	state  string
}

var zipRanges = []zipRange{
	{5, 5, "NY"}, {10, 27, "MA"}, {28, 29, "RI"}, {30, 38, "NH"},
	{39, 49, "ME"}, {50, 59, "VT"}, {60, 69, "CT"}, {70, 89, "NJ"},
	{100, 149, "NY"}, {150, 196, "PA"}, {197, 199, "DE"},
	{200, 205, "DC"}, {206, 219, "MD"}, {220, 246, "VA"}, {247, 268, "WV"},
	{270, 289, "NC"}, {290, 299, "SC"}, {300, 319, "GA"}, {320, 349, "FL"},
	{350, 369, "AL"}, {370, 385, "TN"}, {386, 397, "MS"}, {398, 399, "GA"},
	{400, 427, "KY"}, {430, 459, "OH"}, {460, 479, "IN"}, {480, 499, "MI"},
	{500, 528, "IA"}, {530, 549, "WI"}, {550, 567, "MN"}, {570, 577, "SD"},
	{580, 588, "ND"}, {590, 599, "MT"}, {600, 629, "IL"}, {630, 658, "MO"},
	{660, 679, "KS"}, {680, 693, "NE"}, {700, 714, "LA"}, {716, 729, "AR"},
	{730, 749, "OK"}, {750, 799, "TX"}, {800, 816, "CO"}, {820, 831, "WY"},
	{832, 838, "ID"}, {840, 847, "UT"}, {850, 865, "AZ"}, {870, 884, "NM"},
	{889, 898, "NV"}, {900, 961, "CA"}, {967, 968, "HI"}, {970, 979, "OR"},
	{980, 994, "WA"}, {995, 999, "AK"},
}

// StateForZip resolves a ZIP code to a two-letter state abbreviation, or
// an empty string when the prefix is unknown.
func StateForZip(zipCode string) string {
	if len(zipCode) < 3 {
		return ""
	}
	prefix := 0
	for _, c := range zipCode[:3] {
		if c < '0' || c > '9' {
			return ""
		}
		prefix = prefix*10 + int(c-'0')
	}
	for _, r := range zipRanges {
		if prefix >= r.lo && prefix <= r.hi {
			return r.state
		}
	}
	return ""
}

// StateTaxRate returns the combined sales tax rate for a state, or zero
// when the state is unknown (the original behavior: no state, no tax).
func StateTaxRate(state string) float64 {
	return stateTaxRates[state]
}

// TaxRateForZip chains the ZIP-to-state and state-to-rate lookups.
func TaxRateForZip(zipCode string) float64 {
	return StateTaxRate(StateForZip(zipCode))
}
