package market

import "sort"

// Minimum support prices per quintal in INR, 2024-25 marketing season. Used
// whenever the live feed cannot resolve a commodity.
var mspPrices = map[string]float64{
	"Rice":                  2183,
	"Wheat":                 2275,
	"Maize":                 2090,
	"Bajra":                 2500,
	"Jowar":                 3180,
	"Ragi":                  3846,
	"Barley":                1735,
	"Cotton(lint)":          6620,
	"Sugarcane":             315,
	"Jute":                  5050,
	"Potato":                1800,
	"Onion":                 2200,
	"Arhar/Tur":             7000,
	"Gram":                  5440,
	"Moong(Green Gram)":     8558,
	"Urad":                  6950,
	"Masoor":                6425,
	"Groundnut":             6377,
	"Rapeseed &Mustard":     5650,
	"Soyabean":              4600,
	"Sunflower":             6760,
	"Sesamum":               8635,
	"Coconut":               3200,
	"Arecanut":              45000,
	"Cashewnut":             15000,
	"Black pepper":          55000,
	"Cardamom":              120000,
	"Turmeric":              9500,
	"Ginger":                4500,
	"Dry chillies":          18000,
	"Coriander":             7500,
	"Garlic":                6000,
	"Banana":                3500,
	"Tobacco":               14500,
	"Castor seed":           6800,
	"Linseed":               6560,
	"Niger seed":            7734,
	"Safflower":             5800,
	"Sweet potato":          2000,
	"Tapioca":               2500,
	"Mesta":                 4500,
	"Sannhamp":              3500,
	"Horse-gram":            4500,
	"Cowpea(Lobia)":         6800,
	"Khesari":               3000,
	"Moth":                  6500,
	"Peas & beans (Pulses)": 6000,
	"Guar seed":             5500,
	"Small millets":         3500,
}

const defaultFallbackPrice = 3500

// FallbackPrice returns the MSP for a commodity, or the default when the
// commodity has no published support price.
func FallbackPrice(commodity string) float64 {
	if price, ok := mspPrices[commodity]; ok {
		return price
	}
	return defaultFallbackPrice
}

// SupportedCommodities lists the commodities carrying a published MSP, sorted
// for stable API output.
func SupportedCommodities() []string {
	names := make([]string, 0, len(mspPrices))
	for name := range mspPrices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
