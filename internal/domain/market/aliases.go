package market

import "strings"

// The live API reports commodities under mandi trade names; this table maps
// them (lowercased) onto the dataset's crop names.
var commodityAliases = map[string]string{
	"rice":       "Rice",
	"paddy":      "Rice",
	"wheat":      "Wheat",
	"maize":      "Maize",
	"corn":       "Maize",
	"cotton":     "Cotton(lint)",
	"arhar":      "Arhar/Tur",
	"tur":        "Arhar/Tur",
	"toor":       "Arhar/Tur",
	"gram":       "Gram",
	"chana":      "Gram",
	"moong":      "Moong(Green Gram)",
	"green gram": "Moong(Green Gram)",
	"urad":       "Urad",
	"black gram": "Urad",
	"groundnut":  "Groundnut",
	"mustard":    "Rapeseed &Mustard",
	"rapeseed":   "Rapeseed &Mustard",
	"soyabean":   "Soyabean",
	"soybean":    "Soyabean",
	"sunflower":  "Sunflower",
	"potato":     "Potato",
	"onion":      "Onion",
	"sugarcane":  "Sugarcane",
	"jute":       "Jute",
	"turmeric":   "Turmeric",
	"ginger":     "Ginger",
	"chilli":     "Dry chillies",
	"chillies":   "Dry chillies",
	"coconut":    "Coconut",
	"arecanut":   "Arecanut",
	"banana":     "Banana",
	"jowar":      "Jowar",
	"bajra":      "Bajra",
	"ragi":       "Ragi",
	"barley":     "Barley",
}

// CanonicalName maps an API commodity string onto the internal crop name.
func CanonicalName(apiName string) (string, bool) {
	name, ok := commodityAliases[strings.ToLower(strings.TrimSpace(apiName))]
	return name, ok
}
