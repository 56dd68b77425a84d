package predictor

// FeatureNames is the fixed input order of the yield model. Changing it
// invalidates every persisted scaler and weight blob.
var FeatureNames = []string{
	"rainfall",
	"fertilizer",
	"pesticide",
	"acreage",
	"season_encoded",
	"soil_encoded",
}

var seasonCodes = map[string]float64{
	"Kharif":     0,
	"Rabi":       1,
	"Zaid":       2,
	"Summer":     3,
	"Winter":     4,
	"Autumn":     5,
	"Whole Year": 6,
	"Unknown":    7,
}

var soilCodes = map[string]float64{
	"Loamy":    0,
	"Sandy":    1,
	"Clay":     2,
	"Red":      3,
	"Black":    4,
	"Alluvial": 5,
	"Unknown":  6,
}

// Soil is not in the dataset; training rows infer it from the state.
var stateSoil = map[string]string{
	"Assam":          "Alluvial",
	"Karnataka":      "Red",
	"Kerala":         "Alluvial",
	"Tamil Nadu":     "Red",
	"Maharashtra":    "Black",
	"Gujarat":        "Black",
	"Punjab":         "Alluvial",
	"Haryana":        "Alluvial",
	"Uttar Pradesh":  "Alluvial",
	"Bihar":          "Alluvial",
	"West Bengal":    "Alluvial",
	"Madhya Pradesh": "Black",
	"Rajasthan":      "Sandy",
	"Andhra Pradesh": "Red",
	"Telangana":      "Red",
	"Odisha":         "Red",
	"Chhattisgarh":   "Red",
	"Jharkhand":      "Red",
}

// Input is one un-normalized feature row.
type Input struct {
	Rainfall   float64 `json:"rainfall"`
	Fertilizer float64 `json:"fertilizer"`
	Pesticide  float64 `json:"pesticide"`
	Acreage    float64 `json:"acreage"`
	Season     string  `json:"season"`
	SoilType   string  `json:"soilType"`
}

func encodeSeason(season string) float64 {
	if code, ok := seasonCodes[season]; ok {
		return code
	}
	return seasonCodes["Unknown"]
}

func encodeSoil(soil string) float64 {
	if code, ok := soilCodes[soil]; ok {
		return code
	}
	return soilCodes["Unknown"]
}

// SoilForState maps a state onto its dominant soil type, "Unknown" when the
// state is not in the table.
func SoilForState(state string) string {
	if soil, ok := stateSoil[state]; ok {
		return soil
	}
	return "Unknown"
}

func encode(in Input) []float64 {
	return []float64{
		in.Rainfall,
		in.Fertilizer,
		in.Pesticide,
		in.Acreage,
		encodeSeason(in.Season),
		encodeSoil(in.SoilType),
	}
}
