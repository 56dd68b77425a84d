package advisor

// CostModel holds the per-hectare economics used by both engines, in INR.
// Fertilizer and pesticide rates multiply the dataset's average usage; the
// floors keep tiny usage figures from producing implausible costs.
type CostModel struct {
	FertilizerRate  float64
	FertilizerFloor float64
	PesticideRate   float64
	PesticideFloor  float64
	Labor           float64
	Seed            float64
}

// ScoreWeights combines the four sub-scores into the final recommendation
// score. The weights must sum to 1.
type ScoreWeights struct {
	Budget float64
	Profit float64
	Yield  float64
	ROI    float64
}

// Rulebook carries every lookup table the engines consult. Keeping the tables
// in one explicit value lets tests swap them and keeps the scoring logic free
// of inline literals.
type Rulebook struct {
	Costs   CostModel
	Weights ScoreWeights

	// Intercropping companions, checked bidirectionally by substring.
	CompanionCrops map[string][]string

	// Soil type -> crops that do poorly on it.
	SoilIncompatibility map[string][]string
	// Requested season -> crops that belong to a different season.
	SeasonIncompatibility map[string][]string

	LowPriceCrops         []string
	HighInputCostCrops    []string
	WeatherSensitiveCrops []string

	// Suggested substitutes per risky crop.
	Alternatives        map[string][]string
	DefaultAlternatives []string
}

// DefaultRulebook returns the production tables.
func DefaultRulebook() Rulebook {
	return Rulebook{
		Costs: CostModel{
			FertilizerRate:  0.05,
			FertilizerFloor: 2000,
			PesticideRate:   0.1,
			PesticideFloor:  1000,
			Labor:           15000,
			Seed:            5000,
		},
		Weights: ScoreWeights{
			Budget: 0.3,
			Profit: 0.3,
			Yield:  0.2,
			ROI:    0.2,
		},
		CompanionCrops: map[string][]string{
			"Rice":              {"Pulses", "Gram", "Moong(Green Gram)", "Urad"},
			"Wheat":             {"Gram", "Mustard", "Rapeseed &Mustard", "Linseed"},
			"Maize":             {"Beans", "Pulses", "Groundnut", "Soyabean", "Cowpea"},
			"Cotton(lint)":      {"Groundnut", "Moong(Green Gram)", "Gram", "Cowpea"},
			"Sugarcane":         {"Potato", "Onion", "Garlic", "Turmeric", "Ginger"},
			"Potato":            {"Onion", "Cabbage", "Peas", "Beans"},
			"Groundnut":         {"Maize", "Pearl millet", "Sorghum"},
			"Soyabean":          {"Maize", "Sorghum", "Pearl millet"},
			"Gram":              {"Wheat", "Barley", "Mustard", "Linseed"},
			"Arhar/Tur":         {"Cotton(lint)", "Sorghum", "Pearl millet"},
			"Moong(Green Gram)": {"Rice", "Maize", "Sugarcane"},
			"Urad":              {"Rice", "Maize", "Sugarcane"},
			"Turmeric":          {"Ginger", "Onion", "Vegetables"},
			"Ginger":            {"Turmeric", "Onion", "Vegetables"},
		},
		SoilIncompatibility: map[string][]string{
			"Sandy":    {"Rice", "Sugarcane", "Banana", "Jute"},
			"Clay":     {"Groundnut", "Potato", "Carrot", "Onion"},
			"Loamy":    {},
			"Red":      {"Wheat", "Rice", "Sugarcane"},
			"Black":    {"Potato", "Groundnut"},
			"Alluvial": {},
			"Laterite": {"Wheat", "Rice", "Sugarcane", "Potato"},
		},
		SeasonIncompatibility: map[string][]string{
			"Kharif": {"Wheat", "Gram", "Mustard", "Barley", "Linseed"},
			"Rabi":   {"Rice", "Maize", "Groundnut", "Cotton(lint)", "Jute", "Soyabean"},
			"Summer": {"Wheat", "Gram", "Mustard"},
		},
		LowPriceCrops:         []string{"Potato", "Onion", "Tomato", "Cabbage", "Cauliflower"},
		HighInputCostCrops:    []string{"Sugarcane", "Cotton(lint)", "Banana", "Grapes", "Pomegranate"},
		WeatherSensitiveCrops: []string{"Cotton(lint)", "Potato", "Tomato", "Onion", "Banana"},
		Alternatives: map[string][]string{
			"Potato":       {"Wheat", "Gram", "Mustard"},
			"Onion":        {"Garlic", "Ginger", "Turmeric"},
			"Tomato":       {"Chillies", "Brinjal", "Capsicum"},
			"Sugarcane":    {"Maize", "Soyabean", "Cotton(lint)"},
			"Cotton(lint)": {"Groundnut", "Soyabean", "Maize"},
			"Banana":       {"Papaya", "Coconut", "Arecanut"},
			"Rice":         {"Maize", "Millets", "Pulses"},
			"Wheat":        {"Gram", "Mustard", "Barley"},
		},
		DefaultAlternatives: []string{"Pulses", "Millets", "Oilseeds"},
	}
}
