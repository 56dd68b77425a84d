package advisor

import "time"

// CropObservation is one historical yield record, immutable once parsed from
// the dataset.
type CropObservation struct {
	Crop                 string
	Season               string
	State                string
	YieldPerHectare      float64
	RainfallMm           float64
	FertilizerPerHectare float64
	PesticidePerHectare  float64
}

// FarmerProfile is the caller-supplied input every engine runs against.
type FarmerProfile struct {
	State         string  `json:"state" binding:"required"`
	Acreage       float64 `json:"acreage"`
	SoilType      string  `json:"soilType"`
	Budget        float64 `json:"budget"`
	Season        string  `json:"season,omitempty"`
	MultipleCrops bool    `json:"multipleCrops,omitempty"`
}

// CostBreakdown itemizes the estimated cost of a recommendation, scaled to the
// farmer's acreage.
type CostBreakdown struct {
	Fertilizer float64 `json:"fertilizer"`
	Pesticide  float64 `json:"pesticide"`
	Labor      float64 `json:"labor"`
	Seed       float64 `json:"seed"`
}

// CropRecommendation is the derived output of the recommendation engine.
type CropRecommendation struct {
	Name             string        `json:"name"`
	YieldTonnes      float64       `json:"yieldTonnes"`
	EstimatedRevenue float64       `json:"estimatedRevenue"`
	EstimatedCost    float64       `json:"estimatedCost"`
	Profit           float64       `json:"profit"`
	CostBreakdown    CostBreakdown `json:"costBreakdown"`
	Score            float64       `json:"score"`
	Season           string        `json:"season"`
	LivePrice        float64       `json:"livePrice"`
	PriceSource      string        `json:"priceSource"`
	FarmingType      string        `json:"farmingType,omitempty"`
}

// AvoidReason identifies a rule that flagged a crop as risky.
type AvoidReason string

const (
	ReasonLowMarketPrice       AvoidReason = "lowMarketPrice"
	ReasonHighInputCost        AvoidReason = "highInputCost"
	ReasonUnsuitableSeason     AvoidReason = "unsuitableSeason"
	ReasonUnsuitableSoil       AvoidReason = "unsuitableSoil"
	ReasonLowYield             AvoidReason = "lowYield"
	ReasonNegativeProfitMargin AvoidReason = "negativeProfitMargin"
	ReasonOversupplyWarning    AvoidReason = "oversupplyWarning"
	ReasonWeatherRisk          AvoidReason = "weatherRisk"
)

// Risk levels for CropToAvoid entries.
const (
	RiskHigh   = "high"
	RiskMedium = "medium"
)

// CropToAvoid flags a crop excluded from recommendations, with the rule hits
// that excluded it.
type CropToAvoid struct {
	Name             string        `json:"name"`
	Reasons          []AvoidReason `json:"reasons"`
	RiskLevel        string        `json:"riskLevel"`
	EstimatedLoss    float64       `json:"estimatedLoss"`
	AlternativeCrops []string      `json:"alternativeCrops"`
	Season           string        `json:"season,omitempty"`
}

// FarmingType scores one farming archetype against a profile.
type FarmingType struct {
	Type             string   `json:"type"`
	Description      string   `json:"description"`
	Suitability      float64  `json:"suitability"`
	Benefits         []string `json:"benefits"`
	Challenges       []string `json:"challenges"`
	RecommendedCrops []string `json:"recommendedCrops"`
}

// Advice bundles both engine outputs for one recommendation pass.
type Advice struct {
	Recommendations []CropRecommendation `json:"recommendations"`
	CropsToAvoid    []CropToAvoid        `json:"cropsToAvoid"`
}

// CropSummary describes one distinct crop in the dataset.
type CropSummary struct {
	Name         string `json:"name"`
	Observations int    `json:"observations"`
}

// CropDetail aggregates the dataset for a single crop.
type CropDetail struct {
	Name            string   `json:"name"`
	MedianYield     float64  `json:"medianYield"`
	Seasons         []string `json:"seasons"`
	States          []string `json:"states"`
	Observations    int      `json:"observations"`
	AvgFertilizer   float64  `json:"avgFertilizer"`
	AvgPesticide    float64  `json:"avgPesticide"`
	AvgRainfallMm   float64  `json:"avgRainfallMm"`
	MSPPrice        float64  `json:"mspPrice"`
}

// HistoryEntry records one completed recommendation pass.
type HistoryEntry struct {
	ID        string        `json:"id"`
	Profile   FarmerProfile `json:"profile"`
	TopCrops  []HistoryCrop `json:"topCrops"`
	CreatedAt time.Time     `json:"createdAt"`
}

// HistoryCrop is a compact (name, score) pair kept per history entry.
type HistoryCrop struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}
