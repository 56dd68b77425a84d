package advisor

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/fasalmitra/crop-advisor/internal/domain/market"
)

// avoidFallbackPrice is the pessimistic per-quintal price assumed when a crop
// has no live quote during margin checks.
const avoidFallbackPrice = 2000

// identifyCropsToAvoid flags risky crops for the farmer's state. Crops already
// recommended are never flagged.
func identifyCropsToAvoid(rb Rulebook, observations []CropObservation, profile FarmerProfile, quotes map[string]market.Quote, recommendations []CropRecommendation) []CropToAvoid {
	recommended := make(map[string]struct{}, len(recommendations))
	for _, r := range recommendations {
		recommended[r.Name] = struct{}{}
	}

	state := normalizeName(profile.State)
	var stateData []CropObservation
	for _, o := range observations {
		if normalizeName(o.State) == state {
			stateData = append(stateData, o)
		}
	}

	groups, order := groupByCrop(stateData)

	var flagged []CropToAvoid
	for _, name := range order {
		if _, ok := recommended[name]; ok {
			continue
		}
		if entry, ok := assessCrop(rb, name, groups[name], profile, quotes); ok {
			flagged = append(flagged, entry)
		}
	}

	sort.SliceStable(flagged, func(i, j int) bool {
		hi, hj := flagged[i].RiskLevel == RiskHigh, flagged[j].RiskLevel == RiskHigh
		if hi != hj {
			return hi
		}
		return flagged[i].EstimatedLoss > flagged[j].EstimatedLoss
	})
	if len(flagged) > 6 {
		flagged = flagged[:6]
	}
	return flagged
}

// assessCrop runs the independent rule checks. Losses stack additively except
// for the negative-margin check, which takes over via max; that asymmetry is
// kept as-is for compatibility with the historical behavior.
func assessCrop(rb Rulebook, name string, group []CropObservation, profile FarmerProfile, quotes map[string]market.Quote) (CropToAvoid, bool) {
	if len(group) == 0 {
		return CropToAvoid{}, false
	}

	yields := make([]float64, len(group))
	fertilizers := make([]float64, len(group))
	for i, o := range group {
		yields[i] = o.YieldPerHectare
		fertilizers[i] = o.FertilizerPerHectare
	}
	avgYield, _ := stats.Mean(yields)
	avgFertilizer, _ := stats.Mean(fertilizers)
	season := normalizeName(group[0].Season)

	var reasons []AvoidReason
	var loss float64

	if contains(rb.SoilIncompatibility[profile.SoilType], name) {
		reasons = append(reasons, ReasonUnsuitableSoil)
		loss += 15000 * profile.Acreage
	}

	if profile.Season != "" && contains(rb.SeasonIncompatibility[profile.Season], name) {
		reasons = append(reasons, ReasonUnsuitableSeason)
		loss += 20000 * profile.Acreage
	}

	if contains(rb.LowPriceCrops, name) {
		reasons = append(reasons, ReasonLowMarketPrice, ReasonOversupplyWarning)
		loss += 10000 * profile.Acreage
	}

	estimatedCost := (avgFertilizer*rb.Costs.FertilizerRate + rb.Costs.Labor + rb.Costs.Seed + rb.Costs.PesticideFloor) * profile.Acreage
	if contains(rb.HighInputCostCrops, name) && estimatedCost > profile.Budget*0.8 {
		reasons = append(reasons, ReasonHighInputCost)
		loss += estimatedCost - profile.Budget
	}

	if contains(rb.WeatherSensitiveCrops, name) {
		reasons = append(reasons, ReasonWeatherRisk)
		loss += 8000 * profile.Acreage
	}

	if avgYield < 1.5 {
		reasons = append(reasons, ReasonLowYield)
		loss += 12000 * profile.Acreage
	}

	price := float64(avoidFallbackPrice)
	if q, ok := quotes[name]; ok && q.Price > 0 {
		price = q.Price
	}
	revenue := avgYield * 10 * price * profile.Acreage
	if revenue < estimatedCost {
		reasons = append(reasons, ReasonNegativeProfitMargin)
		loss = math.Max(loss, estimatedCost-revenue)
	}

	negative := hasReason(reasons, ReasonNegativeProfitMargin)
	if len(reasons) < 2 && !negative {
		return CropToAvoid{}, false
	}

	risk := RiskMedium
	if len(reasons) >= 3 || negative {
		risk = RiskHigh
	}

	alternatives := rb.Alternatives[name]
	if len(alternatives) == 0 {
		alternatives = rb.DefaultAlternatives
	}

	return CropToAvoid{
		Name:             name,
		Reasons:          reasons,
		RiskLevel:        risk,
		EstimatedLoss:    math.Round(loss),
		AlternativeCrops: alternatives,
		Season:           season,
	}, true
}

func contains(list []string, name string) bool {
	for _, item := range list {
		if item == name {
			return true
		}
	}
	return false
}

func hasReason(reasons []AvoidReason, target AvoidReason) bool {
	for _, r := range reasons {
		if r == target {
			return true
		}
	}
	return false
}
