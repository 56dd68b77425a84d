package advisor

import (
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/fasalmitra/crop-advisor/internal/domain/market"
)

// recommendCrops runs the full scoring pipeline: filter cascade, per-crop
// aggregation, economics, scoring and budget relaxation.
func recommendCrops(rb Rulebook, observations []CropObservation, profile FarmerProfile, quotes map[string]market.Quote) []CropRecommendation {
	filtered := filterObservations(observations, profile)

	groups, order := groupByCrop(filtered)

	candidates := make([]CropRecommendation, 0, len(order))
	for _, name := range order {
		candidates = append(candidates, scoreCrop(rb, name, groups[name], profile, quotes))
	}

	result := relaxBudget(candidates, profile.Budget)

	if profile.MultipleCrops {
		return composeIntercropping(rb, result)
	}
	if len(result) > 8 {
		result = result[:8]
	}
	return result
}

// filterObservations applies the relaxation cascade: each stage runs only if
// the previous one matched nothing.
func filterObservations(observations []CropObservation, profile FarmerProfile) []CropObservation {
	state := normalizeName(profile.State)
	season := normalizeName(profile.Season)

	stages := []func(CropObservation) bool{
		func(o CropObservation) bool {
			return normalizeName(o.State) == state && seasonMatches(o.Season, season)
		},
		func(o CropObservation) bool {
			return normalizeName(o.State) == state
		},
		func(o CropObservation) bool {
			os := normalizeName(o.State)
			return strings.Contains(os, state) || strings.Contains(state, os)
		},
	}
	if season != "" {
		stages = append(stages, func(o CropObservation) bool {
			return seasonContains(o.Season, season)
		})
	}

	for _, match := range stages {
		var out []CropObservation
		for _, o := range observations {
			if match(o) {
				out = append(out, o)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	// Nationwide fallback.
	return observations
}

func seasonMatches(observed, requested string) bool {
	if requested == "" {
		return true
	}
	return seasonContains(observed, requested)
}

func seasonContains(observed, requested string) bool {
	s := normalizeName(observed)
	return strings.Contains(s, requested) || strings.Contains(s, "whole year")
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// groupByCrop preserves first-appearance order so the output is deterministic.
func groupByCrop(observations []CropObservation) (map[string][]CropObservation, []string) {
	groups := make(map[string][]CropObservation)
	var order []string
	for _, o := range observations {
		if _, ok := groups[o.Crop]; !ok {
			order = append(order, o.Crop)
		}
		groups[o.Crop] = append(groups[o.Crop], o)
	}
	return groups, order
}

func scoreCrop(rb Rulebook, name string, group []CropObservation, profile FarmerProfile, quotes map[string]market.Quote) CropRecommendation {
	yields := make([]float64, len(group))
	fertilizers := make([]float64, len(group))
	pesticides := make([]float64, len(group))
	for i, o := range group {
		yields[i] = o.YieldPerHectare
		fertilizers[i] = o.FertilizerPerHectare
		pesticides[i] = o.PesticidePerHectare
	}

	// Median stabilizes yield against outlier harvests; inputs use the mean.
	medYield, _ := stats.Median(yields)
	avgFertilizer, _ := stats.Mean(fertilizers)
	avgPesticide, _ := stats.Mean(pesticides)

	season := strings.TrimSpace(group[0].Season)
	if season == "" {
		season = "Whole Year"
	}

	fertilizerCost := math.Max(avgFertilizer*rb.Costs.FertilizerRate, rb.Costs.FertilizerFloor)
	pesticideCost := math.Max(avgPesticide*rb.Costs.PesticideRate, rb.Costs.PesticideFloor)
	costPerHectare := fertilizerCost + pesticideCost + rb.Costs.Labor + rb.Costs.Seed
	totalCost := costPerHectare * profile.Acreage

	price, source := resolvePrice(name, quotes)

	// Yield is tonnes/ha; prices are per quintal.
	revenuePerHectare := medYield * 10 * price
	totalRevenue := revenuePerHectare * profile.Acreage
	profit := totalRevenue - totalCost

	budgetScore := 1.0
	if totalCost > profile.Budget && totalCost > 0 {
		budgetScore = clamp01(profile.Budget / totalCost)
	}
	profitScore := 0.0
	if profit > 0 {
		profitScore = clamp01(profit / 200000)
	}
	yieldScore := clamp01(medYield / 10)
	roiScore := 0.0
	if totalCost > 0 {
		roiScore = clamp01(profit / totalCost)
	}

	score := rb.Weights.Budget*budgetScore + rb.Weights.Profit*profitScore +
		rb.Weights.Yield*yieldScore + rb.Weights.ROI*roiScore

	return CropRecommendation{
		Name:             name,
		YieldTonnes:      round2(medYield * profile.Acreage),
		EstimatedRevenue: math.Round(totalRevenue),
		EstimatedCost:    math.Round(totalCost),
		Profit:           math.Round(profit),
		CostBreakdown: CostBreakdown{
			Fertilizer: math.Round(fertilizerCost * profile.Acreage),
			Pesticide:  math.Round(pesticideCost * profile.Acreage),
			Labor:      math.Round(rb.Costs.Labor * profile.Acreage),
			Seed:       math.Round(rb.Costs.Seed * profile.Acreage),
		},
		Score:       round3(score),
		Season:      season,
		LivePrice:   price,
		PriceSource: source,
	}
}

func resolvePrice(crop string, quotes map[string]market.Quote) (float64, string) {
	if q, ok := quotes[crop]; ok && q.Price > 0 {
		return q.Price, q.Source
	}
	return market.FallbackPrice(crop), market.SourceMSP
}

// relaxBudget widens the affordability filter until enough candidates survive:
// 1.5x budget, then 3x, then no budget filter at all with profitable crops
// sorted first.
func relaxBudget(candidates []CropRecommendation, budget float64) []CropRecommendation {
	result := filterByCost(candidates, budget*1.5)
	sortByScore(result)

	if len(result) < 5 {
		result = filterByCost(candidates, budget*3)
		sortByScore(result)
	}

	if len(result) < 3 && len(candidates) > 0 {
		result = make([]CropRecommendation, len(candidates))
		copy(result, candidates)
		sort.SliceStable(result, func(i, j int) bool {
			pi, pj := result[i].Profit > 0, result[j].Profit > 0
			if pi != pj {
				return pi
			}
			return result[i].Score > result[j].Score
		})
	}
	return result
}

func filterByCost(candidates []CropRecommendation, limit float64) []CropRecommendation {
	out := make([]CropRecommendation, 0, len(candidates))
	for _, c := range candidates {
		if c.EstimatedCost <= limit {
			out = append(out, c)
		}
	}
	return out
}

func sortByScore(recs []CropRecommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
}

// composeIntercropping keeps the top crop, then admits companions from the
// compatibility table (minimum three crops regardless), boosting admitted
// companions, and finally backfills to eight with remaining high scorers.
func composeIntercropping(rb Rulebook, ranked []CropRecommendation) []CropRecommendation {
	if len(ranked) == 0 {
		return ranked
	}

	selected := []CropRecommendation{ranked[0]}
	used := map[string]struct{}{ranked[0].Name: {}}

	for _, candidate := range ranked[1:] {
		if len(selected) >= 6 {
			break
		}
		if _, ok := used[candidate.Name]; ok {
			continue
		}

		companion := false
		for _, picked := range selected {
			if cropsCompatible(rb, picked.Name, candidate.Name) {
				companion = true
				break
			}
		}

		if companion || len(selected) < 3 {
			if companion {
				candidate.Score = round3(math.Min(candidate.Score*1.1, 1))
				candidate.FarmingType = "Intercropping Compatible"
			}
			selected = append(selected, candidate)
			used[candidate.Name] = struct{}{}
		}
	}

	for _, candidate := range ranked {
		if len(selected) >= 8 {
			break
		}
		if _, ok := used[candidate.Name]; ok {
			continue
		}
		selected = append(selected, candidate)
		used[candidate.Name] = struct{}{}
	}

	return selected
}

// cropsCompatible checks the companion table in both directions, matching by
// substring so dataset naming variants still pair up.
func cropsCompatible(rb Rulebook, a, b string) bool {
	for _, companion := range rb.CompanionCrops[a] {
		if strings.Contains(b, companion) || strings.Contains(companion, b) {
			return true
		}
	}
	for _, companion := range rb.CompanionCrops[b] {
		if strings.Contains(a, companion) || strings.Contains(companion, a) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
