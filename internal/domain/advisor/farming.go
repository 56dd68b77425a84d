package advisor

import (
	"math"
	"sort"
)

// farmingTypes scores the five fixed archetypes against a profile. Purely a
// function of the profile; no crop or market data involved.
func farmingTypes(profile FarmerProfile) []FarmingType {
	types := []FarmingType{
		{
			Type:        "Organic Farming",
			Description: "Chemical-free farming using natural inputs and traditional methods",
			Suitability: organicScore(profile),
			Benefits: []string{
				"Premium prices (20-30% higher)",
				"Healthier soil in long term",
				"Lower input costs",
				"Growing market demand",
			},
			Challenges: []string{
				"Lower initial yields",
				"Requires certification (3 years)",
				"More labor-intensive",
			},
			RecommendedCrops: []string{"Rice", "Wheat", "Vegetables", "Pulses", "Turmeric", "Ginger"},
		},
		{
			Type:        "Intensive Farming",
			Description: "High-input farming for maximum yield per acre",
			Suitability: intensiveScore(profile),
			Benefits: []string{
				"Maximum yields",
				"Quick returns",
				"Suitable for commercial farming",
			},
			Challenges: []string{
				"High input costs",
				"Soil degradation risk",
				"Requires consistent water supply",
			},
			RecommendedCrops: []string{"Sugarcane", "Cotton", "Maize", "Potato", "Onion"},
		},
		{
			Type:        "Mixed Farming",
			Description: "Combination of crops and livestock for diversified income",
			Suitability: mixedScore(profile),
			Benefits: []string{
				"Risk diversification",
				"Year-round income",
				"Better resource utilization",
				"Natural pest control",
			},
			Challenges: []string{
				"Requires multiple skills",
				"More management needed",
				"Initial setup costs",
			},
			RecommendedCrops: []string{"Fodder crops", "Pulses", "Millets", "Vegetables"},
		},
		{
			Type:        "Precision Farming",
			Description: "Technology-driven farming using sensors, drones, and data analytics",
			Suitability: precisionScore(profile),
			Benefits: []string{
				"Optimized resource use",
				"Higher efficiency",
				"Better crop monitoring",
				"Reduced wastage",
			},
			Challenges: []string{
				"High initial investment",
				"Requires technical knowledge",
				"Internet connectivity needed",
			},
			RecommendedCrops: []string{"Cotton", "Sugarcane", "Grapes", "Pomegranate", "Banana"},
		},
		{
			Type:        "Sustainable Farming",
			Description: "Balanced approach minimizing environmental impact while maintaining profitability",
			Suitability: sustainableScore(profile),
			Benefits: []string{
				"Long-term soil health",
				"Reduced input costs over time",
				"Climate resilient",
				"Eligible for government schemes",
			},
			Challenges: []string{
				"Requires knowledge of practices",
				"Transition period needed",
			},
			RecommendedCrops: []string{"Millets", "Pulses", "Oilseeds", "Indigenous varieties"},
		},
	}

	sort.SliceStable(types, func(i, j int) bool {
		return types[i].Suitability > types[j].Suitability
	})
	return types
}

func organicScore(p FarmerProfile) float64 {
	score := 0.5
	if p.SoilType == "Loamy" || p.SoilType == "Clay" {
		score += 0.15
	}
	if p.Acreage <= 10 {
		score += 0.1
	}
	if p.Budget >= 30000 {
		score += 0.1
	}
	return math.Min(score, 1)
}

func intensiveScore(p FarmerProfile) float64 {
	score := 0.4
	if p.Budget >= 100000 {
		score += 0.2
	}
	if p.Acreage >= 5 {
		score += 0.15
	}
	if p.SoilType == "Loamy" || p.SoilType == "Alluvial" {
		score += 0.1
	}
	return math.Min(score, 1)
}

func mixedScore(p FarmerProfile) float64 {
	score := 0.55
	if p.Acreage >= 3 && p.Acreage <= 15 {
		score += 0.15
	}
	if p.Budget >= 50000 {
		score += 0.1
	}
	return math.Min(score, 1)
}

func precisionScore(p FarmerProfile) float64 {
	score := 0.3
	if p.Budget >= 200000 {
		score += 0.25
	}
	if p.Acreage >= 10 {
		score += 0.2
	}
	return math.Min(score, 1)
}

func sustainableScore(p FarmerProfile) float64 {
	score := 0.6
	if p.SoilType == "Loamy" || p.SoilType == "Sandy Loam" {
		score += 0.1
	}
	if p.Acreage <= 20 {
		score += 0.1
	}
	if p.Budget >= 40000 {
		score += 0.1
	}
	return math.Min(score, 1)
}
