package advisor

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"

	"github.com/fasalmitra/crop-advisor/internal/domain/market"
	apperrors "github.com/fasalmitra/crop-advisor/pkg/errors"
	"github.com/fasalmitra/crop-advisor/pkg/util"
)

// Service exposes the crop advisory capabilities.
type Service interface {
	Recommend(ctx context.Context, profile FarmerProfile) (Advice, error)
	FarmingTypes(ctx context.Context, profile FarmerProfile) ([]FarmingType, error)
	Crops(ctx context.Context) ([]CropSummary, error)
	Crop(ctx context.Context, name string) (CropDetail, error)
	History(ctx context.Context, limit int) ([]HistoryEntry, error)
}

// Catalog serves the parsed historical dataset.
type Catalog interface {
	Observations(ctx context.Context) ([]CropObservation, error)
}

// HistoryRepository persists completed recommendation passes.
type HistoryRepository interface {
	Record(ctx context.Context, entry HistoryEntry) error
	Recent(ctx context.Context, limit int) ([]HistoryEntry, error)
}

type service struct {
	rulebook Rulebook
	catalog  Catalog
	prices   market.Service
	history  HistoryRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires up the advisory domain.
func NewService(rulebook Rulebook, catalog Catalog, prices market.Service, history HistoryRepository, logger *slog.Logger) Service {
	return &service{
		rulebook: rulebook,
		catalog:  catalog,
		prices:   prices,
		history:  history,
		logger:   logger.With("component", "advisor.service"),
		now:      util.NowUTC,
	}
}

func (s *service) Recommend(ctx context.Context, profile FarmerProfile) (Advice, error) {
	if err := validateProfile(profile); err != nil {
		return Advice{}, err
	}

	observations, err := s.loadObservations(ctx)
	if err != nil {
		return Advice{}, err
	}

	quotes := s.prices.Quotes(ctx, distinctCrops(observations))
	s.logger.Info("market quotes resolved", "requested", len(quotes))

	recommendations := recommendCrops(s.rulebook, observations, profile, quotes)
	avoid := identifyCropsToAvoid(s.rulebook, observations, profile, quotes, recommendations)

	s.recordPass(ctx, profile, recommendations)
	s.logger.Info("recommendation pass complete",
		"state", profile.State, "season", profile.Season,
		"recommendations", len(recommendations), "cropsToAvoid", len(avoid))

	return Advice{Recommendations: recommendations, CropsToAvoid: avoid}, nil
}

func (s *service) FarmingTypes(_ context.Context, profile FarmerProfile) ([]FarmingType, error) {
	if err := validateProfile(profile); err != nil {
		return nil, err
	}
	return farmingTypes(profile), nil
}

func (s *service) Crops(ctx context.Context) ([]CropSummary, error) {
	observations, err := s.loadObservations(ctx)
	if err != nil {
		return nil, err
	}
	groups, order := groupByCrop(observations)
	out := make([]CropSummary, 0, len(order))
	for _, name := range order {
		out = append(out, CropSummary{Name: name, Observations: len(groups[name])})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *service) Crop(ctx context.Context, name string) (CropDetail, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return CropDetail{}, apperrors.Wrap(apperrors.CodeInvalidInput, "crop name cannot be empty", nil)
	}

	observations, err := s.loadObservations(ctx)
	if err != nil {
		return CropDetail{}, err
	}

	var (
		group     []CropObservation
		canonical string
	)
	for _, o := range observations {
		if strings.EqualFold(o.Crop, trimmed) {
			group = append(group, o)
			canonical = o.Crop
		}
	}
	if len(group) == 0 {
		return CropDetail{}, apperrors.Wrap(apperrors.CodeNotFound, "crop not present in dataset", nil)
	}

	yields := make([]float64, len(group))
	fertilizers := make([]float64, len(group))
	pesticides := make([]float64, len(group))
	rainfalls := make([]float64, len(group))
	seasons := make(map[string]struct{})
	states := make(map[string]struct{})
	for i, o := range group {
		yields[i] = o.YieldPerHectare
		fertilizers[i] = o.FertilizerPerHectare
		pesticides[i] = o.PesticidePerHectare
		rainfalls[i] = o.RainfallMm
		if o.Season != "" {
			seasons[o.Season] = struct{}{}
		}
		if o.State != "" {
			states[o.State] = struct{}{}
		}
	}
	medYield, _ := stats.Median(yields)
	avgFertilizer, _ := stats.Mean(fertilizers)
	avgPesticide, _ := stats.Mean(pesticides)
	avgRainfall, _ := stats.Mean(rainfalls)

	return CropDetail{
		Name:          canonical,
		MedianYield:   round2(medYield),
		Seasons:       sortedKeys(seasons),
		States:        sortedKeys(states),
		Observations:  len(group),
		AvgFertilizer: round2(avgFertilizer),
		AvgPesticide:  round2(avgPesticide),
		AvgRainfallMm: round2(avgRainfall),
		MSPPrice:      market.FallbackPrice(canonical),
	}, nil
}

func (s *service) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	entries, err := s.history.Recent(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageError, "failed to load recommendation history", err)
	}
	return entries, nil
}

func (s *service) loadObservations(ctx context.Context) ([]CropObservation, error) {
	observations, err := s.catalog.Observations(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatasetError, "failed to load crop dataset", err)
	}
	if len(observations) == 0 {
		return nil, apperrors.Wrap(apperrors.CodeDatasetError, "crop dataset is empty", nil)
	}
	return observations, nil
}

// recordPass is best effort; a storage hiccup never fails the recommendation.
func (s *service) recordPass(ctx context.Context, profile FarmerProfile, recommendations []CropRecommendation) {
	if len(recommendations) == 0 {
		return
	}
	top := recommendations
	if len(top) > 5 {
		top = top[:5]
	}
	entry := HistoryEntry{
		ID:        uuid.NewString(),
		Profile:   profile,
		CreatedAt: s.now(),
	}
	for _, r := range top {
		entry.TopCrops = append(entry.TopCrops, HistoryCrop{Name: r.Name, Score: r.Score})
	}
	if err := s.history.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to record recommendation history", "error", err)
	}
}

func validateProfile(profile FarmerProfile) error {
	if strings.TrimSpace(profile.State) == "" {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "state cannot be empty", nil)
	}
	if profile.Acreage <= 0 {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "acreage must be positive", nil)
	}
	if profile.Budget < 0 {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "budget cannot be negative", nil)
	}
	return nil
}

func distinctCrops(observations []CropObservation) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, o := range observations {
		if _, ok := seen[o.Crop]; ok {
			continue
		}
		seen[o.Crop] = struct{}{}
		out = append(out, o.Crop)
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
