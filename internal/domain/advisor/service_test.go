package advisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fasalmitra/crop-advisor/internal/domain/market"
	apperrors "github.com/fasalmitra/crop-advisor/pkg/errors"
)

type stubCatalog struct {
	observations []CropObservation
	err          error
}

func (s *stubCatalog) Observations(ctx context.Context) ([]CropObservation, error) {
	return s.observations, s.err
}

type stubPrices struct {
	quotes map[string]market.Quote
	calls  int
}

func (s *stubPrices) Quotes(ctx context.Context, commodities []string) map[string]market.Quote {
	s.calls++
	out := make(map[string]market.Quote, len(commodities))
	for _, name := range commodities {
		if q, ok := s.quotes[name]; ok {
			out[name] = q
		} else {
			out[name] = market.Quote{Commodity: name, Price: market.FallbackPrice(name), Source: market.SourceMSP}
		}
	}
	return out
}

type stubHistory struct {
	recorded []HistoryEntry
	err      error
}

func (s *stubHistory) Record(ctx context.Context, entry HistoryEntry) error {
	if s.err != nil {
		return s.err
	}
	s.recorded = append(s.recorded, entry)
	return nil
}

func (s *stubHistory) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	if limit > len(s.recorded) {
		limit = len(s.recorded)
	}
	return s.recorded[:limit], nil
}

func newTestService(catalog Catalog, prices market.Service, history HistoryRepository) *service {
	return &service{
		rulebook: DefaultRulebook(),
		catalog:  catalog,
		prices:   prices,
		history:  history,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func testObservations() []CropObservation {
	return []CropObservation{
		obs("Rice", "Kharif", "Karnataka", 4.0, 120, 25),
		obs("Ragi", "Kharif", "Karnataka", 2.5, 60, 8),
		obs("Maize", "Kharif", "Karnataka", 5.0, 140, 30),
		obs("Onion", "Rabi", "Karnataka", 1.0, 100, 10),
	}
}

func TestRecommendEndToEnd(t *testing.T) {
	catalog := &stubCatalog{observations: testObservations()}
	prices := &stubPrices{}
	history := &stubHistory{}
	svc := newTestService(catalog, prices, history)

	profile := FarmerProfile{State: "Karnataka", Season: "Kharif", Acreage: 2, Budget: 100000}
	advice, err := svc.Recommend(context.Background(), profile)

	require.NoError(t, err)
	require.NotEmpty(t, advice.Recommendations)
	require.Equal(t, 1, prices.calls)

	// Flagged crops never overlap the recommendations.
	recommended := map[string]struct{}{}
	for _, r := range advice.Recommendations {
		recommended[r.Name] = struct{}{}
	}
	for _, a := range advice.CropsToAvoid {
		_, overlap := recommended[a.Name]
		require.False(t, overlap, "crop %s both recommended and flagged", a.Name)
	}

	// The pass is persisted with at most five crops.
	require.Len(t, history.recorded, 1)
	require.NotEmpty(t, history.recorded[0].ID)
	require.LessOrEqual(t, len(history.recorded[0].TopCrops), 5)
	require.Equal(t, profile, history.recorded[0].Profile)
}

func TestRecommendValidatesProfile(t *testing.T) {
	svc := newTestService(&stubCatalog{observations: testObservations()}, &stubPrices{}, &stubHistory{})

	cases := []FarmerProfile{
		{State: "", Acreage: 1, Budget: 1000},
		{State: "Karnataka", Acreage: 0, Budget: 1000},
		{State: "Karnataka", Acreage: 1, Budget: -5},
	}
	for _, profile := range cases {
		_, err := svc.Recommend(context.Background(), profile)
		require.Error(t, err)
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	}
}

func TestRecommendDatasetError(t *testing.T) {
	svc := newTestService(&stubCatalog{err: errors.New("disk gone")}, &stubPrices{}, &stubHistory{})

	_, err := svc.Recommend(context.Background(), FarmerProfile{State: "Karnataka", Acreage: 1, Budget: 1000})

	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeDatasetError))
}

func TestRecommendSurvivesHistoryFailure(t *testing.T) {
	history := &stubHistory{err: errors.New("db down")}
	svc := newTestService(&stubCatalog{observations: testObservations()}, &stubPrices{}, history)

	advice, err := svc.Recommend(context.Background(), FarmerProfile{State: "Karnataka", Acreage: 1, Budget: 50000})

	require.NoError(t, err)
	require.NotEmpty(t, advice.Recommendations)
}

func TestCropsSortedAndCounted(t *testing.T) {
	svc := newTestService(&stubCatalog{observations: testObservations()}, &stubPrices{}, &stubHistory{})

	crops, err := svc.Crops(context.Background())

	require.NoError(t, err)
	require.Len(t, crops, 4)
	for i := 1; i < len(crops); i++ {
		require.Less(t, crops[i-1].Name, crops[i].Name)
	}
}

func TestCropDetail(t *testing.T) {
	svc := newTestService(&stubCatalog{observations: testObservations()}, &stubPrices{}, &stubHistory{})

	detail, err := svc.Crop(context.Background(), "rice")
	require.NoError(t, err)
	require.Equal(t, "Rice", detail.Name)
	require.Equal(t, 4.0, detail.MedianYield)
	require.Equal(t, market.FallbackPrice("Rice"), detail.MSPPrice)

	_, err = svc.Crop(context.Background(), "Quinoa")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	_, err = svc.Crop(context.Background(), "   ")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestFarmingTypesRequiresValidProfile(t *testing.T) {
	svc := newTestService(&stubCatalog{}, &stubPrices{}, &stubHistory{})

	_, err := svc.FarmingTypes(context.Background(), FarmerProfile{})
	require.Error(t, err)

	types, err := svc.FarmingTypes(context.Background(), FarmerProfile{State: "Punjab", Acreage: 3, Budget: 50000})
	require.NoError(t, err)
	require.Len(t, types, 5)
}
