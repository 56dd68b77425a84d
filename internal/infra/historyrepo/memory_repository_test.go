package historyrepo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fasalmitra/crop-advisor/internal/domain/advisor"
)

func entry(id string) advisor.HistoryEntry {
	return advisor.HistoryEntry{
		ID:        id,
		Profile:   advisor.FarmerProfile{State: "Karnataka", Acreage: 2, Budget: 50000},
		TopCrops:  []advisor.HistoryCrop{{Name: "Rice", Score: 0.8}},
		CreatedAt: time.Now(),
	}
}

func TestMemoryRepositoryNewestFirst(t *testing.T) {
	repo := NewMemoryRepository(0)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Record(context.Background(), entry(fmt.Sprintf("id-%d", i))))
	}

	entries, err := repo.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "id-2", entries[0].ID)
	require.Equal(t, "id-0", entries[2].ID)
}

func TestMemoryRepositoryLimit(t *testing.T) {
	repo := NewMemoryRepository(0)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Record(context.Background(), entry(fmt.Sprintf("id-%d", i))))
	}

	entries, err := repo.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "id-4", entries[0].ID)
}

func TestMemoryRepositoryEvictsOldest(t *testing.T) {
	repo := NewMemoryRepository(2)
	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Record(context.Background(), entry(fmt.Sprintf("id-%d", i))))
	}

	entries, err := repo.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "id-3", entries[0].ID)
	require.Equal(t, "id-2", entries[1].ID)
}
