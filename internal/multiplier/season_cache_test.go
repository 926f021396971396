package multiplier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/mocks"
)

func TestSeasonCache_ServesFromCache(t *testing.T) {
	ends := testNow.Add(30 * time.Second)
	src := mocks.NewMockMultipliers(t)
	src.On("GetActiveSeasons", mock.Anything, mock.Anything).Return([]domain.SeasonState{
		{Type: "spring", Active: true},
		{Type: "blizzard", Active: true, ExpiresAt: &ends},
	}, nil).Once()

	cache := NewSeasonCache(src, 4, time.Minute)
	ctx := context.Background()

	first, err := cache.Active(ctx, testNow)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	// second lookup is a cache hit; the blizzard has ended in the meantime
	second, err := cache.Active(ctx, testNow.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "spring", second[0].Type)
}

func TestSeasonCache_InvalidateRefetches(t *testing.T) {
	src := mocks.NewMockMultipliers(t)
	src.On("GetActiveSeasons", mock.Anything, mock.Anything).Return([]domain.SeasonState{}, nil).Twice()

	cache := NewSeasonCache(src, 4, time.Minute)
	ctx := context.Background()

	_, err := cache.Active(ctx, testNow)
	require.NoError(t, err)
	cache.Invalidate()
	_, err = cache.Active(ctx, testNow)
	require.NoError(t, err)
}

func TestSeasonCache_ErrorsAreNotCached(t *testing.T) {
	src := mocks.NewMockMultipliers(t)
	src.On("GetActiveSeasons", mock.Anything, mock.Anything).Return(nil, errors.New("timeout")).Once()
	src.On("GetActiveSeasons", mock.Anything, mock.Anything).Return([]domain.SeasonState{{Type: "spring", Active: true}}, nil).Once()

	cache := NewSeasonCache(src, 4, time.Minute)
	ctx := context.Background()

	_, err := cache.Active(ctx, testNow)
	require.Error(t, err)

	seasons, err := cache.Active(ctx, testNow)
	require.NoError(t, err)
	assert.Len(t, seasons, 1)
}

func TestSeasonCache_DisabledWithoutTTL(t *testing.T) {
	src := mocks.NewMockMultipliers(t)
	src.On("GetActiveSeasons", mock.Anything, mock.Anything).Return([]domain.SeasonState{}, nil).Times(3)

	cache := NewSeasonCache(src, 4, 0)
	for i := 0; i < 3; i++ {
		_, err := cache.Active(context.Background(), testNow)
		require.NoError(t, err)
	}
}
