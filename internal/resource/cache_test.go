package resource

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nekogravitycat/slot-booking-backend/internal/pkg/cache"
)

func TestCachedRepository_GetByID(t *testing.T) {
	backing := newMemRepository(&Resource{ID: "r-1", Name: "Billboard", DailyRate: decimal.RequireFromString("99.95")})
	repo := NewCachedRepository(backing, cache.NewInMemory(), time.Minute, zap.NewNop())
	ctx := context.Background()

	first, err := repo.GetByID(ctx, "r-1")
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, "r-1")
	require.NoError(t, err)

	assert.Equal(t, 1, backing.getCalls)
	assert.Equal(t, first.Name, second.Name)
	assert.True(t, second.DailyRate.Equal(decimal.RequireFromString("99.95")))
}

func TestCachedRepository_NotFoundIsNotCached(t *testing.T) {
	backing := newMemRepository()
	repo := NewCachedRepository(backing, cache.NewInMemory(), time.Minute, zap.NewNop())
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, backing.getCalls)
}

func TestCachedRepository_UpdateInvalidates(t *testing.T) {
	backing := newMemRepository(&Resource{ID: "r-1", Name: "Billboard", DailyRate: decimal.NewFromInt(100)})
	repo := NewCachedRepository(backing, cache.NewInMemory(), time.Minute, zap.NewNop())
	ctx := context.Background()

	res, err := repo.GetByID(ctx, "r-1")
	require.NoError(t, err)

	res.DailyRate = decimal.NewFromInt(140)
	require.NoError(t, repo.Update(ctx, res))

	fresh, err := repo.GetByID(ctx, "r-1")
	require.NoError(t, err)
	assert.True(t, fresh.DailyRate.Equal(decimal.NewFromInt(140)))
	assert.Equal(t, 2, backing.getCalls)
}
