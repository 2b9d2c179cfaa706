package resource

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/slot-booking-backend/internal/pkg/cache"
)

const cacheKeyPrefix = "resource:"

// cachedRepository serves GetByID from the cache. Lists always hit the store.
type cachedRepository struct {
	next   Repository
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedRepository wraps repo with a read-through cache on single lookups.
func NewCachedRepository(repo Repository, c cache.Cache, ttl time.Duration, logger *zap.Logger) Repository {
	return &cachedRepository{next: repo, cache: c, ttl: ttl, logger: logger}
}

func (r *cachedRepository) Create(ctx context.Context, res *Resource) error {
	return r.next.Create(ctx, res)
}

func (r *cachedRepository) GetByID(ctx context.Context, id string) (*Resource, error) {
	key := cacheKeyPrefix + id

	var cached Resource
	err := cache.GetJSON(ctx, r.cache, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		r.logger.Warn("resource cache read failed", zap.String("resource_id", id), zap.Error(err))
	}

	res, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, r.cache, key, res, r.ttl); err != nil {
		r.logger.Warn("resource cache write failed", zap.String("resource_id", id), zap.Error(err))
	}
	return res, nil
}

func (r *cachedRepository) List(ctx context.Context, filter Filter) ([]*Resource, error) {
	return r.next.List(ctx, filter)
}

func (r *cachedRepository) Update(ctx context.Context, res *Resource) error {
	if err := r.next.Update(ctx, res); err != nil {
		return err
	}
	if err := r.cache.Delete(ctx, cacheKeyPrefix+res.ID); err != nil {
		r.logger.Warn("resource cache invalidation failed", zap.String("resource_id", res.ID), zap.Error(err))
	}
	return nil
}
