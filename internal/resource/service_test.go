package resource

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepository struct {
	mu       sync.Mutex
	items    map[string]*Resource
	getCalls int
}

func newMemRepository(seed ...*Resource) *memRepository {
	r := &memRepository{items: make(map[string]*Resource)}
	for _, res := range seed {
		r.items[res.ID] = res
	}
	return r
}

func (r *memRepository) Create(_ context.Context, res *Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if res.SKU != "" && existing.SKU == res.SKU {
			return ErrDuplicateSKU
		}
	}
	res.ID = uuid.NewString()
	res.CreatedAt = time.Now().UTC()
	cp := *res
	r.items[res.ID] = &cp
	return nil
}

func (r *memRepository) GetByID(_ context.Context, id string) (*Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	res, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *res
	return &cp, nil
}

func (r *memRepository) List(_ context.Context, filter Filter) ([]*Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Resource
	for _, res := range r.items {
		if filter.Category != "" && res.Category != filter.Category {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(res.Name), strings.ToLower(filter.Query)) {
			continue
		}
		cp := *res
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *memRepository) Update(_ context.Context, res *Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[res.ID]; !ok {
		return ErrNotFound
	}
	cp := *res
	r.items[res.ID] = &cp
	return nil
}

func TestService_Create(t *testing.T) {
	svc := NewService(newMemRepository())
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		res, err := svc.Create(ctx, CreateRequest{
			Name:      "  Billboard A ",
			DailyRate: decimal.RequireFromString("150.50"),
			Category:  "outdoor",
			SKU:       "BB-A",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, res.ID)
		assert.Equal(t, "Billboard A", res.Name)
		assert.True(t, res.DailyRate.Equal(decimal.RequireFromString("150.5")))
	})

	t.Run("EmptyName", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{Name: "   ", DailyRate: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("NegativeRate", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{Name: "Studio", DailyRate: decimal.NewFromInt(-1)})
		assert.ErrorIs(t, err, ErrNegativeRate)
	})

	t.Run("DuplicateSKU", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{Name: "Billboard B", SKU: "BB-A"})
		assert.ErrorIs(t, err, ErrDuplicateSKU)
	})
}

func TestService_List(t *testing.T) {
	repo := newMemRepository(
		&Resource{ID: "r-1", Name: "Billboard", Category: "outdoor"},
		&Resource{ID: "r-2", Name: "Studio", Category: "indoor"},
		&Resource{ID: "r-3", Name: "Airport Screen", Category: "outdoor"},
	)
	svc := NewService(repo)
	ctx := context.Background()

	t.Run("DefaultLimit", func(t *testing.T) {
		items, err := svc.List(ctx, Filter{})
		require.NoError(t, err)
		assert.Len(t, items, 3)
		assert.Equal(t, "Airport Screen", items[0].Name)
	})

	t.Run("Category", func(t *testing.T) {
		items, err := svc.List(ctx, Filter{Category: "outdoor"})
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("Limit", func(t *testing.T) {
		items, err := svc.List(ctx, Filter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("InvalidLimit", func(t *testing.T) {
		_, err := svc.List(ctx, Filter{Limit: MaxListLimit + 1})
		assert.ErrorIs(t, err, ErrInvalidListLimit)

		_, err = svc.List(ctx, Filter{Limit: -1})
		assert.ErrorIs(t, err, ErrInvalidListLimit)
	})
}

func TestService_Update(t *testing.T) {
	repo := newMemRepository(&Resource{ID: "r-1", Name: "Billboard", DailyRate: decimal.NewFromInt(100)})
	svc := NewService(repo)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rate := decimal.RequireFromString("120.25")
		name := "Billboard North"
		res, err := svc.Update(ctx, "r-1", UpdateRequest{Name: &name, DailyRate: &rate})
		require.NoError(t, err)
		assert.Equal(t, "Billboard North", res.Name)
		assert.True(t, res.DailyRate.Equal(rate))
	})

	t.Run("NotFound", func(t *testing.T) {
		name := "x"
		_, err := svc.Update(ctx, "missing", UpdateRequest{Name: &name})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("NegativeRate", func(t *testing.T) {
		rate := decimal.NewFromInt(-5)
		_, err := svc.Update(ctx, "r-1", UpdateRequest{DailyRate: &rate})
		assert.ErrorIs(t, err, ErrNegativeRate)
	})

	t.Run("BlankName", func(t *testing.T) {
		name := " "
		_, err := svc.Update(ctx, "r-1", UpdateRequest{Name: &name})
		assert.ErrorIs(t, err, ErrEmptyName)
	})
}
