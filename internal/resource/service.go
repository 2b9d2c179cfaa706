package resource

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	Name        string
	DailyRate   decimal.Decimal
	Category    string
	SKU         string
	Description string
}

type UpdateRequest struct {
	Name        *string
	DailyRate   *decimal.Decimal
	Category    *string
	Description *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Resource, error)
	GetByID(ctx context.Context, id string) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Resource, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Resource, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if req.DailyRate.IsNegative() {
		return nil, ErrNegativeRate
	}

	res := &Resource{
		Name:        strings.TrimSpace(req.Name),
		DailyRate:   req.DailyRate,
		Category:    strings.TrimSpace(req.Category),
		SKU:         strings.TrimSpace(req.SKU),
		Description: req.Description,
	}

	if err := s.repo.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Resource, error) {
	if filter.Limit == 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit < 1 || filter.Limit > MaxListLimit {
		return nil, ErrInvalidListLimit
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Resource, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		res.Name = strings.TrimSpace(*req.Name)
	}
	// Existing bookings keep their rate snapshot; only new bookings see the new rate.
	if req.DailyRate != nil {
		if req.DailyRate.IsNegative() {
			return nil, ErrNegativeRate
		}
		res.DailyRate = *req.DailyRate
	}
	if req.Category != nil {
		res.Category = strings.TrimSpace(*req.Category)
	}
	if req.Description != nil {
		res.Description = *req.Description
	}

	if err := s.repo.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}
