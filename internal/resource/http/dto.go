package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/slot-booking-backend/internal/resource"
)

// ListResourcesRequest defines query parameters for listing resources.
type ListResourcesRequest struct {
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Category string `form:"category"`
	Query    string `form:"q"`
}

type ResourceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DailyRate   string    `json:"daily_rate"`
	Category    string    `json:"category,omitempty"`
	SKU         string    `json:"sku,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ResourceTag is the short form embedded in other responses.
type ResourceTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewResponse(r *resource.Resource) ResourceResponse {
	return ResourceResponse{
		ID:          r.ID,
		Name:        r.Name,
		DailyRate:   r.DailyRate.String(),
		Category:    r.Category,
		SKU:         r.SKU,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}

type CreateRequest struct {
	Name        string          `json:"name" binding:"required"`
	DailyRate   decimal.Decimal `json:"daily_rate"`
	Category    string          `json:"category"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
}

type UpdateRequest struct {
	Name        *string          `json:"name"`
	DailyRate   *decimal.Decimal `json:"daily_rate"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
}
