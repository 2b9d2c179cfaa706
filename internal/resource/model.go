package resource

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/slot-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "resource not found")
	ErrEmptyName        = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrNegativeRate     = apperror.New(http.StatusBadRequest, "daily rate cannot be negative")
	ErrDuplicateSKU     = apperror.New(http.StatusConflict, "sku already in use")
	ErrRepository       = apperror.New(http.StatusBadGateway, "resource store unavailable")
	ErrInvalidListLimit = apperror.New(http.StatusBadRequest, "limit must be between 1 and 500")
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// Resource represents a bookable product (e.g., a billboard, a studio, a demo unit).
// It is read-only from the booking core's point of view.
type Resource struct {
	ID          string
	Name        string
	DailyRate   decimal.Decimal
	Category    string
	SKU         string
	Description string
	CreatedAt   time.Time
}

// Filter defines parameters for listing resources.
type Filter struct {
	Limit    int
	Category string
	Query    string // case-insensitive match on name or sku
}
