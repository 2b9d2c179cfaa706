package http

import (
	"time"

	"github.com/nekogravitycat/slot-booking-backend/internal/booking"
	"github.com/nekogravitycat/slot-booking-backend/internal/pkg/request"
	resHttp "github.com/nekogravitycat/slot-booking-backend/internal/resource/http"
)

type PartyDTO struct {
	Type string `json:"type" binding:"required,oneof=deal contact company"`
	ID   string `json:"id" binding:"required"`
}

func toParties(dtos []PartyDTO) []booking.Party {
	parties := make([]booking.Party, len(dtos))
	for i, p := range dtos {
		parties[i] = booking.Party{Type: booking.PartyType(p.Type), ID: p.ID}
	}
	return parties
}

type BookingResponse struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Resource           resHttp.ResourceTag `json:"resource"`
	StartDate          string              `json:"start_date"`
	EndDate            string              `json:"end_date"`
	DurationDays       int                 `json:"duration_days"`
	DailyRate          string              `json:"daily_rate"`
	TotalAmount        string              `json:"total_amount"`
	TotalAmountDisplay string              `json:"total_amount_display"`
	Status             string              `json:"status"`
	Notes              string              `json:"notes,omitempty"`
	Parties            []PartyDTO          `json:"parties"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	parties := make([]PartyDTO, len(b.LinkedParties))
	for i, p := range b.LinkedParties {
		parties[i] = PartyDTO{Type: string(p.Type), ID: p.ID}
	}
	return BookingResponse{
		ID:                 b.ID,
		Name:               b.Name,
		Resource:           resHttp.ResourceTag{ID: b.ResourceID, Name: b.ResourceName},
		StartDate:          request.FormatDate(b.StartDate),
		EndDate:            request.FormatDate(b.EndDate),
		DurationDays:       b.DurationDays,
		DailyRate:          b.DailyRate.String(),
		TotalAmount:        b.TotalAmount.String(),
		TotalAmountDisplay: booking.FormatAmount(b.TotalAmount),
		Status:             string(b.Status),
		Notes:              b.Notes,
		Parties:            parties,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func newBookingResponses(bookings []*booking.Booking) []BookingResponse {
	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	return items
}

type FailedLinkResponse struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Error string `json:"error"`
}

func newFailedLinks(failures []booking.LinkFailure) []FailedLinkResponse {
	if len(failures) == 0 {
		return nil
	}
	out := make([]FailedLinkResponse, len(failures))
	for i, f := range failures {
		out[i] = FailedLinkResponse{Type: string(f.Party.Type), ID: f.Party.ID, Error: f.Err.Error()}
	}
	return out
}

// CreateBookingResponse carries the booking and any party links that failed.
type CreateBookingResponse struct {
	Booking     BookingResponse      `json:"booking"`
	FailedLinks []FailedLinkResponse `json:"failed_links,omitempty"`
}

type ConflictResponse struct {
	Error     string            `json:"error"`
	Conflicts []BookingResponse `json:"conflicts"`
}

type CreateBookingRequest struct {
	ResourceID string     `json:"resource_id" binding:"required,uuid"`
	StartDate  string     `json:"start_date" binding:"required"`
	EndDate    string     `json:"end_date" binding:"required"`
	Parties    []PartyDTO `json:"parties" binding:"omitempty,dive"`
	Notes      string     `json:"notes"`
	// Overrides the server default when set.
	EnforceAvailability *bool `json:"enforce_availability"`
}

// Dates parses the start and end dates.
func (r *CreateBookingRequest) Dates() (time.Time, time.Time, error) {
	return parseRange("start_date", r.StartDate, "end_date", r.EndDate)
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type RetryLinksRequest struct {
	Parties []PartyDTO `json:"parties" binding:"required,min=1,dive"`
}

type AvailabilityRequest struct {
	ResourceID string `form:"resource_id" binding:"required,uuid"`
	StartDate  string `form:"start_date" binding:"required"`
	EndDate    string `form:"end_date" binding:"required"`
}

type AvailabilityResponse struct {
	Available bool              `json:"available"`
	Conflicts []BookingResponse `json:"conflicts"`
}

// ListForResourceRequest narrows a resource's bookings to a date window.
// Either both bounds are given or neither.
type ListForResourceRequest struct {
	From string `form:"from"`
	To   string `form:"to"`
}

func (r *ListForResourceRequest) Window() (*booking.DateWindow, error) {
	if r.From == "" && r.To == "" {
		return nil, nil
	}
	if r.From == "" || r.To == "" {
		return nil, booking.ErrInvalidInput.WithDetail("from and to must be given together")
	}
	from, to, err := parseRange("from", r.From, "to", r.To)
	if err != nil {
		return nil, err
	}
	return &booking.DateWindow{From: from, To: to}, nil
}

type PartyURIRequest struct {
	Type string `uri:"type" binding:"required,oneof=deal contact company"`
	ID   string `uri:"id" binding:"required"`
}

func parseRange(startField, startValue, endField, endValue string) (time.Time, time.Time, error) {
	start, err := request.ParseDate(startField, startValue)
	if err != nil {
		return time.Time{}, time.Time{}, booking.ErrInvalidInput.WithDetail(err.Error())
	}
	end, err := request.ParseDate(endField, endValue)
	if err != nil {
		return time.Time{}, time.Time{}, booking.ErrInvalidInput.WithDetail(err.Error())
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, booking.ErrInvalidRange
	}
	return start, end, nil
}
