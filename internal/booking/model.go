package booking

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/slot-booking-backend/internal/pkg/apperror"
)

var (
	ErrInvalidRange     = apperror.New(http.StatusBadRequest, "end date must not be before start date")
	ErrInvalidInput     = apperror.New(http.StatusBadRequest, "invalid input parameters")
	ErrInvalidStatus    = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrInvalidParty     = apperror.New(http.StatusBadRequest, "invalid party reference")
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrResourceNotFound = apperror.New(http.StatusNotFound, "resource not found")
	ErrConflict         = apperror.New(http.StatusConflict, "resource already booked for the requested dates")
	ErrRepository       = apperror.New(http.StatusBadGateway, "booking store unavailable")
)

type Status string

const (
	StatusOnHold        Status = "on_hold"
	StatusSold          Status = "sold"
	StatusConfiguration Status = "configuration"
	StatusDelivered     Status = "delivered"
)

// BlockingStatuses are the statuses that occupy a resource.
var BlockingStatuses = []Status{StatusOnHold, StatusSold, StatusConfiguration}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOnHold, StatusSold, StatusConfiguration, StatusDelivered:
		return true
	}
	return false
}

// Blocking reports whether a booking in status s takes the resource.
func (s Status) Blocking() bool {
	return slices.Contains(BlockingStatuses, s)
}

// ParseStatus converts a wire value into a Status.
func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.Valid() {
		return "", ErrInvalidStatus.WithDetail(fmt.Sprintf("unknown status %q", v))
	}
	return s, nil
}

// Booking is a reservation of one resource over an inclusive date range.
// StartDate and EndDate are calendar dates at UTC midnight.
type Booking struct {
	ID            string
	ResourceID    string
	ResourceName  string
	Name          string
	StartDate     time.Time
	EndDate       time.Time
	DurationDays  int
	DailyRate     decimal.Decimal
	TotalAmount   decimal.Decimal
	Status        Status
	Notes         string
	LinkedParties []Party
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Covers reports whether the booking's inclusive range contains day.
func (b *Booking) Covers(day time.Time) bool {
	d := TruncateDay(day)
	return !d.Before(b.StartDate) && !d.After(b.EndDate)
}

// HasParty reports whether p is already linked.
func (b *Booking) HasParty(p Party) bool {
	for _, linked := range b.LinkedParties {
		if linked == p {
			return true
		}
	}
	return false
}

// DateWindow is an inclusive range of calendar dates.
type DateWindow struct {
	From time.Time
	To   time.Time
}

// NewDateWindow normalizes both ends to calendar dates and checks ordering.
func NewDateWindow(from, to time.Time) (DateWindow, error) {
	w := DateWindow{From: TruncateDay(from), To: TruncateDay(to)}
	if w.To.Before(w.From) {
		return DateWindow{}, ErrInvalidRange
	}
	return w, nil
}

// ConflictError is returned when an enforced create overlaps blocking bookings.
// It matches ErrConflict with errors.Is.
type ConflictError struct {
	Conflicts []*Booking
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %d overlapping booking(s)", ErrConflict.Message, len(e.Conflicts))
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// LinkFailure records a party link that could not be written.
type LinkFailure struct {
	Party Party
	Err   error
}

// CreateResult is the outcome of a create. The booking is persisted even
// when FailedLinks is not empty.
type CreateResult struct {
	Booking     *Booking
	FailedLinks []LinkFailure
}

// Complete reports whether every requested party was linked.
func (r *CreateResult) Complete() bool {
	return len(r.FailedLinks) == 0
}
