package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nekogravitycat/slot-booking-backend/internal/events"
	"github.com/nekogravitycat/slot-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/slot-booking-backend/internal/resource"
)

const DefaultLinkConcurrency = 4

type CreateRequest struct {
	ResourceID string
	Parties    []Party
	StartDate  time.Time
	EndDate    time.Time
	Notes      string

	// EnforceAvailability rejects the create with a *ConflictError when a
	// blocking booking overlaps. Checked and written under the resource guard.
	EnforceAvailability bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*CreateResult, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	ListForResource(ctx context.Context, resourceID string, window *DateWindow) ([]*Booking, error)
	ListForParty(ctx context.Context, party Party) ([]*Booking, error)
	ListInWindow(ctx context.Context, window DateWindow) ([]*Booking, error)
	CheckAvailability(ctx context.Context, resourceID string, start, end time.Time) (*Availability, error)
	RetryLinks(ctx context.Context, bookingID string, parties []Party) ([]LinkFailure, error)
}

// ResourceGetter is the part of the resource catalogue bookings depend on.
type ResourceGetter interface {
	GetByID(ctx context.Context, id string) (*resource.Resource, error)
}

// Recorder receives booking metrics.
type Recorder interface {
	BookingCreated(enforced bool)
	BookingConflict()
	PartyLinkFailed(partyType string)
	StatusUpdated(status string)
}

type nopRecorder struct{}

func (nopRecorder) BookingCreated(bool)    {}
func (nopRecorder) BookingConflict()       {}
func (nopRecorder) PartyLinkFailed(string) {}
func (nopRecorder) StatusUpdated(string)   {}

// Options tunes the service. Zero values fall back to defaults.
type Options struct {
	LinkConcurrency int
	Publisher       events.Publisher
	Recorder        Recorder
	Guard           *ResourceGuard
}

type service struct {
	repo            Repository
	resources       ResourceGetter
	publisher       events.Publisher
	recorder        Recorder
	guard           *ResourceGuard
	logger          *zap.Logger
	linkConcurrency int
}

func NewService(repo Repository, resources ResourceGetter, logger *zap.Logger, opts Options) Service {
	s := &service{
		repo:            repo,
		resources:       resources,
		publisher:       opts.Publisher,
		recorder:        opts.Recorder,
		guard:           opts.Guard,
		logger:          logger,
		linkConcurrency: opts.LinkConcurrency,
	}
	if s.publisher == nil {
		s.publisher = events.NewNopPublisher(logger)
	}
	if s.recorder == nil {
		s.recorder = nopRecorder{}
	}
	if s.guard == nil {
		s.guard = NewResourceGuard()
	}
	if s.linkConcurrency < 1 {
		s.linkConcurrency = DefaultLinkConcurrency
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	// 1. Validate input before touching the store
	resourceID := strings.TrimSpace(req.ResourceID)
	if resourceID == "" {
		return nil, ErrInvalidInput.WithDetail("resource_id is required")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, ErrInvalidInput.WithDetail("start_date and end_date are required")
	}
	days, err := ComputeDuration(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	parties, err := normalizeParties(req.Parties)
	if err != nil {
		return nil, err
	}

	// 2. Load the resource for its current rate
	res, err := s.getResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	// 3. Price and build
	start, end := TruncateDay(req.StartDate), TruncateDay(req.EndDate)
	b := &Booking{
		ResourceID:   res.ID,
		ResourceName: res.Name,
		Name:         BookingName(res.Name, start, end),
		StartDate:    start,
		EndDate:      end,
		DurationDays: days,
		DailyRate:    res.DailyRate,
		TotalAmount:  ComputePrice(res.DailyRate, days),
		Status:       StatusOnHold,
		Notes:        strings.TrimSpace(req.Notes),
	}

	// 4. Persist
	if req.EnforceAvailability {
		err = s.createExclusive(ctx, b)
	} else {
		err = s.repo.Create(ctx, b)
	}
	if err != nil {
		if errors.Is(err, ErrConflict) {
			s.recorder.BookingConflict()
		}
		return nil, err
	}
	s.recorder.BookingCreated(req.EnforceAvailability)

	// 5. Link parties; failures are reported, never rolled back
	failed := s.linkParties(ctx, b, parties)

	s.publish(ctx, newEvent(events.TypeBookingCreated, b))
	if len(failed) > 0 {
		e := newEvent(events.TypePartyLinksFailed, b)
		for _, f := range failed {
			e.FailedLinks = append(e.FailedLinks, f.Party.String())
		}
		s.publish(ctx, e)
	}

	return &CreateResult{Booking: b, FailedLinks: failed}, nil
}

// createExclusive runs check and insert while holding the resource guard.
func (s *service) createExclusive(ctx context.Context, b *Booking) error {
	unlock, err := s.guard.Lock(ctx, b.ResourceID)
	if err != nil {
		return err
	}
	defer unlock()

	window := DateWindow{From: b.StartDate, To: b.EndDate}
	existing, err := s.repo.ListByResource(ctx, b.ResourceID, &window)
	if err != nil {
		return err
	}
	if avail := CheckAvailability(b.ResourceID, b.StartDate, b.EndDate, existing); !avail.Available {
		return &ConflictError{Conflicts: avail.Conflicts}
	}
	return s.repo.Create(ctx, b)
}

func (s *service) linkParties(ctx context.Context, b *Booking, parties []Party) []LinkFailure {
	if len(parties) == 0 {
		return nil
	}

	errs := make([]error, len(parties))
	var g errgroup.Group
	g.SetLimit(s.linkConcurrency)
	for i, p := range parties {
		g.Go(func() error {
			errs[i] = s.repo.LinkParty(ctx, b.ID, p)
			return nil
		})
	}
	_ = g.Wait()

	var failed []LinkFailure
	for i, p := range parties {
		if errs[i] != nil {
			s.logger.Warn("Failed to link booking to party",
				zap.String("booking_id", b.ID),
				zap.String("party", p.String()),
				zap.Error(errs[i]),
			)
			s.recorder.PartyLinkFailed(string(p.Type))
			failed = append(failed, LinkFailure{Party: p, Err: errs[i]})
			continue
		}
		if !b.HasParty(p) {
			b.LinkedParties = append(b.LinkedParties, p)
		}
	}
	return failed
}

func (s *service) UpdateStatus(ctx context.Context, id string, status Status) (*Booking, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus.WithDetail("unknown status \"" + string(status) + "\"")
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Any known status is accepted from any other.
	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			s.recorder.BookingConflict()
		}
		return nil, err
	}
	s.recorder.StatusUpdated(string(status))

	e := newEvent(events.TypeBookingStatusChanged, updated)
	e.PreviousStatus = string(current.Status)
	s.publish(ctx, e)

	return updated, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListForResource(ctx context.Context, resourceID string, window *DateWindow) ([]*Booking, error) {
	if strings.TrimSpace(resourceID) == "" {
		return nil, ErrInvalidInput.WithDetail("resource_id is required")
	}
	if window != nil && window.To.Before(window.From) {
		return nil, ErrInvalidRange
	}
	return s.repo.ListByResource(ctx, resourceID, window)
}

func (s *service) ListForParty(ctx context.Context, party Party) ([]*Booking, error) {
	if err := party.Validate(); err != nil {
		return nil, err
	}
	return s.repo.ListByParty(ctx, party)
}

func (s *service) ListInWindow(ctx context.Context, window DateWindow) ([]*Booking, error) {
	if window.To.Before(window.From) {
		return nil, ErrInvalidRange
	}
	return s.repo.ListInWindow(ctx, window)
}

// CheckAvailability is an advisory pre-flight. A later create may still
// conflict unless it enforces availability.
func (s *service) CheckAvailability(ctx context.Context, resourceID string, start, end time.Time) (*Availability, error) {
	if strings.TrimSpace(resourceID) == "" {
		return nil, ErrInvalidInput.WithDetail("resource_id is required")
	}
	window, err := NewDateWindow(start, end)
	if err != nil {
		return nil, err
	}
	if _, err := s.getResource(ctx, resourceID); err != nil {
		return nil, err
	}

	existing, err := s.repo.ListByResource(ctx, resourceID, &window)
	if err != nil {
		return nil, err
	}
	avail := CheckAvailability(resourceID, window.From, window.To, existing)
	return &avail, nil
}

// RetryLinks links the parties that are not yet attached to the booking.
func (s *service) RetryLinks(ctx context.Context, bookingID string, parties []Party) ([]LinkFailure, error) {
	wanted, err := normalizeParties(parties)
	if err != nil {
		return nil, err
	}
	if len(wanted) == 0 {
		return nil, ErrInvalidInput.WithDetail("at least one party is required")
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	var missing []Party
	for _, p := range wanted {
		if !b.HasParty(p) {
			missing = append(missing, p)
		}
	}

	failed := s.linkParties(ctx, b, missing)
	if len(failed) > 0 {
		e := newEvent(events.TypePartyLinksFailed, b)
		for _, f := range failed {
			e.FailedLinks = append(e.FailedLinks, f.Party.String())
		}
		s.publish(ctx, e)
	}
	return failed, nil
}

func (s *service) getResource(ctx context.Context, id string) (*resource.Resource, error) {
	res, err := s.resources.GetByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, resource.ErrNotFound):
			return nil, ErrResourceNotFound
		case errors.Is(err, resource.ErrRepository):
			return nil, apperror.Wrap(err, ErrRepository)
		default:
			return nil, err
		}
	}
	return res, nil
}

func (s *service) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Error("Failed to publish booking event",
			zap.String("event_type", string(e.Type)),
			zap.String("booking_id", e.BookingID),
			zap.Error(err),
		)
	}
}

func newEvent(typ events.Type, b *Booking) events.Event {
	return events.Event{
		Type:        typ,
		BookingID:   b.ID,
		ResourceID:  b.ResourceID,
		Status:      string(b.Status),
		StartDate:   b.StartDate.Format(time.DateOnly),
		EndDate:     b.EndDate.Format(time.DateOnly),
		TotalAmount: b.TotalAmount.String(),
	}
}
