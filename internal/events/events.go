package events

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Type names a booking event.
type Type string

const (
	TypeBookingCreated       Type = "booking.created"
	TypeBookingStatusChanged Type = "booking.status_changed"
	TypePartyLinksFailed     Type = "booking.party_links_failed"
)

// Event is the payload published for every booking lifecycle change.
type Event struct {
	ID             string    `json:"id"`
	Type           Type      `json:"type"`
	BookingID      string    `json:"booking_id"`
	ResourceID     string    `json:"resource_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	StartDate      string    `json:"start_date,omitempty"`
	EndDate        string    `json:"end_date,omitempty"`
	TotalAmount    string    `json:"total_amount,omitempty"`
	FailedLinks    []string  `json:"failed_links,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Publisher delivers events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops events; used when no broker is configured.
type NopPublisher struct {
	logger *zap.Logger
}

func NewNopPublisher(logger *zap.Logger) *NopPublisher {
	return &NopPublisher{logger: logger}
}

func (p *NopPublisher) Publish(_ context.Context, event Event) error {
	p.logger.Debug("event dropped (no broker configured)",
		zap.String("type", string(event.Type)),
		zap.String("booking_id", event.BookingID),
	)
	return nil
}

func (p *NopPublisher) Close() error { return nil }
