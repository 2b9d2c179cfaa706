package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/slot-booking-backend/internal/booking"
	"github.com/nekogravitycat/slot-booking-backend/internal/calendar"
	"github.com/nekogravitycat/slot-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/slot-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/slot-booking-backend/internal/resource"
)

type ResourceLister interface {
	List(ctx context.Context, filter resource.Filter) ([]*resource.Resource, error)
}

type BookingLister interface {
	ListInWindow(ctx context.Context, window booking.DateWindow) ([]*booking.Booking, error)
}

// Recorder observes grid sizes.
type Recorder interface {
	CalendarProjected(cells int)
}

type Handler struct {
	resources   ResourceLister
	bookings    BookingLister
	recorder    Recorder
	defaultDays int
	now         func() time.Time
}

func NewHandler(resources ResourceLister, bookings BookingLister, recorder Recorder, defaultDays int) *Handler {
	if defaultDays < 1 || defaultDays > calendar.MaxWindowDays {
		defaultDays = calendar.DefaultWindowDays
	}
	return &Handler{
		resources:   resources,
		bookings:    bookings,
		recorder:    recorder,
		defaultDays: defaultDays,
		now:         time.Now,
	}
}

func (h *Handler) Grid(c *gin.Context) {
	var req GridRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	today := booking.TruncateDay(h.now())
	start := today
	if req.Start != "" {
		t, err := request.ParseDate("start", req.Start)
		if err != nil {
			response.Error(c, booking.ErrInvalidInput.WithDetail(err.Error()))
			return
		}
		start = t
	}
	days := h.defaultDays
	if req.Days > 0 {
		days = req.Days
	}

	var statusFilter *booking.Status
	if req.Status != "" {
		st := booking.Status(req.Status)
		statusFilter = &st
	}

	ctx := c.Request.Context()
	resources, err := h.resources.List(ctx, resource.Filter{Limit: req.Limit, Category: req.Category})
	if err != nil {
		response.Error(c, err)
		return
	}

	window := booking.DateWindow{From: start, To: start.AddDate(0, 0, days-1)}
	bookings, err := h.bookings.ListInWindow(ctx, window)
	if err != nil {
		response.Error(c, err)
		return
	}

	grid, err := calendar.Project(resources, start, days, bookings, statusFilter)
	if err != nil {
		response.Error(c, err)
		return
	}
	calendar.MarkToday(grid, today)

	if h.recorder != nil {
		h.recorder.CalendarProjected(len(grid.Rows) * len(grid.Days))
	}

	c.JSON(http.StatusOK, NewGridResponse(grid))
}
