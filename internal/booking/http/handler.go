package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/slot-booking-backend/internal/booking"
	"github.com/nekogravitycat/slot-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/slot-booking-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
	// enforceByDefault applies when a create request does not say.
	enforceByDefault bool
}

func NewHandler(service booking.Service, enforceByDefault bool) *Handler {
	return &Handler{service: service, enforceByDefault: enforceByDefault}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	start, end, err := body.Dates()
	if err != nil {
		response.Error(c, err)
		return
	}

	enforce := h.enforceByDefault
	if body.EnforceAvailability != nil {
		enforce = *body.EnforceAvailability
	}

	result, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		ResourceID:          body.ResourceID,
		Parties:             toParties(body.Parties),
		StartDate:           start,
		EndDate:             end,
		Notes:               body.Notes,
		EnforceAvailability: enforce,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	resp := CreateBookingResponse{
		Booking:     NewBookingResponse(result.Booking),
		FailedLinks: newFailedLinks(result.FailedLinks),
	}
	// The booking exists either way; 207 tells the caller to retry the links.
	if !result.Complete() {
		c.JSON(http.StatusMultiStatus, resp)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), uri.ID, booking.Status(body.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) RetryLinks(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body RetryLinksRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	ctx := c.Request.Context()
	failed, err := h.service.RetryLinks(ctx, uri.ID, toParties(body.Parties))
	if err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.service.GetByID(ctx, uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusOK
	if len(failed) > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, CreateBookingResponse{
		Booking:     NewBookingResponse(b),
		FailedLinks: newFailedLinks(failed),
	})
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	var query AvailabilityRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	start, end, err := parseRange("start_date", query.StartDate, "end_date", query.EndDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	avail, err := h.service.CheckAvailability(c.Request.Context(), query.ResourceID, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, AvailabilityResponse{
		Available: avail.Available,
		Conflicts: newBookingResponses(avail.Conflicts),
	})
}

func (h *Handler) ListForResource(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var query ListForResourceRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	window, err := query.Window()
	if err != nil {
		response.Error(c, err)
		return
	}

	bookings, err := h.service.ListForResource(c.Request.Context(), uri.ID, window)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewListResponse(newBookingResponses(bookings)))
}

func (h *Handler) ListForParty(c *gin.Context) {
	var uri PartyURIRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	bookings, err := h.service.ListForParty(c.Request.Context(), booking.Party{
		Type: booking.PartyType(uri.Type),
		ID:   uri.ID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewListResponse(newBookingResponses(bookings)))
}

// writeError renders conflicts with the overlapping bookings attached.
func writeError(c *gin.Context, err error) {
	var conflict *booking.ConflictError
	if errors.As(err, &conflict) {
		_ = c.Error(err)
		c.JSON(http.StatusConflict, ConflictResponse{
			Error:     booking.ErrConflict.Message,
			Conflicts: newBookingResponses(conflict.Conflicts),
		})
		return
	}
	response.Error(c, err)
}
