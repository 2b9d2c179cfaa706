package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/slot-booking-backend/internal/booking"
	"github.com/nekogravitycat/slot-booking-backend/internal/resource"
)

type stubResources struct {
	lastFilter resource.Filter
	err        error
}

func (s *stubResources) List(_ context.Context, filter resource.Filter) ([]*resource.Resource, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	return []*resource.Resource{
		{ID: "r-1", Name: "Billboard", DailyRate: decimal.RequireFromString("120.5")},
		{ID: "r-2", Name: "Studio", DailyRate: decimal.NewFromInt(80)},
	}, nil
}

type stubBookings struct {
	lastWindow booking.DateWindow
}

func (s *stubBookings) ListInWindow(_ context.Context, window booking.DateWindow) ([]*booking.Booking, error) {
	s.lastWindow = window
	return []*booking.Booking{
		{
			ID: "b-1", ResourceID: "r-1", Name: "Billboard - 2024-01-02 to 2024-01-03",
			StartDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			Status:    booking.StatusSold,
		},
	}, nil
}

type cellCounter struct{ cells int }

func (c *cellCounter) CalendarProjected(cells int) { c.cells += cells }

func setup(res *stubResources, bk *stubBookings, rec *cellCounter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(res, bk, rec, 50)
	h.now = func() time.Time { return time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC) }
	RegisterRoutes(r.Group("/v1"), h, func(c *gin.Context) { c.Next() })
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHandler_Grid(t *testing.T) {
	res, bk, rec := &stubResources{}, &stubBookings{}, &cellCounter{}
	r := setup(res, bk, rec)

	w := get(r, "/v1/calendar?start=2024-01-01&days=5&category=outdoor")
	require.Equal(t, http.StatusOK, w.Code)

	var resp GridResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2024-01-01", resp.Start)
	assert.Equal(t, "2024-01-05", resp.End)
	require.Len(t, resp.Days, 5)
	assert.True(t, resp.Days[2].IsToday)
	assert.Equal(t, "Monday", resp.Days[0].Weekday)

	require.Len(t, resp.Rows, 2)
	assert.Equal(t, "r-1", resp.Rows[0].Resource.ID)
	assert.Equal(t, "Billboard", resp.Rows[0].Resource.Name)
	assert.Equal(t, "120.5", resp.Rows[0].Resource.DailyRate)
	assert.Equal(t, "80", resp.Rows[1].Resource.DailyRate)
	cells := resp.Rows[0].Cells
	assert.Nil(t, cells[0].Booking)
	require.NotNil(t, cells[1].Booking)
	assert.Equal(t, "b-1", cells[1].Booking.ID)
	assert.True(t, cells[1].IsSpanStart)
	assert.Equal(t, 2, cells[1].SpanWidth)
	assert.False(t, cells[2].IsSpanStart)
	assert.Equal(t, SummaryResponse{Resources: 2, Bookings: 1}, resp.Summary)

	assert.Equal(t, "outdoor", res.lastFilter.Category)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), bk.lastWindow.To)
	assert.Equal(t, 10, rec.cells)
}

func TestHandler_Grid_Defaults(t *testing.T) {
	bk := &stubBookings{}
	r := setup(&stubResources{}, bk, &cellCounter{})

	w := get(r, "/v1/calendar")
	require.Equal(t, http.StatusOK, w.Code)

	var resp GridResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2024-01-03", resp.Start)
	assert.Len(t, resp.Days, 50)
	assert.Equal(t, time.Date(2024, 2, 21, 0, 0, 0, 0, time.UTC), bk.lastWindow.To)
}

func TestHandler_Grid_StatusFilter(t *testing.T) {
	r := setup(&stubResources{}, &stubBookings{}, &cellCounter{})

	w := get(r, "/v1/calendar?start=2024-01-01&days=5&status=on_hold")
	require.Equal(t, http.StatusOK, w.Code)

	var resp GridResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Summary.Bookings)
}

func TestHandler_Grid_BadInput(t *testing.T) {
	r := setup(&stubResources{}, &stubBookings{}, &cellCounter{})

	for _, path := range []string{
		"/v1/calendar?start=01-01-2024",
		"/v1/calendar?days=400",
		"/v1/calendar?status=cancelled",
	} {
		w := get(r, path)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestHandler_Grid_StoreError(t *testing.T) {
	r := setup(&stubResources{err: resource.ErrRepository}, &stubBookings{}, &cellCounter{})

	w := get(r, "/v1/calendar")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
