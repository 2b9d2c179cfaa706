package http

import (
	"github.com/nekogravitycat/slot-booking-backend/internal/calendar"
	"github.com/nekogravitycat/slot-booking-backend/internal/pkg/request"
	resHttp "github.com/nekogravitycat/slot-booking-backend/internal/resource/http"
)

// GridRequest defines query parameters for the calendar view.
type GridRequest struct {
	Start    string `form:"start"`
	Days     int    `form:"days" binding:"omitempty,min=1,max=366"`
	Status   string `form:"status" binding:"omitempty,oneof=on_hold sold configuration delivered"`
	Category string `form:"category"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=500"`
}

type DayResponse struct {
	Date      string `json:"date"`
	Weekday   string `json:"weekday"`
	IsWeekend bool   `json:"is_weekend"`
	IsToday   bool   `json:"is_today"`
}

type CellBooking struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type CellResponse struct {
	Date        string       `json:"date"`
	Booking     *CellBooking `json:"booking,omitempty"`
	IsSpanStart bool         `json:"is_span_start"`
	SpanWidth   int          `json:"span_width,omitempty"`
}

// RowResource is the row header: the product and its rate per day.
type RowResource struct {
	resHttp.ResourceTag
	DailyRate string `json:"daily_rate"`
}

type RowResponse struct {
	Resource RowResource    `json:"resource"`
	Cells    []CellResponse `json:"cells"`
}

type SummaryResponse struct {
	Resources int `json:"resources"`
	Bookings  int `json:"bookings"`
}

type GridResponse struct {
	Start   string          `json:"start"`
	End     string          `json:"end"`
	Days    []DayResponse   `json:"days"`
	Rows    []RowResponse   `json:"rows"`
	Summary SummaryResponse `json:"summary"`
}

func NewGridResponse(g *calendar.Grid) GridResponse {
	days := make([]DayResponse, len(g.Days))
	for i, d := range g.Days {
		days[i] = DayResponse{
			Date:      request.FormatDate(d.Date),
			Weekday:   d.Weekday.String(),
			IsWeekend: d.IsWeekend,
			IsToday:   d.IsToday,
		}
	}

	rows := make([]RowResponse, len(g.Rows))
	for i, row := range g.Rows {
		cells := make([]CellResponse, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = CellResponse{
				Date:        request.FormatDate(c.Date),
				IsSpanStart: c.IsSpanStart,
				SpanWidth:   c.SpanWidth,
			}
			if b := c.Booking; b != nil {
				cells[j].Booking = &CellBooking{ID: b.ID, Name: b.Name, Status: string(b.Status)}
			}
		}
		rows[i] = RowResponse{
			Resource: RowResource{
				ResourceTag: resHttp.ResourceTag{ID: row.Resource.ID, Name: row.Resource.Name},
				DailyRate:   row.Resource.DailyRate.String(),
			},
			Cells: cells,
		}
	}

	return GridResponse{
		Start:   request.FormatDate(g.Start),
		End:     request.FormatDate(g.End()),
		Days:    days,
		Rows:    rows,
		Summary: SummaryResponse{Resources: g.Summary.Resources, Bookings: g.Summary.Bookings},
	}
}
