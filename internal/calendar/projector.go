// Package calendar projects bookings onto a resource-by-date occupancy grid.
package calendar

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nekogravitycat/slot-booking-backend/internal/booking"
	"github.com/nekogravitycat/slot-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/slot-booking-backend/internal/resource"
)

const (
	MaxWindowDays     = 366
	DefaultWindowDays = 50
)

var ErrInvalidWindow = apperror.New(http.StatusBadRequest, fmt.Sprintf("days must be between 1 and %d", MaxWindowDays))

// Day is the header of one grid column.
type Day struct {
	Date      time.Time
	Weekday   time.Weekday
	IsWeekend bool
	IsToday   bool
}

// Cell is one (resource, date) slot. Booking is nil when the slot is free.
// Only the cell on the booking's start date is a span start; the cells it
// covers after that carry the same booking with SpanWidth 0.
type Cell struct {
	ResourceID  string
	Date        time.Time
	Booking     *booking.Booking
	IsSpanStart bool
	SpanWidth   int
}

func (c Cell) Empty() bool {
	return c.Booking == nil
}

type Row struct {
	Resource *resource.Resource
	Cells    []Cell
}

type Summary struct {
	Resources int
	Bookings  int // distinct bookings visible in the window
}

// Grid is the projection of one window. Rows follow the order of the
// resources passed to Project.
type Grid struct {
	Start   time.Time
	Days    []Day
	Rows    []Row
	Summary Summary
}

// End returns the last date in the window.
func (g *Grid) End() time.Time {
	return g.Start.AddDate(0, 0, len(g.Days)-1)
}

// Cells returns the row for resourceID, or nil if it is not in the grid.
func (g *Grid) Cells(resourceID string) []Cell {
	for _, row := range g.Rows {
		if row.Resource.ID == resourceID {
			return row.Cells
		}
	}
	return nil
}

// Project lays bookings onto a grid of windowDays columns starting at
// windowStart. When more than one booking claims a slot the first in input
// order wins. Inputs are not modified.
func Project(
	resources []*resource.Resource,
	windowStart time.Time,
	windowDays int,
	bookings []*booking.Booking,
	statusFilter *booking.Status,
) (*Grid, error) {
	if windowDays < 1 || windowDays > MaxWindowDays {
		return nil, ErrInvalidWindow
	}

	start := booking.TruncateDay(windowStart)
	end := start.AddDate(0, 0, windowDays-1)

	grid := &Grid{
		Start: start,
		Days:  make([]Day, windowDays),
		Rows:  make([]Row, 0, len(resources)),
	}
	for i := range grid.Days {
		d := start.AddDate(0, 0, i)
		wd := d.Weekday()
		grid.Days[i] = Day{Date: d, Weekday: wd, IsWeekend: wd == time.Saturday || wd == time.Sunday}
	}

	byResource := make(map[string][]*booking.Booking)
	for _, b := range bookings {
		if statusFilter != nil && b.Status != *statusFilter {
			continue
		}
		byResource[b.ResourceID] = append(byResource[b.ResourceID], b)
	}

	visible := make(map[*booking.Booking]struct{})
	for _, res := range resources {
		candidates := byResource[res.ID]
		row := Row{Resource: res, Cells: make([]Cell, windowDays)}

		for i, d := range grid.Days {
			cell := Cell{ResourceID: res.ID, Date: d.Date}
			for _, b := range candidates {
				if !b.Covers(d.Date) {
					continue
				}
				cell.Booking = b
				if d.Date.Equal(booking.TruncateDay(b.StartDate)) {
					cell.IsSpanStart = true
					cell.SpanWidth = spanWidth(d.Date, booking.TruncateDay(b.EndDate), end)
				}
				visible[b] = struct{}{}
				break
			}
			row.Cells[i] = cell
		}
		grid.Rows = append(grid.Rows, row)
	}

	grid.Summary = Summary{Resources: len(grid.Rows), Bookings: len(visible)}
	return grid, nil
}

// spanWidth counts the columns from from through bookingEnd, clipped to windowEnd.
func spanWidth(from, bookingEnd, windowEnd time.Time) int {
	last := bookingEnd
	if windowEnd.Before(last) {
		last = windowEnd
	}
	return int(last.Sub(from)/(24*time.Hour)) + 1
}

// MarkToday flags the column for today's date, if it is in the window.
func MarkToday(g *Grid, today time.Time) {
	t := booking.TruncateDay(today)
	for i := range g.Days {
		g.Days[i].IsToday = g.Days[i].Date.Equal(t)
	}
}
