package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slot(id, resourceID, start, end string, status Status) *Booking {
	return &Booking{ID: id, ResourceID: resourceID, StartDate: date(start), EndDate: date(end), Status: status}
}

func TestCheckAvailability(t *testing.T) {
	existing := []*Booking{
		slot("a", "r-1", "2024-01-01", "2024-01-05", StatusSold),
	}

	tests := []struct {
		name      string
		start     string
		end       string
		available bool
	}{
		{"AdjacentAtEnd", "2024-01-05", "2024-01-10", false},
		{"DayAfter", "2024-01-06", "2024-01-10", true},
		{"AdjacentAtStart", "2023-12-25", "2024-01-01", false},
		{"DayBefore", "2023-12-25", "2023-12-31", true},
		{"Inside", "2024-01-02", "2024-01-03", false},
		{"Enclosing", "2023-12-01", "2024-02-01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckAvailability("r-1", date(tt.start), date(tt.end), existing)
			assert.Equal(t, tt.available, got.Available)
			if !tt.available {
				require.Len(t, got.Conflicts, 1)
				assert.Equal(t, "a", got.Conflicts[0].ID)
			}
		})
	}
}

func TestCheckAvailability_IgnoresDelivered(t *testing.T) {
	existing := []*Booking{
		slot("a", "r-1", "2024-01-01", "2024-01-05", StatusDelivered),
	}
	got := CheckAvailability("r-1", date("2024-01-03"), date("2024-01-04"), existing)
	assert.True(t, got.Available)
	assert.Empty(t, got.Conflicts)
}

func TestCheckAvailability_BlockingStatuses(t *testing.T) {
	for _, st := range BlockingStatuses {
		existing := []*Booking{slot("a", "r-1", "2024-01-01", "2024-01-05", st)}
		got := CheckAvailability("r-1", date("2024-01-02"), date("2024-01-02"), existing)
		assert.False(t, got.Available, "status %s must block", st)
	}
}

func TestCheckAvailability_OtherResource(t *testing.T) {
	existing := []*Booking{
		slot("a", "r-2", "2024-01-01", "2024-01-05", StatusOnHold),
	}
	assert.True(t, CheckAvailability("r-1", date("2024-01-01"), date("2024-01-05"), existing).Available)

	// An empty resource id trusts the caller's scoping.
	assert.False(t, CheckAvailability("", date("2024-01-01"), date("2024-01-05"), existing).Available)
}

func TestCheckAvailability_CollectsAllConflicts(t *testing.T) {
	existing := []*Booking{
		slot("a", "r-1", "2024-01-01", "2024-01-02", StatusOnHold),
		slot("b", "r-1", "2024-01-04", "2024-01-05", StatusConfiguration),
		slot("c", "r-1", "2024-01-08", "2024-01-09", StatusSold),
	}
	got := CheckAvailability("r-1", date("2024-01-02"), date("2024-01-04"), existing)
	assert.False(t, got.Available)
	require.Len(t, got.Conflicts, 2)
	assert.Equal(t, "a", got.Conflicts[0].ID)
	assert.Equal(t, "b", got.Conflicts[1].ID)
}
