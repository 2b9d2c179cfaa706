package booking

import "time"

// Availability is the result of an overlap check.
type Availability struct {
	Available bool
	Conflicts []*Booking
}

// CheckAvailability reports which blocking bookings of resourceID overlap the
// inclusive range [start, end]. Touching ranges overlap: a booking ending on
// the candidate's start date is a conflict. An empty resourceID means
// existing is already scoped to one resource.
func CheckAvailability(resourceID string, start, end time.Time, existing []*Booking) Availability {
	s, e := TruncateDay(start), TruncateDay(end)

	var conflicts []*Booking
	for _, b := range existing {
		if resourceID != "" && b.ResourceID != resourceID {
			continue
		}
		if !b.Status.Blocking() {
			continue
		}
		if !s.After(TruncateDay(b.EndDate)) && !e.Before(TruncateDay(b.StartDate)) {
			conflicts = append(conflicts, b)
		}
	}

	return Availability{Available: len(conflicts) == 0, Conflicts: conflicts}
}
