package booking

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestComputeDuration(t *testing.T) {
	taipei := time.FixedZone("UTC+8", 8*60*60)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"SameDay", date("2024-01-01"), date("2024-01-01"), 1},
		{"ThreeDays", date("2024-01-01"), date("2024-01-03"), 3},
		{"AcrossMonth", date("2024-01-30"), date("2024-02-02"), 4},
		{"LeapDay", date("2024-02-28"), date("2024-03-01"), 3},
		{"TimeOfDayIgnored", time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC), time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC), 2},
		{"LocalMidnight", time.Date(2024, 3, 10, 0, 0, 0, 0, taipei), time.Date(2024, 3, 10, 0, 0, 0, 0, taipei), 1},
		{"FullYear", date("2024-01-01"), date("2024-12-31"), 366},
		{"BeyondDurationRange", date("2024-01-01"), date("2400-01-01"), 137332},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeDuration(tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeDuration_InvertedRange(t *testing.T) {
	_, err := ComputeDuration(date("2024-01-03"), date("2024-01-01"))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestComputeDuration_AtLeastOneDay(t *testing.T) {
	start := date("2024-01-01")
	for offset := 0; offset < 60; offset++ {
		end := start.AddDate(0, 0, offset)
		got, err := ComputeDuration(start, end)
		require.NoError(t, err)
		assert.Equal(t, offset+1, got)
	}
}

func TestComputePrice(t *testing.T) {
	tests := []struct {
		rate string
		days int
		want string
	}{
		{"100", 3, "300"},
		{"0.1", 3, "0.3"},
		{"33.333", 3, "99.999"},
		{"0", 10, "0"},
		{"19.99", 1, "19.99"},
	}

	for _, tt := range tests {
		got := ComputePrice(decimal.RequireFromString(tt.rate), tt.days)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "rate %s x %d = %s", tt.rate, tt.days, got)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "99.999", decimal.RequireFromString("99.999").String())
	assert.Equal(t, "100.00", FormatAmount(decimal.RequireFromString("99.999")))
	assert.Equal(t, "300.00", FormatAmount(decimal.NewFromInt(300)))
}

func TestBookingName(t *testing.T) {
	assert.Equal(t, "Billboard A - 2024-01-01 to 2024-01-03",
		BookingName("Billboard A", date("2024-01-01"), date("2024-01-03")))
}
