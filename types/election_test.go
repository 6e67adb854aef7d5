package types

import (
	"testing"
	"time"
)

func TestElectionStatusAt(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	election := Election{StartDate: start, EndDate: end}

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"before window", start.Add(-time.Minute), ElectionUpcoming},
		{"at start", start, ElectionActive},
		{"inside window", start.Add(48 * time.Hour), ElectionActive},
		{"at end", end, ElectionCompleted},
		{"after window", end.Add(time.Minute), ElectionCompleted},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := election.StatusAt(tc.now); got != tc.want {
				t.Fatalf("StatusAt(%v) = %q, want %q", tc.now, got, tc.want)
			}
		})
	}
}
