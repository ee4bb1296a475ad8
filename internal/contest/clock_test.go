package contest

import (
	"errors"
	"testing"
	"time"
)

func TestWindowCheck(t *testing.T) {
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	w := Window{Start: start, End: end}

	cases := []struct {
		name string
		now  time.Time
		want error
	}{
		{"before start", start.Add(-time.Minute), ErrNotStarted},
		{"at start", start, nil},
		{"mid competition", start.Add(24 * time.Hour), nil},
		{"at end", end, nil},
		{"after end", end.Add(time.Second), ErrEnded},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := w.Check(tc.now)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Check(%v) = %v, want %v", tc.now, err, tc.want)
			}
			if got := w.IsOpen(tc.now); got != (tc.want == nil) {
				t.Fatalf("IsOpen(%v) = %v, want %v", tc.now, got, tc.want == nil)
			}
		})
	}
}

func TestWindowZeroValueAlwaysOpen(t *testing.T) {
	var w Window
	if err := w.Check(time.Now()); err != nil {
		t.Fatalf("zero window should be open, got %v", err)
	}
	if err := w.Check(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("zero window should be open in 1970, got %v", err)
	}
}
