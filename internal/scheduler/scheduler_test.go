package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestNewDaily_Validation(t *testing.T) {
	cases := []struct {
		name    string
		at      string
		wantErr bool
	}{
		{name: "midnight", at: "00:00:00"},
		{name: "afternoon", at: "13:45:30"},
		{name: "missing seconds", at: "13:45", wantErr: true},
		{name: "out of range", at: "25:00:00", wantErr: true},
		{name: "garbage", at: "noonish", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewDaily(tc.at, func(time.Time) {})
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNext(t *testing.T) {
	d, err := NewDaily("06:30:00", func(time.Time) {})
	if err != nil {
		t.Fatalf("NewDaily: %v", err)
	}

	loc := time.UTC
	cases := []struct {
		name  string
		after time.Time
		want  time.Time
	}{
		{
			name:  "before today's occurrence",
			after: time.Date(2026, 3, 10, 5, 0, 0, 0, loc),
			want:  time.Date(2026, 3, 10, 6, 30, 0, 0, loc),
		},
		{
			name:  "exactly at occurrence rolls to tomorrow",
			after: time.Date(2026, 3, 10, 6, 30, 0, 0, loc),
			want:  time.Date(2026, 3, 11, 6, 30, 0, 0, loc),
		},
		{
			name:  "after today's occurrence",
			after: time.Date(2026, 3, 10, 23, 59, 59, 0, loc),
			want:  time.Date(2026, 3, 11, 6, 30, 0, 0, loc),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := d.Next(tc.after); !got.Equal(tc.want) {
				t.Fatalf("want %v got %v", tc.want, got)
			}
		})
	}
}

func TestRun_FiresAndStops(t *testing.T) {
	fired := make(chan time.Time, 4)
	d, err := NewDaily("00:00:00", func(now time.Time) { fired <- now })
	if err != nil {
		t.Fatalf("NewDaily: %v", err)
	}

	// Pin "now" just before the trigger so the timer fires almost instantly.
	base := time.Date(2026, 3, 10, 23, 59, 59, 950_000_000, time.Local)
	offset := time.Since(base)
	d.now = func() time.Time { return time.Now().Add(-offset) }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatalf("trigger did not fire")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not stop on cancel")
	}
}
