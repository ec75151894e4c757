package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/hmeyer/daypeak/internal/logger"
)

const timeLayout = "15:04:05"

// Daily invokes a callback once per day at a fixed local time-of-day.
//
// The zero value is not usable; construct with NewDaily.
type Daily struct {
	hour, minute, second int
	callback             func(time.Time)

	// now is an indirection for tests; defaults to time.Now.
	now func() time.Time
}

// NewDaily parses an "HH:MM:SS" time-of-day and returns a scheduler that
// fires cb at that wall-clock time every day.
func NewDaily(at string, cb func(time.Time)) (*Daily, error) {
	parsed, err := time.Parse(timeLayout, at)
	if err != nil {
		return nil, fmt.Errorf("invalid time of day %q (expected HH:MM:SS): %w", at, err)
	}
	return &Daily{
		hour:     parsed.Hour(),
		minute:   parsed.Minute(),
		second:   parsed.Second(),
		callback: cb,
		now:      time.Now,
	}, nil
}

// Next returns the first occurrence of the configured time-of-day strictly
// after the given instant, in that instant's location.
func (d *Daily) Next(after time.Time) time.Time {
	next := time.Date(after.Year(), after.Month(), after.Day(),
		d.hour, d.minute, d.second, 0, after.Location())
	if !next.After(after) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run fires the callback at each daily occurrence until the context is
// cancelled.
func (d *Daily) Run(ctx context.Context) error {
	for {
		now := d.now()
		next := d.Next(now)
		logger.L().Debug().Time("next", next).Msg("daily trigger armed")

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case fired := <-timer.C:
			d.callback(fired)
		}
	}
}
