// Package schedule parses watch-mode schedule expressions. Three forms are
// accepted: "every <duration>", "at <HH:MM>" (daily), or a cron expression
// (descriptors like @hourly included).
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Kind discriminates the schedule forms.
type Kind string

const (
	KindEvery Kind = "every"
	KindAt    Kind = "at"
	KindCron  Kind = "cron"
)

var cronParser = cron.NewParser(
	cron.SecondOptional |
		cron.Minute |
		cron.Hour |
		cron.Dom |
		cron.Month |
		cron.Dow |
		cron.Descriptor,
)

// Schedule is a parsed schedule expression.
type Schedule struct {
	kind  Kind
	expr  string
	every time.Duration
	hour  int
	min   int
	cron  cron.Schedule
}

// Parse parses a schedule expression.
func Parse(expr string) (*Schedule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("schedule expression is required")
	}

	fields := strings.Fields(expr)
	switch fields[0] {
	case "every":
		if len(fields) != 2 {
			return nil, fmt.Errorf("invalid every schedule %q (want \"every <duration>\")", expr)
		}
		d, err := time.ParseDuration(fields[1])
		if err != nil {
			return nil, fmt.Errorf("invalid every schedule %q: %w", expr, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("every schedule must be positive, got %s", d)
		}
		return &Schedule{kind: KindEvery, expr: expr, every: d}, nil

	case "at":
		if len(fields) != 2 {
			return nil, fmt.Errorf("invalid at schedule %q (want \"at HH:MM\")", expr)
		}
		wall, err := time.Parse("15:04", fields[1])
		if err != nil {
			return nil, fmt.Errorf("invalid at schedule %q (want \"at HH:MM\")", expr)
		}
		return &Schedule{kind: KindAt, expr: expr, hour: wall.Hour(), min: wall.Minute()}, nil
	}

	parsed, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return &Schedule{kind: KindCron, expr: expr, cron: parsed}, nil
}

// Kind returns the schedule form.
func (s *Schedule) Kind() Kind { return s.kind }

// String returns the original expression.
func (s *Schedule) String() string { return s.expr }

// Next returns the first run time after now. ok is false when the schedule
// has no future activation. Wall-clock kinds use now's location.
func (s *Schedule) Next(now time.Time) (time.Time, bool) {
	switch s.kind {
	case KindEvery:
		return now.Add(s.every), true
	case KindAt:
		next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.min, 0, 0, now.Location())
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}
		return next, true
	case KindCron:
		next := s.cron.Next(now)
		return next, !next.IsZero()
	}
	return time.Time{}, false
}
