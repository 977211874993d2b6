package daemon

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Schedule decides when reminder runs fire. It holds either a cron
// expression evaluated in local time or a fixed interval.
type Schedule struct {
	cron  cron.Schedule
	every time.Duration
	text  string
}

var cronParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseSchedule accepts a 5-field cron expression ("0 9 * * *"), a
// cron descriptor ("@daily", "@every 12h"), or a Go duration ("12h").
// Anything containing whitespace or starting with '@' is treated as
// cron; the rest must parse as a duration of at least one minute.
func ParseSchedule(raw string) (Schedule, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Schedule{}, fmt.Errorf("schedule required")
	}

	if strings.ContainsAny(s, " \t") || strings.HasPrefix(s, "@") {
		sched, err := cronParser.Parse(s)
		if err != nil {
			return Schedule{}, fmt.Errorf("invalid cron schedule %q: %w", s, err)
		}
		return Schedule{cron: sched, text: s}, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return Schedule{}, fmt.Errorf("invalid schedule %q (use cron like \"0 9 * * *\" or a duration like \"12h\")", s)
	}
	if d < time.Minute {
		return Schedule{}, fmt.Errorf("interval %s below the 1m minimum", d)
	}
	return Schedule{every: d, text: s}, nil
}

// Next returns the first fire time strictly after t.
func (s Schedule) Next(t time.Time) time.Time {
	if s.cron != nil {
		return s.cron.Next(t)
	}
	return t.Add(s.every)
}

// IsZero reports whether the schedule was never parsed.
func (s Schedule) IsZero() bool {
	return s.cron == nil && s.every == 0
}

func (s Schedule) String() string { return s.text }
