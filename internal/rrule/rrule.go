// Package rrule wraps teambition/rrule-go for the recurrence this app
// actually uses: one trigger per medication time-of-day, repeating once per
// calendar day (or once per week for weekly medications).
package rrule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// DailyAt builds an RFC 5545 RRULE string firing every day at the given
// HH:MM local wall-clock time.
func DailyAt(timeOfDay string) (string, error) {
	hour, minute, err := splitClock(timeOfDay)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("FREQ=DAILY;BYHOUR=%d;BYMINUTE=%d;BYSECOND=0", hour, minute), nil
}

// WeeklyAt builds an RRULE firing once per week at the given HH:MM, on the
// weekday of the first occurrence (dtstart).
func WeeklyAt(timeOfDay string) (string, error) {
	hour, minute, err := splitClock(timeOfDay)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("FREQ=WEEKLY;BYHOUR=%d;BYMINUTE=%d;BYSECOND=0", hour, minute), nil
}

func splitClock(timeOfDay string) (hour, minute int, err error) {
	parts := strings.SplitN(timeOfDay, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q: want HH:MM", timeOfDay)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", timeOfDay)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", timeOfDay)
	}
	return hour, minute, nil
}

// Parse parses an RRULE string with the given first occurrence. A leading
// "RRULE:" prefix is tolerated. Dtstart is reinterpreted in local time so
// wall-clock values survive a round-trip through a timestamp column.
func Parse(ruleStr string, dtstart time.Time) (*rrule.RRule, error) {
	ruleStr = strings.TrimPrefix(ruleStr, "RRULE:")

	opt, err := rrule.StrToROption(ruleStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RRULE: %w", err)
	}

	opt.Dtstart = time.Date(
		dtstart.Year(), dtstart.Month(), dtstart.Day(),
		dtstart.Hour(), dtstart.Minute(), dtstart.Second(), dtstart.Nanosecond(),
		time.Local,
	)
	return rrule.NewRRule(*opt)
}

// NextOccurrence returns the first occurrence at or after the given time, or
// nil when the rule has run out.
func NextOccurrence(ruleStr string, dtstart, after time.Time) (*time.Time, error) {
	rule, err := Parse(ruleStr, dtstart)
	if err != nil {
		return nil, err
	}

	next := rule.After(after, true)
	if next.IsZero() {
		return nil, nil
	}
	return &next, nil
}

// NextOccurrenceStrict returns the first occurrence strictly after the given
// time. Used when advancing a trigger that just fired, so the same occurrence
// is never scheduled twice.
func NextOccurrenceStrict(ruleStr string, dtstart, after time.Time) (*time.Time, error) {
	rule, err := Parse(ruleStr, dtstart)
	if err != nil {
		return nil, err
	}

	next := rule.After(after.In(time.Local), false)
	if next.IsZero() {
		return nil, nil
	}
	return &next, nil
}
