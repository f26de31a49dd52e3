package models

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Frequency describes how often a medication repeats. It is informational:
// the Times list is the authoritative schedule.
type Frequency string

const (
	FrequencyDaily       Frequency = "daily"
	FrequencyTwiceDaily  Frequency = "twice_daily"
	FrequencyThriceDaily Frequency = "thrice_daily"
	FrequencyWeekly      Frequency = "weekly"
)

// IsValid reports whether f is one of the known frequency tags.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyTwiceDaily, FrequencyThriceDaily, FrequencyWeekly:
		return true
	}
	return false
}

// FrequencyFromTimes picks the tag matching a dose-per-day count.
func FrequencyFromTimes(n int) Frequency {
	switch n {
	case 2:
		return FrequencyTwiceDaily
	case 3:
		return FrequencyThriceDaily
	default:
		return FrequencyDaily
	}
}

var (
	ErrNameRequired   = errors.New("medication name is required")
	ErrDosageRequired = errors.New("medication dosage is required")
	ErrNoTimes        = errors.New("medication needs at least one reminder time")
	ErrLastTime       = errors.New("cannot remove the last reminder time")
)

var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidTime reports whether s is a zero-padded 24-hour HH:MM string.
func ValidTime(s string) bool {
	return timePattern.MatchString(s)
}

type Medication struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Dosage       string    `json:"dosage"`
	Frequency    Frequency `json:"frequency"`
	Times        []string  `json:"times"`      // HH:MM, edit order, not schedule order
	StartDate    string    `json:"start_date"` // YYYY-MM-DD
	Instructions string    `json:"instructions"`
	ImageURI     string    `json:"image_uri"` // source photo, never re-parsed after save
	CreatedAt    time.Time `json:"created_at"`
}

// Validate checks the invariants that must hold before a medication is
// persisted. A failing medication is never written and never scheduled.
func (m *Medication) Validate() error {
	if m.Name == "" {
		return ErrNameRequired
	}
	if m.Dosage == "" {
		return ErrDosageRequired
	}
	if len(m.Times) == 0 {
		return ErrNoTimes
	}
	for _, t := range m.Times {
		if !ValidTime(t) {
			return fmt.Errorf("invalid reminder time %q: want HH:MM", t)
		}
	}
	if !m.Frequency.IsValid() {
		return fmt.Errorf("invalid frequency %q", m.Frequency)
	}
	return nil
}

// AddTime appends a reminder time to the edit list.
func (m *Medication) AddTime(t string) error {
	if !ValidTime(t) {
		return fmt.Errorf("invalid reminder time %q: want HH:MM", t)
	}
	m.Times = append(m.Times, t)
	return nil
}

// RemoveTime drops one occurrence of t. Removing the last remaining time is
// rejected so the schedule never goes empty.
func (m *Medication) RemoveTime(t string) error {
	if len(m.Times) <= 1 {
		return ErrLastTime
	}
	for i, existing := range m.Times {
		if existing == t {
			m.Times = append(m.Times[:i], m.Times[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("time %q not found", t)
}

// DoseEvent is one scheduled intake of one medication at one time-of-day.
// It is derived fresh per schedule view and never persisted; Taken is
// session-local state that resets on the next materialization.
type DoseEvent struct {
	MedicationID string `json:"medication_id"`
	Time         string `json:"time"`
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Instructions string `json:"instructions"`
	Taken        bool   `json:"taken"`
}
