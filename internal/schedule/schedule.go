// Package schedule expands medication recurrence into concrete dose events
// and tracks same-day adherence. Everything here is pure: the functions never
// touch storage and never mutate their inputs.
package schedule

import (
	"fmt"
	"sort"

	"medminder/internal/models"
)

// ExpandTimes returns the distinct time-of-day strings of a medication's raw
// times list, in first-appearance order. The input may contain duplicates
// from user edits. Entries not matching HH:MM are rejected.
func ExpandTimes(times []string) ([]string, error) {
	seen := make(map[string]bool, len(times))
	out := make([]string, 0, len(times))
	for _, t := range times {
		if !models.ValidTime(t) {
			return nil, fmt.Errorf("invalid time %q: want HH:MM", t)
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}

// MaterializeToday joins all medications with their expanded times into a
// single chronologically ordered list of today's dose events, all unmarked.
//
// Sorting is lexical on the HH:MM string, which equals chronological order
// because the format is fixed-width and zero-padded. The sort is stable, so
// two events at the same time keep the medications' iteration order; the
// repository lists medications by creation time then id, which makes the
// tie-break deterministic.
func MaterializeToday(medications []*models.Medication) ([]models.DoseEvent, error) {
	var events []models.DoseEvent
	for _, med := range medications {
		times, err := ExpandTimes(med.Times)
		if err != nil {
			return nil, fmt.Errorf("medication %s: %w", med.ID, err)
		}
		for _, t := range times {
			events = append(events, models.DoseEvent{
				MedicationID: med.ID,
				Time:         t,
				Name:         med.Name,
				Dosage:       med.Dosage,
				Instructions: med.Instructions,
				Taken:        false,
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time < events[j].Time
	})
	return events, nil
}

// MarkTaken returns a new event list with the entry matching the
// (medicationID, time) composite identity marked taken. All other entries
// are unchanged. A miss returns the input as-is; repeating the call is a
// no-op. The state lives only in the current view and is discarded when the
// schedule is next materialized.
func MarkTaken(events []models.DoseEvent, medicationID, timeOfDay string) []models.DoseEvent {
	out := make([]models.DoseEvent, len(events))
	copy(out, events)
	for i := range out {
		if out[i].MedicationID == medicationID && out[i].Time == timeOfDay {
			out[i].Taken = true
		}
	}
	return out
}
