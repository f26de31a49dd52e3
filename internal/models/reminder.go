package models

import "time"

// ReminderTrigger is one recurring registration with the scheduler: one
// medication at one time-of-day, firing once per day. Triggers are keyed by
// medication id so deleting a medication cancels all of them. Name and Dosage
// are denormalized so firing never re-queries the medications table.
type ReminderTrigger struct {
	TriggerID      int        `json:"trigger_id"`
	MedicationID   string     `json:"medication_id"`
	TimeOfDay      string     `json:"time_of_day"`     // HH:MM
	RecurrenceRule string     `json:"recurrence_rule"` // RFC 5545 RRULE
	NextFireAt     *time.Time `json:"next_fire_at"`
	Name           string     `json:"name"`
	Dosage         string     `json:"dosage"`
	Instructions   string     `json:"instructions"`
	CreatedAt      time.Time  `json:"created_at"`
}
