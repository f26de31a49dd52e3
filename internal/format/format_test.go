package format

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"medminder/internal/models"
)

func TestReminder(t *testing.T) {
	text := Reminder(&models.ReminderTrigger{
		Name:         "Amoxicillin",
		Dosage:       "500mg",
		TimeOfDay:    "09:00",
		Instructions: "with food",
	})

	assert.Contains(t, text, "Amoxicillin")
	assert.Contains(t, text, "500mg")
	assert.Contains(t, text, "09:00")
	assert.Contains(t, text, "with food")
}

func TestSchedule_Empty(t *testing.T) {
	assert.Contains(t, Schedule(nil), "No medications scheduled")
}

func TestSchedule_MarksTakenDoses(t *testing.T) {
	events := []models.DoseEvent{
		{MedicationID: "a", Time: "09:00", Name: "A", Dosage: "1mg", Taken: true},
		{MedicationID: "b", Time: "21:00", Name: "B", Dosage: "2mg"},
	}

	text := Schedule(events)
	assert.Contains(t, text, "✅ *09:00*")
	assert.Contains(t, text, "⬜ *21:00*")
}

func TestMedicationList_Empty(t *testing.T) {
	assert.Contains(t, MedicationList(nil), "No medications added yet")
}

func TestDraft_MarksMissingFields(t *testing.T) {
	text := Draft(&models.Medication{Name: "Amoxicillin"})
	assert.Contains(t, text, "Amoxicillin")
	assert.Contains(t, text, "Dosage: _missing_")
	assert.Contains(t, text, "Times: _missing_")
}
