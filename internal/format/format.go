// Package format renders medications, schedules, and reminders as Telegram
// Markdown messages.
package format

import (
	"fmt"
	"strings"

	"medminder/internal/models"
)

func frequencyLabel(f models.Frequency) string {
	switch f {
	case models.FrequencyTwiceDaily:
		return "twice daily"
	case models.FrequencyThriceDaily:
		return "three times daily"
	case models.FrequencyWeekly:
		return "weekly"
	default:
		return "daily"
	}
}

// Reminder renders the notification text for a fired dose trigger.
func Reminder(trigger *models.ReminderTrigger) string {
	var sb strings.Builder
	sb.WriteString("💊 *Time for your medication*\n\n")
	sb.WriteString(fmt.Sprintf("*%s* — %s\n", trigger.Name, trigger.Dosage))
	sb.WriteString("⏰ " + trigger.TimeOfDay)
	if trigger.Instructions != "" {
		sb.WriteString("\n📝 " + trigger.Instructions)
	}
	return sb.String()
}

// Medication renders one medication card.
func Medication(med *models.Medication) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💊 *%s* — %s\n", med.Name, med.Dosage))
	sb.WriteString(fmt.Sprintf("🔄 %s at %s\n", frequencyLabel(med.Frequency), strings.Join(med.Times, ", ")))
	sb.WriteString("📅 since " + med.StartDate)
	if med.Instructions != "" {
		sb.WriteString("\n📝 " + med.Instructions)
	}
	return sb.String()
}

// MedicationList renders the numbered medication overview.
func MedicationList(meds []*models.Medication) string {
	if len(meds) == 0 {
		return "💊 No medications added yet.\nSend a photo of a prescription label or use /add to get started."
	}

	var sb strings.Builder
	sb.WriteString("💊 *Your medications*\n\n")
	for i, med := range meds {
		sb.WriteString(fmt.Sprintf("*%d.* %s — %s\n", i+1, med.Name, med.Dosage))
		sb.WriteString(fmt.Sprintf("   🔄 %s at %s\n", frequencyLabel(med.Frequency), strings.Join(med.Times, ", ")))
		if med.Instructions != "" {
			sb.WriteString("   📝 " + med.Instructions + "\n")
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Schedule renders today's dose events in chronological order.
func Schedule(events []models.DoseEvent) string {
	if len(events) == 0 {
		return "📅 No medications scheduled for today."
	}

	var sb strings.Builder
	sb.WriteString("📅 *Today's schedule*\n\n")
	for _, ev := range events {
		mark := "⬜"
		if ev.Taken {
			mark = "✅"
		}
		sb.WriteString(fmt.Sprintf("%s *%s* — %s (%s)\n", mark, ev.Time, ev.Name, ev.Dosage))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Draft renders the in-progress medication draft with per-field hints for
// what still needs to be filled in.
func Draft(med *models.Medication) string {
	missing := func(s string) string {
		if s == "" {
			return "_missing_"
		}
		return s
	}

	var sb strings.Builder
	sb.WriteString("📝 *Medication draft*\n\n")
	sb.WriteString("Name: " + missing(med.Name) + "\n")
	sb.WriteString("Dosage: " + missing(med.Dosage) + "\n")
	sb.WriteString("Frequency: " + frequencyLabel(med.Frequency) + "\n")
	if len(med.Times) == 0 {
		sb.WriteString("Times: _missing_\n")
	} else {
		sb.WriteString("Times: " + strings.Join(med.Times, ", ") + "\n")
	}
	sb.WriteString("Instructions: ")
	if med.Instructions == "" {
		sb.WriteString("_none_")
	} else {
		sb.WriteString(med.Instructions)
	}
	sb.WriteString("\n\nUse /set to correct a field (e.g. `/set name Amoxicillin`), then save or discard below.")
	return sb.String()
}
