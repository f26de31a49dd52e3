package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medminder/internal/models"
)

func TestFields_EmptyInput(t *testing.T) {
	assert.True(t, Fields("").IsEmpty())
	assert.True(t, Fields("   \n\t  ").IsEmpty())
}

func TestFields_UnrecognizableText(t *testing.T) {
	// No dosage, frequency, or time pattern anywhere: every field absent.
	fields := Fields("qzx 9f#! lorem ipsum\n????\n---")
	assert.True(t, fields.IsEmpty())
}

func TestFields_TypicalLabel(t *testing.T) {
	raw := "Amoxicillin 500mg\nTake twice daily with food\nDr. Smith"

	fields := Fields(raw)
	assert.Equal(t, "Amoxicillin", fields.Name)
	assert.Equal(t, "500mg", fields.Dosage)
	assert.Equal(t, models.FrequencyTwiceDaily, fields.Frequency)
	assert.Equal(t, "with food", fields.Instructions)
}

func TestFields_Dosage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"unit attached", "Metformin 850mg once daily", "850mg"},
		{"unit spaced", "take 250 ml after meals", "250ml"},
		{"decimal value", "Levothyroxine 0.5 mg", "0.5mg"},
		{"micrograms", "Vitamin D 1000mcg", "1000mcg"},
		{"tablets", "2 tablets every day", "2tablets"},
		{"uppercase unit", "IBUPROFEN 400MG", "400mg"},
		{"first match wins", "Aspirin 100mg then 200mg", "100mg"},
		{"no unit no dosage", "take 3 of these", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fields(tt.raw).Dosage)
		})
	}
}

func TestFields_Frequency(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.Frequency
	}{
		{"once daily", "Lisinopril 10mg once daily", models.FrequencyDaily},
		{"plain daily", "take daily", models.FrequencyDaily},
		{"twice a day", "take twice a day", models.FrequencyTwiceDaily},
		{"twice daily", "twice daily with water", models.FrequencyTwiceDaily},
		{"three times", "three times a day", models.FrequencyThriceDaily},
		{"thrice", "thrice daily", models.FrequencyThriceDaily},
		{"weekly", "one dose weekly", models.FrequencyWeekly},
		{"earliest match wins", "weekly, or as directed: twice a day", models.FrequencyWeekly},
		{"absent", "Aspirin 100mg", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fields(tt.raw).Frequency)
		})
	}
}

func TestFields_Name(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"name before dosage", "Amoxicillin 500mg", "Amoxicillin"},
		{"dosage-only first line skipped", "500mg\nMetformin\ntwice daily", "Metformin"},
		{"frequency-only first line skipped", "Twice daily\nAtorvastatin 20mg", "Atorvastatin"},
		{"blank lines skipped", "\n\n  \nWarfarin 5mg", "Warfarin"},
		{"multi word name", "Vitamin D3 1000iu daily", "Vitamin D3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fields(tt.raw).Name)
		})
	}
}

func TestFields_Times(t *testing.T) {
	fields := Fields("take at 8:00 am and 9:30 PM")
	assert.Equal(t, []string{"08:00", "21:30"}, fields.Times)

	fields = Fields("09:00 then again 09:00 and 21:00")
	assert.Equal(t, []string{"09:00", "21:00"}, fields.Times)

	fields = Fields("12:00 am and 12:30 pm")
	assert.Equal(t, []string{"00:00", "12:30"}, fields.Times)

	assert.Nil(t, Fields("no clock here").Times)
}

func TestFields_FrequencyInferredFromTimes(t *testing.T) {
	// No frequency keyword, but two recognized times.
	fields := Fields("Insulin 10units at 08:00 and 20:00")
	assert.Equal(t, models.FrequencyTwiceDaily, fields.Frequency)
}

func TestFields_Instructions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"take with", "Take with a full glass of water", "Take with a full glass of water"},
		{"avoid", "Avoid alcohol while on this medication", "Avoid alcohol while on this medication"},
		{"before meals", "use before meals", "before meals"},
		{"empty stomach", "take on an empty stomach", "take on an empty stomach"},
		{"multiple joined", "Take with food. Avoid sunlight", "Take with food; Avoid sunlight"},
		{"absent", "Aspirin 100mg", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fields(tt.raw).Instructions)
		})
	}
}

func TestFields_NoisyOCRInput(t *testing.T) {
	// Irregular whitespace and casing, as OCR output tends to be.
	raw := "  LISINOPRIL   10 MG \n\n  ONCE  DAILY \n take with   food "

	fields := Fields(raw)
	require.False(t, fields.IsEmpty())
	assert.Equal(t, "LISINOPRIL", fields.Name)
	assert.Equal(t, "10mg", fields.Dosage)
	assert.Equal(t, models.FrequencyDaily, fields.Frequency)
	assert.Equal(t, "take with   food", fields.Instructions)
}
