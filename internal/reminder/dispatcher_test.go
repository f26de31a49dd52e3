package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medminder/internal/models"
)

type fakeRegistry struct {
	registered []*models.ReminderTrigger
	cancelled  []string
	failWith   error
}

func (f *fakeRegistry) Register(ctx context.Context, trigger *models.ReminderTrigger) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.registered = append(f.registered, trigger)
	return nil
}

func (f *fakeRegistry) CancelByMedication(ctx context.Context, medicationID string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.cancelled = append(f.cancelled, medicationID)
	return nil
}

type fakeNotifier struct {
	notified int
}

func (f *fakeNotifier) Notify() { f.notified++ }

func testMedication() *models.Medication {
	return &models.Medication{
		ID:           "med-1",
		Name:         "Amoxicillin",
		Dosage:       "500mg",
		Frequency:    models.FrequencyTwiceDaily,
		Times:        []string{"09:00", "21:00", "09:00"},
		Instructions: "with food",
	}
}

func TestSchedule_OneTriggerPerDistinctTime(t *testing.T) {
	registry := &fakeRegistry{}
	notifier := &fakeNotifier{}
	d := New(registry, notifier)
	d.now = func() time.Time { return time.Date(2026, 3, 10, 6, 0, 0, 0, time.Local) }

	err := d.Schedule(context.Background(), testMedication())
	require.NoError(t, err)

	// The duplicated 09:00 collapses to one trigger.
	require.Len(t, registry.registered, 2)
	assert.Equal(t, "09:00", registry.registered[0].TimeOfDay)
	assert.Equal(t, "21:00", registry.registered[1].TimeOfDay)
	assert.Equal(t, 1, notifier.notified)
}

func TestSchedule_TriggersCarryPayload(t *testing.T) {
	registry := &fakeRegistry{}
	d := New(registry, nil)
	d.now = func() time.Time { return time.Date(2026, 3, 10, 6, 0, 0, 0, time.Local) }

	require.NoError(t, d.Schedule(context.Background(), testMedication()))

	for _, trigger := range registry.registered {
		assert.Equal(t, "med-1", trigger.MedicationID)
		assert.Equal(t, "Amoxicillin", trigger.Name)
		assert.Equal(t, "500mg", trigger.Dosage)
		assert.Equal(t, "with food", trigger.Instructions)
	}
}

func TestSchedule_NextFireAtMatchesTimeOfDay(t *testing.T) {
	registry := &fakeRegistry{}
	d := New(registry, nil)
	d.now = func() time.Time { return time.Date(2026, 3, 10, 6, 0, 0, 0, time.Local) }

	med := testMedication()
	med.Frequency = models.FrequencyDaily
	med.Times = []string{"09:00"}
	require.NoError(t, d.Schedule(context.Background(), med))

	require.Len(t, registry.registered, 1)
	trigger := registry.registered[0]
	assert.Equal(t, "FREQ=DAILY;BYHOUR=9;BYMINUTE=0;BYSECOND=0", trigger.RecurrenceRule)
	require.NotNil(t, trigger.NextFireAt)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local), *trigger.NextFireAt)
}

func TestSchedule_WeeklyMedicationGetsWeeklyRule(t *testing.T) {
	registry := &fakeRegistry{}
	d := New(registry, nil)
	d.now = func() time.Time { return time.Date(2026, 3, 10, 6, 0, 0, 0, time.Local) }

	med := testMedication()
	med.Frequency = models.FrequencyWeekly
	med.Times = []string{"09:00"}
	require.NoError(t, d.Schedule(context.Background(), med))

	require.Len(t, registry.registered, 1)
	assert.Equal(t, "FREQ=WEEKLY;BYHOUR=9;BYMINUTE=0;BYSECOND=0", registry.registered[0].RecurrenceRule)
}

func TestSchedule_RegistryFailureIsReported(t *testing.T) {
	registry := &fakeRegistry{failWith: errors.New("permission denied")}
	notifier := &fakeNotifier{}
	d := New(registry, notifier)

	err := d.Schedule(context.Background(), testMedication())
	// Reported to the caller, who saves the medication regardless.
	require.Error(t, err)
	assert.ErrorContains(t, err, "permission denied")
	// The scheduler is still nudged: a partial registration may have landed.
	assert.Equal(t, 1, notifier.notified)
}

func TestSchedule_RejectsMalformedTimes(t *testing.T) {
	registry := &fakeRegistry{}
	d := New(registry, nil)

	med := testMedication()
	med.Times = []string{"9am"}
	err := d.Schedule(context.Background(), med)
	require.Error(t, err)
	assert.Empty(t, registry.registered)
}

func TestCancel(t *testing.T) {
	registry := &fakeRegistry{}
	d := New(registry, nil)

	require.NoError(t, d.Cancel(context.Background(), "med-1"))
	assert.Equal(t, []string{"med-1"}, registry.cancelled)
}

func TestCancel_Failure(t *testing.T) {
	registry := &fakeRegistry{failWith: errors.New("store offline")}
	d := New(registry, nil)

	err := d.Cancel(context.Background(), "med-1")
	require.Error(t, err)
	assert.ErrorContains(t, err, "store offline")
}
