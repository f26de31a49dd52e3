// Package reminder registers recurring dose triggers when a medication is
// saved and cancels them when it is deleted. Delivery itself belongs to the
// scheduler; this package only manages registrations.
package reminder

import (
	"context"
	"fmt"
	"log"
	"time"

	"medminder/internal/models"
	"medminder/internal/rrule"
	"medminder/internal/schedule"
)

// Registry is the trigger store the dispatcher registers with. Satisfied by
// repository.ReminderRepository.
type Registry interface {
	Register(ctx context.Context, trigger *models.ReminderTrigger) error
	CancelByMedication(ctx context.Context, medicationID string) error
}

// Notifier wakes the scheduler so a freshly registered trigger is picked up
// without waiting for the next tick.
type Notifier interface {
	Notify()
}

type Dispatcher struct {
	registry Registry
	notifier Notifier
	now      func() time.Time
}

func New(registry Registry, notifier Notifier) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		notifier: notifier,
		now:      time.Now,
	}
}

// Schedule registers one recurring trigger per distinct time of the
// medication. It is called once, at the moment the medication is newly
// persisted. A registration failure is returned to the caller but must not
// roll back the save: the medication stays stored and the user is warned
// that reminders may not fire.
func (d *Dispatcher) Schedule(ctx context.Context, med *models.Medication) error {
	times, err := schedule.ExpandTimes(med.Times)
	if err != nil {
		return fmt.Errorf("cannot schedule reminders for %s: %w", med.ID, err)
	}

	now := d.now()
	var firstErr error
	for _, t := range times {
		if err := d.register(ctx, med, t, now); err != nil {
			log.Printf("Failed to register trigger %s %s: %v", med.ID, t, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if d.notifier != nil {
		d.notifier.Notify()
	}
	if firstErr != nil {
		return fmt.Errorf("some reminders were not registered: %w", firstErr)
	}
	return nil
}

func (d *Dispatcher) register(ctx context.Context, med *models.Medication, timeOfDay string, now time.Time) error {
	var rule string
	var err error
	if med.Frequency == models.FrequencyWeekly {
		rule, err = rrule.WeeklyAt(timeOfDay)
	} else {
		rule, err = rrule.DailyAt(timeOfDay)
	}
	if err != nil {
		return err
	}

	next, err := rrule.NextOccurrence(rule, now, now)
	if err != nil {
		return err
	}

	return d.registry.Register(ctx, &models.ReminderTrigger{
		MedicationID:   med.ID,
		TimeOfDay:      timeOfDay,
		RecurrenceRule: rule,
		NextFireAt:     next,
		Name:           med.Name,
		Dosage:         med.Dosage,
		Instructions:   med.Instructions,
	})
}

// Cancel removes every trigger registered for the medication. Called when
// the medication is deleted.
func (d *Dispatcher) Cancel(ctx context.Context, medicationID string) error {
	if err := d.registry.CancelByMedication(ctx, medicationID); err != nil {
		return fmt.Errorf("failed to cancel reminders for %s: %w", medicationID, err)
	}
	return nil
}
