package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"medminder/internal/database"
	"medminder/internal/models"
)

type ReminderRepository struct {
	db *database.DB
}

func NewReminderRepository(db *database.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// Register inserts one recurring trigger. Re-registering the same
// (medication, time) pair replaces the old row, so retries after a partial
// failure are safe.
func (r *ReminderRepository) Register(ctx context.Context, trigger *models.ReminderTrigger) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO reminder_triggers (medication_id, time_of_day, recurrence_rule, next_fire_at, name, dosage, instructions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (medication_id, time_of_day) DO UPDATE
		 SET recurrence_rule = EXCLUDED.recurrence_rule,
		     next_fire_at = EXCLUDED.next_fire_at,
		     name = EXCLUDED.name,
		     dosage = EXCLUDED.dosage,
		     instructions = EXCLUDED.instructions
		 RETURNING trigger_id, created_at`,
		trigger.MedicationID, trigger.TimeOfDay, trigger.RecurrenceRule, trigger.NextFireAt,
		trigger.Name, trigger.Dosage, trigger.Instructions,
	).Scan(&trigger.TriggerID, &trigger.CreatedAt)
}

// CancelByMedication removes every trigger registered for a medication.
func (r *ReminderRepository) CancelByMedication(ctx context.Context, medicationID string) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM reminder_triggers WHERE medication_id = $1`,
		medicationID,
	)
	return err
}

func (r *ReminderRepository) GetByMedication(ctx context.Context, medicationID string) ([]*models.ReminderTrigger, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT trigger_id, medication_id, time_of_day, recurrence_rule, next_fire_at, name, dosage, instructions, created_at
		 FROM reminder_triggers WHERE medication_id = $1 ORDER BY time_of_day ASC`,
		medicationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTriggers(rows)
}

// GetDue returns triggers whose next fire time has arrived.
func (r *ReminderRepository) GetDue(ctx context.Context, until time.Time) ([]*models.ReminderTrigger, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT trigger_id, medication_id, time_of_day, recurrence_rule, next_fire_at, name, dosage, instructions, created_at
		 FROM reminder_triggers WHERE next_fire_at IS NOT NULL AND next_fire_at <= $1
		 ORDER BY next_fire_at ASC`,
		until,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTriggers(rows)
}

func (r *ReminderRepository) SetNextFireAt(ctx context.Context, triggerID int, nextFireAt *time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE reminder_triggers SET next_fire_at = $1 WHERE trigger_id = $2`,
		nextFireAt, triggerID,
	)
	return err
}

func scanTriggers(rows pgx.Rows) ([]*models.ReminderTrigger, error) {
	var triggers []*models.ReminderTrigger
	for rows.Next() {
		trigger := &models.ReminderTrigger{}
		if err := rows.Scan(&trigger.TriggerID, &trigger.MedicationID, &trigger.TimeOfDay,
			&trigger.RecurrenceRule, &trigger.NextFireAt, &trigger.Name, &trigger.Dosage,
			&trigger.Instructions, &trigger.CreatedAt); err != nil {
			return nil, err
		}
		triggers = append(triggers, trigger)
	}
	return triggers, rows.Err()
}
