package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"medminder/internal/database"
	"medminder/internal/models"
)

var ErrNotFound = errors.New("not found")

type MedicationRepository struct {
	db *database.DB
}

func NewMedicationRepository(db *database.DB) *MedicationRepository {
	return &MedicationRepository{db: db}
}

func (r *MedicationRepository) Create(ctx context.Context, med *models.Medication) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO medications (medication_id, name, dosage, frequency, times, start_date, instructions, image_uri)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		med.ID, med.Name, med.Dosage, med.Frequency, med.Times, med.StartDate, med.Instructions, med.ImageURI,
	).Scan(&med.CreatedAt)
}

// List returns all medications ordered by creation time then id. The order
// is deterministic on purpose: the schedule view's stable sort inherits it
// as the tie-break for doses sharing a time.
func (r *MedicationRepository) List(ctx context.Context) ([]*models.Medication, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT medication_id, name, dosage, frequency, times, to_char(start_date, 'YYYY-MM-DD'), instructions, image_uri, created_at
		 FROM medications ORDER BY created_at ASC, medication_id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meds []*models.Medication
	for rows.Next() {
		med := &models.Medication{}
		if err := rows.Scan(&med.ID, &med.Name, &med.Dosage, &med.Frequency, &med.Times,
			&med.StartDate, &med.Instructions, &med.ImageURI, &med.CreatedAt); err != nil {
			return nil, err
		}
		meds = append(meds, med)
	}
	return meds, rows.Err()
}

func (r *MedicationRepository) GetByID(ctx context.Context, id string) (*models.Medication, error) {
	med := &models.Medication{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT medication_id, name, dosage, frequency, times, to_char(start_date, 'YYYY-MM-DD'), instructions, image_uri, created_at
		 FROM medications WHERE medication_id = $1`,
		id,
	).Scan(&med.ID, &med.Name, &med.Dosage, &med.Frequency, &med.Times,
		&med.StartDate, &med.Instructions, &med.ImageURI, &med.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return med, nil
}

func (r *MedicationRepository) UpdateTimes(ctx context.Context, id string, times []string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE medications SET times = $1 WHERE medication_id = $2`,
		times, id,
	)
	return err
}

func (r *MedicationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM medications WHERE medication_id = $1`,
		id,
	)
	return err
}
