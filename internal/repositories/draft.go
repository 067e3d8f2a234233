package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/models"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/shared"
)

// DraftRepository persists the record being edited between CLI invocations.
type DraftRepository struct {
	db *sql.DB
}

// NewDraftRepository creates a new [DraftRepository] with the given database connection
func NewDraftRepository(db *sql.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

// Get returns the current draft. A missing row yields an empty record.
func (r *DraftRepository) Get() (*models.CardRecord, error) {
	query := `SELECT first_name, last_name, id_number, major, email, photo FROM drafts WHERE id = 1`

	var rec models.CardRecord
	err := r.db.QueryRow(query).Scan(&rec.FirstName, &rec.LastName, &rec.IDNumber, &rec.Major, &rec.Email, &rec.Photo)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.CardRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get draft: %w", shared.ErrStorage, err)
	}
	return &rec, nil
}

// Save replaces the draft wholesale.
func (r *DraftRepository) Save(rec *models.CardRecord) error {
	query := `
		INSERT INTO drafts (id, first_name, last_name, id_number, major, email, photo, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			id_number = excluded.id_number,
			major = excluded.major,
			email = excluded.email,
			photo = excluded.photo,
			updated_at = excluded.updated_at
	`
	var photo any
	if rec.HasPhoto() {
		photo = rec.Photo
	}

	_, err := r.db.Exec(query, rec.FirstName, rec.LastName, rec.IDNumber, rec.Major, rec.Email, photo, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: failed to save draft: %w", shared.ErrStorage, err)
	}
	return nil
}

// Reset clears every field of the draft.
func (r *DraftRepository) Reset() error {
	return r.Save(&models.CardRecord{})
}
