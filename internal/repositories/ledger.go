package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/models"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/shared"
)

// LedgerRepository stores generated full names and the custom template.
type LedgerRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewLedgerRepository creates a new [LedgerRepository] with the given database connection
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db, now: time.Now}
}

// Exists reports whether fullName has already been generated.
func (r *LedgerRepository) Exists(fullName string) (bool, error) {
	var exists bool
	err := r.db.QueryRow("SELECT EXISTS(SELECT 1 FROM generated_names WHERE full_name = ?)", fullName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: failed to check name: %w", shared.ErrStorage, err)
	}
	return exists, nil
}

// Insert records fullName with a generation timestamp. An existing entry is overwritten.
func (r *LedgerRepository) Insert(fullName, email string) error {
	query := `
		INSERT INTO generated_names (full_name, email, created_at) VALUES (?, ?, ?)
		ON CONFLICT(full_name) DO UPDATE SET email = excluded.email, created_at = excluded.created_at
	`
	if _, err := r.db.Exec(query, fullName, email, r.now().UTC()); err != nil {
		return fmt.Errorf("%w: failed to insert name: %w", shared.ErrStorage, err)
	}
	return nil
}

// Reserve inserts fullName only if it is not already present, as a single statement.
// It returns false when another caller already holds the name.
func (r *LedgerRepository) Reserve(fullName, email string) (bool, error) {
	query := `
		INSERT INTO generated_names (full_name, email, created_at) VALUES (?, ?, ?)
		ON CONFLICT(full_name) DO NOTHING
	`
	res, err := r.db.Exec(query, fullName, email, r.now().UTC())
	if err != nil {
		return false, fmt.Errorf("%w: failed to reserve name: %w", shared.ErrStorage, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: failed to read reservation result: %w", shared.ErrStorage, err)
	}
	return n == 1, nil
}

// Get returns the entry for fullName or [shared.ErrNotFound].
func (r *LedgerRepository) Get(fullName string) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	err := r.db.QueryRow("SELECT full_name, email, created_at FROM generated_names WHERE full_name = ?", fullName).
		Scan(&entry.FullName, &entry.Email, &entry.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrNotFound, fullName)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get name: %w", shared.ErrStorage, err)
	}
	return &entry, nil
}

// List returns entries newest first. A limit of 0 or less returns everything.
func (r *LedgerRepository) List(limit int) ([]models.LedgerEntry, error) {
	query := "SELECT full_name, email, created_at FROM generated_names ORDER BY created_at DESC, full_name"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list names: %w", shared.ErrStorage, err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var entry models.LedgerEntry
		if err := rows.Scan(&entry.FullName, &entry.Email, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: failed to scan name: %w", shared.ErrStorage, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate names: %w", shared.ErrStorage, err)
	}
	return entries, nil
}

// GetTemplate returns the custom background, or ok=false when none is saved.
func (r *LedgerRepository) GetTemplate() ([]byte, bool, error) {
	var data []byte
	err := r.db.QueryRow("SELECT data FROM templates WHERE id = ?", models.TemplateKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to get template: %w", shared.ErrStorage, err)
	}
	return data, true, nil
}

// SaveTemplate creates or replaces the custom background.
func (r *LedgerRepository) SaveTemplate(data []byte) error {
	query := `
		INSERT INTO templates (id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`
	if _, err := r.db.Exec(query, models.TemplateKey, data, r.now().UTC()); err != nil {
		return fmt.Errorf("%w: failed to save template: %w", shared.ErrStorage, err)
	}
	return nil
}

// RemoveTemplate deletes the custom background. Removing when none exists is not an error.
func (r *LedgerRepository) RemoveTemplate() error {
	if _, err := r.db.Exec("DELETE FROM templates WHERE id = ?", models.TemplateKey); err != nil {
		return fmt.Errorf("%w: failed to remove template: %w", shared.ErrStorage, err)
	}
	return nil
}
