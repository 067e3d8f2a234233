package repositories

import (
	"bytes"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/models"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestLedgerRepository(t *testing.T) {
	t.Run("Exists before and after Insert", func(t *testing.T) {
		repo := NewLedgerRepository(setupTestDB(t))

		exists, err := repo.Exists("Budi Santoso")
		if err != nil {
			t.Fatalf("Exists() error = %v", err)
		}
		if exists {
			t.Fatal("name should not exist before insert")
		}

		if err := repo.Insert("Budi Santoso", "budisantoso7@student.example"); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}

		exists, err = repo.Exists("Budi Santoso")
		if err != nil {
			t.Fatalf("Exists() error = %v", err)
		}
		if !exists {
			t.Error("name should exist after insert")
		}
	})

	t.Run("Insert records timestamp and overwrites duplicates", func(t *testing.T) {
		repo := NewLedgerRepository(setupTestDB(t))
		first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		repo.now = func() time.Time { return first }

		if err := repo.Insert("Sari Dewi", "saridewi1@student.example"); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}

		entry, err := repo.Get("Sari Dewi")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !entry.CreatedAt.Equal(first) {
			t.Errorf("expected created_at %v, got %v", first, entry.CreatedAt)
		}

		if err := repo.Insert("Sari Dewi", "saridewi2@student.example"); err != nil {
			t.Fatalf("second Insert() error = %v", err)
		}
		entry, err = repo.Get("Sari Dewi")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if entry.Email != "saridewi2@student.example" {
			t.Errorf("expected overwritten email, got %s", entry.Email)
		}

		entries, err := repo.List(0)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("expected a single entry, got %d", len(entries))
		}
	})

	t.Run("Reserve is conditional", func(t *testing.T) {
		repo := NewLedgerRepository(setupTestDB(t))

		ok, err := repo.Reserve("Agus Wijaya", "aguswijaya3@student.example")
		if err != nil {
			t.Fatalf("Reserve() error = %v", err)
		}
		if !ok {
			t.Fatal("first reservation should succeed")
		}

		ok, err = repo.Reserve("Agus Wijaya", "other@student.example")
		if err != nil {
			t.Fatalf("Reserve() error = %v", err)
		}
		if ok {
			t.Error("second reservation of the same name should fail")
		}

		entry, err := repo.Get("Agus Wijaya")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if entry.Email != "aguswijaya3@student.example" {
			t.Errorf("losing reservation must not overwrite, got %s", entry.Email)
		}
	})

	t.Run("Get missing", func(t *testing.T) {
		repo := NewLedgerRepository(setupTestDB(t))
		if _, err := repo.Get("Nobody"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("List newest first with limit", func(t *testing.T) {
		repo := NewLedgerRepository(setupTestDB(t))
		base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
		for i, name := range []string{"A One", "B Two", "C Three"} {
			at := base.Add(time.Duration(i) * time.Hour)
			repo.now = func() time.Time { return at }
			if err := repo.Insert(name, "x@student.example"); err != nil {
				t.Fatalf("Insert() error = %v", err)
			}
		}

		entries, err := repo.List(2)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].FullName != "C Three" || entries[1].FullName != "B Two" {
			t.Errorf("unexpected order: %s, %s", entries[0].FullName, entries[1].FullName)
		}
	})
}

func TestTemplateStorage(t *testing.T) {
	repo := NewLedgerRepository(setupTestDB(t))

	if _, ok, err := repo.GetTemplate(); err != nil || ok {
		t.Fatalf("expected no template, got ok=%v err=%v", ok, err)
	}

	if err := repo.SaveTemplate([]byte("first")); err != nil {
		t.Fatalf("SaveTemplate() error = %v", err)
	}
	if err := repo.SaveTemplate([]byte("second")); err != nil {
		t.Fatalf("SaveTemplate() overwrite error = %v", err)
	}

	data, ok, err := repo.GetTemplate()
	if err != nil || !ok {
		t.Fatalf("expected template, got ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(data, []byte("second")) {
		t.Errorf("expected overwritten template, got %q", data)
	}

	if err := repo.RemoveTemplate(); err != nil {
		t.Fatalf("RemoveTemplate() error = %v", err)
	}
	if _, ok, _ := repo.GetTemplate(); ok {
		t.Error("template should be gone after removal")
	}
	if err := repo.RemoveTemplate(); err != nil {
		t.Errorf("removing an absent template should succeed, got %v", err)
	}
}

func TestDraftRepository(t *testing.T) {
	repo := NewDraftRepository(setupTestDB(t))

	rec, err := repo.Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !rec.IsEmpty() {
		t.Errorf("expected empty draft, got %+v", rec)
	}

	want := &models.CardRecord{
		FirstName: "Rina",
		LastName:  "Putri",
		IDNumber:  "2101234567",
		Major:     "Biology",
		Email:     "rinaputri5@student.example",
		Photo:     []byte{0x89, 'P', 'N', 'G'},
	}
	if err := repo.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := repo.Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.FullName() != "Rina Putri" || got.Email != want.Email || !bytes.Equal(got.Photo, want.Photo) {
		t.Errorf("round trip mismatch: %+v", got)
	}

	if err := repo.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	got, _ = repo.Get()
	if !got.IsEmpty() {
		t.Errorf("expected empty draft after reset, got %+v", got)
	}
}

func TestStorageErrors(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerRepository(db)
	drafts := NewDraftRepository(db)
	db.Close()

	tc := []struct {
		name string
		fn   func() error
	}{
		{"Exists", func() error { _, err := ledger.Exists("x"); return err }},
		{"Insert", func() error { return ledger.Insert("x", "y") }},
		{"Reserve", func() error { _, err := ledger.Reserve("x", "y"); return err }},
		{"List", func() error { _, err := ledger.List(0); return err }},
		{"GetTemplate", func() error { _, _, err := ledger.GetTemplate(); return err }},
		{"SaveTemplate", func() error { return ledger.SaveTemplate([]byte("x")) }},
		{"RemoveTemplate", func() error { return ledger.RemoveTemplate() }},
		{"Draft Get", func() error { _, err := drafts.Get(); return err }},
		{"Draft Save", func() error { return drafts.Save(&models.CardRecord{}) }},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, shared.ErrStorage) {
				t.Errorf("expected ErrStorage, got %v", err)
			}
		})
	}
}
