package formatter

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/models"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/shared"
	th "github.com/marifbalya/pembuat-ktm-auto-zip/internal/testing"
)

func sampleEntries() []models.LedgerEntry {
	created := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	return []models.LedgerEntry{
		{FullName: "Siti Rahma", Email: "sitirahma12@student.example", CreatedAt: created},
		{FullName: "Budi Santoso", Email: "budisantoso7@student.example", CreatedAt: created.Add(time.Minute)},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleEntries())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "Full Name,Email,Created At\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "Siti Rahma,sitirahma12@student.example,2026-10-18T09:30:00Z") {
			t.Errorf("CSV missing first entry, got: %s", output)
		}
		if strings.Count(output, "\n") != 3 {
			t.Errorf("expected 3 lines, got: %s", output)
		}
	})

	t.Run("ExportToCSV quotes commas", func(t *testing.T) {
		entries := []models.LedgerEntry{{FullName: "Rahma, Siti", Email: "x@student.example"}}
		data, err := ExportToCSV(entries)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}
		if !strings.Contains(string(data), `"Rahma, Siti"`) {
			t.Errorf("expected quoted name, got: %s", data)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleEntries())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "# Generated names") {
			t.Errorf("Markdown missing heading")
		}
		if !strings.Contains(output, "**Entries**: 2") {
			t.Errorf("Markdown missing entry count")
		}
		if !strings.Contains(output, "| 2 | Budi Santoso | budisantoso7@student.example |") {
			t.Errorf("Markdown missing second row, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown escapes pipes", func(t *testing.T) {
		data, _ := ExportToMarkdown([]models.LedgerEntry{{FullName: "A|B"}})
		if !strings.Contains(string(data), `A\|B`) {
			t.Errorf("expected escaped pipe, got: %s", data)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleEntries())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Generated names: 2") {
			t.Errorf("text missing count")
		}
		if !strings.Contains(output, "1. Siti Rahma <sitirahma12@student.example>") {
			t.Errorf("text missing first entry, got: %s", output)
		}
	})

	t.Run("empty ledger", func(t *testing.T) {
		for _, format := range []Format{CSV, Markdown, Text} {
			if _, err := Export(format, nil); err != nil {
				t.Errorf("%s: unexpected error %v", format, err)
			}
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"csv", CSV, true},
		{"CSV", CSV, true},
		{"md", Markdown, true},
		{"markdown", Markdown, true},
		{"txt", Text, true},
		{" text ", Text, true},
		{"pdf", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.ok {
				if err != nil || got != tt.want {
					t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
				}
				return
			}
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("ParseFormat(%q): expected ErrInvalidArgument, got %v", tt.in, err)
			}
		})
	}
}

func TestWriteExport(t *testing.T) {
	t.Run("writes to the given path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "names.csv")

		got, err := WriteExport(CSV, sampleEntries(), path)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
		if !strings.Contains(string(th.MustReadFile(t, path)), "Budi Santoso") {
			t.Error("expected file to contain entries")
		}
	})

	t.Run("defaults the filename", func(t *testing.T) {
		t.Chdir(t.TempDir())

		got, err := WriteExport(Markdown, sampleEntries(), "")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if got != "ledger.md" {
			t.Errorf("expected ledger.md, got %s", got)
		}
		th.AssertFileExists(t, got)
	})

	t.Run("unwritable path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "names.txt")
		if _, err := WriteExport(Text, sampleEntries(), path); err == nil {
			t.Error("expected write error")
		}
	})
}
