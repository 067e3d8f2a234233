// package formatter renders ledger entries as CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/models"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/shared"
)

// Format is an export format for ledger entries.
type Format string

const (
	CSV      Format = "csv"
	Markdown Format = "md"
	Text     Format = "txt"
)

const timeLayout = time.RFC3339

// ParseFormat accepts csv, md/markdown and txt/text, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return CSV, nil
	case "md", "markdown":
		return Markdown, nil
	case "txt", "text":
		return Text, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (csv, md, txt)", shared.ErrInvalidArgument, s)
	}
}

// ExportToCSV converts entries to CSV with columns: Full Name, Email, Created At
func ExportToCSV(entries []models.LedgerEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Full Name", "Email", "Created At"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, e := range entries {
		record := []string{e.FullName, e.Email, e.CreatedAt.UTC().Format(timeLayout)}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts entries to a Markdown table under a heading.
func ExportToMarkdown(entries []models.LedgerEntry) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Generated names - %s\n\n", models.Institution)
	fmt.Fprintf(&buf, "**Entries**: %d\n\n", len(entries))

	buf.WriteString("| # | Full Name | Email | Created At |\n")
	buf.WriteString("|---|-----------|-------|------------|\n")
	for i, e := range entries {
		fmt.Fprintf(&buf, "| %d | %s | %s | %s |\n", i+1, escapeCell(e.FullName), escapeCell(e.Email), e.CreatedAt.UTC().Format(timeLayout))
	}

	return buf.Bytes(), nil
}

// ExportToText converts entries to plain text, one per line.
func ExportToText(entries []models.LedgerEntry) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Generated names: %d\n\n", len(entries))
	for i, e := range entries {
		fmt.Fprintf(&buf, "%d. %s <%s>\n", i+1, e.FullName, e.Email)
	}

	return buf.Bytes(), nil
}

// Export renders entries in the given format.
func Export(format Format, entries []models.LedgerEntry) ([]byte, error) {
	switch format {
	case CSV:
		return ExportToCSV(entries)
	case Markdown:
		return ExportToMarkdown(entries)
	case Text:
		return ExportToText(entries)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteExport renders entries and writes them to path.
//
// Defaults to ledger.{format} as the filename.
func WriteExport(format Format, entries []models.LedgerEntry, path string) (string, error) {
	if path == "" {
		path = "ledger." + string(format)
	}

	data, err := Export(format, entries)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
