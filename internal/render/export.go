package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/models"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/shared"
)

// DefaultExportName is used when a record has no usable email.
const DefaultExportName = "student_id_card.png"

// Rasterizer turns one record into PNG bytes.
type Rasterizer interface {
	Render(ctx context.Context, rec *models.CardRecord) ([]byte, error)
}

// ExportFilename is "<email>.png" when email looks like an address, else [DefaultExportName].
func ExportFilename(email string) string {
	email = strings.TrimSpace(email)
	if email == "" || email == models.PlaceholderEmail || !strings.Contains(email, "@") {
		return DefaultExportName
	}
	return email + ".png"
}

// ExportPNG renders rec and writes it into dir, returning the file path.
// rec is never modified; a render failure writes nothing.
func ExportPNG(ctx context.Context, r Rasterizer, rec *models.CardRecord, dir string) (string, error) {
	data, err := r.Render(ctx, rec)
	if err != nil {
		if !errors.Is(err, shared.ErrRender) {
			err = fmt.Errorf("%w: %w", shared.ErrRender, err)
		}
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, ExportFilename(rec.Email))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
