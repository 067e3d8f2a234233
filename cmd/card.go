package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/models"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/render"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/shared"
)

// cardFields maps `card copy` field names to draft values.
var cardFields = map[string]func(rec *models.CardRecord) string{
	"first-name": func(rec *models.CardRecord) string { return rec.FirstName },
	"last-name":  func(rec *models.CardRecord) string { return rec.LastName },
	"full-name":  func(rec *models.CardRecord) string { return rec.FullName() },
	"id-number":  func(rec *models.CardRecord) string { return rec.IDNumber },
	"major":      func(rec *models.CardRecord) string { return rec.Major },
	"email":      func(rec *models.CardRecord) string { return rec.Email },
}

// CardShow prints the draft.
func (r *Runner) CardShow(ctx context.Context, cmd *cli.Command) error {
	drafts, err := r.drafts()
	if err != nil {
		return err
	}
	rec, err := drafts.Get()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"first_name": rec.FirstName,
			"last_name":  rec.LastName,
			"id_number":  rec.IDNumber,
			"major":      rec.Major,
			"email":      rec.Email,
			"has_photo":  rec.HasPhoto(),
		}, true)
	}

	r.writeRecord(rec)
	return nil
}

// CardSet updates only the fields whose flags were given.
func (r *Runner) CardSet(ctx context.Context, cmd *cli.Command) error {
	drafts, err := r.drafts()
	if err != nil {
		return err
	}
	rec, err := drafts.Get()
	if err != nil {
		return err
	}

	updates := map[string]*string{
		"first-name": &rec.FirstName,
		"last-name":  &rec.LastName,
		"id-number":  &rec.IDNumber,
		"major":      &rec.Major,
		"email":      &rec.Email,
	}
	changed := 0
	for flag, field := range updates {
		if cmd.IsSet(flag) {
			*field = strings.TrimSpace(cmd.String(flag))
			changed++
		}
	}
	if changed == 0 {
		return fmt.Errorf("%w: at least one field flag is required", shared.ErrMissingArgument)
	}

	if err := drafts.Save(rec); err != nil {
		return err
	}
	r.logger.Info("Draft updated", "fields", changed)
	r.writeRecord(rec)
	return nil
}

// CardPhoto stores an image file as the draft photo, or clears it.
func (r *Runner) CardPhoto(ctx context.Context, cmd *cli.Command) error {
	drafts, err := r.drafts()
	if err != nil {
		return err
	}
	rec, err := drafts.Get()
	if err != nil {
		return err
	}

	if cmd.Bool("clear") {
		rec.Photo = nil
		if err := drafts.Save(rec); err != nil {
			return err
		}
		r.writePlain("✓ Photo cleared\n")
		return nil
	}

	data, err := r.readImage(cmd.StringArg("path"))
	if err != nil {
		return err
	}
	rec.Photo = data
	if err := drafts.Save(rec); err != nil {
		return err
	}
	r.writePlain("✓ Photo set (%d bytes)\n", len(data))
	return nil
}

// CardGenerate replaces the draft with a generated record.
//
// A failed generation resets the draft to empty.
func (r *Runner) CardGenerate(ctx context.Context, cmd *cli.Command) error {
	drafts, err := r.drafts()
	if err != nil {
		return err
	}
	generator, err := r.generator(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("Generating record")
	rec, err := generator.Generate(ctx)
	if err != nil {
		if rerr := drafts.Reset(); rerr != nil {
			r.logger.Warn("Failed to reset draft", "error", rerr)
		}
		return err
	}

	if err := drafts.Save(rec); err != nil {
		return err
	}
	r.writePlain("✓ Generated %s\n", rec.FullName())
	r.writeRecord(rec)
	return nil
}

// CardCopy copies one draft field to the clipboard.
func (r *Runner) CardCopy(ctx context.Context, cmd *cli.Command) error {
	field := cmd.StringArg("field")
	value, ok := cardFields[field]
	if !ok {
		return fmt.Errorf("%w: unknown field %q (one of first-name, last-name, full-name, id-number, major, email)", shared.ErrInvalidArgument, field)
	}

	drafts, err := r.drafts()
	if err != nil {
		return err
	}
	rec, err := drafts.Get()
	if err != nil {
		return err
	}

	if err := r.clipboard(value(rec)); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	r.writePlain("✓ %s copied\n", field)
	return nil
}

// CardReset clears the draft.
func (r *Runner) CardReset(ctx context.Context, cmd *cli.Command) error {
	drafts, err := r.drafts()
	if err != nil {
		return err
	}
	if err := drafts.Reset(); err != nil {
		return err
	}
	r.writePlain("✓ Draft cleared\n")
	return nil
}

// CardExport renders the draft into a PNG named after its email.
func (r *Runner) CardExport(ctx context.Context, cmd *cli.Command) error {
	drafts, err := r.drafts()
	if err != nil {
		return err
	}
	rec, err := drafts.Get()
	if err != nil {
		return err
	}
	renderer, err := r.renderer()
	if err != nil {
		return err
	}

	dir := cmd.String("output")
	if dir == "" {
		dir = r.config.Export.OutputDir
	}

	path, err := render.ExportPNG(ctx, renderer, rec, dir)
	if err != nil {
		return err
	}
	r.logger.Info("Card exported", "path", path)
	r.writePlain("✓ Saved %s\n", path)
	return nil
}

// readImage loads path and checks that it decodes as a supported image.
func (r *Runner) readImage(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: image path is required", shared.ErrMissingArgument)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	_, format, err := render.DecodeImage(data)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("Image accepted", "path", path, "format", format)
	return data, nil
}

func (r *Runner) writeRecord(rec *models.CardRecord) {
	photo := "none"
	if rec.HasPhoto() {
		photo = fmt.Sprintf("%d bytes", len(rec.Photo))
	}
	r.writePlainHeader(models.Institution)
	r.writePlain("Name:      %s\n", rec.FullName())
	r.writePlain("ID number: %s\n", rec.IDNumber)
	r.writePlain("Major:     %s\n", rec.Major)
	r.writePlain("Email:     %s\n", rec.Email)
	r.writePlain("Photo:     %s\n", photo)
}
