package render

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/models"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/repositories"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/shared"
	tu "github.com/marifbalya/pembuat-ktm-auto-zip/internal/testing"
)

func quietLogger() *strings.Builder { return &strings.Builder{} }

func newRenderer(t *testing.T, templates TemplateSource, ratio int) *CardRenderer {
	t.Helper()
	return NewCardRenderer(templates, ratio, shared.NewLogger(quietLogger()))
}

func newLedger(t *testing.T) *repositories.LedgerRepository {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return repositories.NewLedgerRepository(db)
}

func sample() *models.CardRecord {
	return &models.CardRecord{
		FirstName: "Rina",
		LastName:  "Putri",
		IDNumber:  "2101234567",
		Major:     "Biology",
		Email:     "rinaputri5@student.example",
		Photo:     tu.SolidPNG(30, 40, color.RGBA{R: 10, G: 120, B: 200, A: 255}),
	}
}

func near(a, b color.Color) bool {
	r1, g1, b1, _ := a.RGBA()
	r2, g2, b2, _ := b.RGBA()
	d := func(x, y uint32) uint32 {
		if x > y {
			return x - y
		}
		return y - x
	}
	const tol = 3 << 8
	return d(r1, r2) <= tol && d(g1, g2) <= tol && d(b1, b2) <= tol
}

func corner(t *testing.T, data []byte) color.Color {
	t.Helper()
	return tu.MustDecodePNG(t, data).At(2, 2)
}

func TestCardRenderer_Render(t *testing.T) {
	t.Run("scales by pixel ratio", func(t *testing.T) {
		for _, ratio := range []int{1, 3} {
			data, err := newRenderer(t, nil, ratio).Render(context.Background(), sample())
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			bounds := tu.MustDecodePNG(t, data).Bounds()
			if bounds.Dx() != CardWidth*ratio || bounds.Dy() != CardHeight*ratio {
				t.Errorf("ratio %d: expected %dx%d, got %dx%d", ratio, CardWidth*ratio, CardHeight*ratio, bounds.Dx(), bounds.Dy())
			}
		}
	})

	t.Run("renders without a photo", func(t *testing.T) {
		rec := sample()
		rec.Photo = nil
		if _, err := newRenderer(t, nil, 1).Render(context.Background(), rec); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
	})

	t.Run("undecodable photo", func(t *testing.T) {
		rec := sample()
		rec.Photo = []byte("not an image")
		_, err := newRenderer(t, nil, 1).Render(context.Background(), rec)
		if !errors.Is(err, shared.ErrRender) {
			t.Errorf("expected ErrRender, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := newRenderer(t, nil, 1).Render(ctx, sample()); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestTemplateFallback(t *testing.T) {
	ledger := newLedger(t)
	renderer := newRenderer(t, ledger, 1)
	red := color.RGBA{R: 220, A: 255}

	data, err := renderer.Render(context.Background(), sample())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := corner(t, data); !near(got, DefaultHeaderColor) {
		t.Fatalf("expected default header colour, got %v", got)
	}

	if err := ledger.SaveTemplate(tu.SolidPNG(50, 32, red)); err != nil {
		t.Fatalf("SaveTemplate() error = %v", err)
	}
	data, err = renderer.Render(context.Background(), sample())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := corner(t, data); !near(got, red) {
		t.Fatalf("expected custom template colour, got %v", got)
	}

	if err := ledger.RemoveTemplate(); err != nil {
		t.Fatalf("RemoveTemplate() error = %v", err)
	}
	data, err = renderer.Render(context.Background(), sample())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := corner(t, data); !near(got, DefaultHeaderColor) {
		t.Errorf("expected default background after removal, got %v", got)
	}
}

func TestWatermarkSurvivesCustomTemplate(t *testing.T) {
	ledger := newLedger(t)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if err := ledger.SaveTemplate(tu.SolidPNG(50, 32, white)); err != nil {
		t.Fatalf("SaveTemplate() error = %v", err)
	}

	rec := &models.CardRecord{}
	data, err := newRenderer(t, ledger, 1).Render(context.Background(), rec)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	img := tu.MustDecodePNG(t, data)
	if !hasReddish(img) {
		t.Error("expected the watermark to tint a blank custom template")
	}
}

func hasReddish(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, _, _ := img.At(x, y).RGBA()
			if r > g+(40<<8) {
				return true
			}
		}
	}
	return false
}

func TestStageLifecycle(t *testing.T) {
	stage, err := newRenderer(t, nil, 1).OpenStage()
	if err != nil {
		t.Fatalf("OpenStage() error = %v", err)
	}
	cs := stage.(*canvasStage)

	first, err := stage.Mount(sample())
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if _, err := stage.Mount(sample()); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if cs.Active() != 2 {
		t.Fatalf("expected 2 active surfaces, got %d", cs.Active())
	}

	first.Close()
	if cs.Active() != 1 {
		t.Errorf("expected 1 active surface after close, got %d", cs.Active())
	}
	if _, err := first.Rasterize(context.Background()); !errors.Is(err, shared.ErrRender) {
		t.Errorf("rasterizing a released surface should fail, got %v", err)
	}

	stage.Close()
	if cs.Active() != 0 {
		t.Errorf("closing the stage should release all surfaces, got %d", cs.Active())
	}
	if _, err := stage.Mount(sample()); !errors.Is(err, shared.ErrRender) {
		t.Errorf("mounting on a closed stage should fail, got %v", err)
	}
}

func TestExportFilename(t *testing.T) {
	tc := []struct {
		email string
		want  string
	}{
		{"a@b.com", "a@b.com.png"},
		{"rinaputri5@student.example", "rinaputri5@student.example.png"},
		{"", DefaultExportName},
		{"...", DefaultExportName},
		{"not-an-address", DefaultExportName},
	}
	for _, tt := range tc {
		if got := ExportFilename(tt.email); got != tt.want {
			t.Errorf("ExportFilename(%q) = %s, want %s", tt.email, got, tt.want)
		}
	}
	if DefaultExportName != "student_id_card.png" {
		t.Errorf("unexpected default name %s", DefaultExportName)
	}
}

type failingRasterizer struct{}

func (failingRasterizer) Render(context.Context, *models.CardRecord) ([]byte, error) {
	return nil, tu.ErrFake
}

func TestExportPNG(t *testing.T) {
	t.Run("writes named file", func(t *testing.T) {
		dir := t.TempDir()
		rec := sample()
		rec.Email = "a@b.com"

		path, err := ExportPNG(context.Background(), newRenderer(t, nil, 1), rec, dir)
		if err != nil {
			t.Fatalf("ExportPNG() error = %v", err)
		}
		if filepath.Base(path) != "a@b.com.png" {
			t.Errorf("unexpected file name %s", path)
		}
		tu.MustDecodePNG(t, tu.MustReadFile(t, path))
	})

	t.Run("falls back to default name", func(t *testing.T) {
		dir := t.TempDir()
		rec := sample()
		rec.Email = ""

		path, err := ExportPNG(context.Background(), newRenderer(t, nil, 1), rec, dir)
		if err != nil {
			t.Fatalf("ExportPNG() error = %v", err)
		}
		if filepath.Base(path) != "student_id_card.png" {
			t.Errorf("unexpected file name %s", path)
		}
	})

	t.Run("render failure writes nothing and leaves record alone", func(t *testing.T) {
		dir := t.TempDir()
		rec := sample()
		before := *rec

		_, err := ExportPNG(context.Background(), failingRasterizer{}, rec, dir)
		if !errors.Is(err, shared.ErrRender) {
			t.Fatalf("expected ErrRender, got %v", err)
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 0 {
			t.Errorf("expected no files, found %d", len(entries))
		}
		if rec.Email != before.Email || rec.FullName() != before.FullName() {
			t.Error("record should not be modified")
		}
	})
}

func TestDecodeImage(t *testing.T) {
	if _, format, err := DecodeImage(tu.SolidPNG(2, 2, color.Black)); err != nil || format != "png" {
		t.Errorf("expected png, got %s, %v", format, err)
	}
	if _, _, err := DecodeImage(nil); !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty data, got %v", err)
	}
	if _, _, err := DecodeImage([]byte("gif?")); !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for garbage, got %v", err)
	}
}
