package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/models"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/shared"
)

// Natural card size in layout pixels; output is scaled by the pixel ratio.
const (
	CardWidth  = 500
	CardHeight = 315
)

// Default background colours, exposed for callers that preview the layout.
var (
	DefaultBodyColor   = color.RGBA{R: 0xF4, G: 0xF1, B: 0xEA, A: 0xFF}
	DefaultHeaderColor = color.RGBA{R: 0x1F, G: 0x3A, B: 0x5F, A: 0xFF}
	photoFillColor     = color.RGBA{R: 0xD1, G: 0xD5, B: 0xDB, A: 0xFF}
	watermarkColor     = color.NRGBA{R: 0xC0, G: 0x1C, B: 0x1C, A: 0x66}
)

const watermarkText = "SPECIMEN - NOT VALID"

// Stage is an acquired rendering area that surfaces are mounted on.
type Stage interface {
	Mount(rec *models.CardRecord) (Surface, error)
	Close() error
}

// Surface is one composed card waiting to be rasterized.
type Surface interface {
	Rasterize(ctx context.Context) ([]byte, error)
	Close() error
}

// TemplateSource supplies the custom background, if any.
type TemplateSource interface {
	GetTemplate() ([]byte, bool, error)
}

// CardRenderer draws records over the current background.
type CardRenderer struct {
	templates  TemplateSource
	pixelRatio int
	logger     *log.Logger
}

// NewCardRenderer creates a [CardRenderer]. A nil templates source always uses the default background.
func NewCardRenderer(templates TemplateSource, pixelRatio int, logger *log.Logger) *CardRenderer {
	if pixelRatio < 1 {
		pixelRatio = 1
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CardRenderer{templates: templates, pixelRatio: pixelRatio, logger: logger}
}

// OpenStage resolves the background once for every card mounted on the stage.
func (r *CardRenderer) OpenStage() (Stage, error) {
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("%w: failed to load fonts: %w", shared.ErrRender, err)
	}

	var custom image.Image
	if r.templates != nil {
		data, ok, err := r.templates.GetTemplate()
		if err != nil {
			return nil, err
		}
		if ok {
			img, _, err := DecodeImage(data)
			if err != nil {
				return nil, fmt.Errorf("%w: custom template: %w", shared.ErrRender, err)
			}
			custom = img
		}
	}

	w, h := CardWidth*r.pixelRatio, CardHeight*r.pixelRatio
	var bg image.Image
	if custom != nil {
		bg = imaging.Fill(custom, w, h, imaging.Center, imaging.Lanczos)
		r.logger.Debug("stage opened", "background", "custom")
	} else {
		bg = defaultBackground(float64(r.pixelRatio))
		r.logger.Debug("stage opened", "background", "default")
	}

	return &canvasStage{background: bg, ratio: float64(r.pixelRatio), surfaces: map[*canvasSurface]struct{}{}}, nil
}

// Render opens a stage, rasterizes rec and releases everything.
func (r *CardRenderer) Render(ctx context.Context, rec *models.CardRecord) ([]byte, error) {
	stage, err := r.OpenStage()
	if err != nil {
		return nil, err
	}
	defer stage.Close()

	surface, err := stage.Mount(rec)
	if err != nil {
		return nil, err
	}
	defer surface.Close()

	return surface.Rasterize(ctx)
}

type canvasStage struct {
	mu         sync.Mutex
	background image.Image
	ratio      float64
	surfaces   map[*canvasSurface]struct{}
	closed     bool
}

// Mount composes rec onto a new surface.
func (s *canvasStage) Mount(rec *models.CardRecord) (Surface, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("%w: stage is closed", shared.ErrRender)
	}

	var photo image.Image
	if rec.HasPhoto() {
		img, _, err := DecodeImage(rec.Photo)
		if err != nil {
			return nil, fmt.Errorf("%w: photo: %w", shared.ErrRender, err)
		}
		photo = img
	}

	dc := gg.NewContext(int(CardWidth*s.ratio), int(CardHeight*s.ratio))
	dc.DrawImage(s.background, 0, 0)
	drawCard(dc, s.ratio, rec, photo)

	surface := &canvasSurface{stage: s, dc: dc}
	s.surfaces[surface] = struct{}{}
	return surface, nil
}

// Close releases every surface still mounted.
func (s *canvasStage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for surface := range s.surfaces {
		surface.dc = nil
	}
	s.surfaces = map[*canvasSurface]struct{}{}
	s.closed = true
	return nil
}

// Active is the number of mounted surfaces.
func (s *canvasStage) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.surfaces)
}

func (s *canvasStage) release(surface *canvasSurface) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.surfaces, surface)
	surface.dc = nil
}

type canvasSurface struct {
	stage *canvasStage
	dc    *gg.Context
}

func (c *canvasSurface) Rasterize(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.stage.mu.Lock()
	dc := c.dc
	c.stage.mu.Unlock()
	if dc == nil {
		return nil, fmt.Errorf("%w: surface already released", shared.ErrRender)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrRender, err)
	}
	return buf.Bytes(), nil
}

func (c *canvasSurface) Close() error {
	c.stage.release(c)
	return nil
}

func defaultBackground(ratio float64) image.Image {
	dc := gg.NewContext(int(CardWidth*ratio), int(CardHeight*ratio))
	dc.SetColor(DefaultBodyColor)
	dc.Clear()

	dc.SetColor(DefaultHeaderColor)
	dc.DrawRectangle(0, 0, CardWidth*ratio, 56*ratio)
	dc.Fill()
	dc.DrawRectangle(0, (CardHeight-14)*ratio, CardWidth*ratio, 14*ratio)
	dc.Fill()

	dc.SetFontFace(face(bold, 20*ratio))
	dc.SetColor(color.White)
	dc.DrawStringAnchored(models.Institution, CardWidth*ratio/2, 28*ratio, 0.5, 0.35)

	dc.SetFontFace(face(regular, 11*ratio))
	dc.SetColor(DefaultHeaderColor)
	dc.DrawStringAnchored("STUDENT CARD SPECIMEN", CardWidth*ratio/2, 76*ratio, 0.5, 0.35)
	return dc.Image()
}

// drawCard places the photo and fields using the card's percentage layout, then the watermark.
func drawCard(dc *gg.Context, ratio float64, rec *models.CardRecord, photo image.Image) {
	px, py, pw, ph := 0.13*CardWidth*ratio, 0.4127*CardHeight*ratio, 0.21*CardWidth*ratio, 0.3333*CardHeight*ratio
	if photo != nil {
		fitted := imaging.Fill(photo, int(pw), int(ph), imaging.Center, imaging.Lanczos)
		dc.DrawImage(fitted, int(px), int(py))
	} else {
		dc.SetColor(photoFillColor)
		dc.DrawRectangle(px, py, pw, ph)
		dc.Fill()
		dc.SetFontFace(face(regular, 10*ratio))
		dc.SetColor(color.Gray{Y: 0x70})
		dc.DrawStringAnchored("PHOTO", px+pw/2, py+ph/2, 0.5, 0.35)
	}

	x := 0.37 * CardWidth * ratio
	fields := []struct {
		text string
		top  float64
		size float64
		bold bool
	}{
		{rec.FullName(), 0.4127, 18, true},
		{rec.IDNumber, 0.5015, 16, false},
		{rec.Major, 0.619, 16, true},
		{rec.Email, 0.6984, 13, false},
	}

	dc.SetColor(color.Black)
	for _, f := range fields {
		if f.text == "" {
			continue
		}
		tf := regular
		if f.bold {
			tf = bold
		}
		dc.SetFontFace(face(tf, f.size*ratio))
		dc.DrawStringAnchored(f.text, x, f.top*CardHeight*ratio, 0, 1)
	}

	drawWatermark(dc, ratio)
}

func drawWatermark(dc *gg.Context, ratio float64) {
	cx, cy := CardWidth*ratio/2, CardHeight*ratio*0.55
	dc.Push()
	dc.RotateAbout(gg.Radians(-18), cx, cy)
	dc.SetFontFace(face(bold, 38*ratio))
	dc.SetColor(watermarkColor)
	dc.DrawStringAnchored(watermarkText, cx, cy, 0.5, 0.5)
	dc.Pop()
}
