// package testing contains shared test doubles and helpers
package testing

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"strconv"
	"sync"
	"testing"

	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/models"
)

// StubModel is a scripted [services.Model].
//
// Details are returned in order; once exhausted the last entry repeats. When
// Names is empty every call yields a fresh "Name<n> Test<n>" identity.
type StubModel struct {
	mu           sync.Mutex
	Names        [][2]string
	DetailsErr   error // returned by GenerateDetails when set
	PortraitErr  error // returned by GeneratePortrait when set
	Portrait     []byte
	DetailsCalls int
	Prompts      []string
}

func (m *StubModel) Name() string { return "stub" }

func (m *StubModel) GenerateDetails(ctx context.Context) (*models.Details, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DetailsCalls++
	if m.DetailsErr != nil {
		return nil, m.DetailsErr
	}

	first, last := "Name"+strconv.Itoa(m.DetailsCalls), "Test"+strconv.Itoa(m.DetailsCalls)
	if len(m.Names) > 0 {
		idx := m.DetailsCalls - 1
		if idx >= len(m.Names) {
			idx = len(m.Names) - 1
		}
		first, last = m.Names[idx][0], m.Names[idx][1]
	}
	return &models.Details{FirstName: first, LastName: last, Gender: "Female", IDNumber: "2101234567", Major: "Biology"}, nil
}

func (m *StubModel) GeneratePortrait(ctx context.Context, prompt string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)
	if m.PortraitErr != nil {
		return nil, m.PortraitErr
	}
	if m.Portrait != nil {
		return m.Portrait, nil
	}
	return SolidPNG(8, 8, color.RGBA{R: 200, G: 180, B: 160, A: 255}), nil
}

// MemoryLedger is an in-memory name ledger.
type MemoryLedger struct {
	mu          sync.Mutex
	Names       map[string]string
	Inserts     int
	Err         error
	AfterExists func(fullName string) // runs after each lookup; lets tests race a reservation
}

func NewMemoryLedger(existing ...string) *MemoryLedger {
	l := &MemoryLedger{Names: map[string]string{}}
	for _, n := range existing {
		l.Names[n] = ""
	}
	return l
}

func (l *MemoryLedger) Exists(fullName string) (bool, error) {
	l.mu.Lock()
	err := l.Err
	_, ok := l.Names[fullName]
	l.mu.Unlock()

	if err != nil {
		return false, err
	}
	if l.AfterExists != nil {
		l.AfterExists(fullName)
	}
	return ok, nil
}

// Put adds a name directly, bypassing Reserve bookkeeping.
func (l *MemoryLedger) Put(fullName string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Names[fullName] = ""
}

func (l *MemoryLedger) Reserve(fullName, email string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return false, l.Err
	}
	if _, ok := l.Names[fullName]; ok {
		return false, nil
	}
	l.Names[fullName] = email
	l.Inserts++
	return true, nil
}

// SolidPNG encodes a w×h image filled with c.
func SolidPNG(w, h int, c color.Color) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// ErrFake is a generic failure for injection.
var ErrFake = errors.New("fake failure")

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) []byte {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return content
}

func MustDecodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	return img
}

// FWriter is an [io.Writer] that always fails.
type FWriter struct{}

func (*FWriter) Write(p []byte) (int, error) { return 0, ErrFake }
