package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/shared"
	_ "golang.org/x/image/webp"
)

// DecodeImage decodes PNG, JPEG or WebP bytes and reports the format.
func DecodeImage(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty image", shared.ErrInvalidInput)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: unsupported image: %w", shared.ErrInvalidInput, err)
	}
	return img, format, nil
}
