// package services wraps the external generative model behind the [Model] interface.
package services

import (
	"context"

	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/models"
)

// Model is the generative backend used to fill in a card.
type Model interface {
	// GenerateDetails asks the text model for one structured identity.
	GenerateDetails(ctx context.Context) (*models.Details, error)

	// GeneratePortrait asks the image model for one square image and returns its encoded bytes.
	GeneratePortrait(ctx context.Context, prompt string) ([]byte, error)

	// Name returns the name of the backend (e.g., "Gemini")
	Name() string
}
