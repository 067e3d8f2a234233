package tasks

import (
	"errors"
	"fmt"
	"strings"

	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/shared"
)

var rateLimitSignatures = []string{"429", "RESOURCE_EXHAUSTED"}

// Classify wraps err with [shared.ErrRateLimit] when its text carries a throttling signature.
func Classify(err error) error {
	if err == nil || errors.Is(err, shared.ErrRateLimit) {
		return err
	}
	text := err.Error()
	for _, sig := range rateLimitSignatures {
		if strings.Contains(text, sig) {
			return fmt.Errorf("%w: %w", shared.ErrRateLimit, err)
		}
	}
	return err
}

// UserMessage is the notification shown for a failed batch or autofill.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(Classify(err), shared.ErrRateLimit):
		return "Batch generation failed due to API rate limits. Please wait a moment and try again with a smaller batch, or check your API plan and billing details."
	case errors.Is(err, shared.ErrBatchRunning):
		return "A batch is already running. Wait for it to finish."
	case errors.Is(err, shared.ErrUniquenessExhausted):
		return "Could not find an unused name. Please try again."
	case errors.Is(err, shared.ErrStorage):
		return "The local database could not be read or written, so name uniqueness cannot be checked."
	default:
		return "An error occurred during generation. Check the log for details."
	}
}
