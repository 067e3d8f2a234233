package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Storage errors
	ErrStorage  = fmt.Errorf("storage error")
	ErrNotFound = fmt.Errorf("not found")

	// Generation errors
	ErrGeneration          = fmt.Errorf("generation failed")
	ErrUniquenessExhausted = fmt.Errorf("%w: uniqueness exhausted", ErrGeneration)
	ErrRateLimit           = fmt.Errorf("rate limit exceeded")

	// Rendering errors
	ErrRender = fmt.Errorf("render failed")

	// Batch errors
	ErrBatchRunning = fmt.Errorf("a batch is already running")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
