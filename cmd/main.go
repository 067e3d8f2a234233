package main

import (
	"context"
	"errors"
	"os"

	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/shared"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/tasks"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := runner.app().Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		if errors.Is(err, shared.ErrGeneration) || errors.Is(err, shared.ErrRateLimit) {
			logger.Error(tasks.UserMessage(err))
		}
		logger.Fatalf("application error: %v", err)
	}
}
