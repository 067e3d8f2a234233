package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/shared"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/ui"
)

// TUI launches the interactive card editor.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/cardgen-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	drafts, err := r.drafts()
	if err != nil {
		return err
	}
	generator, err := r.generator(ctx)
	if err != nil {
		return err
	}
	renderer, err := r.renderer()
	if err != nil {
		return err
	}
	pipeline, err := r.pipeline(ctx)
	if err != nil {
		return err
	}

	model, err := ui.NewModel(ctx, ui.Deps{
		Drafts:    drafts,
		Records:   generator,
		Renderer:  renderer,
		Pipeline:  pipeline,
		Clipboard: r.clipboard,
		ExportDir: r.config.Export.OutputDir,
		Batch:     r.batchOpts(),
		Logger:    r.logger,
	})
	if err != nil {
		return err
	}

	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
