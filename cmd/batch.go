package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/tasks"
)

// BatchRun generates ZIP archives of cards, printing progress as it goes.
func (r *Runner) BatchRun(ctx context.Context, cmd *cli.Command) error {
	pipeline, err := r.pipeline(ctx)
	if err != nil {
		return err
	}

	opts := r.batchOpts()
	if cmd.IsSet("zips") {
		opts.ZipCount = int(cmd.Int("zips"))
	}
	if dir := cmd.String("output"); dir != "" {
		opts.OutputDir = dir
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
		}
	}()

	result, err := pipeline.Run(ctx, progress, opts)
	close(progress)
	<-done

	if err != nil {
		if result != nil && len(result.Archives) > 0 {
			r.writePlain("%d archive(s) were saved in %s before the failure\n", len(result.Archives), result.Dir)
		}
		return err
	}

	r.writePlainHeader("Batch complete")
	for _, path := range result.Archives {
		r.writePlain("  %s\n", path)
	}
	return nil
}

func (r *Runner) pipeline(ctx context.Context) (*tasks.BatchPipeline, error) {
	generator, err := r.generator(ctx)
	if err != nil {
		return nil, err
	}
	renderer, err := r.renderer()
	if err != nil {
		return nil, err
	}
	return tasks.NewBatchPipeline(tasks.PipelineOpts{
		Records:  generator,
		Renderer: renderer,
		Logger:   r.logger,
	}), nil
}

func (r *Runner) batchOpts() tasks.BatchOpts {
	return tasks.BatchOpts{
		ZipCount:  r.config.Batch.ZipCount,
		OutputDir: r.config.Export.OutputDir,
		Pacing:    r.config.Batch.Pacing(),
		Settle:    r.config.Batch.Settle(),
	}
}
