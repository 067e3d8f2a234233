package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// TemplateSet stores an image file as the card background.
func (r *Runner) TemplateSet(ctx context.Context, cmd *cli.Command) error {
	data, err := r.readImage(cmd.StringArg("path"))
	if err != nil {
		return err
	}
	ledger, err := r.ledger()
	if err != nil {
		return err
	}
	if err := ledger.SaveTemplate(data); err != nil {
		return err
	}
	r.logger.Info("Template saved", "bytes", len(data))
	r.writePlain("✓ Custom template set (%d bytes)\n", len(data))
	return nil
}

// TemplateRemove reverts to the default background.
func (r *Runner) TemplateRemove(ctx context.Context, cmd *cli.Command) error {
	ledger, err := r.ledger()
	if err != nil {
		return err
	}
	if err := ledger.RemoveTemplate(); err != nil {
		return err
	}
	r.writePlain("✓ Reverted to the default template\n")
	return nil
}

// TemplateShow reports which background the next render uses.
func (r *Runner) TemplateShow(ctx context.Context, cmd *cli.Command) error {
	ledger, err := r.ledger()
	if err != nil {
		return err
	}
	data, ok, err := ledger.GetTemplate()
	if err != nil {
		return err
	}
	if !ok {
		r.writePlain("Template: default\n")
		return nil
	}
	r.writePlain("Template: custom (%d bytes)\n", len(data))
	return nil
}
