package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/formatter"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/shared"
)

// LedgerList prints generated names, newest first.
func (r *Runner) LedgerList(ctx context.Context, cmd *cli.Command) error {
	ledger, err := r.ledger()
	if err != nil {
		return err
	}
	entries, err := ledger.List(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}

	r.writePlainHeader(fmt.Sprintf("Generated names (%d)", len(entries)))
	for _, e := range entries {
		r.writePlain("%s  %-30s %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.FullName, e.Email)
	}
	return nil
}

// LedgerCheck reports whether a full name has already been generated.
func (r *Runner) LedgerCheck(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.StringArg("name"))
	if name == "" {
		return fmt.Errorf("%w: full name is required", shared.ErrMissingArgument)
	}

	ledger, err := r.ledger()
	if err != nil {
		return err
	}
	exists, err := ledger.Exists(name)
	if err != nil {
		return err
	}

	if exists {
		r.writePlain("%q has been generated\n", name)
	} else {
		r.writePlain("%q is unused\n", name)
	}
	return nil
}

// LedgerExport writes generated names to a file in the requested format.
func (r *Runner) LedgerExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	ledger, err := r.ledger()
	if err != nil {
		return err
	}
	entries, err := ledger.List(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(format, entries, cmd.String("output"))
	if err != nil {
		return err
	}
	r.logger.Info("Ledger exported", "path", path, "entries", len(entries))
	r.writePlain("✓ %d names written to %s\n", len(entries), path)
	return nil
}
