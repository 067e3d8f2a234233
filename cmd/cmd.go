// submodule cmd contains command definitions
package main

import (
	"github.com/urfave/cli/v3"

	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/shared"
)

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create config.toml if missing, initialize the database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent database migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// cardCommand edits and exports the draft card.
func cardCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "card",
		Usage: "Edit, generate and export the draft card",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the draft card",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CardShow,
			},
			{
				Name:  "set",
				Usage: "Edit individual draft fields",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "first-name", Usage: "First name"},
					&cli.StringFlag{Name: "last-name", Usage: "Last name"},
					&cli.StringFlag{Name: "id-number", Usage: "Student ID number"},
					&cli.StringFlag{Name: "major", Usage: "Major"},
					&cli.StringFlag{Name: "email", Usage: "Email address"},
				},
				Action: r.CardSet,
			},
			{
				Name:  "photo",
				Usage: "Set the draft photo from a PNG, JPEG or WebP file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "clear",
						Usage: "Remove the draft photo",
					},
				},
				Action: r.CardPhoto,
			},
			{
				Name:    "generate",
				Aliases: []string{"autofill"},
				Usage:   "Replace the draft with a generated, unique record",
				Action:  r.CardGenerate,
			},
			{
				Name:  "copy",
				Usage: "Copy one draft field to the clipboard",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "field"},
				},
				Action: r.CardCopy,
			},
			{
				Name:   "reset",
				Usage:  "Clear the draft",
				Action: r.CardReset,
			},
			{
				Name:  "export",
				Usage: "Render the draft as a PNG",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: export.output_dir)",
					},
				},
				Action: r.CardExport,
			},
		},
	}
}

// templateCommand manages the custom card background.
func templateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "template",
		Usage: "Manage the card background template",
		Commands: []*cli.Command{
			{
				Name:  "set",
				Usage: "Use an image file as the card background",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Action: r.TemplateSet,
			},
			{
				Name:   "remove",
				Usage:  "Revert to the default background",
				Action: r.TemplateRemove,
			},
			{
				Name:   "show",
				Usage:  "Report which background is in use",
				Action: r.TemplateShow,
			},
		},
	}
}

// batchCommand runs the ZIP batch pipeline.
func batchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Generate cards in ZIP archives",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Generate zips × 10 unique cards",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "zips",
						Aliases: []string{"n"},
						Usage:   "Number of ZIP archives (1-10, default: batch.zip_count)",
						Validator: func(n int) error {
							if n < shared.MinZipCount || n > shared.MaxZipCount {
								return shared.ErrInvalidArgument
							}
							return nil
						},
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: export.output_dir)",
					},
				},
				Action: r.BatchRun,
			},
		},
	}
}

// ledgerCommand inspects the uniqueness ledger.
func ledgerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "ledger",
		Usage: "Inspect generated names",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List generated names, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of names to return",
						Value: 50,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LedgerList,
			},
			{
				Name:  "check",
				Usage: "Report whether a full name has been generated",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.LedgerCheck,
			},
			{
				Name:  "export",
				Usage: "Write generated names to a CSV, Markdown or text file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: csv, md or txt",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: ledger.<format>)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of names to export (0 for all)",
					},
				},
				Action: r.LedgerExport,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive card editing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive card editor",
		Action:  r.TUI,
	}
}
