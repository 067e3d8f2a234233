package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/cards"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/render"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/repositories"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/services"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The database and model client are opened on first use so that commands which need
// neither (setup, help) work without credentials.
type Runner struct {
	config    *shared.Config
	logger    *log.Logger
	output    io.Writer
	model     services.Model
	db        *sql.DB
	clipboard func(text string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config    *shared.Config
	Logger    *log.Logger
	Output    io.Writer
	Model     services.Model // overrides the Gemini client
	DB        *sql.DB        // overrides the process-wide database
	Clipboard func(text string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	return &Runner{
		config:    opts.Config,
		logger:    opts.Logger,
		output:    opts.Output,
		model:     opts.Model,
		db:        opts.DB,
		clipboard: opts.Clipboard,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, cardCommand, templateCommand, batchCommand, ledgerCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "cardgen",
		Usage:   "Generate watermarked specimen student cards",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before:   r.Before,
		Commands: r.register(),
	}
}

// Before loads the configuration file when it exists; otherwise the current config is kept.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	path := cmd.String("config")
	if _, err := os.Stat(path); err != nil {
		r.logger.Debug("config file not found, using defaults", "path", path)
		return ctx, nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return ctx, err
	}
	r.config = config
	return ctx, nil
}

// SetLogger replaces the logger, e.g. to keep log output away from the TUI.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}
	db, err := shared.SharedDatabase(r.config.Database)
	if err != nil {
		return nil, err
	}
	r.db = db
	return db, nil
}

func (r *Runner) ledger() (*repositories.LedgerRepository, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return repositories.NewLedgerRepository(db), nil
}

func (r *Runner) drafts() (*repositories.DraftRepository, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return repositories.NewDraftRepository(db), nil
}

func (r *Runner) gemini(ctx context.Context) (services.Model, error) {
	if r.model != nil {
		return r.model, nil
	}
	model, err := services.NewGeminiService(ctx, services.GeminiOpts{
		APIKey:            r.config.APIKey(),
		TextModel:         r.config.Gemini.TextModel,
		ImageModel:        r.config.Gemini.ImageModel,
		RequestsPerMinute: r.config.Gemini.RequestsPerMinute,
		Logger:            r.logger,
	})
	if err != nil {
		return nil, err
	}
	r.model = model
	return model, nil
}

func (r *Runner) generator(ctx context.Context) (*cards.Generator, error) {
	model, err := r.gemini(ctx)
	if err != nil {
		return nil, err
	}
	ledger, err := r.ledger()
	if err != nil {
		return nil, err
	}
	return cards.NewGenerator(cards.GeneratorOpts{Model: model, Ledger: ledger, Logger: r.logger}), nil
}

func (r *Runner) renderer() (*render.CardRenderer, error) {
	ledger, err := r.ledger()
	if err != nil {
		return nil, err
	}
	return render.NewCardRenderer(ledger, r.config.Export.PixelRatio, r.logger), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
