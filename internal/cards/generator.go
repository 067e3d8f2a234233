package cards

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/models"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/services"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/shared"
)

// MaxAttempts bounds the search for an unused name.
const MaxAttempts = 5

// Ledger is the subset of the name ledger the generator needs.
type Ledger interface {
	Exists(fullName string) (bool, error)
	Reserve(fullName, email string) (bool, error)
}

// Generator creates unique card records.
type Generator struct {
	model  services.Model
	ledger Ledger
	rng    *rand.Rand
	logger *log.Logger
}

// GeneratorOpts configures [NewGenerator]. Rand and Logger are optional.
type GeneratorOpts struct {
	Model  services.Model
	Ledger Ledger
	Rand   *rand.Rand
	Logger *log.Logger
}

// NewGenerator creates a [Generator].
func NewGenerator(opts GeneratorOpts) *Generator {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Generator{model: opts.Model, ledger: opts.Ledger, rng: opts.Rand, logger: opts.Logger}
}

// Generate returns a record whose full name was not in the ledger and is now reserved in it.
//
// Model failures wrap [shared.ErrGeneration]; ledger failures wrap [shared.ErrStorage];
// running out of attempts returns [shared.ErrUniquenessExhausted] without touching the ledger.
func (g *Generator) Generate(ctx context.Context) (*models.CardRecord, error) {
	details, email, err := g.reserveUnique(ctx)
	if err != nil {
		return nil, err
	}

	prompt := PortraitPrompt(g.rng, models.ParseGender(details.Gender))
	photo, err := g.model.GeneratePortrait(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrGeneration, err)
	}

	return &models.CardRecord{
		FirstName: details.FirstName,
		LastName:  details.LastName,
		IDNumber:  details.IDNumber,
		Major:     details.Major,
		Email:     email,
		Photo:     photo,
	}, nil
}

func (g *Generator) reserveUnique(ctx context.Context) (*models.Details, string, error) {
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		details, err := g.model.GenerateDetails(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %w", shared.ErrGeneration, err)
		}

		fullName := details.FullName()
		exists, err := g.ledger.Exists(fullName)
		if err != nil {
			return nil, "", err
		}
		if exists {
			g.logger.Info("duplicate name, retrying", "name", fullName, "attempt", attempt)
			continue
		}

		email := DeriveEmail(details.FirstName, details.LastName, g.rng.IntN(999)+1)
		reserved, err := g.ledger.Reserve(fullName, email)
		if err != nil {
			return nil, "", err
		}
		if !reserved {
			g.logger.Info("name taken concurrently, retrying", "name", fullName, "attempt", attempt)
			continue
		}
		return details, email, nil
	}
	return nil, "", fmt.Errorf("%w after %d attempts", shared.ErrUniquenessExhausted, MaxAttempts)
}
