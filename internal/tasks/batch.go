package tasks

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zip"

	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/models"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/render"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/shared"
)

// CardsPerZip is the fixed number of cards in every archive.
const CardsPerZip = 10

const dirLayout = "20060102_150405"

// RecordSource produces one unique record per call.
type RecordSource interface {
	Generate(ctx context.Context) (*models.CardRecord, error)
}

// StageOpener acquires the render stage shared by every card of a run.
type StageOpener interface {
	OpenStage() (render.Stage, error)
}

// State of a [BatchPipeline].
type State int

const (
	Idle State = iota
	Running
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// BatchOpts configures a single run.
type BatchOpts struct {
	ZipCount  int
	OutputDir string
	Pacing    time.Duration // pause between consecutive cards
	Settle    time.Duration // wait between mounting and rasterizing a card
}

// BatchJob is the live state of a running batch.
type BatchJob struct {
	ID       string
	ZipCount int
	ZipIndex int
	Card     int
	Done     int
	Progress string
}

// BatchResult summarizes a run, including a failed one.
type BatchResult struct {
	RunID    string
	Dir      string
	Archives []string
	Cards    int
}

// PipelineOpts wires a [BatchPipeline].
type PipelineOpts struct {
	Records  RecordSource
	Renderer StageOpener
	Logger   *log.Logger
	// Sleep overrides the context-aware wait used for pacing and settling.
	Sleep func(ctx context.Context, d time.Duration) error
	Now   func() time.Time
}

// BatchPipeline builds archives of generated cards, one run at a time.
type BatchPipeline struct {
	records  RecordSource
	renderer StageOpener
	logger   *log.Logger
	sleep    func(ctx context.Context, d time.Duration) error
	now      func() time.Time

	mu    sync.Mutex
	state State
	job   *BatchJob
	err   error
}

// NewBatchPipeline creates an idle pipeline.
func NewBatchPipeline(opts PipelineOpts) *BatchPipeline {
	p := &BatchPipeline{
		records:  opts.Records,
		renderer: opts.Renderer,
		logger:   opts.Logger,
		sleep:    opts.Sleep,
		now:      opts.Now,
	}
	if p.logger == nil {
		p.logger = shared.NewLogger(nil)
	}
	if p.sleep == nil {
		p.sleep = sleepContext
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// State returns the pipeline state.
func (p *BatchPipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Job returns a copy of the running job, or nil when no batch is running.
func (p *BatchPipeline) Job() *BatchJob {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.job == nil {
		return nil
	}
	job := *p.job
	return &job
}

// Err returns the error of the last failed run.
func (p *BatchPipeline) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Run generates opts.ZipCount archives of [CardsPerZip] cards each.
//
// Only one run may be active; a second call while Running fails with
// [shared.ErrBatchRunning] and leaves the active run untouched. On failure the
// returned result lists the archives already written.
func (p *BatchPipeline) Run(ctx context.Context, progress chan<- ProgressUpdate, opts BatchOpts) (*BatchResult, error) {
	if opts.ZipCount < shared.MinZipCount || opts.ZipCount > shared.MaxZipCount {
		return nil, fmt.Errorf("%w: zip count must be between %d and %d, got %d",
			shared.ErrInvalidArgument, shared.MinZipCount, shared.MaxZipCount, opts.ZipCount)
	}

	job := &BatchJob{ID: shared.GenerateID(), ZipCount: opts.ZipCount}
	if err := p.begin(job); err != nil {
		return nil, err
	}

	logger := p.logger.With("run", job.ID)
	logger.Info("Batch started", "zips", opts.ZipCount, "cards", opts.ZipCount*CardsPerZip)

	result, err := p.run(ctx, progress, opts, job, logger)
	err = Classify(err)
	p.finish(err)

	if err != nil {
		logger.Error("Batch failed", "archives", len(result.Archives), "error", err)
		return result, err
	}
	logger.Info("Batch completed", "dir", result.Dir, "archives", len(result.Archives))
	sendProgress(progress, finishedUpdate(result))
	return result, nil
}

func (p *BatchPipeline) begin(job *BatchJob) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Running {
		return shared.ErrBatchRunning
	}
	p.state = Running
	p.job = job
	p.err = nil
	return nil
}

func (p *BatchPipeline) finish(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.job = nil
	p.err = err
	if err != nil {
		p.state = Failed
		return
	}
	p.state = Completed
}

func (p *BatchPipeline) track(fn func(job *BatchJob)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.job != nil {
		fn(p.job)
	}
}

func (p *BatchPipeline) run(ctx context.Context, progress chan<- ProgressUpdate, opts BatchOpts, job *BatchJob, logger *log.Logger) (*BatchResult, error) {
	result := &BatchResult{RunID: job.ID}

	stage, err := p.renderer.OpenStage()
	if err != nil {
		return result, fmt.Errorf("%w: open stage: %w", shared.ErrRender, err)
	}
	defer func() {
		if cerr := stage.Close(); cerr != nil {
			logger.Warn("Failed to close render stage", "error", cerr)
		}
	}()

	result.Dir = filepath.Join(opts.OutputDir, p.now().Format(dirLayout))
	if err := os.MkdirAll(result.Dir, 0o755); err != nil {
		return result, fmt.Errorf("create batch directory: %w", err)
	}

	total := opts.ZipCount * CardsPerZip
	for z := range opts.ZipCount {
		data, err := p.buildArchive(ctx, progress, stage, opts, z, result, logger)
		if err != nil {
			return result, err
		}

		path := filepath.Join(result.Dir, ArchiveName(z, opts.ZipCount))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return result, fmt.Errorf("write archive: %w", err)
		}
		result.Archives = append(result.Archives, path)
		logger.Info("Archive written", "path", path, "done", result.Cards, "total", total)
		sendProgress(progress, writeArchiveUpdate(z, opts.ZipCount, path))
	}
	return result, nil
}

// buildArchive generates, renders and packs the cards of archive z in memory.
func (p *BatchPipeline) buildArchive(ctx context.Context, progress chan<- ProgressUpdate, stage render.Stage, opts BatchOpts, z int, result *BatchResult, logger *log.Logger) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	used := make(map[string]bool, CardsPerZip)
	total := opts.ZipCount * CardsPerZip

	for c := range CardsPerZip {
		update := generateCardUpdate(z, opts.ZipCount, c, result.Cards, total)
		p.track(func(job *BatchJob) {
			job.ZipIndex, job.Card, job.Done, job.Progress = z, c, result.Cards, update.Message
		})
		sendProgress(progress, update)

		rec, err := p.records.Generate(ctx)
		if err != nil {
			return nil, fmt.Errorf("zip %d card %d: %w", z+1, c+1, err)
		}

		name := EntryName(rec, c)
		if used[name] {
			name = positionalName(c)
		}
		used[name] = true

		sendProgress(progress, renderCardUpdate(result.Cards, total, name))
		png, err := p.renderCard(ctx, stage, rec, opts.Settle)
		if err != nil {
			return nil, fmt.Errorf("zip %d card %d: %w", z+1, c+1, err)
		}

		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("add %s to archive: %w", name, err)
		}
		if _, err := w.Write(png); err != nil {
			return nil, fmt.Errorf("add %s to archive: %w", name, err)
		}
		result.Cards++
		logger.Debug("Card added", "entry", name, "zip", z+1)

		if result.Cards < total {
			sendProgress(progress, pauseUpdate(result.Cards, total))
			if err := p.sleep(ctx, opts.Pacing); err != nil {
				return nil, err
			}
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finish archive: %w", err)
	}
	return buf.Bytes(), nil
}

// renderCard mounts rec, lets the surface settle and rasterizes it. The surface
// is released whether or not rasterizing succeeds.
func (p *BatchPipeline) renderCard(ctx context.Context, stage render.Stage, rec *models.CardRecord, settle time.Duration) ([]byte, error) {
	surface, err := stage.Mount(rec)
	if err != nil {
		return nil, err
	}
	defer surface.Close()

	if err := p.sleep(ctx, settle); err != nil {
		return nil, err
	}
	return surface.Rasterize(ctx)
}

// ArchiveName names archive z (0-based) of n.
func ArchiveName(z, n int) string {
	return fmt.Sprintf("card_batch_%d_of_%d.zip", z+1, n)
}

// EntryName names a card inside its archive: the email, or a positional name when there is none.
func EntryName(rec *models.CardRecord, position int) string {
	if rec == nil || rec.Email == "" {
		return positionalName(position)
	}
	return rec.Email + ".png"
}

func positionalName(position int) string {
	return fmt.Sprintf("student_%d.png", position+1)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// sendProgress sends a progress update without blocking.
func sendProgress(ch chan<- ProgressUpdate, update ProgressUpdate) {
	if ch == nil {
		return
	}
	select {
	case ch <- update:
	default:
	}
}
