package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/models"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/render"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/shared"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/tasks"
)

// Form fields, in focus order.
const (
	fieldFirstName = iota
	fieldLastName
	fieldIDNumber
	fieldMajor
	fieldEmail
	fieldZipCount
	fieldCount
)

var fieldLabels = [fieldCount]string{"First name", "Last name", "ID number", "Major", "Email", "ZIP count"}

// Drafts stores the record being edited.
type Drafts interface {
	Get() (*models.CardRecord, error)
	Save(rec *models.CardRecord) error
	Reset() error
}

// Deps holds everything the form drives.
type Deps struct {
	Drafts    Drafts
	Records   tasks.RecordSource
	Renderer  render.Rasterizer
	Pipeline  *tasks.BatchPipeline
	Clipboard func(text string) error
	ExportDir string
	// Batch supplies the output directory and delays; ZipCount comes from the form.
	Batch  tasks.BatchOpts
	Logger *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	deps         Deps
	logger       *log.Logger
	inputs       []textinput.Model
	focus        int
	photo        []byte
	generating   bool
	exporting    bool
	batching     bool
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	status       string
	statusErr    bool
	width        int
	help         help.Model
	keys         keyMap
}

// NewModel creates the form, pre-filled from the stored draft.
func NewModel(ctx context.Context, deps Deps) (*Model, error) {
	if deps.Logger == nil {
		deps.Logger = shared.NewLogger(nil)
	}
	if deps.Batch.ZipCount == 0 {
		deps.Batch.ZipCount = shared.MinZipCount
	}

	m := &Model{
		ctx:    ctx,
		deps:   deps,
		logger: deps.Logger,
		inputs: make([]textinput.Model, fieldCount),
		help:   help.New(),
		keys:   newKeyMap(),
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = fieldLabels[i]
		ti.CharLimit = 64
		m.inputs[i] = ti
	}
	m.inputs[fieldIDNumber].CharLimit = 20
	m.inputs[fieldZipCount].CharLimit = 2
	m.inputs[fieldZipCount].SetValue(strconv.Itoa(deps.Batch.ZipCount))

	draft, err := deps.Drafts.Get()
	if err != nil {
		return nil, err
	}
	m.fill(draft)
	m.inputs[fieldFirstName].Focus()
	return m, nil
}

// Init starts the cursor blinking.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Record builds a card record from the form.
func (m *Model) Record() *models.CardRecord {
	return &models.CardRecord{
		FirstName: strings.TrimSpace(m.inputs[fieldFirstName].Value()),
		LastName:  strings.TrimSpace(m.inputs[fieldLastName].Value()),
		IDNumber:  strings.TrimSpace(m.inputs[fieldIDNumber].Value()),
		Major:     strings.TrimSpace(m.inputs[fieldMajor].Value()),
		Email:     strings.TrimSpace(m.inputs[fieldEmail].Value()),
		Photo:     m.photo,
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateFocused(msg)
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.saveDraft()
		return m, tea.Quit
	case key.Matches(msg, m.keys.next):
		return m, m.moveFocus(1)
	case key.Matches(msg, m.keys.prev):
		return m, m.moveFocus(-1)
	case key.Matches(msg, m.keys.autofill):
		return m, m.startAutofill()
	case key.Matches(msg, m.keys.export):
		return m, m.startExport()
	case key.Matches(msg, m.keys.batch):
		return m, m.startBatch()
	case key.Matches(msg, m.keys.copy):
		return m, m.copyFocused()
	case key.Matches(msg, m.keys.reset):
		m.resetForm()
		m.setStatus("Form reset", false)
		return m, nil
	}
	return m.updateFocused(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgRecordGenerated:
		res := msg.data.(recordResult)
		m.generating = false
		if res.err != nil {
			m.logger.Error("Autofill failed", "error", res.err)
			m.resetForm()
			m.setStatus(tasks.UserMessage(res.err), true)
			return m, nil
		}
		m.fill(res.record)
		m.saveDraft()
		m.setStatus(fmt.Sprintf("✓ Generated %s", res.record.FullName()), false)

	case MsgCardExported:
		res := msg.data.(exportResult)
		m.exporting = false
		if res.err != nil {
			m.logger.Error("Export failed", "error", res.err)
			m.setStatus(fmt.Sprintf("Export failed: %v", res.err), true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("✓ Saved %s", res.path), false)

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgBatchComplete:
		res := msg.data.(batchResult)
		m.batching = false
		m.progressChan = nil
		m.progress = tasks.ProgressUpdate{}
		if res.err != nil {
			m.setStatus(tasks.UserMessage(res.err), true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("✓ %d archives in %s", len(res.result.Archives), res.result.Dir), false)

	case MsgCopied:
		res := msg.data.(copyResult)
		if res.err != nil {
			m.setStatus(fmt.Sprintf("Copy failed: %v", res.err), true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("✓ %s copied", res.field), false)
	}
	return m, nil
}

func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + fieldCount) % fieldCount
	return m.inputs[m.focus].Focus()
}

func (m *Model) startAutofill() tea.Cmd {
	if m.generating {
		return nil
	}
	m.generating = true
	m.setStatus("Generating record...", false)

	ctx, records := m.ctx, m.deps.Records
	return func() tea.Msg {
		rec, err := records.Generate(ctx)
		return recordGeneratedMsg(rec, err)
	}
}

func (m *Model) startExport() tea.Cmd {
	if m.exporting {
		return nil
	}
	m.exporting = true
	m.saveDraft()
	m.setStatus("Exporting...", false)

	ctx, rec, renderer, dir := m.ctx, m.Record(), m.deps.Renderer, m.deps.ExportDir
	return func() tea.Msg {
		path, err := render.ExportPNG(ctx, renderer, rec, dir)
		return cardExportedMsg(path, err)
	}
}

func (m *Model) startBatch() tea.Cmd {
	if m.batching || m.deps.Pipeline.State() == tasks.Running {
		m.setStatus(tasks.UserMessage(shared.ErrBatchRunning), true)
		return nil
	}

	zips, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldZipCount].Value()))
	if err != nil || zips < shared.MinZipCount || zips > shared.MaxZipCount {
		m.setStatus(fmt.Sprintf("ZIP count must be between %d and %d", shared.MinZipCount, shared.MaxZipCount), true)
		return nil
	}

	opts := m.deps.Batch
	opts.ZipCount = zips
	m.batching = true
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.setStatus(fmt.Sprintf("Starting batch of %d ZIP(s)...", zips), false)

	ctx, pipeline, ch := m.ctx, m.deps.Pipeline, m.progressChan
	run := func() tea.Msg {
		result, err := pipeline.Run(ctx, ch, opts)
		close(ch)
		return batchCompleteMsg(result, err)
	}
	return tea.Batch(run, m.waitForProgress())
}

// waitForProgress reads one update; a closed channel ends the chain.
func (m *Model) waitForProgress() tea.Cmd {
	ch := m.progressChan
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			return nil
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) copyFocused() tea.Cmd {
	if m.deps.Clipboard == nil {
		return nil
	}
	field, value, clip := fieldLabels[m.focus], m.inputs[m.focus].Value(), m.deps.Clipboard
	return func() tea.Msg {
		return copiedMsg(field, clip(value))
	}
}

func (m *Model) fill(rec *models.CardRecord) {
	m.inputs[fieldFirstName].SetValue(rec.FirstName)
	m.inputs[fieldLastName].SetValue(rec.LastName)
	m.inputs[fieldIDNumber].SetValue(rec.IDNumber)
	m.inputs[fieldMajor].SetValue(rec.Major)
	m.inputs[fieldEmail].SetValue(rec.Email)
	m.photo = rec.Photo
}

func (m *Model) resetForm() {
	m.fill(&models.CardRecord{})
	if err := m.deps.Drafts.Reset(); err != nil {
		m.logger.Warn("Failed to reset draft", "error", err)
	}
}

func (m *Model) saveDraft() {
	if err := m.deps.Drafts.Save(m.Record()); err != nil {
		m.logger.Warn("Failed to save draft", "error", err)
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// View renders the form, the current status and the key help.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("%s · card specimen", models.Institution)))
	b.WriteString("\n")

	for i, input := range m.inputs {
		label := styles.label.Render(fieldLabels[i])
		if i == m.focus {
			label = styles.focused.Render(fieldLabels[i])
		}
		fmt.Fprintf(&b, "%s %s\n", label, input.View())
	}

	photo := "none"
	if len(m.photo) > 0 {
		photo = fmt.Sprintf("%d bytes", len(m.photo))
	}
	fmt.Fprintf(&b, "%s %s\n\n", styles.label.Render("Photo"), photo)

	if m.batching && m.progress.Message != "" {
		b.WriteString(styles.warn.Render(fmt.Sprintf("[%d/%d] %s", m.progress.Step, m.progress.Total, m.progress.Message)))
		b.WriteString("\n")
	}
	if m.status != "" {
		style := styles.ok
		if m.statusErr {
			style = styles.err
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
