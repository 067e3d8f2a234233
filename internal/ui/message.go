package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/models"
	"github.com/marifbalya/pembuat-ktm-auto-zip/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgRecordGenerated MsgKind = iota
	MsgCardExported
	MsgProgressUpdate
	MsgBatchComplete
	MsgCopied
)

type recordResult struct {
	record *models.CardRecord
	err    error
}

type exportResult struct {
	path string
	err  error
}

type batchResult struct {
	result *tasks.BatchResult
	err    error
}

type copyResult struct {
	field string
	err   error
}

// recordGeneratedMsg is the constructor for [MsgRecordGenerated]
func recordGeneratedMsg(rec *models.CardRecord, err error) Msg {
	return Msg{kind: MsgRecordGenerated, data: recordResult{rec, err}}
}

// cardExportedMsg is the constructor for [MsgCardExported]
func cardExportedMsg(path string, err error) Msg {
	return Msg{kind: MsgCardExported, data: exportResult{path, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// batchCompleteMsg is the constructor for [MsgBatchComplete]
func batchCompleteMsg(result *tasks.BatchResult, err error) Msg {
	return Msg{kind: MsgBatchComplete, data: batchResult{result, err}}
}

// copiedMsg is the constructor for [MsgCopied]
func copiedMsg(field string, err error) Msg {
	return Msg{kind: MsgCopied, data: copyResult{field, err}}
}
