// Package ui implements the interactive card editor using bubbletea's Elm architecture.
//
// The single form view edits the draft record field by field and drives every action:
//   - ctrl+g : autofill the draft with a generated record
//   - ctrl+s : export the draft as a PNG
//   - ctrl+b : run a batch of ZIP archives (count taken from the form)
//   - ctrl+y : copy the focused field to the clipboard
//   - ctrl+r : reset the draft
//
// The (view) [Model] implements the standard Init/Update/View pattern, receiving results
// via the Msg union type. Batch progress flows through a channel from the
// [tasks.BatchPipeline] and is drained one update per command, so the form stays
// responsive while a batch runs.
package ui
