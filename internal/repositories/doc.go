// Package repositories implements SQLite persistence for the card generator.
//
//   - [LedgerRepository] : names already generated, plus the single-slot custom template
//   - [DraftRepository] : the one record currently being edited
//
// Every database failure is wrapped with [shared.ErrStorage].
package repositories
