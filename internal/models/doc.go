// Package models defines the card generator's domain types.
//
//   - [CardRecord] : one identity shown on a card, generated or edited by hand
//   - [Details] : the structured fields returned by the text model
//   - [LedgerEntry] : a full name that has already been handed out
//   - [TemplateAsset] : the optional custom card background
//
// Cards are specimens for [Institution]; addresses always use [EmailDomain].
package models
