// Package cards produces complete, unique [models.CardRecord] values.
//
// A [Generator] asks the model for identities until it finds a full name the
// ledger has never seen (at most [MaxAttempts] tries), reserves that name,
// derives a synthetic address on [models.EmailDomain], and requests an
// illustrated portrait built from randomly drawn prompt fragments.
//
// The reservation is made before the portrait request. If the portrait then
// fails the name stays reserved and is never reused.
package cards
