// Package services talks to the generative model.
//
// [GeminiService] is the production [Model]: it asks the text model for a JSON
// identity constrained by [DetailsSchema] and the image model for a square portrait.
// Calls are paced client-side by a token bucket sized from the configured
// requests-per-minute, on top of the fixed pacing the batch pipeline applies.
package services
