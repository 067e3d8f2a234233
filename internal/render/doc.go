// Package render rasterizes card records to PNG.
//
// Rendering is scoped: [CardRenderer.OpenStage] acquires a [Stage] holding the
// resolved background, [Stage.Mount] composes one record onto a [Surface], and
// [Surface.Rasterize] encodes it. Surfaces and stages must be closed on every
// path; closing a stage releases any surface still mounted on it.
//
// Every card gets a diagonal "SPECIMEN - NOT VALID" mark drawn over everything
// else, custom backgrounds included.
package render
