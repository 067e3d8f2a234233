// Package tasks runs the batch pipeline that turns generated records into ZIP archives.
//
// # Flow
//
// [BatchPipeline.Run] builds ZipCount archives of [CardsPerZip] cards each, strictly
// one card at a time:
//
//  1. generate a unique record
//  2. mount it on the shared render stage, wait the settle delay, rasterize, release the surface
//  3. add the PNG to the archive, named after the record's email
//  4. pause for the pacing interval, except after the very last card of the run
//
// Finished archives are written as "card_batch_<i>_of_<n>.zip" into a directory named
// after the run's start time. A failing card aborts the run; archives already written
// stay on disk and the render stage is always closed.
//
// # Progress Reporting
//
// Progress is sent as [ProgressUpdate] values on an optional channel. Sends never block;
// a slow reader simply misses intermediate updates.
//
// # Errors
//
// [Classify] marks provider throttling with [shared.ErrRateLimit] and [UserMessage] maps
// any batch error to the text shown to the user.
package tasks
