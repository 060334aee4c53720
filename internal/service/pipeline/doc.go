// Package pipeline chains the build stages end to end: environment check,
// dependency installation, bundling, and release packaging.
//
// A marker file prevents two pipelines from running at the same time, with
// stale markers from crashed runs recovered after a grace period. Each step
// failure halts the pipeline immediately with a diagnostic; later steps
// never run after a failure.
package pipeline
