// Package builder orchestrates one build of the application bundle.
//
// A run always starts from a clean slate: stale bundler directories are
// removed, config files are staged next to the entry script, the bundler is
// invoked, and the produced executable is verified. Staged copies are
// removed whether the build succeeds or fails. Watch mode repeats the
// sequence on source changes.
package builder
