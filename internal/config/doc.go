// Package config defines the declarative build configuration and provides
// helpers to load, validate and save it in YAML format.
//
// The Config type describes everything one application build needs: the
// entry script, the data directories embedded into the bundle, forced and
// excluded modules, bundler toggles, and the release package layout. The
// built-in defaults reproduce the PREDATOR application build.
package config
