// Package bundler translates the build configuration into a PyInstaller
// invocation: the argument vector with platform-specific data separators
// and icons, the pre-flight check that embedded data directories exist,
// and post-flight verification of the produced executable.
package bundler
