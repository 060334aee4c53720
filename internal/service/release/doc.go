// Package release assembles the distributable package for a finished build.
//
// It copies the executable and user-facing documents into the release
// directory, records base64-encoded checksums in a YAML manifest, and
// compresses the directory into the release archive. The manifest is later
// consumed by the deploy service for checksum-verified installation.
package release
