// Package deploy installs the packaged executable on the local machine.
//
// The packaged file's checksum is taken from the release manifest and
// verified during application, so a corrupted or tampered package never
// replaces a working installation. Running application instances are
// terminated before the file is swapped.
package deploy
