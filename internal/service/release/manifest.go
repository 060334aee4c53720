package release

import (
	"crypto"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/predator-app/predator-builder/internal/version"

	// Ensure SHA512 is available for checksum calculation.
	_ "crypto/sha512"
)

const (
	// ManifestFilename stores the release description shipped with the package.
	ManifestFilename = "predator-builder-version.yaml"

	// DefaultFileMode is used for distributed artifacts.
	DefaultFileMode os.FileMode = 0o755

	// DefaultChecksumFunction is used to calculate artifact hashes.
	DefaultChecksumFunction crypto.Hash = crypto.SHA512

	// defaultMapCapacity is the default initial capacity for maps.
	defaultMapCapacity = 8
)

var errHashUnavailable = errors.New("hash function unavailable")

// Manifest describes a published release: its version and the
// base64-encoded checksum of every packaged file.
type Manifest struct {
	// VersionNumber is the semantic version of this release.
	VersionNumber string `yaml:"version"`
	// Files maps filenames to their base64-encoded checksums.
	Files map[string]string `yaml:"files"`
}

// NewManifest produces a Manifest for the current tool version.
func NewManifest() *Manifest {
	return &Manifest{
		VersionNumber: version.Short(),
		Files:         make(map[string]string, defaultMapCapacity),
	}
}

// LoadManifest reads a manifest from disk.
func LoadManifest(path string) (*Manifest, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read release manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(contents, &m); err != nil {
		return nil, fmt.Errorf("unmarshal release manifest: %w", err)
	}

	return &m, nil
}

// Save writes the manifest to the provided path.
func (m *Manifest) Save(path string) error {
	contents, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal release manifest: %w", err)
	}

	return os.WriteFile(filepath.Clean(path), contents, DefaultFileMode)
}

// FileChecksum returns checksum bytes for a file using DefaultChecksumFunction.
func FileChecksum(path string) ([]byte, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	if !DefaultChecksumFunction.Available() {
		return nil, fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	hasher := DefaultChecksumFunction.New()
	if _, err = hasher.Write(contents); err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}

	return hasher.Sum(nil), nil
}
