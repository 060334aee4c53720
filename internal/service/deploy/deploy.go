package deploy

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	goupdate "github.com/doitdistributed/go-update"
	"github.com/mitchellh/go-ps"

	"github.com/predator-app/predator-builder/internal/config"
	"github.com/predator-app/predator-builder/internal/fsutil"
	"github.com/predator-app/predator-builder/internal/logger"
	"github.com/predator-app/predator-builder/internal/service/bundler"
	"github.com/predator-app/predator-builder/internal/service/release"
)

var (
	// errTargetRequired indicates no target directory was provided.
	errTargetRequired = errors.New("target directory must be provided")
	// errManifestMissing indicates the release has not been packaged yet.
	errManifestMissing = errors.New("release manifest not found, run the release first")
	// errNoChecksum indicates the manifest lacks an entry for the executable.
	errNoChecksum = errors.New("checksum missing for executable")
)

// Deployer installs the packaged executable into a target directory with
// checksum verification and atomic replacement.
type Deployer struct {
	cfg       *config.Config
	goos      string
	targetDir string
}

// New creates a Deployer for the host platform.
func New(cfg *config.Config, targetDir string) *Deployer {
	return &Deployer{cfg: cfg, goos: runtime.GOOS, targetDir: targetDir}
}

// Run applies the packaged executable to the target directory.
func (d *Deployer) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "deploy")

	if d.targetDir == "" {
		return errTargetRequired
	}

	manifestPath := filepath.Join(d.cfg.ReleaseDir, release.ManifestFilename)
	if !fsutil.Exists(manifestPath) {
		return fmt.Errorf("%s: %w", manifestPath, errManifestMissing)
	}

	manifest, err := release.LoadManifest(manifestPath)
	if err != nil {
		return err
	}

	exeName := bundler.ExecutableName(d.cfg, d.goos)

	checksum, err := manifestChecksum(manifest, exeName)
	if err != nil {
		return err
	}

	// A running copy of the application would keep the old binary alive on
	// Windows and confuse the user elsewhere. Stop it first.
	logger.InfoKV(ctx, "Terminating running application instances", "executable", exeName)

	if err = terminateProcessByName(exeName); err != nil {
		return fmt.Errorf("terminate application: %w", err)
	}

	if err = d.apply(ctx, exeName, checksum); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Deployed executable",
		"target", filepath.Join(d.targetDir, exeName),
		"version", manifest.VersionNumber)

	return nil
}

// apply performs the checksum-verified replacement of the target executable.
func (d *Deployer) apply(ctx context.Context, exeName string, checksum []byte) error {
	data, err := os.ReadFile(filepath.Clean(filepath.Join(d.cfg.ReleaseDir, exeName)))
	if err != nil {
		return fmt.Errorf("read packaged executable: %w", err)
	}

	if err = os.MkdirAll(d.targetDir, release.DefaultFileMode); err != nil {
		return err
	}

	targetPath := filepath.Join(d.targetDir, exeName)
	if !fsutil.Exists(targetPath) {
		// go-update replaces an existing file; seed an empty one on first install.
		if _, err = os.Create(targetPath); err != nil {
			return err
		}
	}

	logger.DebugKV(ctx, "Applying update", "path", targetPath)

	options := goupdate.Options{
		TargetPath: targetPath,
		TargetMode: release.DefaultFileMode,
		Checksum:   checksum,
		Hash:       release.DefaultChecksumFunction,
	}

	if err = goupdate.Apply(bytes.NewReader(data), options); err != nil {
		return fmt.Errorf("apply executable: %w", err)
	}

	oldPath := targetPath + ".old"
	if fsutil.Exists(oldPath) {
		_ = os.Remove(oldPath)
	}

	return nil
}

// manifestChecksum decodes the manifest entry for the given file.
func manifestChecksum(manifest *release.Manifest, name string) ([]byte, error) {
	encoded, ok := manifest.Files[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, errNoChecksum)
	}

	checksum, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode checksum for %s: %w", name, err)
	}

	return checksum, nil
}

// terminateProcessByName kills processes with the provided executable name,
// skipping the current process.
func terminateProcessByName(processName string) error {
	processList, err := ps.Processes()
	if err != nil {
		return err
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() != processName {
			continue
		}

		runningProcess, err := os.FindProcess(process.Pid())
		if err != nil {
			return err
		}

		if err = runningProcess.Kill(); err != nil {
			return err
		}
	}

	return nil
}
