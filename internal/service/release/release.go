package release

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/predator-app/predator-builder/internal/config"
	"github.com/predator-app/predator-builder/internal/fsutil"
	"github.com/predator-app/predator-builder/internal/logger"
	"github.com/predator-app/predator-builder/internal/service/bundler"
	"github.com/predator-app/predator-builder/internal/version"
)

// errExecutableMissing indicates the release was requested before a
// successful build produced the executable.
var errExecutableMissing = errors.New("built executable not found, run the build first")

// Packager assembles the distributable release package.
type Packager struct {
	cfg  *config.Config
	goos string
}

// NewPackager creates a Packager for the host platform.
func NewPackager(cfg *config.Config) *Packager {
	return &Packager{cfg: cfg, goos: runtime.GOOS}
}

// Run assembles the release directory, writes the checksum manifest, and
// compresses everything into the release archive. It returns the archive path.
func (p *Packager) Run(ctx context.Context) (string, error) {
	ctx = logger.WithName(ctx, "release")

	exePath := bundler.OutputPath(p.cfg, p.goos)
	if !fsutil.Exists(exePath) {
		return "", fmt.Errorf("%s: %w", exePath, errExecutableMissing)
	}

	if err := p.recreateReleaseDir(ctx); err != nil {
		return "", err
	}

	packaged, err := p.copyArtifacts(ctx, exePath)
	if err != nil {
		return "", err
	}

	if err = p.writeManifest(ctx, packaged); err != nil {
		return "", err
	}

	archivePath, err := p.writeArchive(ctx)
	if err != nil {
		return "", err
	}

	p.printContents(ctx, packaged, archivePath)

	return archivePath, nil
}

// ArchiveName returns the configured archive name or derives one from the
// application name, platform and tool version.
func (p *Packager) ArchiveName() string {
	if p.cfg.ArchiveName != "" {
		return p.cfg.ArchiveName
	}

	return fmt.Sprintf("%s_%s_v%s_Release.zip", p.cfg.AppName, titleOS(p.goos), version.Short())
}

// Clean removes the release directory and archive from a previous run.
func (p *Packager) Clean(ctx context.Context) error {
	for _, path := range []string{p.cfg.ReleaseDir, p.ArchiveName()} {
		if !fsutil.Exists(path) {
			continue
		}

		if err := os.RemoveAll(path); err != nil {
			return err
		}

		logger.InfoKV(ctx, "Removed release artifact", "path", path)
	}

	return nil
}

// recreateReleaseDir wipes any previous release directory and creates a fresh one.
func (p *Packager) recreateReleaseDir(ctx context.Context) error {
	if fsutil.Exists(p.cfg.ReleaseDir) {
		logger.InfoKV(ctx, "Removing stale release directory", "path", p.cfg.ReleaseDir)

		if err := os.RemoveAll(p.cfg.ReleaseDir); err != nil {
			return err
		}
	}

	return os.MkdirAll(p.cfg.ReleaseDir, DefaultFileMode)
}

// copyArtifacts copies the executable, the darwin application bundle when
// present, and the configured documents. It returns the names of packaged
// files relative to the release directory.
func (p *Packager) copyArtifacts(ctx context.Context, exePath string) ([]string, error) {
	exeName := bundler.ExecutableName(p.cfg, p.goos)
	exeTarget := filepath.Join(p.cfg.ReleaseDir, exeName)

	if err := fsutil.CopyFile(exePath, exeTarget); err != nil {
		return nil, err
	}

	// Distribution copies must stay executable.
	if err := os.Chmod(exeTarget, DefaultFileMode); err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Copied executable", "path", exeTarget)

	packaged := []string{exeName}

	if p.goos == "darwin" {
		if bundle := bundler.AppBundlePath(p.cfg); fsutil.IsDir(bundle) {
			target := filepath.Join(p.cfg.ReleaseDir, filepath.Base(bundle))
			if err := fsutil.CopyTree(bundle, target); err != nil {
				return nil, err
			}

			logger.InfoKV(ctx, "Copied application bundle", "path", target)
		}
	}

	for _, doc := range p.cfg.Documents {
		if !fsutil.Exists(doc.Source) {
			logger.WarnKV(ctx, "Document not found, skipping", "path", doc.Source)
			continue
		}

		if err := fsutil.CopyFile(doc.Source, filepath.Join(p.cfg.ReleaseDir, doc.Target)); err != nil {
			return nil, err
		}

		packaged = append(packaged, doc.Target)
		logger.InfoKV(ctx, "Copied document", "source", doc.Source, "target", doc.Target)
	}

	return packaged, nil
}

// writeManifest records a checksum for every packaged file.
func (p *Packager) writeManifest(ctx context.Context, packaged []string) error {
	manifest := NewManifest()

	for _, name := range packaged {
		checksum, err := FileChecksum(filepath.Join(p.cfg.ReleaseDir, name))
		if err != nil {
			return err
		}

		manifest.Files[name] = base64.StdEncoding.EncodeToString(checksum)
	}

	manifestPath := filepath.Join(p.cfg.ReleaseDir, ManifestFilename)
	logger.InfoKV(ctx, "Saving release manifest", "path", manifestPath)

	return manifest.Save(manifestPath)
}

// writeArchive compresses the release directory and reports the result size.
func (p *Packager) writeArchive(ctx context.Context) (string, error) {
	archivePath := p.ArchiveName()

	if err := writeZip(p.cfg.ReleaseDir, archivePath); err != nil {
		return "", fmt.Errorf("compress release: %w", err)
	}

	info, err := os.Stat(archivePath)
	if err != nil {
		return "", err
	}

	logger.InfoKV(ctx, "Created release archive",
		"path", archivePath,
		"size", humanize.Bytes(uint64(info.Size())))

	return archivePath, nil
}

// printContents logs a human-readable summary of what ended up in the release.
func (p *Packager) printContents(ctx context.Context, packaged []string, archivePath string) {
	files := append([]string(nil), packaged...)
	files = append(files, ManifestFilename)
	sort.Strings(files)

	var builder strings.Builder

	builder.WriteString("The release package ")
	builder.WriteString(p.cfg.ReleaseDir)
	builder.WriteString(" contains:\n")
	builder.WriteString(strings.Join(files, ",\n"))
	builder.WriteString("\n\nDistribute the archive ")
	builder.WriteString(archivePath)
	builder.WriteString(" to end users.")

	logger.Info(ctx, builder.String())
}

// titleOS renders the platform name the way release archives spell it.
func titleOS(goos string) string {
	switch goos {
	case "windows":
		return "Windows"
	case "darwin":
		return "Darwin"
	case "linux":
		return "Linux"
	default:
		return goos
	}
}
