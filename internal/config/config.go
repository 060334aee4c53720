package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// DataMapping embeds a source directory into the bundle under a target path.
type DataMapping struct {
	// Source is the directory on disk, relative to the project root.
	Source string `yaml:"source"`
	// Target is the path inside the produced bundle.
	Target string `yaml:"target"`
}

// Document is a file copied into the release package, optionally renamed.
type Document struct {
	// Source is the file path relative to the project root.
	Source string `yaml:"source"`
	// Target is the filename inside the release directory.
	Target string `yaml:"target"`
}

// Icons holds per-platform application icon paths. Missing icons are skipped.
type Icons struct {
	Windows string `yaml:"windows,omitempty"`
	Darwin  string `yaml:"darwin,omitempty"`
}

// Config describes one application build: what to bundle, how to invoke the
// bundler, and how to lay out the release package.
type Config struct {
	// AppName is the base name of the produced executable and archives.
	AppName string `yaml:"app_name"`
	// EntryScript is the application entry point handed to the bundler.
	EntryScript string `yaml:"entry_script"`
	// Interpreter is the Python executable resolved on PATH.
	Interpreter string `yaml:"interpreter"`
	// RequirementsFile is the dependency manifest installed before bundling.
	RequirementsFile string `yaml:"requirements_file"`
	// Dependencies is the fallback package list used when no requirements file exists.
	Dependencies []string `yaml:"dependencies,omitempty"`
	// BundlerPackage is the pip package providing the bundler tool.
	BundlerPackage string `yaml:"bundler_package"`
	// Data lists directories embedded into the bundle.
	Data []DataMapping `yaml:"data"`
	// HiddenImports are modules the bundler cannot detect statically.
	HiddenImports []string `yaml:"hidden_imports"`
	// ExcludeModules are modules dropped from the bundle to reduce size.
	ExcludeModules []string `yaml:"exclude_modules"`
	// Windowed suppresses the console window of the bundled application.
	Windowed bool `yaml:"windowed"`
	// OneFile produces a single-file executable instead of a directory.
	OneFile bool `yaml:"onefile"`
	// CleanCache wipes the bundler cache before building.
	CleanCache bool `yaml:"clean_cache"`
	// UPX enables executable compression when the bundler finds upx.
	UPX bool `yaml:"upx"`
	// Icons are per-platform application icons.
	Icons Icons `yaml:"icon,omitempty"`
	// TempConfigs are config files copied next to the entry script for the
	// duration of the build and removed afterwards.
	TempConfigs []string `yaml:"temp_configs,omitempty"`
	// BuildDir is the bundler working directory.
	BuildDir string `yaml:"build_dir"`
	// DistDir is where the bundler places the finished executable.
	DistDir string `yaml:"dist_dir"`
	// ReleaseDir is where the release package is assembled.
	ReleaseDir string `yaml:"release_dir"`
	// ArchiveName overrides the derived release archive name when set.
	ArchiveName string `yaml:"archive_name,omitempty"`
	// Documents are files copied into the release package next to the executable.
	Documents []Document `yaml:"documents"`
	// Timeout bounds each external command (installer, bundler).
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default build configuration filename.
	DefaultConfigFilename = "predator-builder.yaml"

	// DefaultTimeout bounds a single external command. Dependency
	// installation and bundling routinely take minutes on a cold cache.
	DefaultTimeout = 15 * time.Minute

	// DefaultFilePermissions is the file mode for the persisted configuration.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errAppNameRequired is returned when the application name is missing.
	errAppNameRequired = errors.New("application name must be provided")
	// errEntryScriptRequired is returned when the entry script is missing.
	errEntryScriptRequired = errors.New("entry script must be provided")
	// errInterpreterRequired is returned when the interpreter is missing.
	errInterpreterRequired = errors.New("interpreter must be provided")
	// errBundlerPackageRequired is returned when the bundler package is missing.
	errBundlerPackageRequired = errors.New("bundler package must be provided")
	// errIncompleteDataMapping is returned when a data mapping lacks source or target.
	errIncompleteDataMapping = errors.New("data mapping must have both source and target")
	// errIncompleteDocument is returned when a document entry lacks a source.
	errIncompleteDocument = errors.New("document must have a source")
)

// Default returns the built-in configuration for the PREDATOR application.
func Default() *Config {
	return &Config{
		AppName:          "PREDATOR",
		EntryScript:      "app.py",
		Interpreter:      defaultInterpreter(),
		RequirementsFile: "requirements.txt",
		Dependencies:     []string{"firebase-admin", "google-auth", "PyQt6"},
		BundlerPackage:   "pyinstaller",
		Data: []DataMapping{
			{Source: "src/config", Target: "config"},
			{Source: "data", Target: "data"},
		},
		HiddenImports: []string{
			"firebase_admin",
			"google.cloud.firestore",
			"google.auth",
			"PyQt6.QtCore",
			"PyQt6.QtWidgets",
			"PyQt6.QtGui",
		},
		ExcludeModules: []string{
			"tkinter",
			"matplotlib",
			"PIL",
			"numpy",
			"scipy",
			"pandas",
		},
		Windowed:   true,
		OneFile:    true,
		CleanCache: true,
		UPX:        true,
		Icons: Icons{
			Windows: "assets/icon.ico",
			Darwin:  "assets/icon.icns",
		},
		TempConfigs: []string{
			"src/config/firebase_config.json",
			"src/config/app_config.json",
		},
		BuildDir:   "build",
		DistDir:    "dist",
		ReleaseDir: "release_" + runtime.GOOS,
		Documents: []Document{
			{Source: "README.md", Target: "README.md"},
			{Source: "docs/ЗАПУСК.md", Target: "ЗАПУСК.md"},
			{Source: "docs/EXE_ИНСТРУКЦИЯ.md", Target: "ИНСТРУКЦИЯ.md"},
			{Source: "requirements.txt", Target: "requirements.txt"},
		},
		Timeout: DefaultTimeout,
	}
}

// Load reads configuration from the provided path on top of the defaults
// and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read build configuration: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal build configuration: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to the built-in defaults
// when no configuration file exists at the path.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		if err := Validate(cfg); err != nil {
			return nil, err
		}

		return cfg, nil
	}

	return Load(path)
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal build configuration: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write build configuration: %w", err)
	}

	return nil
}

// Validate checks the provided configuration for required fields and fills
// in defaults for optional ones.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.AppName == "" {
		return errAppNameRequired
	}

	if cfg.EntryScript == "" {
		return errEntryScriptRequired
	}

	if cfg.Interpreter == "" {
		return errInterpreterRequired
	}

	if cfg.BundlerPackage == "" {
		return errBundlerPackageRequired
	}

	for _, mapping := range cfg.Data {
		if mapping.Source == "" || mapping.Target == "" {
			return fmt.Errorf("%q -> %q: %w", mapping.Source, mapping.Target, errIncompleteDataMapping)
		}
	}

	for _, doc := range cfg.Documents {
		if doc.Source == "" {
			return errIncompleteDocument
		}
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.BuildDir == "" {
		cfg.BuildDir = "build"
	}

	if cfg.DistDir == "" {
		cfg.DistDir = "dist"
	}

	if cfg.ReleaseDir == "" {
		cfg.ReleaseDir = "release_" + runtime.GOOS
	}

	// A document without an explicit target keeps its base name.
	for i, doc := range cfg.Documents {
		if doc.Target == "" {
			cfg.Documents[i].Target = filepath.Base(doc.Source)
		}
	}

	return nil
}

// defaultInterpreter picks the conventional Python launcher for the host OS.
func defaultInterpreter() string {
	if runtime.GOOS == "windows" {
		return "python"
	}

	return "python3"
}
