package pipeline

import (
	"context"
	"errors"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/predator-app/predator-builder/internal/logger"
)

const (
	// MarkerFilename marks that a build is running right now to avoid
	// parallel executions clobbering each other's artifacts.
	MarkerFilename = "predator-builder-build-marker.bin"

	// markerLifetime is the period after which a stale build marker is
	// considered a leftover from a crashed run and recovered.
	markerLifetime = 30 * time.Minute

	// builderBaseExecutable is this tool's own executable base name.
	builderBaseExecutable = "predator-builder"
)

// errBuildAlreadyRunning indicates another build holds the marker file.
var errBuildAlreadyRunning = errors.New("another build is already running")

// IsBuildRunningNow checks presence of the marker file and attempts
// recovery when it looks stale.
func IsBuildRunningNow(ctx context.Context) bool {
	fileInfo, err := os.Stat(MarkerFilename)
	if err == nil {
		if time.Since(fileInfo.ModTime()) <= markerLifetime {
			return true
		}

		logger.Info(ctx, "The build marker is too old, attempting cleanup")

		if err = terminateProcessByName(builderExecutable()); err != nil {
			return true
		}

		if err = os.Remove(MarkerFilename); err != nil {
			return true
		}

		return false
	}

	if errors.Is(err, os.ErrNotExist) {
		return false
	}

	logger.Infof(ctx, "Unable to read build marker: %v", err)

	return false
}

// createMarker writes the marker file claiming the build slot.
func createMarker() error {
	marker, err := os.Create(MarkerFilename)
	if err != nil {
		return err
	}

	return marker.Close()
}

// removeMarker releases the build slot. Best-effort cleanup.
func removeMarker() {
	if _, err := os.Stat(MarkerFilename); err == nil {
		_ = os.Remove(MarkerFilename)
	}
}

// isProcessRunning reports whether a process with the executable name is
// running, skipping the current process.
func isProcessRunning(executable string) (bool, error) {
	processList, err := ps.Processes()
	if err != nil {
		return false, err
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() == executable {
			return true, nil
		}
	}

	return false, nil
}

// terminateProcessByName tries to kill processes with the provided executable name.
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

// builderExecutable returns this tool's platform-specific executable name.
func builderExecutable() string {
	if strings.Contains(strings.ToLower(runtime.GOOS), "windows") {
		return builderBaseExecutable + ".exe"
	}

	return builderBaseExecutable
}
