package release

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// writeZip compresses the contents of sourceDir into a zip archive at
// archivePath. Entry names are relative to sourceDir with forward slashes,
// so unpacking yields the release files at the archive root.
func writeZip(sourceDir, archivePath string) error {
	archive, err := os.Create(filepath.Clean(archivePath))
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	writer := zip.NewWriter(archive)

	walkErr := filepath.Walk(sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}

		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate

		entry, err := writer.CreateHeader(header)
		if err != nil {
			return err
		}

		file, err := os.Open(filepath.Clean(path))
		if err != nil {
			return err
		}

		_, err = io.Copy(entry, file)
		_ = file.Close()

		return err
	})

	if walkErr != nil {
		_ = writer.Close()
		_ = archive.Close()

		return walkErr
	}

	if err = writer.Close(); err != nil {
		_ = archive.Close()

		return fmt.Errorf("finalize archive: %w", err)
	}

	return archive.Close()
}
