// Package archive persists a generated package, either as a directory of
// descriptor files or as a single compressed archive ready for upload.
package archive

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/sppack/sppack/pkg/core"
)

// Writer persists descriptor sets.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a Writer. The logger may be nil.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{logger: logger}
}

// WriteDir writes every descriptor file into dir, creating it if needed.
// Existing files with the same names are overwritten.
func (w *Writer) WriteDir(dir string, files []core.PackageFile) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("archive: create %s: %w", dir, err)
	}
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, f.Contents, 0644); err != nil {
			return fmt.Errorf("archive: write %s: %w", path, err)
		}
		if w.logger != nil {
			w.logger.Debug("wrote descriptor", "path", path, "bytes", len(f.Contents))
		}
	}
	return nil
}

// WriteArchive writes every descriptor file into a single zip archive at
// path. The archive is written atomically: a temp file first, then a rename.
func (w *Writer) WriteArchive(path string, files []core.PackageFile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("archive: create %s: %w", filepath.Dir(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".pkg-*.zip")
	if err != nil {
		return fmt.Errorf("archive: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeZip(tmp, files); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("archive: close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("archive: rename to %s: %w", path, err)
	}

	if w.logger != nil {
		w.logger.Info("wrote package archive", "path", path, "files", len(files))
	}
	return nil
}

func writeZip(f *os.File, files []core.PackageFile) error {
	zw := zip.NewWriter(f)
	now := time.Now()

	for _, pf := range files {
		entry, err := zw.CreateHeader(&zip.FileHeader{
			Name:     pf.Name,
			Method:   zip.Deflate,
			Modified: now,
		})
		if err != nil {
			return fmt.Errorf("archive: add %s: %w", pf.Name, err)
		}
		if _, err := entry.Write(pf.Contents); err != nil {
			return fmt.Errorf("archive: add %s: %w", pf.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("archive: finalize: %w", err)
	}
	return nil
}
