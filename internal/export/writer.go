package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fares303/Ai-instagram-message/internal"
)

// OutputPath returns where a format's file for book is written:
// <outputDir>/<format>/conversation_with_<target>.<ext>
func OutputPath(outputDir, format string, exporter Exporter, book *internal.Book) string {
	name := fmt.Sprintf("conversation_with_%s.%s", internal.Slug(book.Target), exporter.Extension())
	return filepath.Join(outputDir, format, name)
}

// WriteFile exports book with one format. The file is written to a temp
// name first so a failed export never leaves a truncated file behind.
func WriteFile(outputDir, format string, book *internal.Book) (string, error) {
	exporter, err := NewExporter(format)
	if err != nil {
		return "", &internal.ExportError{Format: format, Err: err}
	}
	path := OutputPath(outputDir, format, exporter, book)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", &internal.ExportError{Format: format, Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return "", &internal.ExportError{Format: format, Path: path, Err: err}
	}
	tmpName := tmp.Name()
	if err := exporter.Export(book, tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", &internal.ExportError{Format: format, Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", &internal.ExportError{Format: format, Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return "", &internal.ExportError{Format: format, Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", &internal.ExportError{Format: format, Path: path, Err: err}
	}
	return path, nil
}

// WriteAll exports book in every format. One failing format does not stop
// the others; the written paths and the failures are returned.
func WriteAll(outputDir string, formats []string, book *internal.Book) ([]string, []error) {
	var written []string
	var errs []error
	for _, format := range formats {
		path, err := WriteFile(outputDir, format, book)
		if err != nil {
			internal.LogWarn("%v", err)
			errs = append(errs, err)
			continue
		}
		internal.LogDebug("Wrote %s", path)
		written = append(written, path)
	}
	return written, errs
}
