package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fares303/Ai-instagram-message/internal"
)

func TestWriteFile(t *testing.T) {
	out := t.TempDir()
	book := internal.CreateTestBook()

	path, err := WriteFile(out, "txt", book)
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	want := filepath.Join(out, "txt", "conversation_with_Bob.txt")
	if path != want {
		t.Errorf("WriteFile() path = %q, want %q", path, want)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// Same book, same bytes
	if _, err := WriteFile(out, "txt", book); err != nil {
		t.Fatal(err)
	}
	second, _ := os.ReadFile(path)
	if string(first) != string(second) {
		t.Error("re-exporting the same book changed the file")
	}

	entries, _ := os.ReadDir(filepath.Join(out, "txt"))
	if len(entries) != 1 {
		t.Errorf("txt directory holds %d files, want only the export", len(entries))
	}
}

func TestWriteFile_UnknownFormat(t *testing.T) {
	_, err := WriteFile(t.TempDir(), "pdf", internal.CreateTestBook())
	var exportErr *internal.ExportError
	if !errors.As(err, &exportErr) || exportErr.Format != "pdf" {
		t.Errorf("WriteFile() error = %v, want an ExportError for pdf", err)
	}
}

func TestWriteAll(t *testing.T) {
	out := t.TempDir()
	written, errs := WriteAll(out, []string{"json", "pdf", "md"}, internal.CreateTestBook())
	if len(written) != 2 {
		t.Errorf("WriteAll() wrote %v, want json and md", written)
	}
	if len(errs) != 1 {
		t.Errorf("WriteAll() errors = %v, want one", errs)
	}
	if _, err := os.Stat(filepath.Join(out, "md", "conversation_with_Bob.md")); err != nil {
		t.Errorf("markdown export missing: %v", err)
	}
}

func TestOutputPath(t *testing.T) {
	book := &internal.Book{Target: "Bob Smith"}
	got := OutputPath("/out", "html", &HTMLExporter{}, book)
	if got != filepath.Join("/out", "html", "conversation_with_Bob_Smith.html") {
		t.Errorf("OutputPath() = %q", got)
	}
	all := OutputPath("/out", "json", &JSONExporter{}, &internal.Book{})
	if all != filepath.Join("/out", "json", "conversation_with_all.json") {
		t.Errorf("OutputPath() = %q", all)
	}
}
