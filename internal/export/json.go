package export

import (
	"encoding/json"
	"io"

	"github.com/fares303/Ai-instagram-message/internal"
)

// JSONExporter writes the whole book as one indented JSON document with
// instants in the book's timezone
type JSONExporter struct{}

// Export exports a book to JSON format
func (e *JSONExporter) Export(book *internal.Book, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	// Message text often holds "<3" and links
	enc.SetEscapeHTML(false)
	return enc.Encode(localized(book))
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
