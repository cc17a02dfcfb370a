package export

import (
	"fmt"
	"io"

	"github.com/fares303/Ai-instagram-message/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter writes the whole book as a YAML document headed by a comment
// naming the conversation
type YAMLExporter struct{}

// Export exports a book to YAML format
func (e *YAMLExporter) Export(book *internal.Book, w io.Writer) error {
	var doc yaml.Node
	if err := doc.Encode(localized(book)); err != nil {
		return fmt.Errorf("failed to encode book: %w", err)
	}
	count := 0
	if book.Conversation != nil {
		count = len(book.Conversation.Messages)
	}
	doc.HeadComment = fmt.Sprintf("%s (%d messages, timezone %s)", title(book), count, location(book))

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
