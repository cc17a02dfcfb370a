package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fares303/Ai-instagram-message/internal"
)

// JSONLExporter exports messages in JSONL format (one message per line)
type JSONLExporter struct{}

// Export exports a book's messages to JSONL format
func (e *JSONLExporter) Export(book *internal.Book, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	loc := location(book)

	for _, msg := range book.Conversation.Messages {
		obj := map[string]interface{}{
			"sequence":  msg.Sequence,
			"sender":    msg.Sender,
			"kind":      msg.Kind,
			"timestamp": msg.Timestamp.In(loc).Format(time.RFC3339),
		}
		if msg.Text != "" {
			obj["text"] = msg.Text
		}
		if len(msg.Attachments) > 0 {
			uris := make([]string, 0, len(msg.Attachments))
			for _, a := range msg.Attachments {
				uris = append(uris, a.URI)
			}
			obj["attachments"] = uris
		}
		if len(msg.Reactions) > 0 {
			obj["reactions"] = msg.Reactions
		}
		if msg.Share != nil {
			obj["share"] = msg.Share
		}

		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode message %d: %w", msg.Sequence, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
