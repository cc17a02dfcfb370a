package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fares303/Ai-instagram-message/internal"
)

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(book *internal.Book, w io.Writer) error
	Extension() string
}

// SupportedFormats lists the format names NewExporter accepts
var SupportedFormats = []string{"txt", "html", "json", "jsonl", "md", "yaml", "csv", "xlsx", "sqlite"}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "txt", "text":
		return &TextExporter{}, nil
	case "html":
		return &HTMLExporter{}, nil
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "csv":
		return &CSVExporter{}, nil
	case "xlsx", "excel":
		return &XLSXExporter{}, nil
	case "sqlite", "db":
		return &SQLiteExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(SupportedFormats, ", "))
	}
}

// location returns the zone timestamps of a book are shown in
func location(book *internal.Book) *time.Location {
	if book.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(book.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// localized returns a copy of book whose message and summary instants are
// expressed in the book's timezone. The input is not modified.
func localized(book *internal.Book) *internal.Book {
	loc := location(book)
	out := *book
	if book.Conversation != nil {
		conv := *book.Conversation
		conv.Messages = make([]internal.Message, len(book.Conversation.Messages))
		for i, msg := range book.Conversation.Messages {
			msg.Timestamp = msg.Timestamp.In(loc)
			conv.Messages[i] = msg
		}
		out.Conversation = &conv
	}
	if book.Stats != nil {
		stats := *book.Stats
		stats.FirstMessage = stats.FirstMessage.In(loc)
		stats.LastMessage = stats.LastMessage.In(loc)
		out.Stats = &stats
	}
	return &out
}

// title returns the heading used by the document formats
func title(book *internal.Book) string {
	switch {
	case book.Target != "":
		return "Conversation with " + book.Target
	case book.Conversation != nil && book.Conversation.Title != "":
		return book.Conversation.Title
	default:
		return "Conversation"
	}
}

// attachmentSummary renders "2 photos, 1 video" for a message
func attachmentSummary(msg *internal.Message) string {
	if len(msg.Attachments) == 0 {
		return ""
	}
	counts := make(map[internal.Kind]int)
	for _, a := range msg.Attachments {
		counts[a.Kind]++
	}
	var parts []string
	for _, k := range internal.AllKinds {
		n := counts[k]
		if n == 0 {
			continue
		}
		noun := string(k)
		if n > 1 {
			noun += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, noun))
	}
	return strings.Join(parts, ", ")
}
