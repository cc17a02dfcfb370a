package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/fares303/Ai-instagram-message/internal"
)

// MarkdownExporter exports a book in Markdown format, one section per day
type MarkdownExporter struct{}

// Export exports a book to Markdown format
func (e *MarkdownExporter) Export(book *internal.Book, w io.Writer) error {
	loc := location(book)
	conv := book.Conversation

	_, _ = fmt.Fprintf(w, "# %s\n\n", title(book))
	if len(conv.Participants) > 0 {
		_, _ = fmt.Fprintf(w, "**Participants:** %s  \n", strings.Join(conv.Participants, ", "))
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d  \n", len(conv.Messages))
	_, _ = fmt.Fprintf(w, "**Timezone:** %s\n\n", loc)

	if s := book.Stats; s != nil {
		_, _ = fmt.Fprintf(w, "## Statistics\n\n")
		_, _ = fmt.Fprintf(w, "| Metric | Value |\n|---|---|\n")
		_, _ = fmt.Fprintf(w, "| Active days | %d |\n", s.ActiveDays)
		_, _ = fmt.Fprintf(w, "| Emoji | %d (%d unique) |\n", s.EmojiTotal, s.UniqueEmoji)
		_, _ = fmt.Fprintf(w, "| Reactions | %d |\n", s.ReactionTotal)
		for _, c := range s.Senders {
			_, _ = fmt.Fprintf(w, "| Messages from %s | %d |\n", escapeMarkdown(c.Key), c.Count)
		}
		for _, g := range s.PhraseGroups {
			_, _ = fmt.Fprintf(w, "| %s messages | %d |\n", g.Key, g.Count)
		}
		_, _ = fmt.Fprintf(w, "\n")
	}

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Messages\n")

	day := ""
	for i := range conv.Messages {
		msg := &conv.Messages[i]
		local := msg.Timestamp.In(loc)
		if d := local.Format("2006-01-02"); d != day {
			day = d
			_, _ = fmt.Fprintf(w, "\n### %s\n\n", day)
		}

		_, _ = fmt.Fprintf(w, "**%s** (%s)", escapeMarkdown(msg.Sender), local.Format("15:04:05"))
		if media := attachmentSummary(msg); media != "" {
			_, _ = fmt.Fprintf(w, " _%s_", media)
		}
		_, _ = fmt.Fprintf(w, "\n\n")
		if msg.Text != "" {
			_, _ = fmt.Fprintf(w, "%s\n\n", escapeMarkdown(msg.Text))
		}
		if msg.Share != nil && msg.Share.Link != "" {
			_, _ = fmt.Fprintf(w, "> %s\n\n", msg.Share.Link)
		}
		for _, r := range msg.Reactions {
			_, _ = fmt.Fprintf(w, "- %s by %s\n", r.Reaction, escapeMarkdown(r.Actor))
		}
		if len(msg.Reactions) > 0 {
			_, _ = fmt.Fprintf(w, "\n")
		}
	}

	return nil
}

// escapeMarkdown escapes markdown special characters
func escapeMarkdown(text string) string {
	// Basic escaping - preserve code blocks
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			line = strings.ReplaceAll(line, "|", "\\|")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
