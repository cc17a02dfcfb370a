package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fares303/Ai-instagram-message/internal"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

const (
	ruleWidth = 80
	// Transcript lines longer than wrapWidth continue on indented lines
	wrapWidth      = 100
	continueIndent = 4
)

// TextExporter exports a book as a plain-text transcript with a statistics
// header
type TextExporter struct{}

// Export exports a book to plain text
func (e *TextExporter) Export(book *internal.Book, w io.Writer) error {
	bw := bufio.NewWriter(w)
	loc := location(book)

	fmt.Fprintf(bw, "%s\n", title(book))
	fmt.Fprintf(bw, "Timezone: %s\n", loc)
	fmt.Fprintf(bw, "%s\n\n", strings.Repeat("=", ruleWidth))

	if s := book.Stats; s != nil {
		fmt.Fprintf(bw, "CONVERSATION STATISTICS\n%s\n", strings.Repeat("-", ruleWidth))
		fmt.Fprintf(bw, "Total messages: %d\n", s.TotalMessages)
		for _, c := range s.Senders {
			fmt.Fprintf(bw, "Messages from %s: %d\n", c.Key, c.Count)
		}
		fmt.Fprintf(bw, "Total emojis used: %d\n", s.EmojiTotal)
		fmt.Fprintf(bw, "Unique emojis used: %d\n", s.UniqueEmoji)
		for _, g := range s.PhraseGroups {
			fmt.Fprintf(bw, "Messages with %s phrases: %d\n", strings.ReplaceAll(g.Key, "_", " "), g.Count)
		}
		for _, m := range s.Mentions {
			fmt.Fprintf(bw, "Mentions of '%s': %d\n", m.Key, m.Count)
		}
		fmt.Fprintf(bw, "Active conversation days: %d\n", s.ActiveDays)
		if s.TotalMessages > 0 {
			fmt.Fprintf(bw, "First message date: %s\n", s.FirstMessage.In(loc).Format("2006-01-02"))
			fmt.Fprintf(bw, "Last message date: %s\n", s.LastMessage.In(loc).Format("2006-01-02"))
		}
		fmt.Fprintf(bw, "Conversation duration: %d days\n", s.DurationDays)
		if s.MostActiveDay != "" {
			fmt.Fprintf(bw, "Most active day: %s (%d messages)\n", s.MostActiveDay, s.MostActiveDayCount)
		}
		fmt.Fprintf(bw, "\n%s\n\n", strings.Repeat("=", ruleWidth))
	}

	fmt.Fprintf(bw, "CONVERSATION\n%s\n\n", strings.Repeat("-", ruleWidth))
	for i := range book.Conversation.Messages {
		msg := &book.Conversation.Messages[i]
		body := msg.Text
		if media := attachmentSummary(msg); media != "" {
			body = strings.TrimSpace(body + " [" + media + "]")
		}
		if msg.Share != nil && msg.Share.Link != "" {
			body = strings.TrimSpace(body + " <" + msg.Share.Link + ">")
		}
		line := fmt.Sprintf("[%s] %s: %s", msg.Timestamp.In(loc).Format("2006-01-02 15:04:05"), msg.Sender, body)
		writeWrapped(bw, strings.TrimRight(line, " "))

		if len(msg.Reactions) > 0 {
			parts := make([]string, 0, len(msg.Reactions))
			for _, r := range msg.Reactions {
				parts = append(parts, fmt.Sprintf("%s by %s", r.Reaction, r.Actor))
			}
			fmt.Fprintf(bw, "    Reactions: %s\n", strings.Join(parts, ", "))
		}
	}

	return bw.Flush()
}

// writeWrapped writes line word-wrapped, with every line after the first
// indented. Newlines inside a message body are kept.
func writeWrapped(w io.Writer, line string) {
	first, rest, _ := strings.Cut(wordwrap.String(line, wrapWidth), "\n")
	fmt.Fprintln(w, first)
	if rest != "" {
		fmt.Fprintln(w, indent.String(rest, continueIndent))
	}
}

// Extension returns the file extension for this format
func (e *TextExporter) Extension() string {
	return "txt"
}
