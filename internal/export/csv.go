package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fares303/Ai-instagram-message/internal"
)

// CSVExporter exports messages as spreadsheet rows
type CSVExporter struct{}

var csvHeader = []string{"sequence", "date", "time", "sender", "kind", "text", "photos", "videos", "audio", "reactions", "shared_link", "emoji"}

// Export exports a book's messages to CSV
func (e *CSVExporter) Export(book *internal.Book, w io.Writer) error {
	cw := csv.NewWriter(w)
	loc := location(book)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range book.Conversation.Messages {
		msg := &book.Conversation.Messages[i]
		local := msg.Timestamp.In(loc)

		counts := make(map[internal.Kind]int)
		for _, a := range msg.Attachments {
			counts[a.Kind]++
		}
		reactions := make([]string, 0, len(msg.Reactions))
		for _, r := range msg.Reactions {
			reactions = append(reactions, r.Reaction+" "+r.Actor)
		}
		link := ""
		if msg.Share != nil {
			link = msg.Share.Link
		}

		row := []string{
			strconv.Itoa(msg.Sequence),
			local.Format("2006-01-02"),
			local.Format("15:04:05"),
			msg.Sender,
			string(msg.Kind),
			msg.Text,
			strconv.Itoa(counts[internal.KindPhoto]),
			strconv.Itoa(counts[internal.KindVideo]),
			strconv.Itoa(counts[internal.KindAudio]),
			strings.Join(reactions, "; "),
			link,
			strings.Join(internal.EmojiClusters(msg.Text), ""),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write message %d: %w", msg.Sequence, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Extension returns the file extension for this format
func (e *CSVExporter) Extension() string {
	return "csv"
}
