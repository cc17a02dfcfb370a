package export

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fares303/Ai-instagram-message/internal"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names
const (
	sheetConversation = "Conversation"
	sheetStatistics   = "Statistics"
	sheetMedia        = "Media Files"
)

const maxColumnWidth = 50

// XLSXExporter writes a workbook with the conversation, its statistics and
// its media files on separate sheets
type XLSXExporter struct{}

// Export exports a book to an Excel workbook
func (e *XLSXExporter) Export(book *internal.Book, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetConversation); err != nil {
		return err
	}
	for _, name := range []string{sheetStatistics, sheetMedia} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}

	sheets := map[string][][]interface{}{
		sheetConversation: conversationRows(book),
		sheetStatistics:   statisticsRows(book),
		sheetMedia:        mediaRows(book),
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	for _, name := range []string{sheetConversation, sheetStatistics, sheetMedia} {
		if err := writeSheet(f, name, sheets[name], headerStyle); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", name, err)
		}
	}
	return f.Write(w)
}

// writeSheet fills a sheet from row 1, styles the first row and sizes the
// columns to their longest value
func writeSheet(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	var widths []int
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
		for c, v := range row {
			if c >= len(widths) {
				widths = append(widths, 0)
			}
			if n := utf8.RuneCountInString(fmt.Sprint(v)); n > widths[c] {
				widths[c] = n
			}
		}
	}
	if len(rows) > 0 {
		if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
			return err
		}
	}
	for c, n := range widths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		width := float64(n+2) * 1.2
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

// flagColumn marks messages matching one phrase group or one name
type flagColumn struct {
	title   string
	matcher *internal.PhraseMatcher
}

// flagColumns rebuilds the phrase groups and mentioned names the summary
// was computed with
func flagColumns(s *internal.Summary) []flagColumn {
	if s == nil {
		return nil
	}
	var cols []flagColumn
	for _, g := range s.PhraseGroups {
		var phrases []string
		for _, p := range s.Phrases {
			if p.Group == g.Key {
				phrases = append(phrases, p.Phrase)
			}
		}
		cols = append(cols, flagColumn{
			title:   "Has " + strings.ReplaceAll(g.Key, "_", " "),
			matcher: internal.NewPhraseMatcher(phrases),
		})
	}
	for _, m := range s.Mentions {
		cols = append(cols, flagColumn{
			title:   "Mentions " + m.Key,
			matcher: internal.NewPhraseMatcher([]string{m.Key}),
		})
	}
	return cols
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func conversationRows(book *internal.Book) [][]interface{} {
	loc := location(book)
	flags := flagColumns(book.Stats)

	header := []interface{}{"Sequence", "Date", "Time", "Sender", "Kind", "Message", "Media", "Reactions", "Shared Link", "Emoji Count"}
	for _, col := range flags {
		header = append(header, col.title)
	}
	rows := [][]interface{}{header}
	if book.Conversation == nil {
		return rows
	}

	for i := range book.Conversation.Messages {
		msg := &book.Conversation.Messages[i]
		local := msg.Timestamp.In(loc)

		reactions := make([]string, 0, len(msg.Reactions))
		for _, r := range msg.Reactions {
			reactions = append(reactions, fmt.Sprintf("%s by %s", r.Reaction, r.Actor))
		}
		link := ""
		if msg.Share != nil {
			link = msg.Share.Link
		}

		row := []interface{}{
			msg.Sequence,
			local.Format("2006-01-02"),
			local.Format("15:04:05"),
			msg.Sender,
			string(msg.Kind),
			msg.Text,
			attachmentSummary(msg),
			strings.Join(reactions, ", "),
			link,
			len(internal.EmojiClusters(msg.Text)),
		}
		for _, col := range flags {
			row = append(row, yesNo(len(col.matcher.Match(msg.Text)) > 0))
		}
		rows = append(rows, row)
	}
	return rows
}

func statisticsRows(book *internal.Book) [][]interface{} {
	rows := [][]interface{}{{"Conversation Statistics", title(book)}}
	s := book.Stats
	if s == nil {
		return rows
	}
	loc := location(book)

	rows = append(rows, []interface{}{"Total Messages", s.TotalMessages})
	for _, c := range s.Senders {
		rows = append(rows, []interface{}{"Messages from " + c.Key, c.Count})
	}
	for _, c := range s.Kinds {
		rows = append(rows, []interface{}{"Kind " + c.Key, c.Count})
	}
	rows = append(rows,
		[]interface{}{"Total Emojis Used", s.EmojiTotal},
		[]interface{}{"Unique Emojis Count", s.UniqueEmoji},
		[]interface{}{"Reactions", s.ReactionTotal},
	)
	for _, g := range s.PhraseGroups {
		rows = append(rows, []interface{}{"Messages with " + strings.ReplaceAll(g.Key, "_", " ") + " phrases", g.Count})
	}
	for _, m := range s.Mentions {
		rows = append(rows, []interface{}{fmt.Sprintf("Mentions of '%s'", m.Key), m.Count})
	}
	rows = append(rows, []interface{}{"Active Conversation Days", s.ActiveDays})
	if s.TotalMessages > 0 {
		rows = append(rows,
			[]interface{}{"First Message Date", s.FirstMessage.In(loc).Format("2006-01-02")},
			[]interface{}{"Last Message Date", s.LastMessage.In(loc).Format("2006-01-02")},
		)
	}
	rows = append(rows, []interface{}{"Conversation Duration (days)", s.DurationDays})
	if s.MostActiveDay != "" {
		rows = append(rows, []interface{}{"Most Active Day", fmt.Sprintf("%s (%d messages)", s.MostActiveDay, s.MostActiveDayCount)})
	}
	if s.SynthesizedTimestamps > 0 {
		rows = append(rows, []interface{}{"Synthesized Timestamps", s.SynthesizedTimestamps})
	}

	top := "None"
	if len(s.Emoji) > 0 {
		top = joinTop(s.Emoji, 20)
	}
	rows = append(rows, []interface{}{"Top Emojis Used", top})
	return rows
}

func joinTop(counts []internal.Count, n int) string {
	if len(counts) > n {
		counts = counts[:n]
	}
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s %d", c.Key, c.Count))
	}
	return strings.Join(parts, ", ")
}

// mediaRows lists one row per distinct file and one per missing reference.
// Without a manifest each attachment reference gets its own row.
func mediaRows(book *internal.Book) [][]interface{} {
	rows := [][]interface{}{{"Date", "Time", "Sender", "Type", "Source", "Destination", "Size", "Status", "Messages"}}
	if book.Conversation == nil {
		return rows
	}
	loc := location(book)
	messages := book.Conversation.Messages
	when := func(seq int) (string, string, string) {
		if seq < 0 || seq >= len(messages) {
			return "", "", ""
		}
		local := messages[seq].Timestamp.In(loc)
		return local.Format("2006-01-02"), local.Format("15:04:05"), messages[seq].Sender
	}

	m := book.Manifest
	if m == nil {
		for _, ref := range book.Conversation.Attachments() {
			date, clock, sender := when(ref.Sequence)
			rows = append(rows, []interface{}{date, clock, sender, string(ref.Kind), ref.URI, "", "", "not extracted", fmt.Sprint(ref.Sequence)})
		}
		return rows
	}

	for _, entry := range m.Entries {
		first := -1
		if len(entry.References) > 0 {
			first = entry.References[0]
		}
		date, clock, sender := when(first)
		refs := make([]string, 0, len(entry.References))
		for _, seq := range entry.References {
			refs = append(refs, fmt.Sprint(seq))
		}
		rows = append(rows, []interface{}{date, clock, sender, string(entry.Kind), entry.Source,
			entry.Destination, entry.Size, entry.Status, strings.Join(refs, ", ")})
	}
	for _, miss := range m.Omissions {
		date, clock, sender := when(miss.Sequence)
		rows = append(rows, []interface{}{date, clock, sender, string(miss.Kind), miss.URI, "", "", "missing", fmt.Sprint(miss.Sequence)})
	}
	return rows
}

// Extension returns the file extension for this format
func (e *XLSXExporter) Extension() string {
	return "xlsx"
}
