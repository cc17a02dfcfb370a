package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/fares303/Ai-instagram-message/internal"
)

func TestCSVExporter_Export(t *testing.T) {
	book := internal.CreateTestBook()
	book.Conversation.Messages[0].Text = "hello, \"world\"\nsecond line"

	var buf bytes.Buffer
	if err := (&CSVExporter{}).Export(book, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 6 {
		t.Fatalf("got %d rows, want header and 5 messages", len(records))
	}
	if records[0][0] != "sequence" || len(records[0]) != len(csvHeader) {
		t.Errorf("header = %v", records[0])
	}

	first := records[1]
	if first[1] != "2024-03-01" || first[2] != "08:15:00" || first[3] != "Alice" {
		t.Errorf("first row = %v", first)
	}
	if first[5] != "hello, \"world\"\nsecond line" {
		t.Errorf("text column = %q", first[5])
	}

	third := records[3]
	if third[9] != "\u2764\ufe0f Bob" || third[11] != "😂😂" {
		t.Errorf("third row = %v", third)
	}
	photo := records[4]
	if photo[4] != "photo" || photo[6] != "1" {
		t.Errorf("photo row = %v", photo)
	}
	shared := records[5]
	if shared[10] != "https://www.instagram.com/p/abc123/" {
		t.Errorf("shared row = %v", shared)
	}
}
