package export

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/fares303/Ai-instagram-message/internal"
)

func TestSQLiteExporter_Export(t *testing.T) {
	book := internal.CreateTestBook()
	path := filepath.Join(t.TempDir(), "conversation.db")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := (&SQLiteExporter{}).Export(book, f); err != nil {
		f.Close()
		t.Fatalf("Export() error = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	db, err := internal.OpenDatabase(path)
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	defer db.Close()

	tables := map[string]int{
		"messages":    5,
		"attachments": 1,
		"reactions":   1,
		"emoji":       2,
		"media":       1,
	}
	for table, want := range tables {
		n, err := internal.CountRows(db, table)
		if err != nil {
			t.Errorf("CountRows(%s) error = %v", table, err)
			continue
		}
		if n != want {
			t.Errorf("%s has %d rows, want %d", table, n, want)
		}
	}

	var value string
	if err := db.QueryRow(`SELECT value FROM stats WHERE name = 'total_messages'`).Scan(&value); err != nil || value != "5" {
		t.Errorf("total_messages = %q, %v", value, err)
	}
	var text string
	if err := db.QueryRow(`SELECT text FROM messages WHERE sequence = 2`).Scan(&text); err != nil || text != "Great, thanks 😂😂" {
		t.Errorf("message 2 text = %q, %v", text, err)
	}
}

func TestLoadSummary_FromSQLiteExport(t *testing.T) {
	book := internal.CreateTestBook()
	path := filepath.Join(t.TempDir(), "conversation.db")
	if err := writeDatabase(path, book); err != nil {
		t.Fatalf("writeDatabase() error = %v", err)
	}

	got, err := internal.LoadSummary(path)
	if err != nil {
		t.Fatalf("LoadSummary() error = %v", err)
	}
	want := book.Stats

	tests := []struct {
		name      string
		got, want interface{}
	}{
		{"total messages", got.TotalMessages, want.TotalMessages},
		{"senders", got.Senders, want.Senders},
		{"kinds", got.Kinds, want.Kinds},
		{"emoji total", got.EmojiTotal, want.EmojiTotal},
		{"emoji", got.Emoji, want.Emoji},
		{"reactions", got.Reactions, want.Reactions},
		{"reaction total", got.ReactionTotal, want.ReactionTotal},
		{"phrase groups", got.PhraseGroups, want.PhraseGroups},
		{"phrases", got.Phrases, want.Phrases},
		{"mentions", got.Mentions, want.Mentions},
		{"most active day", got.MostActiveDay, want.MostActiveDay},
		{"duration", got.DurationDays, want.DurationDays},
		{"first message", got.FirstMessage, want.FirstMessage.UTC()},
		{"last message", got.LastMessage, want.LastMessage.UTC()},
	}
	for _, tt := range tests {
		if !reflect.DeepEqual(tt.got, tt.want) {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadSummary_NotAnExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.db")
	db, err := internal.CreateDatabase(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`CREATE TABLE notes (text TEXT)`); err != nil {
		t.Fatal(err)
	}
	db.Close()

	if _, err := internal.LoadSummary(path); err == nil {
		t.Error("LoadSummary() on a database without export tables should fail")
	}
}
