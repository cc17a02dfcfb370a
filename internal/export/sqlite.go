package export

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fares303/Ai-instagram-message/internal"
)

// SQLiteExporter writes a book into a SQLite database with one table per
// concern: messages, attachments, reactions, stats, emoji and media.
type SQLiteExporter struct{}

var sqliteSchema = []string{
	`CREATE TABLE messages (
		sequence INTEGER PRIMARY KEY,
		sender TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		timestamp_ms INTEGER NOT NULL,
		kind TEXT NOT NULL,
		text TEXT,
		shared_link TEXT,
		synthesized_time INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE attachments (
		sequence INTEGER NOT NULL REFERENCES messages(sequence),
		uri TEXT NOT NULL,
		kind TEXT NOT NULL
	)`,
	`CREATE TABLE reactions (
		sequence INTEGER NOT NULL REFERENCES messages(sequence),
		reaction TEXT NOT NULL,
		actor TEXT
	)`,
	`CREATE TABLE stats (
		name TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE emoji (
		emoji TEXT PRIMARY KEY,
		count INTEGER NOT NULL
	)`,
	`CREATE TABLE media (
		key TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		source TEXT NOT NULL,
		destination TEXT NOT NULL,
		size INTEGER NOT NULL,
		status TEXT,
		refs INTEGER NOT NULL
	)`,
}

// Export builds the database in a temporary file and streams it to w
func (e *SQLiteExporter) Export(book *internal.Book, w io.Writer) error {
	dir, err := os.MkdirTemp("", "chatbook-sqlite-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "conversation.db")
	if err := writeDatabase(path, book); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

func writeDatabase(path string, book *internal.Book) error {
	db, err := internal.CreateDatabase(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range sqliteSchema {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	if err := insertMessages(tx, book); err != nil {
		return err
	}
	if err := insertStats(tx, book.Stats); err != nil {
		return err
	}
	if err := insertMedia(tx, book.Manifest); err != nil {
		return err
	}
	return tx.Commit()
}

func insertMessages(tx *sql.Tx, book *internal.Book) error {
	msgStmt, err := tx.Prepare(`INSERT INTO messages (sequence, sender, timestamp, timestamp_ms, kind, text, shared_link, synthesized_time) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer msgStmt.Close()
	attStmt, err := tx.Prepare(`INSERT INTO attachments (sequence, uri, kind) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer attStmt.Close()
	reactStmt, err := tx.Prepare(`INSERT INTO reactions (sequence, reaction, actor) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer reactStmt.Close()

	for _, msg := range book.Conversation.Messages {
		link := ""
		if msg.Share != nil {
			link = msg.Share.Link
		}
		synthesized := 0
		if msg.SynthesizedTime {
			synthesized = 1
		}
		if _, err := msgStmt.Exec(msg.Sequence, msg.Sender, msg.Timestamp.UTC().Format(time.RFC3339Nano),
			msg.Timestamp.UnixMilli(), string(msg.Kind), msg.Text, link, synthesized); err != nil {
			return fmt.Errorf("failed to insert message %d: %w", msg.Sequence, err)
		}
		for _, a := range msg.Attachments {
			if _, err := attStmt.Exec(msg.Sequence, a.URI, string(a.Kind)); err != nil {
				return fmt.Errorf("failed to insert attachment of message %d: %w", msg.Sequence, err)
			}
		}
		for _, r := range msg.Reactions {
			if _, err := reactStmt.Exec(msg.Sequence, r.Reaction, r.Actor); err != nil {
				return fmt.Errorf("failed to insert reaction of message %d: %w", msg.Sequence, err)
			}
		}
	}
	return nil
}

func insertStats(tx *sql.Tx, s *internal.Summary) error {
	if s == nil {
		return nil
	}
	rows := [][2]string{
		{"total_messages", fmt.Sprint(s.TotalMessages)},
		{"emoji_total", fmt.Sprint(s.EmojiTotal)},
		{"unique_emoji", fmt.Sprint(s.UniqueEmoji)},
		{"active_days", fmt.Sprint(s.ActiveDays)},
		{"duration_days", fmt.Sprint(s.DurationDays)},
		{"reaction_total", fmt.Sprint(s.ReactionTotal)},
		{"most_active_day", s.MostActiveDay},
		{"most_active_day_count", fmt.Sprint(s.MostActiveDayCount)},
		{"synthesized_timestamps", fmt.Sprint(s.SynthesizedTimestamps)},
		{"timezone", s.Timezone},
	}
	for _, c := range s.Senders {
		rows = append(rows, [2]string{"sender:" + c.Key, fmt.Sprint(c.Count)})
	}
	for _, c := range s.Kinds {
		rows = append(rows, [2]string{"kind:" + c.Key, fmt.Sprint(c.Count)})
	}
	for _, c := range s.PhraseGroups {
		rows = append(rows, [2]string{"group:" + c.Key, fmt.Sprint(c.Count)})
	}
	for _, p := range s.Phrases {
		rows = append(rows, [2]string{"phrase:" + p.Group + ":" + p.Phrase, fmt.Sprint(p.Hits)})
	}
	for _, c := range s.Mentions {
		rows = append(rows, [2]string{"mention:" + c.Key, fmt.Sprint(c.Count)})
	}

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO stats (name, value) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, row := range rows {
		if _, err := stmt.Exec(row[0], row[1]); err != nil {
			return fmt.Errorf("failed to insert stat %s: %w", row[0], err)
		}
	}

	emojiStmt, err := tx.Prepare(`INSERT INTO emoji (emoji, count) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer emojiStmt.Close()
	for _, c := range s.Emoji {
		if _, err := emojiStmt.Exec(c.Key, c.Count); err != nil {
			return fmt.Errorf("failed to insert emoji: %w", err)
		}
	}
	return nil
}

func insertMedia(tx *sql.Tx, m *internal.Manifest) error {
	if m == nil {
		return nil
	}
	stmt, err := tx.Prepare(`INSERT INTO media (key, kind, source, destination, size, status, refs) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, entry := range m.Entries {
		if _, err := stmt.Exec(entry.Key, string(entry.Kind), entry.Source, filepath.ToSlash(entry.Destination),
			entry.Size, entry.Status, len(entry.References)); err != nil {
			return fmt.Errorf("failed to insert media %s: %w", entry.Key, err)
		}
	}
	return nil
}

// Extension returns the file extension for this format
func (e *SQLiteExporter) Extension() string {
	return "db"
}
