package internal

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// OpenDatabase opens a SQLite database in read-only mode
func OpenDatabase(path string) (*sql.DB, error) {
	return openDatabase(path + "?mode=ro")
}

// CreateDatabase opens a SQLite database for writing, creating the file if needed
func CreateDatabase(path string) (*sql.DB, error) {
	return openDatabase(path + "?mode=rwc")
}

func openDatabase(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}

// CountRows returns the number of rows of a table
func CountRows(db *sql.DB, table string) (int, error) {
	var n int
	if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %q", table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s failed: %w", table, err)
	}
	return n, nil
}

// LoadSummary rebuilds the statistics of a conversation from a database
// written by the sqlite export. Message and reaction totals are counted
// from their tables; groups, phrases and mentions keep their export order.
func LoadSummary(path string) (*Summary, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	s := &Summary{}
	if s.TotalMessages, err = CountRows(db, "messages"); err != nil {
		return nil, err
	}
	if s.ReactionTotal, err = CountRows(db, "reactions"); err != nil {
		return nil, err
	}

	rows, err := db.Query(`SELECT name, value FROM stats ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}
	defer rows.Close()

	senders := make(map[string]int)
	kinds := make(map[string]int)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("failed to read stats: %w", err)
		}
		n, _ := strconv.Atoi(value)
		prefix, key, _ := strings.Cut(name, ":")
		switch prefix {
		case "emoji_total":
			s.EmojiTotal = n
		case "unique_emoji":
			s.UniqueEmoji = n
		case "active_days":
			s.ActiveDays = n
		case "duration_days":
			s.DurationDays = n
		case "most_active_day":
			s.MostActiveDay = value
		case "most_active_day_count":
			s.MostActiveDayCount = n
		case "synthesized_timestamps":
			s.SynthesizedTimestamps = n
		case "timezone":
			s.Timezone = value
		case "sender":
			senders[key] = n
		case "kind":
			kinds[key] = n
		case "group":
			s.PhraseGroups = append(s.PhraseGroups, Count{Key: key, Count: n})
		case "phrase":
			group, phrase, _ := strings.Cut(key, ":")
			s.Phrases = append(s.Phrases, PhraseCount{Group: group, Phrase: phrase, Hits: n})
		case "mention":
			s.Mentions = append(s.Mentions, Count{Key: key, Count: n})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}
	s.Senders = sortCounts(senders)
	for _, k := range AllKinds {
		s.Kinds = append(s.Kinds, Count{Key: string(k), Count: kinds[string(k)]})
	}

	if s.Emoji, err = queryCounts(db, `SELECT emoji, count FROM emoji`); err != nil {
		return nil, err
	}
	if s.Reactions, err = queryCounts(db, `SELECT reaction, COUNT(*) FROM reactions WHERE reaction != '' GROUP BY reaction`); err != nil {
		return nil, err
	}

	if s.TotalMessages > 0 {
		var first, last int64
		if err := db.QueryRow(`SELECT MIN(timestamp_ms), MAX(timestamp_ms) FROM messages`).Scan(&first, &last); err != nil {
			return nil, fmt.Errorf("failed to read message range: %w", err)
		}
		s.FirstMessage = time.UnixMilli(first).UTC()
		s.LastMessage = time.UnixMilli(last).UTC()
	}
	return s, nil
}

// queryCounts reads (key, count) rows into a table sorted like sortCounts
func queryCounts(db *sql.DB, query string) ([]Count, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sortCounts(counts), nil
}
