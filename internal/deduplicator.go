package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sync"
)

// Deduplicator keeps one manifest entry per content key. Add is the only
// writer and is safe to call from several goroutines.
type Deduplicator struct {
	mu      sync.Mutex
	entries map[string]*MediaEntry
	order   []*MediaEntry
}

// NewDeduplicator creates a new Deduplicator
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{entries: make(map[string]*MediaEntry)}
}

// Add records that ref points at content with the given key. The first
// source seen for a key is the one that gets copied; later references only
// add their sequence index. It reports whether a new entry was created.
func (d *Deduplicator) Add(key string, size int64, source string, ref AttachmentRef, kind Kind) (*MediaEntry, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if entry, ok := d.entries[key]; ok {
		entry.addReference(ref.Sequence)
		if source != entry.Source && !containsString(entry.Aliases, source) {
			entry.Aliases = append(entry.Aliases, source)
		}
		return entry, false
	}

	entry := &MediaEntry{
		Key:        key,
		Kind:       kind,
		Source:     source,
		Size:       size,
		References: []int{ref.Sequence},
		firstSent:  ref.SentAt,
	}
	d.entries[key] = entry
	d.order = append(d.order, entry)
	return entry, true
}

// Entries returns the entries in the order their content was first seen
func (d *Deduplicator) Entries() []*MediaEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*MediaEntry(nil), d.order...)
}

// Len returns the number of distinct contents
func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.order)
}

// HashFile returns the hex SHA-256 of a file's content and its size
func HashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

func containsString(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}
