package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SnapshotVersion is written into every snapshot index
const SnapshotVersion = "1.0"

// SnapshotManager records the last processed state of conversations in an
// output directory so unchanged exports can be skipped.
type SnapshotManager struct {
	dir string
}

// SnapshotMetadata stores metadata about the snapshot
type SnapshotMetadata struct {
	Version   string    `yaml:"version"`
	CreatedAt time.Time `yaml:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// SnapshotEntry describes one processed conversation
type SnapshotEntry struct {
	Target       string    `yaml:"target"`
	RunID        string    `yaml:"run_id"`
	Fingerprint  string    `yaml:"fingerprint"`
	Title        string    `yaml:"title,omitempty"`
	MessageCount int       `yaml:"message_count"`
	MediaCount   int       `yaml:"media_count"`
	Omissions    int       `yaml:"omissions"`
	Diagnostics  int       `yaml:"diagnostics"`
	ProcessedAt  time.Time `yaml:"processed_at"`
}

// SnapshotIndex is the YAML index of all processed conversations
type SnapshotIndex struct {
	Conversations []SnapshotEntry  `yaml:"conversations"`
	Metadata      SnapshotMetadata `yaml:"metadata"`
}

// NewSnapshotManager creates a snapshot manager for an output directory
func NewSnapshotManager(dir string) *SnapshotManager {
	return &SnapshotManager{dir: dir}
}

// EnsureDir ensures the output directory exists
func (sm *SnapshotManager) EnsureDir() error {
	return os.MkdirAll(sm.dir, 0755)
}

// IndexPath returns the path to the snapshot index
func (sm *SnapshotManager) IndexPath() string {
	return filepath.Join(sm.dir, "snapshot.yaml")
}

// BookPath returns the path to a conversation's saved book
func (sm *SnapshotManager) BookPath(target string) string {
	return filepath.Join(sm.dir, fmt.Sprintf("conversation_%s.json", Slug(target)))
}

// IsCurrent reports whether target was last processed from shards with the
// given fingerprint
func (sm *SnapshotManager) IsCurrent(target, fingerprint string) bool {
	if fingerprint == "" {
		return false
	}
	index, err := sm.LoadIndex()
	if err != nil {
		return false
	}
	entry := index.find(target)
	if entry == nil || entry.Fingerprint != fingerprint {
		return false
	}
	_, err = os.Stat(sm.BookPath(entry.Target))
	return err == nil
}

// LoadIndex loads the snapshot index
func (sm *SnapshotManager) LoadIndex() (*SnapshotIndex, error) {
	path := sm.IndexPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "read", Err: err}
	}

	var index SnapshotIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, &StorageError{Path: path, Op: "parse", Err: err}
	}
	return &index, nil
}

// SaveIndex saves the snapshot index
func (sm *SnapshotManager) SaveIndex(index *SnapshotIndex) error {
	if err := sm.EnsureDir(); err != nil {
		return &StorageError{Path: sm.dir, Op: "open", Err: err}
	}

	path := sm.IndexPath()
	data, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot index: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &StorageError{Path: path, Op: "write", Err: err}
	}
	return nil
}

// SaveBook saves a processed book to its snapshot file
func (sm *SnapshotManager) SaveBook(book *Book) error {
	if err := sm.EnsureDir(); err != nil {
		return &StorageError{Path: sm.dir, Op: "open", Err: err}
	}

	path := sm.BookPath(book.Target)
	data, err := json.MarshalIndent(book, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal book: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &StorageError{Path: path, Op: "write", Err: err}
	}
	return nil
}

// LoadBook loads a saved book
func (sm *SnapshotManager) LoadBook(target string) (*Book, error) {
	path := sm.BookPath(target)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "read", Err: err}
	}

	var book Book
	if err := json.Unmarshal(data, &book); err != nil {
		return nil, &StorageError{Path: path, Op: "parse", Err: err}
	}
	return &book, nil
}

// Save stores the result of a run and updates the index entry of its target
func (sm *SnapshotManager) Save(result *Result) error {
	if err := sm.SaveBook(result.Book); err != nil {
		return err
	}

	now := time.Now().UTC()
	index, err := sm.LoadIndex()
	if err != nil {
		index = &SnapshotIndex{
			Conversations: make([]SnapshotEntry, 0),
			Metadata:      SnapshotMetadata{Version: SnapshotVersion, CreatedAt: now},
		}
	}
	index.Metadata.UpdatedAt = now

	book := result.Book
	entry := SnapshotEntry{
		Target:       book.Target,
		RunID:        result.RunID,
		Fingerprint:  result.Fingerprint,
		Title:        book.Conversation.Title,
		MessageCount: len(book.Conversation.Messages),
		Diagnostics:  len(result.Diagnostics),
		ProcessedAt:  now,
	}
	if book.Manifest != nil {
		entry.MediaCount = len(book.Manifest.Entries)
		entry.Omissions = len(book.Manifest.Omissions)
	}

	if existing := index.find(book.Target); existing != nil {
		*existing = entry
	} else {
		index.Conversations = append(index.Conversations, entry)
	}
	return sm.SaveIndex(index)
}

// Clear removes the index and every saved book it lists
func (sm *SnapshotManager) Clear() error {
	index, err := sm.LoadIndex()
	if err == nil {
		for _, entry := range index.Conversations {
			_ = os.Remove(sm.BookPath(entry.Target))
		}
	}

	if err := os.Remove(sm.IndexPath()); err != nil && !os.IsNotExist(err) {
		return &StorageError{Path: sm.IndexPath(), Op: "write", Err: err}
	}
	return nil
}

func (idx *SnapshotIndex) find(target string) *SnapshotEntry {
	for i := range idx.Conversations {
		if strings.EqualFold(idx.Conversations[i].Target, target) {
			return &idx.Conversations[i]
		}
	}
	return nil
}

// Slug turns a participant name into a file-name friendly token
func Slug(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "all"
	}
	var b strings.Builder
	lastUnderscore := false
	for _, r := range name {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' || r == '"' || r == '<' || r == '>' || r == '|':
			continue
		case r == ' ' || r == '\t':
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
			continue
		}
		b.WriteRune(r)
		lastUnderscore = false
	}
	out := strings.Trim(b.String(), "_.")
	if out == "" {
		return "all"
	}
	return out
}
