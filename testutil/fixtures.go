package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ExportInbox is the inbox location inside a full export
var ExportInbox = filepath.Join("your_instagram_activity", "messages", "inbox")

// CreateExport creates an export root with an empty inbox and returns the
// root and the inbox paths
func CreateExport(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	inbox := filepath.Join(root, ExportInbox)
	if err := os.MkdirAll(inbox, 0755); err != nil {
		t.Fatalf("Failed to create inbox: %v", err)
	}
	return root, inbox
}

// ShardDoc builds a shard document with the given participants and messages
func ShardDoc(title string, participants []string, messages []map[string]interface{}) map[string]interface{} {
	people := make([]map[string]interface{}, 0, len(participants))
	for _, name := range participants {
		people = append(people, map[string]interface{}{"name": name})
	}
	if messages == nil {
		messages = []map[string]interface{}{}
	}
	return map[string]interface{}{
		"participants": people,
		"messages":     messages,
		"title":        title,
		"thread_path":  "inbox/" + title,
	}
}

// WriteShard writes a shard file named name into dir and returns its path
func WriteShard(t *testing.T, dir, name string, participants []string, messages []map[string]interface{}) string {
	t.Helper()
	title := ""
	if len(participants) > 0 {
		title = participants[0]
	}
	return WriteJSON(t, filepath.Join(dir, name), ShardDoc(title, participants, messages))
}

// WriteJSON marshals v into path, creating parent directories
func WriteJSON(t *testing.T, path string, v interface{}) string {
	t.Helper()
	return WriteRaw(t, path, JSONMarshal(t, v))
}

// WriteRaw writes data into path, creating parent directories
func WriteRaw(t *testing.T, path string, data []byte) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// WriteMediaFile writes a media file at root/rel and returns its path
func WriteMediaFile(t *testing.T, root, rel string, data []byte) string {
	t.Helper()
	return WriteRaw(t, filepath.Join(root, filepath.FromSlash(rel)), data)
}

// TextMessage builds a plain text message entry
func TextMessage(sender, text string, timestampMS int64) map[string]interface{} {
	return map[string]interface{}{
		"sender_name":  sender,
		"timestamp_ms": timestampMS,
		"content":      text,
	}
}

// MediaMessage builds a message entry with attachments under field
// (photos, videos, audio_files or gifs)
func MediaMessage(sender, field string, timestampMS int64, uris ...string) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(uris))
	for _, uri := range uris {
		items = append(items, map[string]interface{}{"uri": uri, "creation_timestamp": timestampMS / 1000})
	}
	return map[string]interface{}{
		"sender_name":  sender,
		"timestamp_ms": timestampMS,
		field:          items,
	}
}

// WithReactions adds reactions to a message entry, as reaction/actor pairs
func WithReactions(msg map[string]interface{}, pairs ...string) map[string]interface{} {
	var reactions []map[string]interface{}
	for i := 0; i+1 < len(pairs); i += 2 {
		reactions = append(reactions, map[string]interface{}{"reaction": pairs[i], "actor": pairs[i+1]})
	}
	msg["reactions"] = reactions
	return msg
}

// Mojibake returns the form s takes after its UTF-8 bytes were read as
// Latin-1 and re-encoded as UTF-8
func Mojibake(s string) string {
	b := []byte(s)
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
