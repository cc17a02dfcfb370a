package internal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/fares303/Ai-instagram-message/testutil"
)

func TestShardLoader_Load(t *testing.T) {
	_, inbox := testutil.CreateExport(t)
	dir := filepath.Join(inbox, "bob_123")

	testutil.WriteShard(t, dir, "message_1.json", []string{"Bob", "Alice"}, []map[string]interface{}{
		testutil.TextMessage("Bob", "newest", 3000),
		testutil.TextMessage("Alice", "middle", 2000),
	})
	testutil.WriteShard(t, dir, "message_2.json", []string{"Bob", "Alice"}, []map[string]interface{}{
		testutil.TextMessage("Bob", "oldest", 1000),
	})
	testutil.WriteJSON(t, filepath.Join(dir, "autofill.json"), map[string]interface{}{"settings": true})
	testutil.WriteRaw(t, filepath.Join(dir, "broken.json"), []byte("{not json"))

	result, err := NewShardLoader(2).Load(context.Background(), dir, "bob")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(result.Shards) != 2 {
		t.Fatalf("Load() found %d shards, want 2", len(result.Shards))
	}
	if len(result.Records) != 3 {
		t.Fatalf("Load() found %d records, want 3", len(result.Records))
	}
	if len(result.Diagnostics) != 0 {
		t.Errorf("Load() diagnostics = %v, want none", result.Diagnostics)
	}

	// Shard order, then array order
	want := []struct {
		shard, entry int
		text         string
	}{
		{0, 0, "newest"},
		{0, 1, "middle"},
		{1, 0, "oldest"},
	}
	for i, w := range want {
		rec := result.Records[i]
		if rec.Shard != w.shard || rec.Entry != w.entry || rec.Message.Text() != w.text {
			t.Errorf("Records[%d] = shard %d entry %d %q, want %d %d %q", i, rec.Shard, rec.Entry, rec.Message.Text(), w.shard, w.entry, w.text)
		}
	}
	if result.Title != "Bob" {
		t.Errorf("Title = %q, want Bob", result.Title)
	}
	if len(result.Participants) != 2 {
		t.Errorf("Participants = %v", result.Participants)
	}
}

func TestShardLoader_InvalidEntries(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteJSON(t, filepath.Join(dir, "message_1.json"), map[string]interface{}{
		"participants": []map[string]interface{}{{"name": "Bob"}},
		"messages": []interface{}{
			testutil.TextMessage("Bob", "valid", 1000),
			"not an object",
			map[string]interface{}{"content": "no sender"},
			testutil.TextMessage("Bob", "also valid", 2000),
		},
	})

	result, err := NewShardLoader(1).Load(context.Background(), dir, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(result.Records) != 2 {
		t.Errorf("Load() kept %d records, want 2", len(result.Records))
	}
	if result.Records[1].Entry != 3 {
		t.Errorf("Records[1].Entry = %d, want 3", result.Records[1].Entry)
	}
	if len(result.Diagnostics) != 1 {
		t.Fatalf("Load() diagnostics = %v, want one", result.Diagnostics)
	}
	var dfe *DataFormatError
	if !errors.As(result.Diagnostics[0], &dfe) {
		t.Fatalf("diagnostic is %T, want *DataFormatError", result.Diagnostics[0])
	}
	if len(dfe.Entries) != 2 || dfe.Entries[0] != 1 || dfe.Entries[1] != 2 {
		t.Errorf("DataFormatError.Entries = %v, want [1 2]", dfe.Entries)
	}
}

func TestShardLoader_NotFound(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T, dir string)
		participant string
	}{
		{
			name:  "empty directory",
			setup: func(t *testing.T, dir string) {},
		},
		{
			name: "only non-shard files",
			setup: func(t *testing.T, dir string) {
				testutil.WriteJSON(t, filepath.Join(dir, "other.json"), []int{1, 2})
			},
		},
		{
			name: "no participant matches",
			setup: func(t *testing.T, dir string) {
				testutil.WriteShard(t, dir, "message_1.json", []string{"Bob"}, nil)
			},
			participant: "Carol",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(t, dir)
			_, err := NewShardLoader(1).Load(context.Background(), dir, tt.participant)
			var nf *NotFoundError
			if !errors.As(err, &nf) {
				t.Fatalf("Load() error = %v, want *NotFoundError", err)
			}
		})
	}
}

func TestShardLoader_Windows1252File(t *testing.T) {
	dir := t.TempDir()
	// "café" with é as the single cp1252 byte 0xE9
	data := []byte(`{"participants":[{"name":"Bob"}],"messages":[{"sender_name":"Bob","timestamp_ms":1,"content":"caf` + "\xe9" + `"}]}`)
	testutil.WriteRaw(t, filepath.Join(dir, "message_1.json"), data)

	result, err := NewShardLoader(1).Load(context.Background(), dir, "bob")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := result.Records[0].Message.Text(); got != "café" {
		t.Errorf("Text() = %q, want %q", got, "café")
	}
}

func TestShardLoader_Cancelled(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteShard(t, dir, "message_1.json", []string{"Bob"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewShardLoader(1).Load(ctx, dir, ""); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestMatchesParticipant(t *testing.T) {
	tests := []struct {
		names  []string
		target string
		want   bool
	}{
		{[]string{"Bob Smith", "Alice"}, "bob", true},
		{[]string{"Bob"}, "Bob Smith", true},
		{[]string{"Bob"}, "", true},
		{nil, "", true},
		{[]string{"Bob"}, "carol", false},
		{[]string{""}, "carol", false},
		{[]string{"ZOÉ"}, "zoé", true},
	}
	for _, tt := range tests {
		if got := MatchesParticipant(tt.names, tt.target); got != tt.want {
			t.Errorf("MatchesParticipant(%v, %q) = %v, want %v", tt.names, tt.target, got, tt.want)
		}
	}
}
