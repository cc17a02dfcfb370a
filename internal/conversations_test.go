package internal

import (
	"path/filepath"
	"testing"

	"github.com/fares303/Ai-instagram-message/testutil"
)

func TestListConversations(t *testing.T) {
	_, inbox := testutil.CreateExport(t)
	testutil.WriteShard(t, filepath.Join(inbox, "bob_1"), "message_1.json", []string{"Bob", "Alice"}, []map[string]interface{}{
		testutil.TextMessage("Bob", "hi", 1000),
		testutil.TextMessage("Alice", "hey", 2000),
	})
	testutil.WriteShard(t, filepath.Join(inbox, "bob_1"), "message_2.json", []string{"Bob", "Alice"}, []map[string]interface{}{
		testutil.TextMessage("Bob", "older", 500),
	})
	testutil.WriteShard(t, filepath.Join(inbox, "alice_2"), "message_1.json", []string{"Carol", "Alice"}, nil)
	testutil.WriteRaw(t, filepath.Join(inbox, "empty_3", "notes.txt"), []byte("nothing here"))

	conversations, err := ListConversations(inbox)
	if err != nil {
		t.Fatalf("ListConversations() error = %v", err)
	}
	if len(conversations) != 2 {
		t.Fatalf("ListConversations() returned %d conversations, want 2", len(conversations))
	}

	if conversations[0].Name != "alice_2" || conversations[1].Name != "bob_1" {
		t.Errorf("conversations not sorted by name: %s, %s", conversations[0].Name, conversations[1].Name)
	}
	bob := conversations[1]
	if bob.Shards != 2 || bob.Messages != 3 {
		t.Errorf("bob_1: shards = %d, messages = %d; want 2, 3", bob.Shards, bob.Messages)
	}
	if len(bob.Participants) != 2 || bob.Participants[0] != "Bob" {
		t.Errorf("bob_1: participants = %v", bob.Participants)
	}
}

func TestListConversations_MissingInbox(t *testing.T) {
	if _, err := ListConversations(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("ListConversations() on a missing inbox should fail")
	}
}

func TestListConversations_UpperCaseExtension(t *testing.T) {
	_, inbox := testutil.CreateExport(t)
	testutil.WriteJSON(t, filepath.Join(inbox, "message_1.JSON"),
		testutil.ShardDoc("Bob", []string{"Bob", "Alice"}, []map[string]interface{}{testutil.TextMessage("Bob", "hi", 1000)}))
	testutil.WriteShard(t, filepath.Join(inbox, "carol_2"), "message_1.JSON", []string{"Carol", "Alice"}, nil)

	conversations, err := ListConversations(inbox)
	if err != nil {
		t.Fatalf("ListConversations() error = %v", err)
	}
	if len(conversations) != 2 {
		t.Fatalf("ListConversations() = %d conversations, want 2", len(conversations))
	}
	for _, c := range conversations {
		if c.Shards != 1 {
			t.Errorf("%s: Shards = %d, want 1", c.Name, c.Shards)
		}
	}
}
