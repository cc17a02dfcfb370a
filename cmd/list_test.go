package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fares303/Ai-instagram-message/internal"
	"github.com/fares303/Ai-instagram-message/testutil"
)

func TestListCommand(t *testing.T) {
	root, inbox := testutil.CreateExport(t)
	testutil.WriteShard(t, filepath.Join(inbox, "bob_1"), "message_1.json", []string{"Bob", "Alice"}, []map[string]interface{}{
		testutil.TextMessage("Bob", "hi", 1000),
	})
	testutil.WriteShard(t, filepath.Join(inbox, "carol_2"), "message_1.json", []string{"Carol", "Alice"}, nil)

	out, err := executeCommand(t, "", "list", "--data", root)
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	for _, want := range []string{"Found 2 conversation(s)", "bob_1", "carol_2", "Bob, Alice"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestListCommand_MissingExport(t *testing.T) {
	if _, err := executeCommand(t, "", "list", "--data", filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("list on a missing export should fail")
	}
}

func TestDisplayConversations(t *testing.T) {
	tests := []struct {
		name          string
		conversations []*internal.ConversationInfo
		want          []string
	}{
		{
			name:          "empty",
			conversations: nil,
			want:          []string{"No conversations found"},
		},
		{
			name: "long name and invalid entries",
			conversations: []*internal.ConversationInfo{
				{
					Name:     strings.Repeat("x", 60),
					Title:    "Group chat",
					Shards:   3,
					Messages: 120,
					Invalid:  2,
				},
			},
			want: []string{"Found 1 conversation(s)", "...", "Group chat", "(2 invalid)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			displayConversations(&buf, tt.conversations)
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}
