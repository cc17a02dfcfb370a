package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fares303/Ai-instagram-message/internal"
	"github.com/fares303/Ai-instagram-message/internal/export"
)

func writeSQLiteExport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conversation_Bob.db")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := (&export.SQLiteExporter{}).Export(internal.CreateTestBook(), f); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	return path
}

func TestStatsCommand_FromDB(t *testing.T) {
	path := writeSQLiteExport(t)

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, out string)
	}{
		{
			name: "json",
			args: []string{"stats", "--from-db", path, "--json"},
			check: func(t *testing.T, out string) {
				var s internal.Summary
				if err := json.Unmarshal([]byte(out), &s); err != nil {
					t.Fatalf("output is not JSON: %v\n%s", err, out)
				}
				if s.TotalMessages != 5 || s.EmojiTotal != 3 || s.ReactionTotal != 1 {
					t.Errorf("summary = %+v", s)
				}
			},
		},
		{
			name: "text",
			args: []string{"stats", "--from-db", path},
			check: func(t *testing.T, out string) {
				for _, want := range []string{"Alice", "Bob", "😂"} {
					if !strings.Contains(out, want) {
						t.Errorf("output missing %q:\n%s", want, out)
					}
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, "", tt.args...)
			if err != nil {
				t.Fatalf("stats error = %v", err)
			}
			tt.check(t, out)
		})
	}
}

func TestStatsCommand_FromMissingDB(t *testing.T) {
	if _, err := executeCommand(t, "", "stats", "--from-db", filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("stats --from-db on a missing file should fail")
	}
}
