package internal

import (
	"errors"
	"strings"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{Dir: "/inbox", Participant: "Bob"}
	if msg := err.Error(); !strings.Contains(msg, "not found") || !strings.Contains(msg, `"Bob"`) {
		t.Errorf("NotFoundError.Error() = %q", msg)
	}
	all := &NotFoundError{Dir: "/inbox"}
	if msg := all.Error(); strings.Contains(msg, `""`) {
		t.Errorf("NotFoundError.Error() without participant = %q", msg)
	}
}

func TestDataFormatError(t *testing.T) {
	originalErr := errors.New("missing required key")
	err := &DataFormatError{Path: "/inbox/message_1.json", Entries: []int{4, 9}, Err: originalErr}

	msg := err.Error()
	if !strings.Contains(msg, "data format error") || !strings.Contains(msg, "message_1.json") {
		t.Errorf("DataFormatError.Error() = %q", msg)
	}
	if !strings.Contains(msg, "2 invalid entries, first at 4") {
		t.Errorf("DataFormatError.Error() should count entries, got %q", msg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("DataFormatError.Unwrap() should return original error")
	}
}

func TestMediaNotFoundError(t *testing.T) {
	err := &MediaNotFoundError{URI: "photos/a.jpg", Kind: KindPhoto, Sequence: 12, Tried: []string{"/a", "/b"}}
	msg := err.Error()
	if !strings.Contains(msg, "photos/a.jpg") || !strings.Contains(msg, "#12") || !strings.Contains(msg, "2 locations") {
		t.Errorf("MediaNotFoundError.Error() = %q", msg)
	}
}

func TestWrappingErrors(t *testing.T) {
	originalErr := errors.New("permission denied")
	tests := []struct {
		name   string
		err    error
		prefix string
	}{
		{"media", &MediaError{Path: "/a.jpg", Op: "copy", Err: originalErr}, "media error"},
		{"storage", &StorageError{Path: "/snapshot.yaml", Op: "write", Err: originalErr}, "storage error"},
		{"export", &ExportError{Format: "html", Path: "/out.html", Err: originalErr}, "export error [html]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			if !strings.HasPrefix(msg, tt.prefix) {
				t.Errorf("Error() = %q, want prefix %q", msg, tt.prefix)
			}
			if !strings.Contains(msg, "permission denied") {
				t.Errorf("Error() should include the cause, got %q", msg)
			}
			if !errors.Is(tt.err, originalErr) {
				t.Error("Unwrap() should return original error")
			}
		})
	}
}
