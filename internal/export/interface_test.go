package export

import (
	"bytes"
	"testing"

	"github.com/fares303/Ai-instagram-message/internal"
)

func TestNewExporter(t *testing.T) {
	tests := []struct {
		format  string
		wantExt string
		wantErr bool
	}{
		{format: "txt", wantExt: "txt"},
		{format: "text", wantExt: "txt"},
		{format: "HTML", wantExt: "html"},
		{format: "json", wantExt: "json"},
		{format: "jsonl", wantExt: "jsonl"},
		{format: "md", wantExt: "md"},
		{format: "markdown", wantExt: "md"},
		{format: "yaml", wantExt: "yaml"},
		{format: "csv", wantExt: "csv"},
		{format: "xlsx", wantExt: "xlsx"},
		{format: "excel", wantExt: "xlsx"},
		{format: "sqlite", wantExt: "db"},
		{format: "db", wantExt: "db"},
		{format: "pdf", wantErr: true},
		{format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			exporter, err := NewExporter(tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewExporter(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := exporter.Extension(); got != tt.wantExt {
				t.Errorf("Extension() = %q, want %q", got, tt.wantExt)
			}
		})
	}
}

func TestSupportedFormats_Export(t *testing.T) {
	book := internal.CreateTestBook()
	empty := internal.CreateTestBookWithMessages(internal.CreateTestConfig(), []internal.Message{})

	for _, format := range SupportedFormats {
		t.Run(format, func(t *testing.T) {
			exporter, err := NewExporter(format)
			if err != nil {
				t.Fatalf("NewExporter(%q) error = %v", format, err)
			}
			var buf bytes.Buffer
			if err := exporter.Export(book, &buf); err != nil {
				t.Errorf("Export() error = %v", err)
			}
			if buf.Len() == 0 {
				t.Error("Export() wrote nothing")
			}
			if err := exporter.Export(empty, &bytes.Buffer{}); err != nil {
				t.Errorf("Export() of an empty book error = %v", err)
			}
		})
	}
}

func TestAttachmentSummary(t *testing.T) {
	tests := []struct {
		name string
		refs []internal.AttachmentRef
		want string
	}{
		{"none", nil, ""},
		{"one photo", []internal.AttachmentRef{{Kind: internal.KindPhoto}}, "1 photo"},
		{"mixed", []internal.AttachmentRef{{Kind: internal.KindVideo}, {Kind: internal.KindPhoto}, {Kind: internal.KindPhoto}}, "2 photos, 1 video"},
	}
	for _, tt := range tests {
		msg := &internal.Message{Attachments: tt.refs}
		if got := attachmentSummary(msg); got != tt.want {
			t.Errorf("%s: attachmentSummary() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestTitle(t *testing.T) {
	if got := title(&internal.Book{Target: "Bob"}); got != "Conversation with Bob" {
		t.Errorf("title() = %q", got)
	}
	if got := title(&internal.Book{Conversation: &internal.Conversation{Title: "Group"}}); got != "Group" {
		t.Errorf("title() = %q", got)
	}
	if got := title(&internal.Book{}); got != "Conversation" {
		t.Errorf("title() = %q", got)
	}
}
