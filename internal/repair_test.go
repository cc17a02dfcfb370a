package internal

import (
	"testing"

	"github.com/fares303/Ai-instagram-message/testutil"
)

func TestAssessRepair(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		applied   bool
		reason    SkipReason
		attempted bool
	}{
		{
			name:   "empty",
			input:  "",
			want:   "",
			reason: SkipEmpty,
		},
		{
			name:   "ascii",
			input:  "hello there",
			want:   "hello there",
			reason: SkipASCII,
		},
		{
			name:    "latin accent",
			input:   testutil.Mojibake("café"),
			want:    "café",
			applied: true,
		},
		{
			name:    "emoji",
			input:   testutil.Mojibake("ok 😂"),
			want:    "ok 😂",
			applied: true,
		},
		{
			name:    "arabic script",
			input:   testutil.Mojibake("صباح الخير"),
			want:    "صباح الخير",
			applied: true,
		},
		{
			name:    "windows-1252 punctuation",
			input:   "donâ€™t",
			want:    "don’t",
			applied: true,
		},
		{
			name:      "already correct accent",
			input:     "café",
			want:      "café",
			reason:    SkipDecodeFailed,
			attempted: true,
		},
		{
			name:   "real multi-byte text",
			input:  "日本語",
			want:   "日本語",
			reason: SkipNotEncodable,
		},
		{
			name:   "correct emoji",
			input:  "😂",
			want:   "😂",
			reason: SkipNotEncodable,
		},
		{
			name:   "invalid utf-8",
			input:  "bad \xff byte",
			want:   "bad \xff byte",
			reason: SkipInvalidInput,
		},
		{
			name:      "repair would produce control characters",
			input:     "Â\u0080Â\u0081",
			want:      "Â\u0080Â\u0081",
			reason:    SkipIllegible,
			attempted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssessRepair(tt.input)
			if got.Text != tt.want {
				t.Errorf("AssessRepair(%q).Text = %q, want %q", tt.input, got.Text, tt.want)
			}
			if got.Applied != tt.applied {
				t.Errorf("AssessRepair(%q).Applied = %v, want %v", tt.input, got.Applied, tt.applied)
			}
			if tt.applied {
				if got.Skipped != nil {
					t.Errorf("AssessRepair(%q).Skipped = %v, want nil", tt.input, got.Skipped)
				}
				return
			}
			if got.Skipped == nil {
				t.Fatalf("AssessRepair(%q).Skipped = nil, want %s", tt.input, tt.reason)
			}
			if got.Skipped.Reason != tt.reason {
				t.Errorf("AssessRepair(%q).Skipped.Reason = %s, want %s", tt.input, got.Skipped.Reason, tt.reason)
			}
			if got.Skipped.Attempted != tt.attempted {
				t.Errorf("AssessRepair(%q).Skipped.Attempted = %v, want %v", tt.input, got.Skipped.Attempted, tt.attempted)
			}
		})
	}
}

func TestAssessRepair_DoubleCorruption(t *testing.T) {
	input := testutil.Mojibake(testutil.Mojibake("é"))
	got := AssessRepair(input)
	if got.Text != "é" {
		t.Errorf("AssessRepair().Text = %q, want %q", got.Text, "é")
	}
	if got.Passes != 2 {
		t.Errorf("AssessRepair().Passes = %d, want 2", got.Passes)
	}
}

func TestRepair_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"café",
		testutil.Mojibake("café ☕"),
		testutil.Mojibake(testutil.Mojibake("naïve")),
		"donâ€™t",
		"日本語",
		"Â\u0080",
	}
	for _, input := range inputs {
		once := Repair(input)
		twice := Repair(once)
		if once != twice {
			t.Errorf("Repair(Repair(%q)) = %q, want %q", input, twice, once)
		}
	}
}

func TestEncodingRepairSkipped_String(t *testing.T) {
	skipped := EncodingRepairSkipped{Reason: SkipASCII}
	if got := skipped.String(); got != "repair skipped: ascii" {
		t.Errorf("String() = %q", got)
	}

	rejected := EncodingRepairSkipped{Reason: SkipIllegible, Attempted: true, Legibility: 0.5, MarkerRatio: 0.5}
	if got := rejected.String(); got != "repair rejected: illegible (legibility 0.50, markers 0.50)" {
		t.Errorf("String() = %q", got)
	}
}

func TestLegibility(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"", 1},
		{"abc", 1},
		{"a\u0080", 0.5},
		{"�", 0},
		{"line\nbreak\ttab", 1},
		{"👨‍👩", 1},
	}
	for _, tt := range tests {
		if got := legibility(tt.input); got != tt.want {
			t.Errorf("legibility(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
