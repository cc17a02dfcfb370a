package internal

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// MinLegibility is the share of legible runes a repaired string must reach
// before the repair is accepted.
const MinLegibility = 0.9

// SkipReason says why the repair engine left a string unchanged
type SkipReason string

const (
	SkipEmpty        SkipReason = "empty"
	SkipASCII        SkipReason = "ascii"
	SkipInvalidInput SkipReason = "invalid-utf8-input"
	SkipNotEncodable SkipReason = "not-encodable"
	SkipDecodeFailed SkipReason = "decode-failed"
	SkipIllegible    SkipReason = "illegible"
)

// EncodingRepairSkipped records a declined repair. It is a decision, not an
// error: Attempted distinguishes "nothing to repair" from "tried and rejected".
type EncodingRepairSkipped struct {
	Reason      SkipReason
	Attempted   bool
	Legibility  float64
	MarkerRatio float64
}

func (s EncodingRepairSkipped) String() string {
	if !s.Attempted {
		return fmt.Sprintf("repair skipped: %s", s.Reason)
	}
	return fmt.Sprintf("repair rejected: %s (legibility %.2f, markers %.2f)", s.Reason, s.Legibility, s.MarkerRatio)
}

// RepairResult is the outcome of AssessRepair
type RepairResult struct {
	Text        string
	Applied     bool
	Passes      int
	Legibility  float64
	MarkerRatio float64
	Skipped     *EncodingRepairSkipped
}

// corruptingCharsets are tried in order. Latin-1 covers exports that escaped
// every byte; Windows-1252 covers text that went through a cp1252 decoder and
// picked up its 0x80-0x9F punctuation.
var corruptingCharsets = []*charmap.Charmap{charmap.ISO8859_1, charmap.Windows1252}

// Repair returns s with double-encoding corruption reversed, or s unchanged
// when the repair cannot be verified.
func Repair(s string) string {
	return AssessRepair(s).Text
}

// AssessRepair reverses double encoding until the string stops changing.
// Every accepted pass strictly shrinks the rune count, so the loop ends and
// the result is a fixed point: AssessRepair(r.Text) never applies again.
func AssessRepair(s string) RepairResult {
	result := RepairResult{Text: s, Legibility: legibility(s), MarkerRatio: markerRatio(s)}
	for {
		out, skipped := repairOnce(result.Text)
		if skipped != nil {
			if result.Passes == 0 {
				result.Skipped = skipped
			}
			return result
		}
		result.Text = out
		result.Applied = true
		result.Passes++
		result.Legibility = legibility(out)
	}
}

func repairOnce(s string) (string, *EncodingRepairSkipped) {
	if s == "" {
		return s, &EncodingRepairSkipped{Reason: SkipEmpty}
	}
	if isASCII(s) {
		return s, &EncodingRepairSkipped{Reason: SkipASCII, Legibility: 1}
	}
	if !utf8.ValidString(s) {
		return s, &EncodingRepairSkipped{Reason: SkipInvalidInput}
	}

	raw, ok := reencode(s)
	if !ok {
		// Runes outside the corrupting charsets mean the text already holds
		// real multi-byte characters.
		return s, &EncodingRepairSkipped{Reason: SkipNotEncodable}
	}

	markers := markerRatio(s)
	if !utf8.Valid(raw) {
		return s, &EncodingRepairSkipped{Reason: SkipDecodeFailed, Attempted: true, MarkerRatio: markers}
	}
	out := string(raw)
	score := legibility(out)
	if score < MinLegibility || score <= markers {
		return s, &EncodingRepairSkipped{Reason: SkipIllegible, Attempted: true, Legibility: score, MarkerRatio: markers}
	}
	return out, nil
}

func reencode(s string) ([]byte, bool) {
	for _, cm := range corruptingCharsets {
		// The charmap encoders fail on runes outside their repertoire.
		raw, err := cm.NewEncoder().Bytes([]byte(s))
		if err != nil {
			continue
		}
		return raw, true
	}
	return nil, false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// isMarker reports runes typical of double-encoded text: the Latin-1
// renderings of UTF-8 lead bytes (Â..ô), C1 controls and U+FFFD.
func isMarker(r rune) bool {
	switch {
	case r >= 0xC2 && r <= 0xF4:
		return true
	case r >= 0x80 && r <= 0x9F:
		return true
	case r == utf8.RuneError:
		return true
	}
	return false
}

func markerRatio(s string) float64 {
	total, markers := 0, 0
	for _, r := range s {
		total++
		if isMarker(r) {
			markers++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(markers) / float64(total)
}

// isLegible accepts printable runes, whitespace and format characters (ZWJ,
// variation selectors, bidi marks) and rejects controls, private use,
// surrogates, unassigned code points and U+FFFD.
func isLegible(r rune) bool {
	switch {
	case r == '\n' || r == '\t' || r == '\r':
		return true
	case r == utf8.RuneError:
		return false
	case unicode.Is(unicode.Cc, r), unicode.Is(unicode.Co, r), unicode.Is(unicode.Cs, r):
		return false
	}
	return unicode.IsPrint(r) || unicode.IsSpace(r) || unicode.Is(unicode.Cf, r)
}

func legibility(s string) float64 {
	total, ok := 0, 0
	for _, r := range s {
		total++
		if isLegible(r) {
			ok++
		}
	}
	if total == 0 {
		return 1
	}
	return float64(ok) / float64(total)
}
