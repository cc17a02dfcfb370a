package internal

import (
	"strings"

	"github.com/forPelevin/gomoji"
	"github.com/rivo/uniseg"
)

const (
	variationSelector16 = "\ufe0f"
	combiningKeycap     = '\u20e3'
	keycapBases         = "0123456789#*"
)

// EmojiClusters returns the emoji in text, one entry per grapheme cluster,
// so flags, skin-tone variants and ZWJ sequences each count once.
func EmojiClusters(text string) []string {
	if text == "" {
		return nil
	}
	var found []string
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		if isEmojiCluster(g.Str()) {
			found = append(found, g.Str())
		}
	}
	return found
}

// isEmojiCluster looks a grapheme cluster up in the emoji table. Clusters the
// table lists in another qualification (missing VS16, extra skin tone) are
// matched by their first code point.
func isEmojiCluster(cluster string) bool {
	if cluster == "" {
		return false
	}
	runes := []rune(cluster)
	first := runes[0]
	switch {
	case isRegionalIndicator(first):
		return len(runes) >= 2 && isRegionalIndicator(runes[1])
	case strings.ContainsRune(cluster, combiningKeycap):
		return strings.ContainsRune(keycapBases, first)
	case first < 0x2190 && !strings.Contains(cluster, variationSelector16):
		// ASCII, and symbols such as ©, ® and ™ that default to text
		// presentation
		return false
	}

	if knownEmoji(cluster) {
		return true
	}
	base := string(first)
	return knownEmoji(base) || knownEmoji(base+variationSelector16)
}

func knownEmoji(s string) bool {
	_, err := gomoji.GetInfo(s)
	return err == nil
}

func isRegionalIndicator(r rune) bool {
	return r >= 0x1f1e6 && r <= 0x1f1ff
}
