package internal

import (
	"fmt"
	"html"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Normalizer converts raw shard records to canonical messages
type Normalizer struct {
	unescapeHTML bool
}

// NewNormalizer creates a new Normalizer
func NewNormalizer(cfg *Config) *Normalizer {
	n := &Normalizer{unescapeHTML: true}
	if cfg != nil {
		n.unescapeHTML = cfg.UnescapeHTML
	}
	return n
}

// NormalizeConversation turns a loaded raw sequence into a Conversation
func (n *Normalizer) NormalizeConversation(load *LoadResult) (*Conversation, error) {
	if load == nil {
		return nil, fmt.Errorf("load result is nil")
	}

	shards := make([]string, 0, len(load.Shards))
	for _, shard := range load.Shards {
		shards = append(shards, shard.Path)
	}

	return &Conversation{
		Title:        load.Title,
		Participants: load.Participants,
		Shards:       shards,
		Messages:     n.Normalize(load.Records),
	}, nil
}

// Normalize maps records to messages in chronological order. Records are
// expected in shard then array order; equal timestamps keep that order.
func (n *Normalizer) Normalize(records []RawRecord) []Message {
	type stamped struct {
		record      RawRecord
		ts          int64
		synthesized bool
	}

	items := make([]stamped, len(records))
	var prev int64
	hasPrev := false
	var leading []int
	for i, rec := range records {
		items[i].record = rec
		if ts, ok := ParseTimestampMS(rec.Message.TimestampMS); ok {
			items[i].ts = ts
			prev, hasPrev = ts, true
			for _, j := range leading {
				items[j].ts = ts
			}
			leading = nil
			continue
		}

		items[i].synthesized = true
		if hasPrev {
			prev++
			items[i].ts = prev
		} else {
			// No earlier timestamp: borrow the next valid one
			leading = append(leading, i)
		}
		Logger().Warn().
			Str("shard", filepath.Base(rec.ShardPath)).
			Int("entry", rec.Entry).
			Msg("missing or non-numeric timestamp, synthesized")
	}

	sort.SliceStable(items, func(a, b int) bool {
		x, y := items[a], items[b]
		if x.ts != y.ts {
			return x.ts < y.ts
		}
		if x.record.Shard != y.record.Shard {
			return x.record.Shard < y.record.Shard
		}
		return x.record.Entry < y.record.Entry
	})

	messages := make([]Message, len(items))
	for seq, item := range items {
		messages[seq] = n.normalizeMessage(item.record, seq, time.UnixMilli(item.ts).UTC(), item.synthesized)
	}
	return messages
}

// normalizeMessage converts one record; seq is its final position
func (n *Normalizer) normalizeMessage(rec RawRecord, seq int, ts time.Time, synthesized bool) Message {
	raw := &rec.Message
	msg := Message{
		Sequence:        seq,
		Sender:          CleanText(raw.Sender, false),
		Text:            CleanText(raw.Text(), n.unescapeHTML),
		Timestamp:       ts,
		Kind:            ClassifyKind(raw),
		Shard:           rec.Shard,
		Entry:           rec.Entry,
		SynthesizedTime: synthesized,
	}

	shardDir := ""
	if rec.ShardPath != "" {
		shardDir = filepath.Dir(rec.ShardPath)
	}
	for _, group := range attachmentGroups(raw) {
		for _, media := range group.items {
			if media.URI == "" {
				continue
			}
			msg.Attachments = append(msg.Attachments, AttachmentRef{
				URI:      media.URI,
				Kind:     group.kind,
				Sequence: seq,
				SentAt:   ts,
				ShardDir: shardDir,
			})
		}
	}

	for _, r := range raw.Reactions {
		msg.Reactions = append(msg.Reactions, Reaction{
			Reaction: CleanText(r.Reaction, false),
			Actor:    CleanText(r.Actor, false),
		})
	}

	if raw.Share != nil {
		msg.Share = &SharedContent{
			Link:  raw.Share.Link,
			Text:  CleanText(raw.Share.ShareText, n.unescapeHTML),
			Owner: CleanText(raw.Share.OriginalContentOwner, false),
		}
	}
	return msg
}

type mediaGroup struct {
	kind  Kind
	items []MediaDescriptor
}

// attachmentGroups lists the media fields of a record in precedence order
func attachmentGroups(raw *RawMessage) []mediaGroup {
	photos := append([]MediaDescriptor(nil), raw.Photos...)
	photos = append(photos, raw.Gifs...)
	if raw.Sticker != nil {
		photos = append(photos, *raw.Sticker)
	}
	return []mediaGroup{
		{kind: KindPhoto, items: photos},
		{kind: KindVideo, items: raw.Videos},
		{kind: KindAudio, items: raw.AudioFiles},
	}
}

// ClassifyKind derives the message kind with the precedence
// attachment > shared content > text > reaction-only.
func ClassifyKind(raw *RawMessage) Kind {
	for _, group := range attachmentGroups(raw) {
		for _, media := range group.items {
			if media.URI != "" {
				return group.kind
			}
		}
	}
	switch {
	case raw.Share != nil:
		return KindShared
	case strings.TrimSpace(raw.Text()) != "":
		return KindText
	default:
		return KindReaction
	}
}

// bidiMarks are invisible direction controls the export sprinkles into names
// and text.
var bidiMarks = strings.NewReplacer(
	"\u200e", "", "\u200f", "",
	"\u202a", "", "\u202b", "", "\u202c", "", "\u202d", "", "\u202e", "",
	"\u2066", "", "\u2067", "", "\u2068", "", "\u2069", "",
)

// CleanText repairs double encoding, optionally unescapes HTML entities and
// strips bidirectional marks.
func CleanText(s string, unescapeHTML bool) string {
	if s == "" {
		return s
	}
	result := AssessRepair(s)
	if result.Skipped != nil && result.Skipped.Attempted {
		LogDebug("%s", result.Skipped)
	}
	out := result.Text
	if unescapeHTML && strings.ContainsRune(out, '&') {
		out = html.UnescapeString(out)
	}
	return bidiMarks.Replace(out)
}
