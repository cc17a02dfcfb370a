package internal

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// RawRecord is one unparsed message entry of a shard, tagged with the shard's
// file-discovery order and the entry's index in the messages array.
type RawRecord struct {
	Shard     int
	Entry     int
	ShardPath string
	Message   RawMessage
}

// RawMessage mirrors a message object of the export
type RawMessage struct {
	Sender      string                 `mapstructure:"sender_name"`
	TimestampMS interface{}            `mapstructure:"timestamp_ms"`
	Content     *string                `mapstructure:"content"`
	Photos      []MediaDescriptor      `mapstructure:"photos"`
	Videos      []MediaDescriptor      `mapstructure:"videos"`
	AudioFiles  []MediaDescriptor      `mapstructure:"audio_files"`
	Gifs        []MediaDescriptor      `mapstructure:"gifs"`
	Sticker     *MediaDescriptor       `mapstructure:"sticker"`
	Share       *ShareDescriptor       `mapstructure:"share"`
	Reactions   []ReactionDescriptor   `mapstructure:"reactions"`
	Extra       map[string]interface{} `mapstructure:",remain"`
}

// MediaDescriptor is an attachment entry (photos, videos, audio_files, ...)
type MediaDescriptor struct {
	URI               string      `mapstructure:"uri"`
	CreationTimestamp interface{} `mapstructure:"creation_timestamp"`
}

// ShareDescriptor is the shared-content marker of a message
type ShareDescriptor struct {
	Link                 string `mapstructure:"link"`
	ShareText            string `mapstructure:"share_text"`
	OriginalContentOwner string `mapstructure:"original_content_owner"`
}

// ReactionDescriptor is one reaction entry
type ReactionDescriptor struct {
	Reaction string `mapstructure:"reaction"`
	Actor    string `mapstructure:"actor"`
}

// requiredMessageKeys must be present on every message entry
var requiredMessageKeys = []string{"sender_name"}

// DecodeRawMessage decodes one free-form message entry. Entries that are not
// objects, miss a required key or carry wrongly typed fields are rejected.
func DecodeRawMessage(entry interface{}) (RawMessage, error) {
	fields, ok := entry.(map[string]interface{})
	if !ok {
		return RawMessage{}, fmt.Errorf("entry is %T, not an object", entry)
	}
	for _, key := range requiredMessageKeys {
		if _, ok := fields[key]; !ok {
			return RawMessage{}, fmt.Errorf("missing required key %q", key)
		}
	}

	var msg RawMessage
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &msg,
		TagName: "mapstructure",
	})
	if err != nil {
		return RawMessage{}, err
	}
	if err := decoder.Decode(fields); err != nil {
		return RawMessage{}, fmt.Errorf("invalid message entry: %w", err)
	}
	return msg, nil
}

// Text returns the content field or an empty string
func (m *RawMessage) Text() string {
	if m.Content == nil {
		return ""
	}
	return *m.Content
}

// ParseTimestampMS parses an epoch-milliseconds value. It accepts JSON
// numbers and numeric strings and reports false for anything else.
func ParseTimestampMS(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		if f, err := t.Float64(); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return int64(f), true
		}
	case float64:
		if !math.IsNaN(t) && !math.IsInf(t, 0) {
			return int64(t), true
		}
	case int64:
		return t, true
	case int:
		return int64(t), true
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return int64(f), true
		}
	}
	return 0, false
}
