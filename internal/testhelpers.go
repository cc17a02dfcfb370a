package internal

import (
	"time"
)

// testEpoch is the first timestamp of the test conversation: 2024-03-01 08:15 UTC
var testEpoch = time.Date(2024, 3, 1, 8, 15, 0, 0, time.UTC)

// CreateTestConfig creates a validated config with the default phrases
func CreateTestConfig() *Config {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return &cfg
}

// CreateTestMessage creates a text message at testEpoch plus offset
func CreateTestMessage(seq int, sender, text string, offset time.Duration) Message {
	kind := KindText
	if text == "" {
		kind = KindReaction
	}
	return Message{
		Sequence:  seq,
		Sender:    sender,
		Text:      text,
		Timestamp: testEpoch.Add(offset),
		Kind:      kind,
		Entry:     seq,
	}
}

// CreateTestMessages creates a short two-person conversation spanning two
// days, with one photo and one shared post
func CreateTestMessages() []Message {
	messages := []Message{
		CreateTestMessage(0, "Alice", "Good morning \u2600\ufe0f", 0),
		CreateTestMessage(1, "Bob", "gm! how are you?", time.Minute),
		CreateTestMessage(2, "Alice", "Great, thanks 😂😂", 2*time.Minute),
		CreateTestMessage(3, "Bob", "", 3*time.Minute),
		CreateTestMessage(4, "Alice", "", 25*time.Hour),
	}

	messages[2].Reactions = []Reaction{{Reaction: "\u2764\ufe0f", Actor: "Bob"}}

	messages[3].Kind = KindPhoto
	messages[3].Attachments = []AttachmentRef{{
		URI:      "your_instagram_activity/messages/inbox/bob_123/photos/beach.jpg",
		Kind:     KindPhoto,
		Sequence: 3,
		SentAt:   messages[3].Timestamp,
	}}

	messages[4].Kind = KindShared
	messages[4].Share = &SharedContent{Link: "https://www.instagram.com/p/abc123/", Text: "look at this <3", Owner: "someone"}
	return messages
}

// CreateTestBook creates a book around CreateTestMessages with statistics
// and a one-entry manifest
func CreateTestBook() *Book {
	cfg := CreateTestConfig()
	cfg.Target = "Bob"
	cfg.Self = "Alice"
	return CreateTestBookWithMessages(cfg, CreateTestMessages())
}

// CreateTestBookWithMessages creates a book for the given messages
func CreateTestBookWithMessages(cfg *Config, messages []Message) *Book {
	var participants []string
	for _, name := range []string{cfg.Target, cfg.Self} {
		if name != "" {
			participants = append(participants, name)
		}
	}
	conv := &Conversation{
		Title:        cfg.Target,
		Participants: participants,
		Shards:       []string{"message_1.json"},
		Messages:     messages,
	}

	manifest := &Manifest{Entries: []*MediaEntry{}}
	for _, ref := range conv.Attachments() {
		manifest.Entries = append(manifest.Entries, &MediaEntry{
			Key:         "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
			Kind:        ref.Kind,
			Source:      ref.URI,
			Destination: "media/photos/20240301_081800_0123456789ab.jpg",
			Size:        1024,
			References:  []int{ref.Sequence},
			Status:      MediaCopied,
		})
	}

	return &Book{
		Target:       cfg.Target,
		Self:         cfg.Self,
		Timezone:     cfg.Location().String(),
		Conversation: conv,
		Stats:        NewStatsAggregator(cfg).Aggregate(messages),
		Manifest:     manifest,
	}
}
