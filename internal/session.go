package internal

import "time"

// Kind classifies a canonical message and the media it references
type Kind string

const (
	KindText     Kind = "text"
	KindPhoto    Kind = "photo"
	KindVideo    Kind = "video"
	KindAudio    Kind = "audio"
	KindShared   Kind = "shared"
	KindReaction Kind = "reaction"
)

// AllKinds lists message kinds in reporting order
var AllKinds = []Kind{KindText, KindPhoto, KindVideo, KindAudio, KindShared, KindReaction}

// IsMedia reports whether the kind partitions the media tree
func (k Kind) IsMedia() bool {
	return k == KindPhoto || k == KindVideo || k == KindAudio
}

// Message is the normalized, post-repair representation of one chat event.
// Messages are created by the Normalizer and never modified afterwards.
type Message struct {
	Sequence    int             `json:"sequence" yaml:"sequence"`
	Sender      string          `json:"sender" yaml:"sender"`
	Text        string          `json:"text,omitempty" yaml:"text,omitempty"`
	Timestamp   time.Time       `json:"timestamp" yaml:"timestamp"`
	Kind        Kind            `json:"kind" yaml:"kind"`
	Attachments []AttachmentRef `json:"attachments,omitempty" yaml:"attachments,omitempty"`
	Reactions   []Reaction      `json:"reactions,omitempty" yaml:"reactions,omitempty"`
	Share       *SharedContent  `json:"share,omitempty" yaml:"share,omitempty"`

	// Provenance: file-discovery order of the shard and index in its messages array
	Shard int `json:"shard" yaml:"shard"`
	Entry int `json:"entry" yaml:"entry"`

	SynthesizedTime bool `json:"synthesized_time,omitempty" yaml:"synthesized_time,omitempty"`
}

// AttachmentRef is a media path or URI as recorded in the export
type AttachmentRef struct {
	URI      string    `json:"uri" yaml:"uri"`
	Kind     Kind      `json:"kind" yaml:"kind"`
	Sequence int       `json:"sequence" yaml:"sequence"`
	SentAt   time.Time `json:"-" yaml:"-"`
	ShardDir string    `json:"-" yaml:"-"`
}

// Reaction is an emoji reaction attached to a message
type Reaction struct {
	Reaction string `json:"reaction" yaml:"reaction"`
	Actor    string `json:"actor" yaml:"actor"`
}

// SharedContent describes a shared post or link
type SharedContent struct {
	Link  string `json:"link,omitempty" yaml:"link,omitempty"`
	Text  string `json:"text,omitempty" yaml:"text,omitempty"`
	Owner string `json:"owner,omitempty" yaml:"owner,omitempty"`
}

// Conversation is the ordered canonical message sequence of one chat
type Conversation struct {
	Title        string    `json:"title,omitempty" yaml:"title,omitempty"`
	Participants []string  `json:"participants" yaml:"participants"`
	Shards       []string  `json:"shards" yaml:"shards"`
	Messages     []Message `json:"messages" yaml:"messages"`
}

// Attachments returns every attachment reference in sequence order
func (c *Conversation) Attachments() []AttachmentRef {
	var refs []AttachmentRef
	for _, msg := range c.Messages {
		refs = append(refs, msg.Attachments...)
	}
	return refs
}

// Book is the read-only model handed to exporters: the conversation, its
// statistics and the media manifest.
type Book struct {
	Target       string        `json:"target" yaml:"target"`
	Self         string        `json:"self,omitempty" yaml:"self,omitempty"`
	Timezone     string        `json:"timezone" yaml:"timezone"`
	Conversation *Conversation `json:"conversation" yaml:"conversation"`
	Stats        *Summary      `json:"stats" yaml:"stats"`
	Manifest     *Manifest     `json:"manifest,omitempty" yaml:"manifest,omitempty"`
}
