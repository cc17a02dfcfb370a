package internal

import (
	"fmt"
	"strings"
)

// NotFoundError is returned when a directory holds no recognizable shard for
// the requested participant. It aborts the run.
type NotFoundError struct {
	Dir         string
	Participant string
}

func (e *NotFoundError) Error() string {
	if e.Participant == "" {
		return fmt.Sprintf("not found: no chat shards under %s", e.Dir)
	}
	return fmt.Sprintf("not found: no chat shards for %q under %s", e.Participant, e.Dir)
}

// DataFormatError reports a shard file that looks like a chat shard but holds
// structurally invalid message entries. Valid entries of the file are kept.
type DataFormatError struct {
	Path    string
	Entries []int // indices into the shard's messages array
	Err     error
}

func (e *DataFormatError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "data format error: %s", e.Path)
	if len(e.Entries) > 0 {
		fmt.Fprintf(&b, " (%d invalid entries, first at %d)", len(e.Entries), e.Entries[0])
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *DataFormatError) Unwrap() error {
	return e.Err
}

// MediaNotFoundError records an attachment reference that resolves to no
// existing file. It is kept in the manifest's omission list.
type MediaNotFoundError struct {
	URI      string   `json:"uri" yaml:"uri"`
	Kind     Kind     `json:"kind" yaml:"kind"`
	Sequence int      `json:"sequence" yaml:"sequence"`
	Tried    []string `json:"tried,omitempty" yaml:"tried,omitempty"`
}

func (e *MediaNotFoundError) Error() string {
	return fmt.Sprintf("media not found: %s (message #%d, %d locations tried)", e.URI, e.Sequence, len(e.Tried))
}

// MediaError represents an I/O failure while hashing or copying a media file
type MediaError struct {
	Path string
	Op   string // "stat", "hash", "copy"
	Err  error
}

func (e *MediaError) Error() string {
	return fmt.Sprintf("media error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *MediaError) Unwrap() error {
	return e.Err
}

// StorageError represents errors reading or writing snapshot files
type StorageError struct {
	Path string
	Op   string // "open", "read", "write", "parse"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
