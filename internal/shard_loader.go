package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/charmap"
)

// Shard is one parsed chat shard file
type Shard struct {
	Path         string
	Index        int // file-discovery order among matched shards
	Title        string
	Participants []string
	Records      []RawRecord
}

// LoadResult is the merged raw sequence of one conversation
type LoadResult struct {
	Dir          string
	Shards       []*Shard
	Records      []RawRecord // shard order, then array order
	Participants []string
	Title        string
	Diagnostics  []error
}

// ShardLoader discovers and parses the shard files of a conversation
type ShardLoader struct {
	workers int
	exclude []string
}

// NewShardLoader creates a loader reading up to workers files at once
func NewShardLoader(workers int) *ShardLoader {
	if workers < 1 {
		workers = 1
	}
	return &ShardLoader{workers: workers}
}

// Excluding makes the loader skip the given directories, such as an output
// directory placed inside the export
func (l *ShardLoader) Excluding(dirs ...string) *ShardLoader {
	l.exclude = append(l.exclude, dirs...)
	return l
}

// parsedFile is the per-file outcome of the parallel read phase
type parsedFile struct {
	shard *Shard // nil when the file is not a chat shard
	diag  error
}

// Load reads every shard below dir that belongs to participant. Files are read
// concurrently, but the merged order only depends on the sorted file list.
func (l *ShardLoader) Load(ctx context.Context, dir, participant string) (*LoadResult, error) {
	files, err := FindShardFiles(dir, l.exclude...)
	if err != nil {
		return nil, err
	}

	parsed := make([]parsedFile, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parsed[i] = parseShardFile(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &LoadResult{Dir: dir}
	seen := make(map[string]bool)
	for _, p := range parsed {
		if p.shard == nil {
			if p.diag != nil {
				LogWarn("%v", p.diag)
				result.Diagnostics = append(result.Diagnostics, p.diag)
			}
			continue
		}
		shard := p.shard
		if !MatchesParticipant(shard.Participants, participant) {
			LogDebug("Skipping %s: no participant matches %q", shard.Path, participant)
			continue
		}
		if p.diag != nil {
			LogWarn("%v", p.diag)
			result.Diagnostics = append(result.Diagnostics, p.diag)
		}

		shard.Index = len(result.Shards)
		for i := range shard.Records {
			shard.Records[i].Shard = shard.Index
		}
		result.Shards = append(result.Shards, shard)
		result.Records = append(result.Records, shard.Records...)

		if result.Title == "" {
			result.Title = shard.Title
		}
		for _, name := range shard.Participants {
			if !seen[name] {
				seen[name] = true
				result.Participants = append(result.Participants, name)
			}
		}
	}

	if len(result.Shards) == 0 {
		return nil, &NotFoundError{Dir: dir, Participant: participant}
	}
	LogDebug("Loaded %d records from %d shards in %s", len(result.Records), len(result.Shards), dir)
	return result, nil
}

// MatchesParticipant reports whether one of names matches the target: either
// contains the other, ignoring case. An empty target matches everything.
func MatchesParticipant(names []string, target string) bool {
	target = strings.ToLower(strings.TrimSpace(target))
	if target == "" {
		return true
	}
	for _, name := range names {
		n := strings.ToLower(strings.TrimSpace(name))
		if n == "" {
			continue
		}
		if strings.Contains(n, target) || strings.Contains(target, n) {
			return true
		}
	}
	return false
}

// parseShardFile reads one candidate file. Files without the shard signature
// (a participants array and a messages array) yield a nil shard.
func parseShardFile(path string) parsedFile {
	data, err := os.ReadFile(path)
	if err != nil {
		return parsedFile{diag: &StorageError{Path: path, Op: "read", Err: err}}
	}
	if !utf8.Valid(data) {
		// Some exports were saved by tools that wrote cp1252 bytes
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return parsedFile{diag: &DataFormatError{Path: path, Err: fmt.Errorf("file is neither UTF-8 nor Windows-1252: %w", err)}}
		}
		LogWarn("%s is not valid UTF-8, decoded as Windows-1252", filepath.Base(path))
		data = decoded
	}

	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		LogDebug("Skipping %s: not JSON: %v", path, err)
		return parsedFile{}
	}

	fields, ok := doc.(map[string]interface{})
	if !ok {
		LogDebug("Skipping %s: top level is not an object", path)
		return parsedFile{}
	}
	participants, okP := fields["participants"].([]interface{})
	messages, okM := fields["messages"].([]interface{})
	if !okP || !okM {
		LogDebug("Skipping %s: missing participants or messages", path)
		return parsedFile{}
	}

	shard := &Shard{Path: path}
	if title, ok := fields["title"].(string); ok {
		shard.Title = CleanText(title, false)
	}
	for _, p := range participants {
		entry, ok := p.(map[string]interface{})
		if !ok {
			continue
		}
		if name, ok := entry["name"].(string); ok && name != "" {
			shard.Participants = append(shard.Participants, CleanText(name, false))
		}
	}

	var invalid []int
	var firstErr error
	for j, entry := range messages {
		msg, err := DecodeRawMessage(entry)
		if err != nil {
			invalid = append(invalid, j)
			if firstErr == nil {
				firstErr = fmt.Errorf("entry %d: %w", j, err)
			}
			continue
		}
		shard.Records = append(shard.Records, RawRecord{Entry: j, ShardPath: path, Message: msg})
	}

	out := parsedFile{shard: shard}
	if len(invalid) > 0 {
		out.diag = &DataFormatError{Path: path, Entries: invalid, Err: firstErr}
	}
	return out
}
