package internal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunOptions selects the optional stages of a run
type RunOptions struct {
	SkipMedia bool
}

// Result is everything one run produced. Diagnostics lists the per-file and
// per-reference problems that did not stop the run.
type Result struct {
	RunID       string
	Paths       ExportPaths
	Dir         string
	Fingerprint string
	Book        *Book
	Diagnostics []error
	Duration    time.Duration
}

// HasProblems reports whether any shard, record or media reference was skipped
func (r *Result) HasProblems() bool {
	return len(r.Diagnostics) > 0
}

// Run processes one conversation: load, normalize, aggregate and extract
// media. Only a missing conversation, an unreadable export or cancellation
// fail the run.
func Run(ctx context.Context, cfg *Config, opts RunOptions) (*Result, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	started := time.Now()

	paths, err := DetectExportRoot(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	dir := paths.ConversationDir(cfg.Target)

	result := &Result{RunID: uuid.NewString(), Paths: paths, Dir: dir}
	log := Logger().With().Str("run", result.RunID).Logger()
	log.Debug().Str("dir", dir).Str("target", cfg.Target).Msg("run started")

	if fp, err := FingerprintDir(dir, cfg.OutputDir); err != nil {
		LogWarn("Failed to fingerprint %s: %v", dir, err)
	} else {
		result.Fingerprint = fp
	}

	load, err := NewShardLoader(cfg.Workers).Excluding(cfg.OutputDir).Load(ctx, dir, cfg.Target)
	if err != nil {
		return nil, err
	}
	result.Diagnostics = append(result.Diagnostics, load.Diagnostics...)

	conv, err := NewNormalizer(cfg).NormalizeConversation(load)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize conversation: %w", err)
	}
	log.Debug().Int("messages", len(conv.Messages)).Int("shards", len(conv.Shards)).Msg("normalized")

	stats := NewStatsAggregator(cfg).Aggregate(conv.Messages)

	book := &Book{
		Target:       cfg.Target,
		Self:         cfg.Self,
		Timezone:     cfg.Location().String(),
		Conversation: conv,
		Stats:        stats,
	}
	if book.Target == "" {
		book.Target = conv.Title
	}

	if !opts.SkipMedia {
		manifest, err := NewMediaExtractor(cfg, paths).Extract(ctx, conv.Attachments())
		if err != nil {
			return nil, fmt.Errorf("media extraction aborted: %w", err)
		}
		book.Manifest = manifest
		for _, miss := range manifest.Omissions {
			result.Diagnostics = append(result.Diagnostics, miss)
		}
		for _, merr := range manifest.Errors {
			result.Diagnostics = append(result.Diagnostics, merr)
		}
		log.Debug().Int("media", len(manifest.Entries)).Int("omissions", len(manifest.Omissions)).Msg("media extracted")
	}

	result.Book = book
	result.Duration = time.Since(started)
	log.Info().
		Int("messages", stats.TotalMessages).
		Int("diagnostics", len(result.Diagnostics)).
		Dur("took", result.Duration).
		Msg("run finished")
	return result, nil
}
