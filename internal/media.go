package internal

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"
)

// Media entry states
const (
	MediaCopied    = "copied"
	MediaUnchanged = "unchanged"
	MediaPlanned   = "planned"
	MediaFailed    = "failed"
)

// MediaEntry is one distinct piece of content in the manifest
type MediaEntry struct {
	Key         string   `json:"key" yaml:"key"`
	Kind        Kind     `json:"kind" yaml:"kind"`
	Source      string   `json:"source" yaml:"source"`
	Aliases     []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Destination string   `json:"destination" yaml:"destination"` // relative to the output directory
	Size        int64    `json:"size" yaml:"size"`
	References  []int    `json:"references" yaml:"references"`
	Status      string   `json:"status" yaml:"status"`

	firstSent time.Time
}

// addReference inserts seq keeping References sorted and unique
func (e *MediaEntry) addReference(seq int) {
	i := sort.SearchInts(e.References, seq)
	if i < len(e.References) && e.References[i] == seq {
		return
	}
	e.References = append(e.References, 0)
	copy(e.References[i+1:], e.References[i:])
	e.References[i] = seq
}

// Manifest maps content keys to resolved sources and destinations
type Manifest struct {
	OutputDir string                `json:"-" yaml:"-"`
	DryRun    bool                  `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	Entries   []*MediaEntry         `json:"entries" yaml:"entries"`
	Omissions []*MediaNotFoundError `json:"omissions,omitempty" yaml:"omissions,omitempty"`
	Errors    []*MediaError         `json:"-" yaml:"-"`
}

// Lookup returns the entry with the given content key
func (m *Manifest) Lookup(key string) *MediaEntry {
	for _, e := range m.Entries {
		if e.Key == key {
			return e
		}
	}
	return nil
}

// CountByKind returns the number of entries per media kind
func (m *Manifest) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	for _, e := range m.Entries {
		counts[e.Kind]++
	}
	return counts
}

// kindDirs is the destination partition per media kind
var kindDirs = map[Kind]string{
	KindPhoto: "photos",
	KindVideo: "videos",
	KindAudio: "audio",
}

// defaultExtensions apply when the source file has no extension
var defaultExtensions = map[Kind]string{
	KindPhoto: ".jpg",
	KindVideo: ".mp4",
	KindAudio: ".mp3",
}

var extensionKinds = map[string]Kind{
	".jpg": KindPhoto, ".jpeg": KindPhoto, ".png": KindPhoto, ".gif": KindPhoto,
	".webp": KindPhoto, ".bmp": KindPhoto, ".tiff": KindPhoto, ".heic": KindPhoto,
	".mp4": KindVideo, ".mov": KindVideo, ".avi": KindVideo, ".wmv": KindVideo,
	".flv": KindVideo, ".mkv": KindVideo, ".webm": KindVideo, ".m4v": KindVideo,
	".mp3": KindAudio, ".wav": KindAudio, ".ogg": KindAudio, ".m4a": KindAudio,
	".aac": KindAudio, ".flac": KindAudio, ".opus": KindAudio, ".amr": KindAudio,
}

// MediaExtractor resolves attachment references, de-duplicates them by
// content and copies them into a kind-partitioned tree.
type MediaExtractor struct {
	paths     ExportPaths
	outputDir string
	loc       *time.Location
	workers   int
	dryRun    bool

	indexOnce sync.Once
	byName    map[string][]string
	byStem    map[string][]string
}

// NewMediaExtractor creates an extractor for one export and output directory
func NewMediaExtractor(cfg *Config, paths ExportPaths) *MediaExtractor {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &MediaExtractor{
		paths:     paths,
		outputDir: cfg.OutputDir,
		loc:       cfg.Location(),
		workers:   workers,
		dryRun:    cfg.DryRun,
	}
}

type resolvedRef struct {
	ref    AttachmentRef
	source string
}

type hashResult struct {
	key  string
	size int64
	err  error
}

// Extract builds the manifest for refs and, unless dry-running, copies every
// distinct content once. Unresolvable references and I/O failures are kept in
// the manifest; only context cancellation aborts.
func (e *MediaExtractor) Extract(ctx context.Context, refs []AttachmentRef) (*Manifest, error) {
	manifest := &Manifest{OutputDir: e.outputDir, DryRun: e.dryRun, Entries: []*MediaEntry{}}

	var resolved []resolvedRef
	sourceIndex := make(map[string]int)
	var sources []string
	for _, ref := range refs {
		source, tried := e.Resolve(ref)
		if source == "" {
			miss := &MediaNotFoundError{URI: ref.URI, Kind: ref.Kind, Sequence: ref.Sequence, Tried: tried}
			LogWarn("%v", miss)
			manifest.Omissions = append(manifest.Omissions, miss)
			continue
		}
		resolved = append(resolved, resolvedRef{ref: ref, source: source})
		if _, ok := sourceIndex[source]; !ok {
			sourceIndex[source] = len(sources)
			sources = append(sources, source)
		}
	}

	hashes := make([]hashResult, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, source := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			key, size, err := HashFile(source)
			hashes[i] = hashResult{key: key, size: size, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, h := range hashes {
		if h.err != nil {
			manifest.Errors = append(manifest.Errors, &MediaError{Path: sources[i], Op: "hash", Err: h.err})
		}
	}

	// Single-writer reduction in reference order keeps the chosen source
	// and the entry order independent of hashing order.
	dedup := NewDeduplicator()
	for _, r := range resolved {
		h := hashes[sourceIndex[r.source]]
		if h.err != nil {
			continue
		}
		if _, created := dedup.Add(h.key, h.size, r.source, r.ref, r.ref.Kind); created {
			continue
		}
		LogDebug("Duplicate media %s (message #%d)", r.source, r.ref.Sequence)
	}

	entries := dedup.Entries()
	for _, entry := range entries {
		entry.Kind = ClassifyMedia(entry.Source, entry.Kind)
		entry.Destination = e.destination(entry)
	}
	manifest.Entries = entries

	if e.dryRun {
		for _, entry := range entries {
			entry.Status = MediaPlanned
		}
		return manifest, nil
	}

	copyErrs := make([]error, len(entries))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, entry := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			dst := filepath.Join(e.outputDir, entry.Destination)
			copied, err := copyMedia(entry.Source, dst, entry.Key, entry.Size)
			switch {
			case err != nil:
				entry.Status = MediaFailed
				copyErrs[i] = err
			case copied:
				entry.Status = MediaCopied
			default:
				entry.Status = MediaUnchanged
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, err := range copyErrs {
		if err != nil {
			merr := &MediaError{Path: entries[i].Source, Op: "copy", Err: err}
			LogWarn("%v", merr)
			manifest.Errors = append(manifest.Errors, merr)
		}
	}
	return manifest, nil
}

// destination derives a stable relative path from the first referencing
// message's time and the content key.
func (e *MediaExtractor) destination(entry *MediaEntry) string {
	ext := strings.ToLower(filepath.Ext(entry.Source))
	if ext == "" {
		ext = defaultExtensions[entry.Kind]
	}
	key := entry.Key
	if len(key) > 12 {
		key = key[:12]
	}
	name := fmt.Sprintf("%s_%s%s", entry.firstSent.In(e.loc).Format("20060102_150405"), key, ext)
	return filepath.Join("media", kindDirs[entry.Kind], name)
}

// Resolve finds the file an attachment points at. It returns the empty
// string and the locations tried when nothing exists.
func (e *MediaExtractor) Resolve(ref AttachmentRef) (string, []string) {
	uri := strings.TrimSpace(ref.URI)
	if uri == "" {
		return "", nil
	}
	rel := filepath.FromSlash(uri)

	var tried []string
	try := func(path string) bool {
		tried = append(tried, path)
		return isRegularFile(path)
	}

	if filepath.IsAbs(rel) {
		if try(rel) {
			return rel, tried
		}
	} else {
		if try(filepath.Join(e.paths.Root, rel)) {
			return filepath.Join(e.paths.Root, rel), tried
		}
		if ref.ShardDir != "" {
			if p := filepath.Join(ref.ShardDir, rel); try(p) {
				return p, tried
			}
		}
	}

	slashed := filepath.ToSlash(uri)
	if idx := strings.LastIndex(slashed, "inbox/"); idx >= 0 {
		if p := filepath.Join(e.paths.Inbox, filepath.FromSlash(slashed[idx+len("inbox/"):])); try(p) {
			return p, tried
		}
	}

	if p := e.lookupIndex(filepath.Base(rel), ref.Kind); p != "" {
		tried = append(tried, p)
		return p, tried
	}
	tried = append(tried, "index:"+filepath.Base(rel))
	return "", tried
}

// lookupIndex finds a file by name anywhere below the export root, falling
// back to a file with the same stem and an extension of the expected kind.
func (e *MediaExtractor) lookupIndex(name string, kind Kind) string {
	e.indexOnce.Do(e.buildIndex)

	if paths := e.byName[strings.ToLower(name)]; len(paths) > 0 {
		return paths[0]
	}
	stem := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
	for _, p := range e.byStem[stem] {
		if k, ok := extensionKinds[strings.ToLower(filepath.Ext(p))]; ok && (k == kind || !kind.IsMedia()) {
			return p
		}
	}
	return ""
}

func (e *MediaExtractor) buildIndex() {
	e.byName = make(map[string][]string)
	e.byStem = make(map[string][]string)
	root := e.paths.Root
	if root == "" {
		return
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			// Copies from earlier runs must not stand in for missing sources
			if path != root && !IsWithin(root, e.outputDir) && IsWithin(path, e.outputDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		name := strings.ToLower(d.Name())
		e.byName[name] = append(e.byName[name], path)
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		e.byStem[stem] = append(e.byStem[stem], path)
		return nil
	})
	if err != nil {
		LogWarn("Media index incomplete: %v", err)
	}
	// WalkDir visits in lexical order, so the first path per name is stable
	LogDebug("Indexed %d file names below %s", len(e.byName), root)
}

// ClassifyMedia settles the kind of a media file. The declared kind wins
// unless the extension names another media kind and the content agrees with
// the extension. Without a declared kind the extension, then the sniffed
// content type, decide; photo is the last resort.
func ClassifyMedia(path string, declared Kind) Kind {
	extKind, hasExt := extensionKinds[strings.ToLower(filepath.Ext(path))]

	if declared.IsMedia() {
		if !hasExt || extKind == declared {
			return declared
		}
		if sniffed, ok := sniffKind(path); ok && sniffed == extKind {
			return extKind
		}
		return declared
	}
	if hasExt {
		return extKind
	}
	if sniffed, ok := sniffKind(path); ok {
		return sniffed
	}
	return KindPhoto
}

func sniffKind(path string) (Kind, bool) {
	mime, err := mimetype.DetectFile(path)
	if err != nil {
		return "", false
	}
	switch top, _, _ := strings.Cut(mime.String(), "/"); top {
	case "image":
		return KindPhoto, true
	case "video":
		return KindVideo, true
	case "audio":
		return KindAudio, true
	}
	return "", false
}

// copyMedia copies src to dst through a temp file and rename. An existing
// dst with the same content is left alone and reported as not copied.
func copyMedia(src, dst, key string, size int64) (bool, error) {
	if info, err := os.Stat(dst); err == nil && info.Size() == size {
		if existing, _, err := HashFile(dst); err == nil && existing == key {
			return false, nil
		}
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return false, err
	}

	in, err := os.Open(src)
	if err != nil {
		return false, err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".media-*")
	if err != nil {
		return false, err
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return false, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return false, err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return false, err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return false, err
	}
	if err := os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		LogDebug("Failed to keep modification time of %s: %v", dst, err)
	}
	return true, nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
