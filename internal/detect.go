package internal

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ExportPaths holds the detected locations inside an export
type ExportPaths struct {
	Root  string // Directory the user pointed at
	Inbox string // Directory holding one folder per conversation
}

// inboxCandidates are checked in order, relative to the given root
var inboxCandidates = []string{
	filepath.Join("your_instagram_activity", "messages", "inbox"),
	filepath.Join("messages", "inbox"),
	"inbox",
	"",
}

// DetectExportRoot detects the inbox directory of an export
func DetectExportRoot(path string) (ExportPaths, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return ExportPaths{}, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return ExportPaths{}, fmt.Errorf("failed to open export: %w", err)
	}
	if !info.IsDir() {
		return ExportPaths{}, fmt.Errorf("export path %s is not a directory", root)
	}

	for _, candidate := range inboxCandidates {
		dir := filepath.Join(root, candidate)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			if candidate != "" {
				LogDebug("Detected inbox at %s", dir)
			}
			return ExportPaths{Root: root, Inbox: dir}, nil
		}
	}
	return ExportPaths{Root: root, Inbox: root}, nil
}

// HasInbox reports whether the inbox is a separate directory below the root
func (ep ExportPaths) HasInbox() bool {
	return ep.Inbox != "" && ep.Inbox != ep.Root
}

// ConversationDir returns the folder of the conversation whose folder name
// starts with the given name (case-insensitive), or the inbox itself when the
// inbox holds shard files directly.
func (ep ExportPaths) ConversationDir(name string) string {
	if name == "" {
		return ep.Inbox
	}
	entries, err := os.ReadDir(ep.Inbox)
	if err != nil {
		return ep.Inbox
	}
	want := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folder := strings.ToLower(entry.Name())
		if folder == want || strings.HasPrefix(folder, want+"_") {
			return filepath.Join(ep.Inbox, entry.Name())
		}
	}
	return ep.Inbox
}

// FindShardFiles returns every .json file below dir in lexical order. Whether
// a file really is a shard is decided later by its content. Directories below
// dir that lie inside one of exclude, typically the output directory, are not
// entered; an exclude entry that contains dir itself is ignored.
func FindShardFiles(dir string, exclude ...string) ([]string, error) {
	var skip []string
	for _, e := range exclude {
		if e != "" && !IsWithin(dir, e) {
			skip = append(skip, e)
		}
	}

	var files []string
	var dirsScanned int

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip directories we can't access
			if d != nil && d.IsDir() && path != dir {
				LogWarn("Skipping unreadable directory %s: %v", path, err)
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			for _, e := range skip {
				if IsWithin(path, e) {
					return filepath.SkipDir
				}
			}
			dirsScanned++
			return nil
		}
		if IsShardName(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	if len(files) == 0 && dirsScanned > 0 {
		LogInfo("Scanned %d directories below %s, no JSON files found", dirsScanned, dir)
	}
	sort.Strings(files)
	return files, nil
}

// IsShardName reports whether a file name has the shard extension
func IsShardName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json")
}

// IsWithin reports whether path is dir or lies below it
func IsWithin(path, dir string) bool {
	if dir == "" {
		return false
	}
	p, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	d, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(d, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
