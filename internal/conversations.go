package internal

import (
	"os"
	"path/filepath"
	"sort"
)

// ConversationInfo summarizes one conversation folder of an inbox
type ConversationInfo struct {
	Name         string   `json:"name" yaml:"name"`
	Dir          string   `json:"dir" yaml:"dir"`
	Title        string   `json:"title,omitempty" yaml:"title,omitempty"`
	Participants []string `json:"participants" yaml:"participants"`
	Shards       int      `json:"shards" yaml:"shards"`
	Messages     int      `json:"messages" yaml:"messages"`
	Invalid      int      `json:"invalid,omitempty" yaml:"invalid,omitempty"`
}

// ListConversations lists the conversations of an inbox. Folders without a
// readable shard are left out.
func ListConversations(inbox string) ([]*ConversationInfo, error) {
	entries, err := os.ReadDir(inbox)
	if err != nil {
		return nil, &StorageError{Path: inbox, Op: "read", Err: err}
	}

	var conversations []*ConversationInfo
	if info := describeConversation(inbox, false); info != nil {
		conversations = append(conversations, info)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if info := describeConversation(filepath.Join(inbox, entry.Name()), true); info != nil {
			conversations = append(conversations, info)
		}
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].Name < conversations[j].Name
	})
	return conversations, nil
}

// describeConversation reads the shards directly in dir, or below it when
// recursive is set
func describeConversation(dir string, recursive bool) *ConversationInfo {
	var files []string
	if recursive {
		found, err := FindShardFiles(dir)
		if err != nil {
			LogWarn("Skipping %s: %v", dir, err)
			return nil
		}
		files = found
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil
		}
		for _, entry := range entries {
			if !entry.IsDir() && IsShardName(entry.Name()) {
				files = append(files, filepath.Join(dir, entry.Name()))
			}
		}
	}

	info := &ConversationInfo{Name: filepath.Base(dir), Dir: dir}
	seen := make(map[string]bool)
	for _, file := range files {
		parsed := parseShardFile(file)
		if parsed.shard == nil {
			continue
		}
		info.Shards++
		info.Messages += len(parsed.shard.Records)
		if df, ok := parsed.diag.(*DataFormatError); ok {
			info.Invalid += len(df.Entries)
		}
		if info.Title == "" {
			info.Title = parsed.shard.Title
		}
		for _, name := range parsed.shard.Participants {
			if !seen[name] {
				seen[name] = true
				info.Participants = append(info.Participants, name)
			}
		}
	}
	if info.Shards == 0 {
		return nil
	}
	return info
}
