package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fares303/Ai-instagram-message/internal"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-process a conversation whenever its shards change",
	Long: `Process a conversation once, then watch its folder and process it again
each time a JSON shard is written, created, renamed or removed. Bursts of
changes are collapsed into a single run. Stop with Ctrl+C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)

		paths, err := internal.DetectExportRoot(cfg.DataDir)
		if err != nil {
			return err
		}
		dir := paths.ConversationDir(cfg.Target)

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		defer watcher.Close()

		// Our own exports must not trigger another run
		skip := cfg.OutputDir
		if internal.IsWithin(dir, skip) {
			skip = ""
		}
		if err := watchTree(watcher, dir, skip); err != nil {
			return err
		}

		opts := processOptions{skipUnchanged: true}
		if _, err := processConversation(ctx, cfg, opts); err != nil {
			internal.PrintError(err.Error())
		}
		internal.PrintInfo(fmt.Sprintf("Watching %s for changes", dir))

		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = watchTree(watcher, event.Name, skip)
					}
				}
				if !isShardEvent(event, skip) {
					continue
				}
				internal.LogDebug("Change detected: %s", event)
				if timer == nil {
					timer = time.NewTimer(watchDebounce)
				} else {
					timer.Reset(watchDebounce)
				}
				fire = timer.C
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				internal.LogWarn("Watcher error: %v", err)
			case <-fire:
				fire = nil
				if _, err := processConversation(ctx, cfg, opts); err != nil {
					internal.PrintError(err.Error())
				}
			}
		}
	},
}

// watchTree adds dir and every directory below it to the watcher, except
// those inside skip
func watchTree(watcher *fsnotify.Watcher, dir, skip string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if internal.IsWithin(path, skip) {
				return filepath.SkipDir
			}
			if err := watcher.Add(path); err != nil {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
		}
		return nil
	})
}

// isShardEvent reports whether event changes a shard outside skip
func isShardEvent(event fsnotify.Event, skip string) bool {
	if !internal.IsShardName(event.Name) || internal.IsWithin(event.Name, skip) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addInputFlags(watchCmd)
	addOutputFlags(watchCmd)
	watchCmd.Flags().StringSliceP("format", "f", internal.DefaultConfig().Formats, "Export formats")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 2*time.Second, "Quiet period before re-processing")
}
