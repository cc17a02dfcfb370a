package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fares303/Ai-instagram-message/internal"
	"github.com/fares303/Ai-instagram-message/internal/export"
	"github.com/spf13/cobra"
)

var (
	skipUnchanged bool
	skipMedia     bool
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process a conversation into exports and organized media",
	Long: `Load every shard of a conversation, repair its text, compute statistics,
copy the referenced media and write the requested export formats.

Exports are written to <out>/<format>/conversation_with_<target>.<ext> and
media to <out>/media/{photos,videos,audio}. Re-running against an unchanged
export produces the same files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		_, err = processConversation(commandContext(cmd), cfg, processOptions{
			skipUnchanged: skipUnchanged,
			skipMedia:     skipMedia,
		})
		return err
	},
}

type processOptions struct {
	skipUnchanged bool
	skipMedia     bool
}

// processConversation runs the pipeline, writes exports and the snapshot. It
// returns nil without error when the export is unchanged and skipping was
// requested.
func processConversation(ctx context.Context, cfg *internal.Config, opts processOptions) (*internal.Result, error) {
	snapshots := internal.NewSnapshotManager(cfg.OutputDir)

	if opts.skipUnchanged {
		paths, err := internal.DetectExportRoot(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		fp, err := internal.FingerprintDir(paths.ConversationDir(cfg.Target), cfg.OutputDir)
		if err == nil && snapshots.IsCurrent(cfg.Target, fp) {
			internal.PrintInfo(fmt.Sprintf("Conversation with %q is unchanged since the last run, skipping", cfg.Target))
			return nil, nil
		}
	}

	var result *internal.Result
	var written []string
	var exportErrs []error

	steps := []internal.ProgressStep{
		{
			Message: "Loading, repairing and analysing conversation",
			Fn: func() error {
				var runErr error
				result, runErr = internal.Run(ctx, cfg, internal.RunOptions{SkipMedia: opts.skipMedia})
				return runErr
			},
		},
		{
			Message: fmt.Sprintf("Writing exports (%s)", strings.Join(cfg.Formats, ", ")),
			Fn: func() error {
				written, exportErrs = export.WriteAll(cfg.OutputDir, cfg.Formats, result.Book)
				if len(written) == 0 && len(exportErrs) > 0 {
					return exportErrs[0]
				}
				return nil
			},
		},
		{
			Message: "Saving snapshot",
			Fn: func() error {
				if err := snapshots.Save(result); err != nil {
					internal.LogWarn("Failed to save snapshot: %v", err)
				}
				return nil
			},
		},
	}
	if err := internal.ShowProgressWithSteps(ctx, steps); err != nil {
		return nil, err
	}

	book := result.Book
	internal.PrintSuccess(fmt.Sprintf("Processed %d message(s) from %d shard(s)", len(book.Conversation.Messages), len(book.Conversation.Shards)))
	if m := book.Manifest; m != nil {
		counts := m.CountByKind()
		internal.PrintSuccess(fmt.Sprintf("Media: %d photo(s), %d video(s), %d audio file(s), %d reference(s) not found",
			counts[internal.KindPhoto], counts[internal.KindVideo], counts[internal.KindAudio], len(m.Omissions)))
	}
	for _, path := range written {
		internal.PrintInfo("Wrote " + path)
	}
	for _, err := range exportErrs {
		internal.PrintError(err.Error())
	}
	reportDiagnostics(result)
	return result, nil
}

func init() {
	rootCmd.AddCommand(processCmd)
	addInputFlags(processCmd)
	addOutputFlags(processCmd)
	processCmd.Flags().StringSliceP("format", "f", internal.DefaultConfig().Formats,
		fmt.Sprintf("Export formats (%s)", strings.Join(export.SupportedFormats, ", ")))
	processCmd.Flags().BoolVar(&skipUnchanged, "skip-unchanged", false, "Do nothing when the shards did not change since the last run")
	processCmd.Flags().BoolVar(&skipMedia, "skip-media", false, "Do not copy media")
}
