package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/fares303/Ai-instagram-message/internal"
	"github.com/spf13/cobra"
)

// mediaCmd represents the media command
var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Copy a conversation's media into a kind-partitioned tree",
	Long: `Resolve every photo, video and audio reference of a conversation, copy each
distinct file once into <out>/media/{photos,videos,audio} and report the
references that could not be found.

With --dry-run nothing is copied; the planned destinations are printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		var result *internal.Result
		msg := "Extracting media"
		if cfg.DryRun {
			msg = "Planning media extraction"
		}
		err = internal.ShowProgress(commandContext(cmd), msg, func() error {
			var runErr error
			result, runErr = internal.Run(commandContext(cmd), cfg, internal.RunOptions{})
			return runErr
		})
		if err != nil {
			return err
		}

		manifest := result.Book.Manifest
		out := cmd.OutOrStdout()
		if cfg.DryRun {
			for _, entry := range manifest.Entries {
				fmt.Fprintf(out, "%s -> %s (%d reference(s))\n", entry.Source, filepath.Join(cfg.OutputDir, entry.Destination), len(entry.References))
			}
		}

		statuses := make(map[string]int)
		for _, entry := range manifest.Entries {
			statuses[entry.Status]++
		}
		internal.PrintSuccess(fmt.Sprintf("%d distinct file(s): %d copied, %d unchanged, %d planned, %d failed",
			len(manifest.Entries), statuses[internal.MediaCopied], statuses[internal.MediaUnchanged],
			statuses[internal.MediaPlanned], statuses[internal.MediaFailed]))
		reportDiagnostics(result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mediaCmd)
	addInputFlags(mediaCmd)
	addOutputFlags(mediaCmd)
	mediaCmd.Flags().Bool("dry-run", false, "Resolve and hash media without copying")
}
