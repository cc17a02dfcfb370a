package cmd

import (
	"encoding/json"

	"github.com/fares303/Ai-instagram-message/internal"
	"github.com/spf13/cobra"
)

var (
	statsJSON   bool
	statsTop    int
	statsFromDB string
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print conversation statistics",
	Long: `Load and analyse a conversation without copying media or writing exports,
then print message, emoji, phrase, mention and activity statistics.

With --from-db the statistics are read back from a database written by the
sqlite export instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if statsFromDB != "" {
			s, err := internal.LoadSummary(statsFromDB)
			if err != nil {
				return err
			}
			return printSummary(cmd, s)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		var result *internal.Result
		err = internal.ShowProgress(commandContext(cmd), "Analysing conversation", func() error {
			var runErr error
			result, runErr = internal.Run(commandContext(cmd), cfg, internal.RunOptions{SkipMedia: true})
			return runErr
		})
		if err != nil {
			return err
		}

		if err := printSummary(cmd, result.Book.Stats); err != nil {
			return err
		}
		reportDiagnostics(result)
		return nil
	},
}

func printSummary(cmd *cobra.Command, s *internal.Summary) error {
	out := cmd.OutOrStdout()
	if statsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(s)
	}
	internal.WriteSummary(out, s, statsTop)
	return nil
}

func init() {
	rootCmd.AddCommand(statsCmd)
	addInputFlags(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print the statistics as JSON")
	statsCmd.Flags().IntVar(&statsTop, "top", 10, "Number of emoji and reactions to show (0 for all)")
	statsCmd.Flags().StringVar(&statsFromDB, "from-db", "", "Read the statistics from a sqlite export instead of the conversation")
}
