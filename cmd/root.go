package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fares303/Ai-instagram-message/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configFile string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chatbook",
	Short: "Turn Instagram chat exports into readable books, statistics and organized media",
	Long: `A CLI tool that ingests the JSON shards of an Instagram data export,
repairs mis-decoded text, computes conversation statistics and organizes the
referenced media.

Features:
  • Merges every shard of a conversation into one ordered transcript
  • Repairs double-encoded text (emoji, accents, non-Latin scripts)
  • Counts messages, emoji, phrases, mentions and active days
  • Copies photos, videos and audio once per distinct content
  • Exports TXT, HTML, JSON, JSONL, Markdown, YAML, CSV and SQLite

Quick Start:
  chatbook list --data ./instagram-export
  chatbook process --data ./instagram-export --target "Sarah" --self "Me"
  chatbook stats --data ./instagram-export --target "Sarah"

Options can also come from chatbook.yaml, a .env file or CHATBOOK_* variables.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ./chatbook.yaml or ~/.config/chatbook/chatbook.yaml)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
