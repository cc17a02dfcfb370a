package cmd

import (
	"context"
	"fmt"

	"github.com/fares303/Ai-instagram-message/internal"
	"github.com/spf13/cobra"
)

// maxListedProblems caps how many diagnostics are printed one by one
const maxListedProblems = 10

// addInputFlags registers the flags that select and interpret a conversation
func addInputFlags(cmd *cobra.Command) {
	def := internal.DefaultConfig()
	f := cmd.Flags()
	f.StringP("data", "d", def.DataDir, "Path to the export (root, inbox or conversation folder)")
	f.StringP("target", "t", "", "Participant whose conversation to process (empty: every shard)")
	f.StringP("self", "s", "", "Your own display name, used for mention counts")
	f.String("timezone", def.Timezone, "IANA timezone for calendar dates")
	f.StringSlice("good-morning", nil, "Good-morning phrases (replaces the defaults)")
	f.StringSlice("phrase", nil, "Custom phrases to count (replaces the defaults)")
	f.StringSlice("slang", nil, "Slang expressions to count (replaces the defaults)")
	f.Int("workers", def.Workers, "Files read, hashed or copied in parallel")
	f.Bool("unescape-html", def.UnescapeHTML, "Unescape HTML entities in message text")
}

// addOutputFlags registers the flags that control written output
func addOutputFlags(cmd *cobra.Command) {
	def := internal.DefaultConfig()
	cmd.Flags().StringP("out", "o", def.OutputDir, "Output directory")
}

// loadConfig resolves the configuration for a command from its flags
func loadConfig(cmd *cobra.Command) (*internal.Config, error) {
	cfg, err := internal.LoadConfig(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	internal.LogDebug("Config: data=%s out=%s target=%q timezone=%s", cfg.DataDir, cfg.OutputDir, cfg.Target, cfg.Timezone)
	return cfg, nil
}

// commandContext returns the command's context, or a background context when
// the command runs outside Execute
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// reportDiagnostics prints the problems a run skipped over, separately from
// its results
func reportDiagnostics(result *internal.Result) {
	if !result.HasProblems() {
		return
	}
	internal.PrintWarning(fmt.Sprintf("%d item(s) were skipped:", len(result.Diagnostics)))
	for i, problem := range result.Diagnostics {
		if i == maxListedProblems {
			internal.PrintWarning(fmt.Sprintf("... and %d more (use --verbose for details)", len(result.Diagnostics)-maxListedProblems))
			break
		}
		internal.PrintWarning(problem.Error())
	}
}
