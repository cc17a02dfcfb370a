package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fares303/Ai-instagram-message/internal"
	"github.com/spf13/cobra"
)

var repairQuiet bool

// repairCmd represents the repair command
var repairCmd = &cobra.Command{
	Use:   "repair [text...]",
	Short: "Repair double-encoded text",
	Long: `Run the encoding repair on each argument, or on each line of standard input
when no arguments are given, and print the result together with the decision.

With --quiet only the (possibly repaired) text is printed, which makes the
command usable as a filter:

  cat broken.txt | chatbook repair --quiet > fixed.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) > 0 {
			for _, arg := range args {
				printRepair(out, arg)
			}
			return nil
		}

		scanner := bufio.NewScanner(cmd.InOrStdin())
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			printRepair(out, scanner.Text())
		}
		return scanner.Err()
	},
}

func printRepair(out io.Writer, text string) {
	result := internal.AssessRepair(text)
	if repairQuiet {
		fmt.Fprintln(out, result.Text)
		return
	}
	if result.Applied {
		fmt.Fprintf(out, "%s\n  repaired in %d pass(es), legibility %.2f\n", result.Text, result.Passes, result.Legibility)
		return
	}
	fmt.Fprintf(out, "%s\n  %s\n", result.Text, strings.TrimSpace(result.Skipped.String()))
}

func init() {
	rootCmd.AddCommand(repairCmd)
	repairCmd.Flags().BoolVarP(&repairQuiet, "quiet", "q", false, "Print only the resulting text")
}
