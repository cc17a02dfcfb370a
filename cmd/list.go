package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/fares303/Ai-instagram-message/internal"
	"github.com/spf13/cobra"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	participantStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Italic(true)
)

var listData string

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the conversations of an export",
	Long:  `List every conversation folder of an export with its participants, shard count and message count.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := internal.DetectExportRoot(listData)
		if err != nil {
			return err
		}

		conversations, err := internal.ListConversations(paths.Inbox)
		if err != nil {
			return fmt.Errorf("failed to list conversations: %w", err)
		}
		displayConversations(cmd.OutOrStdout(), conversations)
		return nil
	},
}

func displayConversations(out io.Writer, conversations []*internal.ConversationInfo) {
	if len(conversations) == 0 {
		fmt.Fprintln(out, headerStyle.Render("No conversations found"))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Found %d conversation(s)", len(conversations))))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("Folder")+"\t"+titleStyle.Render("Participants")+"\t"+titleStyle.Render("Shards")+"\t"+titleStyle.Render("Messages")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 90))

	for _, conv := range conversations {
		name := conv.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		participants := strings.Join(conv.Participants, ", ")
		if participants == "" {
			participants = conv.Title
		}
		messages := countStyle.Render(strconv.Itoa(conv.Messages))
		if conv.Invalid > 0 {
			messages += fmt.Sprintf(" (%d invalid)", conv.Invalid)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t\n",
			nameStyle.Render(name),
			participantStyle.Render(participants),
			conv.Shards,
			messages)
	}
	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listData, "data", "d", ".", "Path to the export")
}
