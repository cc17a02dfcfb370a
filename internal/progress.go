package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(22)
)

// ProgressStep represents a single step in a multi-step process
type ProgressStep struct {
	Message string
	Fn      func() error
}

// ShowProgress runs fn behind a spinner when stderr is a terminal
func ShowProgress(ctx context.Context, message string, fn func() error) error {
	if !isTerminal(os.Stderr) {
		LogInfo("%s", message)
		return fn()
	}
	return showProgressSimple(ctx, os.Stderr, message, fn)
}

// ShowProgressWithSteps shows progress for multiple steps
func ShowProgressWithSteps(ctx context.Context, steps []ProgressStep) error {
	for i, step := range steps {
		msg := fmt.Sprintf("[%d/%d] %s", i+1, len(steps), step.Message)
		if err := ShowProgress(ctx, msg, step.Fn); err != nil {
			return fmt.Errorf("%s: %w", step.Message, err)
		}
	}
	return nil
}

// showProgressSimple uses a simple text-based spinner
func showProgressSimple(ctx context.Context, w io.Writer, message string, fn func() error) error {
	spinnerChars := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	done := make(chan error, 1)
	stop := make(chan struct{})
	spinnerDone := make(chan struct{})

	go func() {
		defer close(spinnerDone)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		i := 0
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				char := spinnerChars[i%len(spinnerChars)]
				fmt.Fprintf(w, "\r%s %s", progressStyle.Render(char), message)
				i++
			}
		}
	}()

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		close(stop)
		<-spinnerDone
		if err != nil {
			fmt.Fprintf(w, "\r%s %s\n", errorStyle.Render("✗"), message)
			return err
		}
		fmt.Fprintf(w, "\r%s %s\n", successStyle.Render("✓"), message)
		return nil
	case <-ctx.Done():
		close(stop)
		<-spinnerDone
		fmt.Fprintf(w, "\r%s %s\n", errorStyle.Render("✗"), message)
		return ctx.Err()
	}
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	if isTerminal(os.Stdout) {
		fmt.Printf("%s %s\n", successStyle.Render("✓"), message)
	} else {
		fmt.Println(message)
	}
}

// PrintError prints an error message
func PrintError(message string) {
	if isTerminal(os.Stderr) {
		fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("✗"), message)
	} else {
		fmt.Fprintf(os.Stderr, "%s\n", message)
	}
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	if isTerminal(os.Stdout) {
		fmt.Printf("%s %s\n", progressStyle.Render("ℹ"), message)
	} else {
		fmt.Println(message)
	}
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	if isTerminal(os.Stderr) {
		fmt.Fprintf(os.Stderr, "%s %s\n", warningStyle.Render("⚠"), message)
	} else {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", message)
	}
}

// WriteSummary prints a human-readable statistics report. Styling is only
// applied when w is a terminal.
func WriteSummary(w io.Writer, s *Summary, top int) {
	styled := isTerminal(w)
	heading := func(text string) string {
		if styled {
			return headingStyle.Render(text)
		}
		return text
	}
	row := func(label string, value interface{}) {
		if styled {
			fmt.Fprintf(w, "  %s %v\n", labelStyle.Render(label), value)
		} else {
			fmt.Fprintf(w, "  %-22s %v\n", label, value)
		}
	}

	fmt.Fprintln(w, heading("Overview"))
	row("Messages", s.TotalMessages)
	for _, c := range s.Senders {
		row("  "+c.Key, c.Count)
	}
	if s.TotalMessages > 0 {
		row("First message", s.FirstMessage.Format(time.RFC3339))
		row("Last message", s.LastMessage.Format(time.RFC3339))
	}
	row("Duration (days)", s.DurationDays)
	row("Active days", s.ActiveDays)
	if s.MostActiveDay != "" {
		row("Most active day", fmt.Sprintf("%s (%d)", s.MostActiveDay, s.MostActiveDayCount))
	}
	if s.SynthesizedTimestamps > 0 {
		row("Synthesized times", s.SynthesizedTimestamps)
	}

	fmt.Fprintln(w, heading("Kinds"))
	for _, c := range s.Kinds {
		row(c.Key, c.Count)
	}

	fmt.Fprintln(w, heading("Emoji"))
	row("Total", s.EmojiTotal)
	row("Unique", s.UniqueEmoji)
	if len(s.Emoji) > 0 {
		row("Top", joinCounts(s.Emoji, top))
	}
	row("Reactions", s.ReactionTotal)
	if len(s.Reactions) > 0 {
		row("Top reactions", joinCounts(s.Reactions, top))
	}

	fmt.Fprintln(w, heading("Phrases"))
	for _, g := range s.PhraseGroups {
		row(g.Key+" (messages)", g.Count)
	}
	for _, p := range s.Phrases {
		if p.Hits > 0 {
			row(p.Phrase, p.Hits)
		}
	}

	if len(s.Mentions) > 0 {
		fmt.Fprintln(w, heading("Mentions"))
		for _, m := range s.Mentions {
			row(m.Key, m.Count)
		}
	}
}

func joinCounts(counts []Count, top int) string {
	if top > 0 && len(counts) > top {
		counts = counts[:top]
	}
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s %d", c.Key, c.Count))
	}
	return strings.Join(parts, ", ")
}
