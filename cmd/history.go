package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/interviewer/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history <session-id>",
	Short: "Show the recorded event timeline of a session (SQLite store)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openEventStore()
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().SessionEvents(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("query session events: %w", err)
		}
		printSessionEvents(cmd.OutOrStdout(), args[0], events)
		return nil
	},
}

func printSessionEvents(w io.Writer, sessionID string, events []store.SessionEvent) {
	if len(events) == 0 {
		fmt.Fprintf(w, "No events recorded for session %s.\n", sessionID)
		return
	}

	fmt.Fprintf(w, "%-8s  %-19s  %-10s  %-12s  %-36s  %s\n",
		"Seq", "Timestamp", "Action", "Round", "Question", "Score")
	fmt.Fprintln(w, strings.Repeat("─", 100))
	for _, e := range events {
		score := ""
		if e.Action == store.ActionGraded {
			score = fmt.Sprintf("%.2f", e.Score)
		}
		fmt.Fprintf(w, "%-8d  %-19s  %-10s  %-12s  %-36s  %s\n",
			e.Sequence,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Action,
			e.Round,
			e.QuestionID,
			score,
		)
	}
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
