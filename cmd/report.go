package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/interviewer/internal/orchestrator"
	"github.com/abhisek/interviewer/internal/report"
	"github.com/abhisek/interviewer/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report <session-id>",
	Short: "Render the report for a stored session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatFlag, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		format, err := report.ParseFormat(formatFlag)
		if err != nil {
			return err
		}

		rt, err := newRuntime(cmd.Context(), runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		id := args[0]
		body, err := rt.svc.ExportReport(cmd.Context(), id, format)
		if errors.Is(err, orchestrator.ErrNotFound) && rt.cfg.Store.Backend == store.BackendMemory {
			return fmt.Errorf("%w (the memory store does not persist between runs; use --store sqlite or redis)", err)
		}
		if err != nil {
			return err
		}

		if out == "" || out == "-" {
			_, err = cmd.OutOrStdout().Write(body)
			return err
		}
		if err := os.WriteFile(out, body, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Saved", out)
		return nil
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete finished sessions and events older than the retention policy",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd.Context(), runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		res, err := rt.pruner.Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d sessions and %d events.\n", res.Sessions, res.Events)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringP("format", "f", "md", "report format: md or txt")
	reportCmd.Flags().StringP("out", "o", "", "output file (default stdout)")
}
