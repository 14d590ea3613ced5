package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/interviewer/internal/app"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Take an interview in the terminal",
	RunE:  runPlay,
}

func addPlayFlags(c *cobra.Command) {
	c.Flags().Bool("plain", false, "use line prompts instead of the full-screen UI")
	c.Flags().StringP("name", "n", "", "candidate name (skips the welcome screen)")
	c.Flags().StringP("out-dir", "o", ".", "directory for saved reports")
	c.Flags().String("log-file", "", "write logs to this file (logging is off by default while the UI runs)")
}

func init() {
	addPlayFlags(playCmd)
}

// runPlay opens the store, builds dependencies, and launches the interview UI.
func runPlay(cmd *cobra.Command, args []string) error {
	plain, _ := cmd.Flags().GetBool("plain")
	name, _ := cmd.Flags().GetString("name")
	outDir, _ := cmd.Flags().GetString("out-dir")
	logFile, _ := cmd.Flags().GetString("log-file")

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	logOutput := "none"
	if logFile != "" {
		logOutput = logFile
	}
	rt, err := newRuntime(ctx, runtimeOptions{logOutput: logOutput})
	if err != nil {
		return err
	}
	defer rt.Close()

	opts := app.Options{Name: name, ReportDir: outDir}
	if plain {
		p := app.TerminalPrompter{Stdin: os.Stdin, Stdout: os.Stdout}
		return app.RunPlain(ctx, rt.svc, opts, p, cmd.OutOrStdout())
	}
	return app.Run(ctx, rt.svc, opts)
}
