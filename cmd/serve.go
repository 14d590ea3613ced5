package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/interviewer/internal/httpapi"
	"github.com/abhisek/interviewer/internal/mcpserver"
	"github.com/abhisek/interviewer/internal/telegram"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interview HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		rt, err := newRuntime(ctx, runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		stopRetention, err := rt.startRetention()
		if err != nil {
			return err
		}
		defer stopRetention()

		srv := httpapi.New(rt.svc, rt.log, httpapi.Timeouts{
			Read:     rt.cfg.Server.ReadTimeout,
			Write:    rt.cfg.Server.WriteTimeout,
			Idle:     rt.cfg.Server.IdleTimeout,
			Shutdown: rt.cfg.Server.ShutdownTimeout,
		})
		return srv.ListenAndServe(ctx, rt.cfg.Server.Addr)
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the interview tools over MCP (stdio)",
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol.
		rt, err := newRuntime(cmd.Context(), runtimeOptions{logOutput: "stderr"})
		if err != nil {
			return err
		}
		defer rt.Close()

		return mcpserver.ServeStdio(mcpserver.New(rt.svc, version, rt.log))
	},
}

var telegramCmd = &cobra.Command{
	Use:   "telegram",
	Short: "Run the interview as a Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		rt, err := newRuntime(ctx, runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		stopRetention, err := rt.startRetention()
		if err != nil {
			return err
		}
		defer stopRetention()

		tg := rt.cfg.Telegram
		bot, err := telegram.New(tg.Token, rt.svc, tg.PollTimeout, tg.Debug, rt.log)
		if err != nil {
			return err
		}
		return bot.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8000)")
	if err := v.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr")); err != nil {
		panic(err)
	}
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
