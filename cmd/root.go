package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/interviewer/internal/config"
	"github.com/abhisek/interviewer/internal/store"
)

const appName = "interviewer"

var (
	// Used for flags.
	cfgFile string

	// v collects defaults, the config file, env and bound flags.
	v = config.New()

	rootCmd = &cobra.Command{
		Use:   appName,
		Short: "Multi-round automated interviewer",
		Long: "interviewer runs behavioural, logical and aptitude interview rounds, grades each answer\n" +
			"and produces a weighted scorecard. Run without a subcommand for an interactive interview.",
		SilenceUsage: true,
		RunE:         runPlay,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is interviewer.yaml in current directory)")
	flags.String("db", "", "path to SQLite database file (overrides INTERVIEWER_DB env var)")
	flags.String("store", "", "session backend: memory, sqlite or redis (default redis when REDIS_URL is set, else memory)")
	flags.BoolP("debug", "d", false, "verbose/debug output")
	flags.BoolP("json", "j", false, "json format for logging")

	mustBind("store.db_path", "db")
	mustBind("store.backend", "store")
	mustBind("log.debug", "debug")
	mustBind("log.json", "json")

	addPlayFlags(rootCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(telegramCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(versionCmd)
}

func mustBind(key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag, err))
	}
}

// loadConfig reads .env and the layered configuration.
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	return config.Load(v, cfgFile)
}

// resolveDBPath returns the SQLite path: --db / store.db_path first,
// then INTERVIEWER_DB, then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if p := cfg.Store.DBPath; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
