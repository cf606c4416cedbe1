// Package cli provides the thin command-line wrapper over the engine
// facade: apply, tick, query, and chain introspection (§6.6). It owns
// configuration loading and logging setup; it has no engine semantics of
// its own.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/seanchatmangpt/kgcl/common"
	"github.com/seanchatmangpt/kgcl/config"
	"github.com/seanchatmangpt/kgcl/logging"
)

// Exit codes per §6.6: 0 success, 1 validation error, 2 rejection by
// hooks, 3 internal failure.
const (
	ExitSuccess         = 0
	ExitValidationError = 1
	ExitHookRejection   = 2
	ExitInternalFailure = 3
)

var cfgFile string

// RootCmd is the application entry point for the kernel's CLI surface.
var RootCmd = &cobra.Command{
	Use:   "kgcl",
	Short: "apply deltas, tick the reasoner, and query the graph",
	Long: `kgcl is a thin wrapper over the transaction kernel, tick
orchestrator, and dispatch table: it exposes apply/tick/query and chain
introspection, delegating all semantics to the engine facade.`,
}

func init() {
	cobra.OnInitialize(initViper)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.kgcl.yaml)")
	RootCmd.PersistentFlags().String("store-path", "", "path to the persistent quad store (file/sql modes)")
	RootCmd.PersistentFlags().String("persistence-mode", "", "memory|file|sql")
	RootCmd.PersistentFlags().Int("batch-ceiling", 0, "per-delta quad count bound")
	RootCmd.PersistentFlags().String("reasoner-mode", "", "inprocess|subprocess")
	RootCmd.PersistentFlags().String("repository-backend", "", "memory|document|cache")
	RootCmd.PersistentFlags().String("queue-backend", "", "none|amqp|redis")
	RootCmd.PersistentFlags().String("log-level", "", "debug|info|warn|error")
	RootCmd.PersistentFlags().String("log-format", "", "text|json")

	viper.BindPFlag("store_path", RootCmd.PersistentFlags().Lookup("store-path"))
	viper.BindPFlag("persistence_mode", RootCmd.PersistentFlags().Lookup("persistence-mode"))
	viper.BindPFlag("batch_ceiling", RootCmd.PersistentFlags().Lookup("batch-ceiling"))
	viper.BindPFlag("reasoner_mode", RootCmd.PersistentFlags().Lookup("reasoner-mode"))
	viper.BindPFlag("repository_backend", RootCmd.PersistentFlags().Lookup("repository-backend"))
	viper.BindPFlag("queue_backend", RootCmd.PersistentFlags().Lookup("queue-backend"))
	viper.BindPFlag("log_level", RootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", RootCmd.PersistentFlags().Lookup("log-format"))
}

func initViper() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".kgcl")
	}

	viper.SetEnvPrefix("KGCL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig merges viper-bound flags/env/file values onto the
// environment-derived defaults, flags taking precedence when set.
func loadConfig() config.KGCLConfig {
	cfg := config.LoadKGCLConfig("KGCL")

	if v := viper.GetString("store_path"); v != "" {
		cfg.StorePath = v
	}
	if v := viper.GetString("persistence_mode"); v != "" {
		cfg.PersistenceMode = config.PersistenceMode(v)
	}
	if v := viper.GetInt("batch_ceiling"); v != 0 {
		cfg.BatchCeiling = v
	}
	if v := viper.GetString("reasoner_mode"); v != "" {
		cfg.ReasonerMode = config.ReasonerMode(v)
	}
	if v := viper.GetString("repository_backend"); v != "" {
		cfg.RepositoryBackend = config.RepositoryBackend(v)
	}
	if v := viper.GetString("queue_backend"); v != "" {
		cfg.QueueBackend = config.QueueBackend(v)
	}
	if v := viper.GetString("log_level"); v != "" {
		cfg.LogLevel = v
	}
	if v := viper.GetString("log_format"); v != "" {
		cfg.LogFormat = v
	}

	return cfg
}

// version is set at build time via -ldflags; defaults to "dev" for
// development builds.
var version = "dev"

func newLogger(cfg config.KGCLConfig) *common.ContextLogger {
	return logging.New(cfg, version)
}
