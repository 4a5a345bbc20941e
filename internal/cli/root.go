// Package cli wires configuration, storage, the completion client, and the
// agent loop into the jarvis command tree.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/soymode/jarvis/internal/config"
	"github.com/soymode/jarvis/internal/logging"
)

var (
	cfgFile  string
	logLevel string

	// loaded at init time
	paths config.Paths
	cfg   config.Config
	log   *logging.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jarvis",
		Short: "Jarvis — personal AI assistant",
		Long:  "Jarvis is a personal AI assistant for the terminal. It keeps conversation history in a local database and can read files and run shell commands with your confirmation.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			paths, err = config.ResolvePaths()
			if err != nil {
				return err
			}
			if cfgFile != "" {
				paths.Config = cfgFile
			}
			if err := paths.EnsureDirs(); err != nil {
				return err
			}

			cfg, err = config.Load(paths.Config)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			if cfg.DBPath == "" {
				cfg.DBPath = paths.DB
			}

			// The REPL owns the terminal, so logs go to a file.
			logFile := cfg.Logging.File
			if logFile == "" {
				logFile = filepath.Join(paths.Logs, "jarvis.log")
			}
			log, err = logging.NewFile(logFile, cfg.Logging.Level)
			if err != nil {
				return err
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare `jarvis` starts an interactive chat session.
			return runChat(cmd, "")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.jarvis/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, silent)")

	cmd.AddCommand(newChatCmd())
	cmd.AddCommand(newConversationsCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func validateConfig() error {
	if issues := config.Validate(&cfg); len(issues) > 0 {
		for _, issue := range issues {
			fmt.Println("config:", issue)
		}
		return fmt.Errorf("invalid configuration (%d issue(s))", len(issues))
	}
	return nil
}
