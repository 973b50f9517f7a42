package main

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/blockcompare/config"
)

type rootOptions struct {
	verbose    bool
	configPath string
	logFile    string

	closeLog func() error
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "blockcompare",
		Short:        "Compare two numbers by stacking blocks",
		Long:         `blockcompare shows two stacks of blocks side by side. Grow or shrink each stack, connect the stacks with comparison lines and answer whether the left number is less than, equal to or greater than the right.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}

			w, closeLog, err := openLogOutput(opts.logFile, opts.verbose)
			if err != nil {
				return err
			}
			opts.closeLog = closeLog

			level := log.InfoLevel
			if opts.verbose {
				level = log.DebugLevel
			}
			logger := newLogger(w, level)
			logger.Debug("config loaded", "path", opts.configPath, "max_blocks", cfg.MaxBlocks)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = withLogger(ctx, logger)
			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.closeLog != nil {
				return opts.closeLog()
			}
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "TOML config file")
	root.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "write logs to this file")

	root.AddCommand(newRunCmd())
	root.AddCommand(newSnapshotCmd())
	return root
}
