package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suparena/entitymeta/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type cli struct {
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{logger: zap.NewNop()}
	rootCmd := &cobra.Command{
		Use:   "entitymeta",
		Short: "Entity metadata declarations and identifier tooling",
		Long: `entitymeta validates and inspects YAML entity declarations and draws
identifiers from the configured sequence backend.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			logger, err := cfg.Logger()
			if err != nil {
				return err
			}
			c.cfg, c.logger = cfg, logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
	}
	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./entitymeta.yaml)")

	rootCmd.AddCommand(newValidateCmd(c))
	rootCmd.AddCommand(newInspectCmd(c))
	rootCmd.AddCommand(newNextIDCmd(c))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}
