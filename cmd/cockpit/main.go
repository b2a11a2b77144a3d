package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"cockpit/internal/config"
	sharedinfra "cockpit/internal/shared/infrastructure"
)

// app dépendances partagées par les sous-commandes
type app struct {
	cfg       config.Config
	log       *logrus.Logger
	logCloser io.Closer
}

var (
	envFile string
	current app
)

var rootCmd = &cobra.Command{
	Use:           "cockpit",
	Short:         "Event performance reporting: extraction, staging and report generation",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		logger, closer, err := sharedinfra.NewLogger(cfg.LogDir, cfg.LogLevel)
		if err != nil {
			return err
		}
		current = app{cfg: cfg, log: logger, logCloser: closer}
		logger.WithFields(logrus.Fields{
			"command":        cmd.Name(),
			"staging_format": cfg.StagingFormat,
			"staging_dir":    cfg.StagingDir,
		}).Debug("configuration loaded")
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if current.logCloser != nil {
			return current.logCloser.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load before reading the environment")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if current.log != nil {
			current.log.WithError(err).Error("command failed")
		}
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
