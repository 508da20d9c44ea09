/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/ssargent/texturedata/pkg/config"
	"github.com/ssargent/texturedata/pkg/di"
)

// container is built from the loaded configuration before each command runs
var container *di.Container

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "texrec",
	Short: "texrec - serializable texture records",
	Long: `texrec builds, reads and converts texture records: documents holding a
texture's size, pixel format, mip count, linear flag and a base64 PNG payload.

Documents are written as YAML, JSON or a checksummed binary frame.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		c, err := di.NewContainer(cfg, cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		container = c
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if container == nil || container.GetRegistry() == nil {
			return nil
		}
		return dumpMetrics(cmd.ErrOrStderr(), container.GetRegistry())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default is ~/.config/texrec/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level override: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("metrics", false, "Write Prometheus metrics to stderr after the command")
}

// resolveConfig loads the config file named by --config, or the default one
// when it exists, and applies the global flag overrides.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	switch {
	case configPath != "":
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case config.ConfigExists(config.GetDefaultConfigPath()):
		loaded, err := config.LoadConfig(config.GetDefaultConfigPath())
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		cfg = config.DefaultConfig()
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("metrics") {
		cfg.Metrics.Enabled, _ = cmd.Flags().GetBool("metrics")
	}

	return cfg, nil
}

// dumpMetrics writes every gathered metric family in the text exposition format
func dumpMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode metrics: %w", err)
		}
	}
	return nil
}
