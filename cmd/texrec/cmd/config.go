/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ssargent/texturedata/pkg/config"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the texrec configuration file",
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	Long: `Write the default configuration to --config, or to the default location
(~/.config/texrec/config.yaml) when no path is given.

Examples:
  texrec config init
  texrec config init --config ./texrec.yaml --force`,
	Args: cobra.NoArgs,
	// the file may not exist or be valid yet
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		force, _ := cmd.Flags().GetBool("force")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if err := initConfig(configPath, force); err != nil {
			return err
		}
		cmd.Printf("Wrote default configuration to %s\n", configPath)
		return nil
	},
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(container.GetConfig())
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
}

// initConfig bootstraps the default configuration at configPath
func initConfig(configPath string, force bool) error {
	if config.ConfigExists(configPath) && !force {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", configPath)
	}
	if _, err := config.BootstrapConfig(configPath); err != nil {
		return err
	}
	return nil
}
