package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"pixabaydl/pkg/auth"
	"pixabaydl/pkg/config"
	"pixabaydl/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage pixabaydl configuration files.

Configuration is loaded from, highest priority first:
  - Command line flags
  - Environment variables (PIXABAYDL_*, PIXABAY_API_KEY)
  - .env files (./.env, $HOME/.pixabaydl.env)
  - Configuration file
  - Default values`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default values",
	Long: `Write a configuration file with the default values.

The file is created as '.pixabaydl.yaml' in the current directory
unless a different path is given with --config.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration with the API key masked",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate the configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = ".pixabaydl.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	if err := config.DefaultConfig().Save(configPath); err != nil {
		return err
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nThe API key is best kept out of this file; use 'pixabaydl auth login' or PIXABAY_API_KEY.")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}

	display := *cfg
	if display.Pixabay.APIKey != "" {
		display.Pixabay.APIKey = auth.MaskAPIKey(display.Pixabay.APIKey)
	}

	data, err := yaml.Marshal(&display)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, string(data))
	if configFile != "" {
		fmt.Fprintf(out, "\nConfiguration file: %s\n", configFile)
	}
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}

	if cfg.Pixabay.APIKey == "" {
		ui.PrintWarning("No API key configured; resolving image urls will need --pixabay-api-key or a stored key")
	}

	ui.PrintSuccess("Configuration is valid")
	ui.PrintInfo("Image ids file", cfg.Files.ImageIDsFilepath)
	ui.PrintInfo("Image urls file", cfg.Files.ImageURLsFilepath)
	ui.PrintInfo("Download directory", cfg.Files.DownloadDir)
	ui.PrintInfo("Concurrency", fmt.Sprintf("%d", cfg.Download.Concurrency))
	ui.PrintInfo("Log level", cfg.Logging.Level)
	return nil
}
