package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/HealKnix/code-quality-reporter/config"
	"github.com/HealKnix/code-quality-reporter/internal/kvstore"
)

// NewCmdConfig creates the config command with subcommands.
func NewCmdConfig() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		Long: `Show or manage configuration.

When run without arguments, shows the current merged configuration.

Subcommands:
  init   Create a minimal config file
  path   Show config file locations
  show   Show current merged config (same as bare 'cqr config')
  set    Set a configuration value`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "yaml", "Output format (yaml, json)")

	cmd.AddCommand(NewCmdConfigInit())
	cmd.AddCommand(NewCmdConfigPath())
	cmd.AddCommand(NewCmdConfigShow())
	cmd.AddCommand(NewCmdConfigSet())

	return cmd
}

// NewCmdConfigInit creates the config init subcommand.
func NewCmdConfigInit() *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a minimal config file",
		Long: `Create a minimal config file with starter settings.

Without flags the global config is created. Use --local to create
./.cqr.yaml, which applies only in this directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(local)
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Create local config file (./.cqr.yaml)")

	return cmd
}

// NewCmdConfigPath creates the config path subcommand.
func NewCmdConfigPath() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config file locations",
		Long:  `Show the paths to global and local config files and indicate which exist.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigPath()
		},
	}
}

// NewCmdConfigShow creates the config show subcommand.
func NewCmdConfigShow() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current merged configuration",
		Long:  `Show the current configuration after merging defaults, global, and local configs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "yaml", "Output format (yaml, json)")

	return cmd
}

// NewCmdConfigSet creates the config set subcommand.
func NewCmdConfigSet() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value. Available keys:
  token     - GitHub API token (stored privately, never in config files)
  base-url  - Report backend base URL
  email     - Default email for finished-report notifications
  format    - Default output format (table, json)`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}
}

func runConfigInit(local bool) error {
	targetPath := config.ConfigPath()
	location := "global"
	if local {
		targetPath = config.LocalConfigPath()
		location = "local"
	}

	if _, err := os.Stat(targetPath); err == nil {
		return fmt.Errorf("config file already exists: %s\nUse 'cqr config show' to view current config", targetPath)
	}

	if !local {
		if err := os.MkdirAll(config.DefaultConfigDir(), 0700); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(targetPath, []byte(config.MinimalConfig()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created %s config file: %s\n\n", location, targetPath)
	fmt.Println("Edit this file to customize cqr behavior.")

	return nil
}

func runConfigPath() error {
	fmt.Println("Configuration file locations:")
	fmt.Println()

	globalPath := config.ConfigPath()
	globalStatus := "not found"
	if _, err := os.Stat(globalPath); err == nil {
		globalStatus = "exists"
	}
	fmt.Printf("  Global: %s (%s)\n", globalPath, globalStatus)

	localPath := config.LocalConfigPath()
	localStatus := "not found"
	if _, err := os.Stat(localPath); err == nil {
		localStatus = "exists"
	}
	fmt.Printf("  Local:  %s (%s)\n", localPath, localStatus)

	fmt.Println()
	fmt.Println("Load order: defaults -> global -> local (local overrides global)")

	return nil
}

func runConfigShow(format string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	switch format {
	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config to YAML: %w", err)
		}
		fmt.Print(string(data))
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config to JSON: %w", err)
		}
		fmt.Println(string(data))
	default:
		return fmt.Errorf("invalid format: %s (must be yaml or json)", format)
	}

	return nil
}

func runConfigSet(key, value string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	switch key {
	case "token":
		store := cfg.Store()
		if store == nil {
			return fmt.Errorf("credential store unavailable")
		}
		if err := store.Set(kvstore.KeyToken, value); err != nil {
			return err
		}
		fmt.Println("Token stored.")
	case "base-url":
		store := cfg.Store()
		if store == nil {
			return fmt.Errorf("credential store unavailable")
		}
		if err := store.Set(kvstore.KeyBaseURL, value); err != nil {
			return err
		}
		fmt.Printf("Base URL set to %s.\n", value)
	case "email":
		store := cfg.Store()
		if store == nil {
			return fmt.Errorf("credential store unavailable")
		}
		if err := store.Set(kvstore.KeyEmail, value); err != nil {
			return err
		}
		fmt.Printf("Notification email set to %s.\n", value)
	case "format":
		if value != "table" && value != "json" {
			return fmt.Errorf("invalid format: %s (must be table or json)", value)
		}
		cfg.DefaultFormat = value
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Printf("Default format set to %s.\n", value)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	return nil
}
