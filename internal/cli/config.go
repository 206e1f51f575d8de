package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yildizm/usvote/internal/config"
)

// newConfigCommand creates the config command with subcommands
func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage usvote configuration",
		Long: `Manage usvote configuration files and settings.

The config command provides subcommands for initializing, viewing,
validating, and locating configuration files.`,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
	}

	// Add subcommands
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigPathCommand())

	return configCmd
}

// newConfigInitCommand creates the config init subcommand
func newConfigInitCommand() *cobra.Command {
	var (
		outputPath string
		minimal    bool
		force      bool
	)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new configuration file",
		Long: `Initialize a new usvote configuration file with default values.

By default, creates a full configuration file with all options and comments.
Use --minimal for a compact configuration with only essential settings.`,
		Example: `  # Create full config in current directory
  usvote config init

  # Create minimal config
  usvote config init --minimal

  # Create config at specific path
  usvote config init --output ~/.config/usvote/config.yaml

  # Overwrite existing config
  usvote config init --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Determine output path
			if outputPath == "" {
				outputPath = ".usvote.yaml"
			}

			// Check if file exists and not forcing
			if !force && fileExists(outputPath) {
				return fmt.Errorf("config file already exists at %s (use --force to overwrite)", outputPath)
			}

			// Create directory if needed
			dir := filepath.Dir(outputPath)
			if dir != "." && dir != "/" {
				if err := os.MkdirAll(dir, 0o750); err != nil {
					return fmt.Errorf("failed to create directory %s: %w", dir, err)
				}
			}

			// Get config content
			var content string
			if minimal {
				content = config.MinimalSampleConfig()
			} else {
				content = config.SampleConfig()
			}

			// Write config file
			if err := os.WriteFile(outputPath, []byte(content), 0o600); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Configuration file created at: %s\n", GetEmoji("success"), outputPath)
			if minimal {
				fmt.Fprintf(out, "%s Created minimal configuration with essential settings\n", GetEmoji("file"))
			} else {
				fmt.Fprintf(out, "%s Created full configuration with all options and documentation\n", GetEmoji("file"))
			}
			fmt.Fprintf(out, "%s Keep the wallet key in USVOTE_WALLET_PRIVATE_KEY or a %s file\n", GetEmoji("info"), config.DotenvPath)

			return nil
		},
	}

	initCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output path for config file (default: .usvote.yaml)")
	initCmd.Flags().BoolVarP(&minimal, "minimal", "m", false, "create minimal configuration")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing config file")

	return initCmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	var (
		format     string
		configPath string
	)

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the current effective configuration after loading from all sources.

Shows the merged configuration from all sources including defaults,
config files, and environment variable overrides. Wallet secrets are
never printed.`,
		Example: `  # Show config in YAML format
  usvote config show

  # Show config in JSON format
  usvote config show --format json

  # Show config from specific file
  usvote config show --config /path/to/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load configuration
			loader := config.NewLoader()
			cfg, err := loader.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			// Secrets stay out of the output
			redacted := *cfg
			redacted.Wallet = redactWallet(cfg.Wallet)

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				data, err := json.MarshalIndent(&redacted, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal config to JSON: %w", err)
				}
				fmt.Fprintln(out, string(data))
			case "yaml":
				data, err := yaml.Marshal(&redacted)
				if err != nil {
					return fmt.Errorf("failed to marshal config to YAML: %w", err)
				}
				fmt.Fprint(out, string(data))
			default:
				return fmt.Errorf("unsupported format: %s (use json or yaml)", format)
			}

			return nil
		},
	}

	showCmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")
	showCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")

	return showCmd
}

// newConfigValidateCommand creates the config validate subcommand
func newConfigValidateCommand() *cobra.Command {
	var configPath string

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validate a usvote configuration file for syntax and semantic errors.

Checks the configuration file for:
- Valid YAML syntax
- A well-formed contract address
- A supported network and chain id
- Valid values for enums
- Proper data types`,
		Example: `  # Validate current config
  usvote config validate

  # Validate specific config file
  usvote config validate --config /path/to/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load configuration
			loader := config.NewLoader()
			cfg, err := loader.LoadConfig(configPath)
			out := cmd.OutOrStdout()
			if err != nil {
				fmt.Fprintf(out, "%s Configuration validation failed:\n", GetEmoji("error"))
				fmt.Fprintf(out, "   %v\n", err)
				return err
			}

			// If we get here, validation passed
			fmt.Fprintf(out, "%s Configuration is valid\n", GetEmoji("success"))

			wallet := "none (read-only)"
			switch {
			case cfg.Wallet.PrivateKey != "":
				wallet = "private key"
			case cfg.Wallet.Keystore != "":
				wallet = "keystore " + cfg.Wallet.Keystore
			}
			explorer := cfg.Network.ExplorerURL()
			if explorer == "" {
				explorer = "none"
			}

			fmt.Fprintf(out, "%s Configuration summary:\n", GetEmoji("ballot"))
			fmt.Fprintf(out, "   Version: %s\n", cfg.Version)
			fmt.Fprintf(out, "   Network: %s (%s)\n", cfg.Network.Name, cfg.Network.RPCURL)
			fmt.Fprintf(out, "   Explorer: %s\n", explorer)
			fmt.Fprintf(out, "   Contract: %s\n", cfg.Contract.Address)
			fmt.Fprintf(out, "   Wallet: %s\n", wallet)
			fmt.Fprintf(out, "   Candidates: %s, %s\n", cfg.Election.CandidateA, cfg.Election.CandidateB)

			return nil
		},
	}

	validateCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")

	return validateCmd
}

// newConfigPathCommand creates the config path subcommand
func newConfigPathCommand() *cobra.Command {
	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show configuration file search paths",
		Long: `Display the list of paths usvote searches for configuration files.

Shows the search order and indicates which files exist.`,
		Example: `  # Show config search paths
  usvote config path`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Configuration file search paths (in priority order):\n\n", GetEmoji("folder"))

			paths := config.GetConfigPaths()
			priority := []string{"Highest", "Medium", "Lowest"}
			for i, path := range paths {
				exists := " " + GetEmoji("error") + " (not found)"
				if fileExists(path) {
					exists = " " + GetEmoji("success") + " (exists)"
				}

				fmt.Fprintf(out, "  %d. %s%s\n", i+1, path, exists)
				if i < len(priority) {
					fmt.Fprintf(out, "     Priority: %s\n", priority[i])
				}
				fmt.Fprintln(out)
			}

			// Show current config file being used
			if currentConfig, found := config.FindConfigFile(); found {
				fmt.Fprintf(out, "%s Current config file: %s\n", GetEmoji("target"), currentConfig)
			} else {
				fmt.Fprintf(out, "%s No config file found, using defaults\n", GetEmoji("file"))
			}

			fmt.Fprintln(out)
			fmt.Fprintf(out, "%s Environment variables with USVOTE_ prefix will override file settings\n", GetEmoji("info"))
			fmt.Fprintf(out, "%s %s in the working directory is loaded into the environment first\n", GetEmoji("info"), config.DotenvPath)
		},
	}

	return pathCmd
}

// Helper function to check if file exists
func fileExists(filename string) bool {
	_, err := os.Stat(config.ExpandPath(filename))
	return err == nil
}

// redactWallet masks wallet secrets for display
func redactWallet(w config.WalletConfig) config.WalletConfig {
	if w.PrivateKey != "" {
		w.PrivateKey = "********"
	}
	if w.Passphrase != "" {
		w.Passphrase = "********"
	}
	return w
}
