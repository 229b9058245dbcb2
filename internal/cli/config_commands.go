package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/canlog/canlog-client/internal/api"
	"github.com/canlog/canlog-client/internal/config"
	"github.com/canlog/canlog-client/internal/constants"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage canlog configuration",
		Long: `Configuration management commands for canlog.

Commands:
  init  - Interactive configuration setup
  show  - Display current configuration
  test  - Test backend connection
  path  - Show configuration file path`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigTestCmd())
	configCmd.AddCommand(newConfigPathCmd())

	return configCmd
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// newConfigInitCmd creates the 'config init' command.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration interactively",
		Long: `Interactive configuration setup for canlog.

The configuration is saved to ~/.config/canlog/config.ini
(%APPDATA%\canlog\config.ini on Windows). The proxy password is never
written; set CANLOG_PROXY_PASSWORD instead.

Use --force to overwrite existing configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath()
			out := cmd.OutOrStdout()

			if !force {
				if _, err := os.Stat(path); err == nil {
					fmt.Fprintf(out, "Configuration already exists at: %s\n", path)
					fmt.Fprintln(out, "Use --force to overwrite or run 'config show' to view current config.")
					return nil
				}
			}

			fmt.Fprintln(out, "canlog Configuration Setup")
			fmt.Fprintln(out, "==========================")
			fmt.Fprintln(out)

			cfg := promptConfig(bufio.NewReader(cmd.InOrStdin()), out)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			if err := config.Save(cfg, path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			GetLogger().Info().Str("path", path).Msg("Configuration saved")

			fmt.Fprintln(out)
			fmt.Fprintf(out, "✓ Configuration saved to: %s\n", path)
			fmt.Fprintln(out, "Test your configuration with: canlog config test")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration")

	return cmd
}

// promptConfig asks for each setting, keeping the default on an empty answer.
func promptConfig(reader *bufio.Reader, out io.Writer) *config.Config {
	cfg := config.NewConfig()

	ask := func(label, def string) string {
		fmt.Fprintf(out, "%s [%s]: ", label, def)
		input, _ := reader.ReadString('\n')
		if input = strings.TrimSpace(input); input == "" {
			return def
		}
		return input
	}

	cfg.BackendURL = config.NormalizeBackendURL(ask("Backend URL", cfg.BackendURL))
	cfg.DownloadDir = ask("Download directory", cfg.DownloadDir)

	hidden := strings.ToLower(ask("Include hidden files in folder uploads? (y/N)", "n"))
	cfg.IncludeHidden = hidden == "y" || hidden == "yes"

	fmt.Fprintln(out)
	proxy := strings.ToLower(ask("Configure proxy? (y/N)", "n"))
	if proxy != "y" && proxy != "yes" {
		return cfg
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Proxy Configuration")
	fmt.Fprintln(out, "-------------------")
	fmt.Fprintln(out, "Proxy modes: no-proxy, system, basic, ntlm")
	cfg.ProxyMode = ask("Proxy mode", config.ProxySystem)
	if cfg.ProxyMode == config.ProxyNone {
		return cfg
	}

	cfg.ProxyHost = ask("Proxy host", "")
	cfg.ProxyPort = constants.DefaultProxyPort
	if v, err := strconv.Atoi(ask("Proxy port", strconv.Itoa(constants.DefaultProxyPort))); err == nil && v > 0 {
		cfg.ProxyPort = v
	}
	if cfg.ProxyMode == config.ProxyBasic || cfg.ProxyMode == config.ProxyNTLM {
		cfg.ProxyUser = ask("Proxy user", "")
	}
	cfg.NoProxy = ask("Bypass proxy for (comma-separated)", "localhost,127.0.0.1")
	return cfg
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the effective configuration, merged from:
  1. Configuration file (~/.config/canlog/config.ini)
  2. .env file (--env-file, default ./.env)
  3. Environment variables (CANLOG_BACKEND_URL, CANLOG_PROXY_PASSWORD, HTTPS_PROXY)
  4. Command-line flags (--backend-url, --proxy-*)

Priority: flags > environment > config file > defaults`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath()
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			cfg.MergeWithFlags(backendURL, proxyMode, proxyHost, proxyPort)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Current Configuration")
			fmt.Fprintln(out, "=====================")
			fmt.Fprintln(out)
			fmt.Fprint(out, cfg.Describe())
			fmt.Fprintln(out)

			fmt.Fprintf(out, "Configuration file: %s\n", path)
			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Fprintln(out, "  (file does not exist - using defaults)")
			}
			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(out, "  Warning: %v\n", err)
			}
			return nil
		},
	}
}

// newConfigTestCmd creates the 'config test' command.
func newConfigTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Test backend connection",
		Long: `Test the backend connection with the current configuration.

Use this to verify the backend URL and proxy settings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := GetLogger()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Testing Backend Connection")
			fmt.Fprintln(out, "==========================")
			fmt.Fprintln(out)

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Backend URL: %s\n", cfg.BackendURL)
			fmt.Fprintf(out, "Proxy mode:  %s\n", cfg.ProxyMode)
			fmt.Fprintln(out, "Testing connection...")
			fmt.Fprintln(out)

			client, err := api.NewClient(cfg)
			if err != nil {
				return fmt.Errorf("failed to create API client: %w", err)
			}
			client.SetLogger(logger)

			text, err := client.Health(GetContext())
			if err != nil {
				logger.Error().Err(err).Msg("Connection test failed")
				fmt.Fprintln(out, "✗ Connection FAILED")
				fmt.Fprintf(out, "  Error: %v\n", err)
				return fmt.Errorf("connection test failed")
			}

			logger.Info().Msg("Connection test successful")
			fmt.Fprintln(out, "✓ Connection SUCCESSFUL")
			fmt.Fprintf(out, "  /health: %s\n", text)
			return nil
		},
	}
}

// newConfigPathCmd creates the 'config path' command.
func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Long:  `Display the path to the configuration file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			path := configPath()
			if cfgFile == "" {
				fmt.Fprintln(out, "Default configuration path:")
			} else {
				fmt.Fprintln(out, "Configuration path (from --config flag):")
			}

			fmt.Fprintf(out, "  %s\n", path)
			fmt.Fprintln(out)

			if fileInfo, err := os.Stat(path); err == nil {
				fmt.Fprintln(out, "Status: ✓ File exists")
				fmt.Fprintf(out, "Size:   %d bytes\n", fileInfo.Size())
				fmt.Fprintf(out, "Modified: %s\n", fileInfo.ModTime().Format("2006-01-02 15:04:05"))
			} else {
				fmt.Fprintln(out, "Status: File does not exist")
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Create a configuration file with: canlog config init")
			}
			fmt.Fprintf(out, "Log directory: %s\n", config.LogDirectory())
			return nil
		},
	}
}
