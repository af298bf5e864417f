package commands

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/luminalabs/lumina-cli/internal/config"
	"github.com/luminalabs/lumina-cli/internal/render"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the current configuration",
	Long: `Show the current configuration and where it comes from.

Values are read from ~/.lumina/config.json and overridden by LUMINA_*
environment variables. Use 'config set' to change the file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a configuration value",
	Long: `Change one configuration value and save it.

Keys: base-url, theme, timeout, copy-to-clipboard, verbose`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigSet(args[0], args[1])
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	path, _ := config.GetConfigPath()

	fmt.Printf("base-url:           %s\n", cfg.BaseURL)
	fmt.Printf("theme:              %s\n", cfg.Theme)
	fmt.Printf("timeout:            %ds\n", cfg.RequestTimeoutSecs)
	fmt.Printf("copy-to-clipboard:  %t\n", cfg.CopyToClipboard)
	fmt.Printf("verbose:            %t\n", cfg.Verbose)
	if path != "" {
		fmt.Printf("\nconfig file: %s\n", path)
	}

	return nil
}

func runConfigSet(key, value string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	switch strings.ToLower(key) {
	case "base-url", "base_url":
		parsed, err := url.Parse(value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("'%s' is not a valid URL (need scheme and host)", value)
		}
		cfg.BaseURL = strings.TrimRight(value, "/")

	case "theme":
		if !render.IsValidTheme(value) {
			return fmt.Errorf("unknown theme '%s' (available: %s)",
				value, strings.Join(render.ThemeNames(), ", "))
		}
		cfg.Theme = value

	case "timeout":
		secs, err := strconv.Atoi(value)
		if err != nil || secs <= 0 {
			return fmt.Errorf("timeout must be a positive number of seconds")
		}
		cfg.RequestTimeoutSecs = secs

	case "copy-to-clipboard", "copy_to_clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("copy-to-clipboard must be true or false")
		}
		cfg.CopyToClipboard = b

	case "verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("verbose must be true or false")
		}
		cfg.Verbose = b

	default:
		return fmt.Errorf("unknown key '%s' (keys: base-url, theme, timeout, copy-to-clipboard, verbose)", key)
	}

	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	printSuccess(fmt.Sprintf("Set %s", key))
	return nil
}
