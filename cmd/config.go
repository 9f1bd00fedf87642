package cmd

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Polqt/aica-bot-sub001/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "View and update configuration settings",
	// runs without the App so an invalid file can still be edited
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rootOpts.ConfigPath)
		if err != nil {
			return err
		}
		path := rootOpts.ConfigPath
		if path == "" {
			path = config.Path()
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render("Configuration"))
		field(out, "Config File", path)
		if rootOpts.APIURL != "" {
			cfg.APIURL = rootOpts.APIURL
		}
		field(out, "API URL", cfg.APIURL+apiURLSource())
		field(out, "Log Level", cfg.LogLevel)
		field(out, "HTTP Timeout", cfg.HTTPTimeout.String())
		field(out, "Max File Size", humanize.IBytes(uint64(cfg.Upload.MaxFileSize)))
		field(out, "Allowed Types", strings.Join(cfg.Upload.AllowedTypes, ", "))
		field(out, "Polling", fmt.Sprintf("%d checks, %s apart (up to %s)",
			cfg.Polling.MaxPolls, cfg.Polling.Interval, cfg.Polling.Budget()))
		return nil
	},
}

var setConfigCmd = &cobra.Command{
	Use:   "set",
	Short: "Update a configuration value",
	Example: `  aica config set --key api_url --value https://api.example.com
  aica config set --key polling.interval --value 3s
  aica config set --key log_level --value debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")

		if key == "" || value == "" {
			return usagef("both --key and --value are required")
		}
		if !slices.Contains(config.SettableKeys, key) {
			return usagef("invalid key %q, must be one of: %s", key, strings.Join(config.SettableKeys, ", "))
		}
		value, err := normalizeSetting(key, value)
		if err != nil {
			return err
		}

		if err := config.Set(rootOpts.ConfigPath, key, value); err != nil {
			return fmt.Errorf("error updating config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration updated: %s\n", key)
		return nil
	},
}

// normalizeSetting rejects values config.Load would refuse or misread, and
// returns the form written to the file.
func normalizeSetting(key, value string) (string, error) {
	switch key {
	case "api_url":
		u, err := url.Parse(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return "", usagef("api_url must be an absolute URL, got: %s", value)
		}
	case "log_level":
		if _, err := logrus.ParseLevel(value); err != nil {
			return "", usagef("invalid log_level: %v", err)
		}
	case "http_timeout", "polling.interval":
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return "", usagef("%s must be a positive duration like 2s, got: %s", key, value)
		}
	case "polling.max_polls":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return "", usagef("polling.max_polls must be at least 1, got: %s", value)
		}
	case "upload.max_file_size":
		n, err := humanize.ParseBytes(value)
		if err != nil || n == 0 {
			return "", usagef("upload.max_file_size must be a size like 10MiB, got: %s", value)
		}
		return strconv.FormatUint(n, 10), nil
	}
	return value, nil
}

func apiURLSource() string {
	switch {
	case rootOpts.APIURL != "":
		return " (--api-url)"
	case os.Getenv("AICA_API_URL") != "":
		return " (AICA_API_URL)"
	case os.Getenv("NEXT_PUBLIC_API_URL") != "":
		return " (NEXT_PUBLIC_API_URL)"
	}
	return ""
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(setConfigCmd)

	// Flags for set command
	setConfigCmd.Flags().String("key", "", "Configuration key")
	setConfigCmd.Flags().String("value", "", "Configuration value")
}
