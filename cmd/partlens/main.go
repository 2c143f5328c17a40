// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the partlens CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshintel/partlens/internal/secrets"
	"github.com/meshintel/partlens/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the partlens CLI.
var rootCmd = &cobra.Command{
	Use:   "partlens",
	Short: "IP screening for automotive supply-chain components",
	Long: `partlens screens automotive components against a third-party patent
analysis API. Results are cached by query fingerprint with TTL expiry and
local throttling, and served over HTTP or through one-shot CLI calls.

The serve subcommand runs the HTTP API; analyze, status, and cache run
the same operations from the command line.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./partlens.yaml or ~/.config/partlens/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("partlens")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "partlens"))
		}
	}

	viper.SetEnvPrefix("PARTLENS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig overlays config file, environment, and secrets onto the
// built-in defaults. Secrets files win only when the key is not already
// set through config or environment.
func loadConfig() types.Config {
	cfg := types.Defaults()

	if v := viper.GetString("screener.data_key"); v != "" {
		cfg.Screener.DataKey = v
	} else if v := loadedSecrets[secrets.DataKey]; v != "" {
		cfg.Screener.DataKey = v
	}
	if v := viper.GetString("screener.ux_key"); v != "" {
		cfg.Screener.UXKey = v
	} else if v := loadedSecrets[secrets.UXKey]; v != "" {
		cfg.Screener.UXKey = v
	}

	if v := viper.GetString("screener.data_api_url"); v != "" {
		cfg.Screener.DataAPIURL = v
	}
	if v := viper.GetString("screener.pdf_api_url"); v != "" {
		cfg.Screener.PDFAPIURL = v
	}
	if v := viper.GetString("screener.stats_api_url"); v != "" {
		cfg.Screener.StatsAPIURL = v
	}
	if v := viper.GetString("screener.username"); v != "" {
		cfg.Screener.Username = v
	}
	if v := viper.GetInt("screener.default_rows"); v > 0 {
		cfg.Screener.DefaultRows = v
	}
	if v := viper.GetInt("screener.max_rows"); v > 0 {
		cfg.Screener.MaxRows = v
	}
	if v := viper.GetInt("screener.max_retries"); v > 0 {
		cfg.Screener.MaxRetries = v
	}
	if v := viper.GetDuration("screener.timeout"); v > 0 {
		cfg.Screener.Timeout = v
	}

	if v := viper.GetString("cache.path"); v != "" {
		cfg.Cache.Path = v
	}
	if v := viper.GetDuration("cache.ttl"); v > 0 {
		cfg.Cache.TTL = v
	}
	if v := viper.GetDuration("cache.throttle_window"); v > 0 {
		cfg.Cache.ThrottleWindow = v
	}

	if v := viper.GetString("server.host"); v != "" {
		cfg.Server.Host = v
	}
	if v := viper.GetInt("server.port"); v > 0 {
		cfg.Server.Port = v
	}

	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
