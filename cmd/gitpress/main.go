// Copyright Jordan Morrow, 2026. All rights reserved.

// Package main is the entry point for the gitpress CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmorrow/gitpress/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the gitpress CLI.
var rootCmd = &cobra.Command{
	Use:   "gitpress",
	Short: "A daily newspaper generated from trending repositories",
	Long: `gitpress assembles a daily newspaper-style digest of trending open-source
repositories. It searches the code host for recently active repositories,
scores and ranks them, spreads coverage across languages, writes articles
with a generative backend, and publishes a static site.

The generate subcommand produces today's edition end to end; sections
prints the configured section layout.`,
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./gitpress.yaml or ~/.config/gitpress/gitpress.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("gitpress")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "gitpress"))
		}
	}

	viper.SetEnvPrefix("GITPRESS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// configPath resolves the config file to load: the file viper found, or the
// conventional name in the working directory (which may not exist; defaults
// apply then).
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return "gitpress.yaml"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
