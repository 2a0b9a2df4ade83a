// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the lattereview CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kevinchung58/LatteReview/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Store

// rootCmd is the base command for the lattereview CLI.
var rootCmd = &cobra.Command{
	Use:   "lattereview",
	Short: "Multi-agent literature review screening",
	Long: `lattereview screens literature-review citation files through configurable
rounds of AI reviewing agents. Each round evaluates the records that survive
the previous round's filter; disagreeing first-round agents debate before
their decisions stand; per-record results aggregate every agent's verdict.

Define a workflow in YAML, validate it, then run it over an RIS file:

  lattereview validate --workflow workflow.yaml
  lattereview run --workflow workflow.yaml --input refs.ris`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", s.Keys())
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./lattereview.yaml or ~/.config/lattereview/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("lattereview")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "lattereview"))
		}
	}

	viper.SetEnvPrefix("LATTEREVIEW")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
