// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the l2org CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the l2org CLI.
var rootCmd = &cobra.Command{
	Use:   "l2org",
	Short: "Convert LaTeX documents to Org mode",
	Long: `l2org converts LaTeX documents to Org mode in a single streaming pass.
Sectioning commands become headings, citations become org-ref links, math
and other environments are kept for LaTeX export, and the preamble maps to
Org keywords plus an optional setup file.

Cited keys can be recorded in a local index and listed with the keys
subcommand.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./l2org.yaml or ~/.config/l2org/l2org.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("l2org")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "l2org"))
		}
	}

	viper.SetEnvPrefix("L2ORG")
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
