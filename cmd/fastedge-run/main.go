// Copyright 2024 G-Core Innovations SARL

// fastedge-run is a local development host for FastEdge applications: it
// loads a guest binary built with this SDK and serves it over plain HTTP
// against fixture data.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	v       *viper.Viper
)

var rootCmd = &cobra.Command{
	Use:          "fastedge-run",
	Short:        "Local development host for FastEdge applications",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./fastedge-run.yaml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// initConfig merges flags, FASTEDGE_* environment variables and an optional
// config file into one settings view, flags winning.
func initConfig(cmd *cobra.Command) error {
	v = viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("fastedge-run")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("FASTEDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	return v.BindPFlags(cmd.Flags())
}
