// Package cli implements the analyst command-line client.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/csv-analyst/backend/internal/client"
)

var (
	cfgFile     string
	flagServer  string
	flagTimeout int
)

var rootCmd = &cobra.Command{
	Use:   "analyst",
	Short: "Command-line client for the AI data analyst server",
	Long:  `analyst uploads CSV files to a running analyst server, fetches the generated summary and plots, and asks follow-up questions about the data.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(initConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.analyst/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "server origin (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagTimeout, "timeout", 0, "request timeout in seconds (overrides config)")
}

// initConfig loads settings with precedence: flags > env > config file > defaults.
func initConfig() {
	viper.SetEnvPrefix("ANALYST")
	viper.AutomaticEnv()

	viper.SetDefault("server", "http://localhost:8000")
	viper.SetDefault("timeout_sec", 120)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home + "/.analyst")
		}
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}
	// The config file is optional.
	viper.ReadInConfig()
}

// newClient builds an API client from the resolved settings.
func newClient() *client.Client {
	server := viper.GetString("server")
	if flagServer != "" {
		server = flagServer
	}
	timeout := viper.GetInt("timeout_sec")
	if flagTimeout > 0 {
		timeout = flagTimeout
	}
	return client.New(server, time.Duration(timeout)*time.Second)
}
