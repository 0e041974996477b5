/*
Package cli implements the health-journal command line.

The same binary runs the MCP server and offers offline access to the
analysis engine against the journal database.
*/
package cli

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mcp-health-journal/internal/config"
)

// app carries the settings shared by every subcommand.
type app struct {
	v          *viper.Viper
	configFile string
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	a := &app{v: config.New()}

	rootCmd := &cobra.Command{
		Use:   "health-journal",
		Short: "Food and symptom journal with correlation analysis",
		Long: `health-journal keeps a log of meals, symptoms, water, sleep, exercise,
medication and mood, and looks for the foods that tend to come before
symptoms or better days.

Run "health-journal serve" to expose the journal as MCP tools over HTTP.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Config file (yaml, json or toml)")
	flags.String("db-path", "", "Database path")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.Float64("window-hours", 0, "Hours after a meal to look for effects")
	_ = a.v.BindPFlag("db_path", flags.Lookup("db-path"))
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("window_hours", flags.Lookup("window-hours"))

	rootCmd.AddCommand(a.newServeCmd())
	rootCmd.AddCommand(a.newAnalyzeCmd())
	rootCmd.AddCommand(a.newPredictCmd())
	rootCmd.AddCommand(newVersionCmd(version))

	return rootCmd
}

// loadConfig reads the configuration and applies its log level.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	log.SetLevel(level)
	return cfg, nil
}
