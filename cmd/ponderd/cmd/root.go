// Package cmd wires the ponderd command tree: configuration loading, the
// API daemon and version reporting.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd builds the ponderd command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ponderd",
		Short: "Ponder constant-product dex daemon",
		Long: `ponderd runs the Ponder trading engine and serves its query API.

Configuration is read from --config (or ./ponder.yaml), overridable via
PONDER_* environment variables.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "path to the configuration file")
	rootCmd.AddCommand(
		serveCommand(),
		versionCommand(),
	)
	return rootCmd
}

// loadConfig initializes viper with defaults, the optional config file and
// PONDER_* environment overrides.
func loadConfig(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", "5000")
	v.SetDefault("api.rate_limit_rps", 100)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("dex.fee_to", "")
	v.SetDefault("dex.fee_to_setter", "")
	v.SetDefault("dex.launcher", "")
	v.SetDefault("dex.ponder_token", "")

	v.SetEnvPrefix("PONDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, err
	}
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
		return v, nil
	}

	v.SetConfigName("ponder")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine; defaults and env apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	return v, nil
}
