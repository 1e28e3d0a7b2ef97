// Command yokan runs and inspects discrete-event simulations.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string

	v      = viper.New()
	logger = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "yokan",
	Short: "Yokan - deterministic discrete-event simulation toolkit",
	Long: `Yokan runs deterministic discrete-event simulations described by YAML
workload files, records their artifacts to SQLite or ClickHouse, and lets
you inspect the recordings afterwards.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file path (default ./yokan.yaml when present)")
	rootCmd.PersistentFlags().String("log-level", "",
		"log level (debug/info/warn/error)")

	dieOnErr(v.BindPFlag("log.level",
		rootCmd.PersistentFlags().Lookup("log-level")))
}

// initConfig merges the configuration sources. Precedence, lowest first:
// defaults, the config file, YOKAN_* environment variables (a .env file is
// loaded into the environment first when present), flags.
func initConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("yokan")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("YOKAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	level, err := logrus.ParseLevel(v.GetString("log.level"))
	if err != nil {
		return fmt.Errorf(
			"invalid log level %q: %w", v.GetString("log.level"), err)
	}
	logger.SetLevel(level)

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("monitor.enabled", true)
	v.SetDefault("monitor.port", 0)
	v.SetDefault("monitor.browser", false)
	v.SetDefault("output", "")
	v.SetDefault("trace.events", false)
	v.SetDefault("clickhouse.addr", "")
	v.SetDefault("clickhouse.database", "yokan")
	v.SetDefault("clickhouse.username", "default")
	v.SetDefault("clickhouse.password", "")
	v.SetDefault("perf.period", "")
	v.SetDefault("perf.csv", "")
}

func dieOnErr(err error) {
	if err != nil {
		panic(err)
	}
}
