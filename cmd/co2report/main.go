// Package main is the entry point for the co2report CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ZazaRy/co2report/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	v   = config.NewViper()
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "co2report",
	Short: "Extract sector CO2 emissions from a PDF report and serve them as JSON",
	Long: `co2report reads the lattice table on one page of a municipal greenhouse-gas
report, keeps the whitelisted sectors, and writes a per-year JSON document.
The serve command exposes that document and a chart page over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := readConfigFile(cmd); err != nil {
			return err
		}

		c, err := config.Load(v)
		if err != nil {
			return err
		}

		level, err := zerolog.ParseLevel(c.Log.Level)
		if err != nil {
			return fmt.Errorf("log level %q: %w", c.Log.Level, err)
		}
		zerolog.SetGlobalLevel(level)

		cfg = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./co2report.yaml if present)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	_ = v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func readConfigFile(cmd *cobra.Command) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("co2report")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return fmt.Errorf("read config: %w", err)
			}
			return nil
		}
	}
	log.Debug().Str("file", v.ConfigFileUsed()).Msg("using config file")
	return nil
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(log.Logger.WithContext(ctx))
	stop()
	if err != nil {
		log.Error().Err(err).Msg("co2report failed")
		os.Exit(1)
	}
}
