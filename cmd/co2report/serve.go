package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ZazaRy/co2report/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chart page and the emissions JSON",
	Long: `Serve exposes GET / (chart page) and GET /api/data (the JSON document, read
from disk on every request). A missing data file yields 404.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := server.New(cfg.Server, log.Logger)
		if err != nil {
			return err
		}

		log.Info().
			Str("addr", cfg.Server.Addr).
			Str("data", cfg.Server.DataPath).
			Msg("serving")

		if err := s.Run(cmd.Context()); err != nil {
			return err
		}
		log.Info().Msg("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address")
	serveCmd.Flags().String("data", "", "path of the JSON document to serve")

	_ = v.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = v.BindPFlag("server.data_path", serveCmd.Flags().Lookup("data"))

	rootCmd.AddCommand(serveCmd)
}
