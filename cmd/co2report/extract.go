package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ZazaRy/co2report/internal/emissions"
	"github.com/ZazaRy/co2report/internal/parser"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Convert the emissions table of a PDF page into JSON",
	Long: `Extract locates the lattice table on the configured page, finds the fiscal-year
header row and the sector column, and writes one entry per year with a
per-sector breakdown. Any structural problem aborts the run and leaves the
previous output file untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		log.Info().
			Str("pdf", cfg.Source.PDFPath).
			Int("page", cfg.Source.Page).
			Msg("extracting emissions table")

		doc, err := emissions.Run(ctx, parser.NewLattice(), cfg.Source.PDFPath, cfg.Source.Page, cfg.Output.Path, cfg.Rules)
		if err != nil {
			return err
		}

		log.Info().
			Str("out", cfg.Output.Path).
			Int("years", len(doc.Data)).
			Msg("wrote emissions data")

		if len(doc.Data) > 0 {
			return emissions.Encode(cmd.OutOrStdout(), doc.Data[0])
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().String("pdf", "", "path to the PDF report")
	extractCmd.Flags().Int("page", 0, "1-based page holding the emissions table")
	extractCmd.Flags().StringP("output", "o", "", "path of the JSON document to write")

	_ = v.BindPFlag("source.pdf_path", extractCmd.Flags().Lookup("pdf"))
	_ = v.BindPFlag("source.page", extractCmd.Flags().Lookup("page"))
	_ = v.BindPFlag("output.path", extractCmd.Flags().Lookup("output"))

	rootCmd.AddCommand(extractCmd)
}
