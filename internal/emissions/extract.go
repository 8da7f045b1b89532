package emissions

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ZazaRy/co2report/internal/parser"
)

// Extract reads the tables on page of the PDF at path and builds a Document
// from the first one.
func Extract(ctx context.Context, src parser.Source, path string, page int, rules Rules) (*Document, error) {
	tables, err := src.ReadTables(ctx, path, page)
	if err != nil {
		return nil, fmt.Errorf("read tables: %w", err)
	}
	if len(tables) == 0 {
		return nil, &NoTableFoundError{Page: page}
	}

	zerolog.Ctx(ctx).Debug().
		Int("tables", len(tables)).
		Int("rows", tables[0].NumRows()).
		Int("cols", tables[0].NumCols()).
		Msg("using first table")

	return Build(ctx, tables[0], rules)
}

// Run extracts the document and writes it to outPath. Nothing is written
// when extraction fails.
func Run(ctx context.Context, src parser.Source, path string, page int, outPath string, rules Rules) (*Document, error) {
	doc, err := Extract(ctx, src, path, page, rules)
	if err != nil {
		return nil, err
	}
	if err := WriteFile(outPath, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
