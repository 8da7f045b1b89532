// Package parser turns a page of a PDF report into raw text tables.
package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrPageOutOfRange is returned when the requested page does not exist in the document.
var ErrPageOutOfRange = errors.New("page out of range")

// Table is a grid of cell text extracted from a single page.
// Cells are free text; empty cells are empty strings.
type Table struct {
	Page int
	Rows [][]string
}

// NumRows returns the number of rows in the table.
func (t Table) NumRows() int {
	return len(t.Rows)
}

// NumCols returns the width of the widest row.
func (t Table) NumCols() int {
	n := 0
	for _, row := range t.Rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// Cell returns the text at row r, column c, or "" when the cell does not exist.
func (t Table) Cell(r, c int) string {
	if r < 0 || r >= len(t.Rows) || c < 0 || c >= len(t.Rows[r]) {
		return ""
	}
	return t.Rows[r][c]
}

// Source reads the tables on one page of a PDF file.
type Source interface {
	ReadTables(ctx context.Context, path string, page int) ([]Table, error)
}

// pageCount validates the file and returns its number of pages.
func pageCount(path string, conf *model.Configuration) (int, error) {
	if err := api.ValidateFile(path, conf); err != nil {
		return 0, fmt.Errorf("validate %s: %w", path, err)
	}

	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("count pages of %s: %w", path, err)
	}
	return n, nil
}

func checkPage(page, count int) error {
	if page < 1 || page > count {
		return fmt.Errorf("%w: page %d, document has %d", ErrPageOutOfRange, page, count)
	}
	return nil
}
