package emissions

import (
	"fmt"
	"strings"

	"github.com/ZazaRy/co2report/internal/parser"
)

// SectorLabel is the column label given to the sector column.
const SectorLabel = "sector"

// grid is a cleaned, rectangular copy of a raw table.
type grid [][]string

func cleanTable(t parser.Table) grid {
	w := t.NumCols()
	g := make(grid, t.NumRows())
	for i := range g {
		g[i] = make([]string, w)
		for j := 0; j < w; j++ {
			g[i][j] = Clean(t.Cell(i, j))
		}
	}
	return g
}

// headerRow returns the first row with more than threshold cells containing marker.
func (g grid) headerRow(marker string, threshold int) (int, bool) {
	for i, row := range g {
		n := 0
		for _, cell := range row {
			if strings.Contains(cell, marker) {
				n++
			}
		}
		if n > threshold {
			return i, true
		}
	}
	return -1, false
}

// sectorColumn returns the first column with any cell containing one of patterns.
func (g grid) sectorColumn(patterns []string) (int, bool) {
	if len(g) == 0 {
		return -1, false
	}
	for c := range g[0] {
		for _, row := range g {
			if containsAny(row[c], patterns) {
				return c, true
			}
		}
	}
	return -1, false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// columnLabels names each column from the header row. Blank headers get
// _blank_1, _blank_2, ... in order; other headers are kept verbatim, so
// duplicates are possible.
func columnLabels(header []string, sectorCol int) []string {
	labels := make([]string, len(header))
	blanks := 0
	for i, h := range header {
		switch {
		case i == sectorCol:
			labels[i] = SectorLabel
		case strings.TrimSpace(h) == "":
			blanks++
			labels[i] = fmt.Sprintf("_blank_%d", blanks)
		default:
			labels[i] = h
		}
	}
	return labels
}

// record is one data row keyed by column label. When labels repeat, the
// rightmost column wins.
type record struct {
	sector string
	values map[string]string
}

func buildRecords(rows grid, labels []string, sectorCol int, rules Rules) []record {
	var out []record
	for _, row := range rows {
		sector := row[sectorCol]
		if rules.SectorSuffix != "" {
			sector = strings.ReplaceAll(sector, rules.SectorSuffix, "")
		}
		if !rules.isTarget(sector) {
			continue
		}

		values := make(map[string]string, len(labels))
		for i, label := range labels {
			values[label] = row[i]
		}
		values[SectorLabel] = sector
		out = append(out, record{sector: sector, values: values})
	}
	return out
}

// yearLabels returns the distinct labels containing marker, in column order.
func yearLabels(labels []string, marker string) []string {
	seen := make(map[string]bool, len(labels))
	var out []string
	for _, l := range labels {
		if l == SectorLabel || seen[l] || !strings.Contains(l, marker) {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
