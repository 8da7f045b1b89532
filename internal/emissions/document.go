package emissions

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/ZazaRy/co2report/internal/parser"
)

// Breakdown is one sector's emission in a given year.
type Breakdown struct {
	Sector   string `json:"sector"`
	Emission int    `json:"emission"`
}

// YearEntry holds the emissions of one fiscal year.
// TotalEmission is always the sum of the breakdown emissions.
type YearEntry struct {
	Year          int         `json:"year"`
	TotalEmission int         `json:"total_emission"`
	Unit          string      `json:"unit"`
	Breakdown     []Breakdown `json:"breakdown"`
}

// Document is the persisted output, with Data sorted by year, newest first.
type Document struct {
	Citation string      `json:"citation"`
	Data     []YearEntry `json:"data"`
}

// Build reshapes a raw table into a Document.
func Build(ctx context.Context, t parser.Table, rules Rules) (*Document, error) {
	g := cleanTable(t)

	headerIdx, ok := g.headerRow(rules.YearMarker, rules.HeaderYearThreshold)
	if !ok {
		return nil, &HeaderNotFoundError{Marker: rules.YearMarker, Threshold: rules.HeaderYearThreshold}
	}

	sectorCol, ok := g.sectorColumn(rules.SectorPatterns)
	if !ok {
		return nil, &SectorColumnNotFoundError{Patterns: rules.SectorPatterns}
	}

	labels := columnLabels(g[headerIdx], sectorCol)
	records := buildRecords(g[headerIdx+1:], labels, sectorCol, rules)
	if len(records) == 0 {
		return nil, &EmptyResultError{Sectors: rules.TargetSectors}
	}

	entries := make([]YearEntry, 0, len(labels))
	years := make(map[int]string)
	for _, label := range yearLabels(labels, rules.YearMarker) {
		year, ok := parseYear(label)
		if !ok {
			zerolog.Ctx(ctx).Warn().Str("label", label).Msg("year column without a four-digit year; skipping")
			continue
		}
		if prev, dup := years[year]; dup {
			return nil, &DuplicateYearError{Year: year, Labels: [2]string{prev, label}}
		}
		years[year] = label

		entries = append(entries, yearEntry(year, label, records, rules.Unit))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Year > entries[j].Year
	})

	return &Document{Citation: rules.Citation, Data: entries}, nil
}

func yearEntry(year int, label string, records []record, unit string) YearEntry {
	e := YearEntry{
		Year:      year,
		Unit:      unit,
		Breakdown: make([]Breakdown, 0, len(records)),
	}
	for _, r := range records {
		v := parseEmission(r.values[label])
		e.Breakdown = append(e.Breakdown, Breakdown{Sector: r.sector, Emission: v})
		e.TotalEmission += v
	}
	return e
}
