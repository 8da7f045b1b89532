package parser

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog"
	"github.com/tsawler/tabula/core"
	"github.com/tsawler/tabula/graphicsstate"
	tmodel "github.com/tsawler/tabula/model"
	"github.com/tsawler/tabula/pages"
	"github.com/tsawler/tabula/reader"
	"github.com/tsawler/tabula/tables"
	"github.com/tsawler/tabula/text"
)

// Lattice extracts tables whose cells are bounded by drawn ruling lines.
type Lattice struct {
	// AlignmentTolerance is the distance in points within which ruling
	// lines are treated as the same grid line.
	AlignmentTolerance float64

	// MinLineLength drops ruling segments shorter than this (points).
	MinLineLength float64

	// RuleThickness is the largest rectangle side (points) that is read as
	// a single ruling line instead of four cell edges.
	RuleThickness float64

	// Config is the pdfcpu configuration used for validation.
	Config *model.Configuration
}

// NewLattice returns a Lattice with defaults suited to ruled report tables.
func NewLattice() *Lattice {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	return &Lattice{
		AlignmentTolerance: 3.0,
		MinLineLength:      10.0,
		RuleThickness:      2.0,
		Config:             conf,
	}
}

// ReadTables returns the lattice tables found on the 1-based page, largest first.
// A page without ruling grids yields no tables and no error.
func (l *Lattice) ReadTables(ctx context.Context, path string, page int) ([]Table, error) {
	logger := zerolog.Ctx(ctx)

	count, err := pageCount(path, l.Config)
	if err != nil {
		return nil, err
	}
	if err := checkPage(page, count); err != nil {
		return nil, err
	}

	r, err := reader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	p, err := r.GetPage(page - 1)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", page, err)
	}

	content, err := contentBytes(p)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", page, err)
	}

	ge := graphicsstate.NewGraphicsExtractor()
	ge.MinLineLength = l.MinLineLength
	if err := ge.ExtractFromBytes(content); err != nil {
		return nil, fmt.Errorf("page %d graphics: %w", page, err)
	}

	horizontals, verticals := l.rulings(ge)
	logger.Debug().
		Int("page", page).
		Int("horizontal", len(horizontals)).
		Int("vertical", len(verticals)).
		Msg("ruling lines")

	gd := tables.NewGridDetector()
	gd.AlignmentTolerance = l.AlignmentTolerance
	gd.MinLineLength = l.MinLineLength
	grids := gd.DetectFromLines(horizontals, verticals)
	if len(grids) == 0 {
		return nil, nil
	}

	sort.SliceStable(grids, func(i, j int) bool {
		return area(grids[i].BBox) > area(grids[j].BBox)
	})

	fragments, err := r.ExtractTextFragments(p)
	if err != nil {
		return nil, fmt.Errorf("page %d text: %w", page, err)
	}

	var out []Table
	for _, g := range grids {
		if g.Rows < 1 || g.Cols < 1 {
			continue
		}
		out = append(out, assignCells(page, g.HorizontalLines, g.VerticalLines, fragments))
	}
	logger.Debug().Int("page", page).Int("tables", len(out)).Msg("lattice tables")
	return out, nil
}

// contentBytes decodes and concatenates the page's content streams.
func contentBytes(p *pages.Page) ([]byte, error) {
	contents, err := p.Contents()
	if err != nil {
		return nil, fmt.Errorf("contents: %w", err)
	}

	var data []byte
	for _, obj := range contents {
		stream, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		b, err := stream.Decode()
		if err != nil {
			return nil, fmt.Errorf("decode content stream: %w", err)
		}
		data = append(data, b...)
		data = append(data, '\n')
	}
	return data, nil
}

// rulings collects the stroked ruling lines and the edges of drawn rectangles.
func (l *Lattice) rulings(ge *graphicsstate.GraphicsExtractor) (horizontals, verticals []graphicsstate.ExtractedLine) {
	grid := ge.GetGridLines()
	horizontals = append(horizontals, grid.Horizontals...)
	verticals = append(verticals, grid.Verticals...)

	for _, rect := range ge.GetRectangles() {
		h, v := rectEdges(rect.BBox, l.RuleThickness)
		horizontals = append(horizontals, h...)
		verticals = append(verticals, v...)
	}
	return horizontals, verticals
}

// rectEdges splits a rectangle into ruling lines. A rectangle no thicker
// than thickness on one side is a single rule; one that small on both sides is dropped.
func rectEdges(b tmodel.BBox, thickness float64) (horizontals, verticals []graphicsstate.ExtractedLine) {
	left, right := b.X, b.X+b.Width
	bottom, top := b.Y, b.Y+b.Height

	switch {
	case b.Height <= thickness && b.Width <= thickness:
		return nil, nil
	case b.Height <= thickness:
		mid := bottom + b.Height/2
		return []graphicsstate.ExtractedLine{hline(left, right, mid)}, nil
	case b.Width <= thickness:
		mid := left + b.Width/2
		return nil, []graphicsstate.ExtractedLine{vline(bottom, top, mid)}
	}

	horizontals = []graphicsstate.ExtractedLine{hline(left, right, bottom), hline(left, right, top)}
	verticals = []graphicsstate.ExtractedLine{vline(bottom, top, left), vline(bottom, top, right)}
	return horizontals, verticals
}

func hline(x0, x1, y float64) graphicsstate.ExtractedLine {
	return graphicsstate.ExtractedLine{
		Start:        tmodel.Point{X: x0, Y: y},
		End:          tmodel.Point{X: x1, Y: y},
		IsHorizontal: true,
		BBox:         tmodel.BBox{X: x0, Y: y, Width: x1 - x0},
	}
}

func vline(y0, y1, x float64) graphicsstate.ExtractedLine {
	return graphicsstate.ExtractedLine{
		Start:      tmodel.Point{X: x, Y: y0},
		End:        tmodel.Point{X: x, Y: y1},
		IsVertical: true,
		BBox:       tmodel.BBox{X: x, Y: y0, Height: y1 - y0},
	}
}

func area(b tmodel.BBox) float64 {
	return b.Width * b.Height
}

// assignCells places text fragments into the cells of a grid.
// rows holds horizontal line positions from top to bottom (descending Y),
// cols holds vertical line positions from left to right.
func assignCells(page int, rows, cols []float64, fragments []text.TextFragment) Table {
	nRows, nCols := len(rows)-1, len(cols)-1
	if nRows < 1 || nCols < 1 {
		return Table{Page: page}
	}

	buckets := make([][][]text.TextFragment, nRows)
	for i := range buckets {
		buckets[i] = make([][]text.TextFragment, nCols)
	}

	for _, f := range fragments {
		if strings.TrimSpace(f.Text) == "" {
			continue
		}
		cx := f.X + f.Width/2
		cy := f.Y + f.Height/3
		r := rowIndex(rows, cy)
		c := colIndex(cols, cx)
		if r < 0 || c < 0 {
			continue
		}
		buckets[r][c] = append(buckets[r][c], f)
	}

	t := Table{Page: page, Rows: make([][]string, nRows)}
	for i := range buckets {
		t.Rows[i] = make([]string, nCols)
		for j := range buckets[i] {
			t.Rows[i][j] = joinFragments(buckets[i][j])
		}
	}
	return t
}

func rowIndex(rows []float64, y float64) int {
	for i := 0; i+1 < len(rows); i++ {
		if y <= rows[i] && y > rows[i+1] {
			return i
		}
	}
	return -1
}

func colIndex(cols []float64, x float64) int {
	for i := 0; i+1 < len(cols); i++ {
		if x >= cols[i] && x < cols[i+1] {
			return i
		}
	}
	return -1
}

// joinFragments orders fragments top to bottom, then left to right.
// Fragments on different baselines are separated by a newline.
func joinFragments(frags []text.TextFragment) string {
	if len(frags) == 0 {
		return ""
	}

	sorted := make([]text.TextFragment, len(frags))
	copy(sorted, frags)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sameLine(sorted[i], sorted[j]) {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y > sorted[j].Y
	})

	var b strings.Builder
	b.WriteString(sorted[0].Text)
	for i := 1; i < len(sorted); i++ {
		if !sameLine(sorted[i-1], sorted[i]) {
			b.WriteByte('\n')
		}
		b.WriteString(sorted[i].Text)
	}
	return b.String()
}

func sameLine(a, b text.TextFragment) bool {
	tol := math.Max(math.Min(a.Height, b.Height)/2, 1)
	return math.Abs(a.Y-b.Y) <= tol
}
