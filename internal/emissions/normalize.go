package emissions

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

// fullwidthNumeric covers the full-width comma and digits ０-９.
var fullwidthNumeric = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0xFF0C, Hi: 0xFF0C, Stride: 1},
		{Lo: 0xFF10, Hi: 0xFF19, Stride: 1},
	},
}

var (
	groupedNumber = regexp.MustCompile(`^[-+]?[0-9]{1,3}(,[0-9]{3})+(\.[0-9]+)?$`)
	fourDigits    = regexp.MustCompile(`[0-9]{4}`)
)

// Clean normalizes extracted cell text: all whitespace, including line
// breaks and the ideographic space, is removed, and full-width digits and
// commas become ASCII. Other full-width characters are kept.
func Clean(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	t := runes.If(runes.In(fullwidthNumeric), width.Narrow, nil)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// parseEmission converts a cell to an integer value. Anything that is not a
// finite number becomes 0; fractions are truncated toward zero.
//
// Well-formed thousands grouping is accepted: "1,234" is 1234, not 0.
// This is the form Clean produces from "１，２３４".
func parseEmission(s string) int {
	if groupedNumber.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0
	}
	return int(f)
}

// parseYear returns the first run of four digits in label.
func parseYear(label string) (int, bool) {
	m := fourDigits.FindString(label)
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return y, true
}
