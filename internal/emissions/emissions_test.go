package emissions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZazaRy/co2report/internal/parser"
)

func sampleTable() parser.Table {
	return parser.Table{
		Page: 3,
		Rows: [][]string{
			{"表１ 部門別 CO2 排出量", "", "", "", "", "", ""},
			{"部門", "", "2013\n年度", "2019年度", "2020年度", "2021年度", "2022 年度"},
			{"エネルギー転換部門", "", "１，２３４", "900", "850", "800", "780"},
			{"産業部門", "", "3,000", "2,500", "2,400", "2,300", "2,200"},
			{"民生（家庭）\n部門", "", "1000", "950", "-", "", "abc"},
			{"民生（業務）部門", "", "800", "700", "650", "640", "630"},
			{"運輸部門", "", "600", "550", "500", "480", "470.9"},
			{"廃棄物部門", "", "50", "45", "40", "38", "36"},
			{"合計", "", "6,684", "5,645", "4,440", "4,258", "4,116"},
			{"その他", "", "1", "1", "1", "1", "1"},
		},
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "１，２３４", want: "1,234"},
		{in: "産業\n部門", want: "産業部門"},
		{in: " 2013 年度 ", want: "2013年度"},
		{in: "民生（家庭）", want: "民生（家庭）"},
		{in: "　運輸\t", want: "運輸"},
		{in: "２０２２年度", want: "2022年度"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestParseEmission(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{in: "1234", want: 1234},
		{in: "1,234", want: 1234},
		{in: "12,345,678", want: 12345678},
		{in: "12.7", want: 12},
		{in: "-5", want: -5},
		{in: "", want: 0},
		{in: "-", want: 0},
		{in: "abc", want: 0},
		{in: "NaN", want: 0},
		{in: "inf", want: 0},
		{in: "1,23", want: 0},
		{in: "▲12", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseEmission(tt.in))
		})
	}
}

func TestParseYear(t *testing.T) {
	y, ok := parseYear("2013年度")
	require.True(t, ok)
	assert.Equal(t, 2013, y)

	y, ok = parseYear("令和4年度(2022)")
	require.True(t, ok)
	assert.Equal(t, 2022, y)

	_, ok = parseYear("基準年度")
	assert.False(t, ok)
}

func TestColumnLabels(t *testing.T) {
	labels := columnLabels([]string{"", "部門", "", "2013年度", " ", "2013年度"}, 1)
	assert.Equal(t, []string{"_blank_1", "sector", "_blank_2", "2013年度", "_blank_3", "2013年度"}, labels)
}

func TestBuild(t *testing.T) {
	rules := DefaultRules()
	doc, err := Build(context.Background(), sampleTable(), rules)
	require.NoError(t, err)

	assert.Equal(t, rules.Citation, doc.Citation)
	require.Len(t, doc.Data, 5)

	var years []int
	for _, e := range doc.Data {
		years = append(years, e.Year)
	}
	assert.Equal(t, []int{2022, 2021, 2020, 2019, 2013}, years)

	base := doc.Data[4]
	assert.Equal(t, "千t-CO2", base.Unit)
	assert.Equal(t, []Breakdown{
		{Sector: "エネルギー転換", Emission: 1234},
		{Sector: "産業", Emission: 3000},
		{Sector: "民生（家庭）", Emission: 1000},
		{Sector: "民生（業務）", Emission: 800},
		{Sector: "運輸", Emission: 600},
		{Sector: "廃棄物", Emission: 50},
	}, base.Breakdown)
	assert.Equal(t, 6684, base.TotalEmission)

	latest := doc.Data[0]
	assert.Equal(t, 2022, latest.Year)
	assert.Equal(t, 0, latest.Breakdown[2].Emission, "malformed cell coerces to zero")
	assert.Equal(t, 470, latest.Breakdown[4].Emission)
}

func TestBuildInvariants(t *testing.T) {
	rules := DefaultRules()
	doc, err := Build(context.Background(), sampleTable(), rules)
	require.NoError(t, err)

	whitelist := make(map[string]bool)
	for _, s := range rules.TargetSectors {
		whitelist[s] = true
	}

	for i, e := range doc.Data {
		sum := 0
		for _, b := range e.Breakdown {
			sum += b.Emission
			assert.True(t, whitelist[b.Sector], "sector %q not in whitelist", b.Sector)
		}
		assert.Equal(t, sum, e.TotalEmission, "year %d", e.Year)
		if i > 0 {
			assert.Greater(t, doc.Data[i-1].Year, e.Year)
		}
	}
}

func TestBuildStripsSectorSuffix(t *testing.T) {
	table := parser.Table{Rows: [][]string{
		{"部門", "2018年度", "2019年度", "2020年度", "2021年度", "2022年度"},
		{"産業部門", "10", "20", "30", "40", "50"},
	}}

	doc, err := Build(context.Background(), table, DefaultRules())
	require.NoError(t, err)
	require.Len(t, doc.Data, 5)
	for _, e := range doc.Data {
		require.Len(t, e.Breakdown, 1)
		assert.Equal(t, "産業", e.Breakdown[0].Sector)
	}
	assert.Equal(t, 50, doc.Data[0].TotalEmission)
}

func TestBuildShadowsDuplicateLabels(t *testing.T) {
	table := parser.Table{Rows: [][]string{
		{"部門", "2019年度", "2020年度", "2021年度", "2022年度", "2022年度"},
		{"運輸部門", "1", "2", "3", "4", "99"},
	}}

	doc, err := Build(context.Background(), table, DefaultRules())
	require.NoError(t, err)
	require.Len(t, doc.Data, 4)
	assert.Equal(t, 2022, doc.Data[0].Year)
	assert.Equal(t, 99, doc.Data[0].TotalEmission)
}

func TestBuildSkipsYearLabelWithoutDigits(t *testing.T) {
	table := parser.Table{Rows: [][]string{
		{"部門", "基準年度", "2020年度", "2021年度", "2022年度"},
		{"廃棄物部門", "5", "6", "7", "8"},
	}}

	doc, err := Build(context.Background(), table, DefaultRules())
	require.NoError(t, err)
	require.Len(t, doc.Data, 3)
	assert.Equal(t, 2020, doc.Data[2].Year)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		rows   [][]string
		target any
	}{
		{
			name: "header needs more than three year cells",
			rows: [][]string{
				{"部門", "2020年度", "2021年度", "2022年度"},
				{"産業部門", "1", "2", "3"},
			},
			target: new(*HeaderNotFoundError),
		},
		{
			name: "no sector column",
			rows: [][]string{
				{"区分", "2019年度", "2020年度", "2021年度", "2022年度"},
				{"合計", "1", "2", "3", "4"},
			},
			target: new(*SectorColumnNotFoundError),
		},
		{
			name: "no whitelisted rows",
			rows: [][]string{
				{"部門", "2019年度", "2020年度", "2021年度", "2022年度"},
				{"産業部門（製造業）", "1", "2", "3", "4"},
				{"民生部門", "1", "2", "3", "4"},
			},
			target: new(*EmptyResultError),
		},
		{
			name: "two columns for one year",
			rows: [][]string{
				{"部門", "2019年度", "2020年度", "2022年度", "2022年度(速報)"},
				{"運輸部門", "1", "2", "3", "4"},
			},
			target: new(*DuplicateYearError),
		},
		{
			name:   "empty table",
			rows:   nil,
			target: new(*HeaderNotFoundError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Build(context.Background(), parser.Table{Rows: tt.rows}, DefaultRules())
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, ErrStructure)
			assert.True(t, errors.As(err, tt.target), "got %T", err)
		})
	}
}

func TestErrorMessagesNameTheMissingElement(t *testing.T) {
	assert.Contains(t, (&NoTableFoundError{Page: 3}).Error(), "page 3")
	assert.Contains(t, (&HeaderNotFoundError{Marker: "年度", Threshold: 3}).Error(), "年度")
	assert.Contains(t, (&SectorColumnNotFoundError{Patterns: []string{"産業", "運輸"}}).Error(), "産業|運輸")
	assert.Contains(t, (&EmptyResultError{Sectors: []string{"運輸"}}).Error(), "運輸")
	assert.Contains(t, (&DuplicateYearError{Year: 2022, Labels: [2]string{"a", "b"}}).Error(), "2022")
}
