// Package emissions reshapes a raw emissions table into a per-year,
// per-sector JSON document.
package emissions

// Rules holds the layout heuristics and labels used to read one report format.
type Rules struct {
	// YearMarker is the substring identifying fiscal-year header cells.
	YearMarker string `mapstructure:"year_marker"`

	// HeaderYearThreshold is the number of year cells a row must exceed
	// to be taken as the header row.
	HeaderYearThreshold int `mapstructure:"header_year_threshold"`

	// SectorPatterns are substrings that identify the sector column.
	SectorPatterns []string `mapstructure:"sector_patterns"`

	// SectorSuffix is removed from sector cells before matching.
	SectorSuffix string `mapstructure:"sector_suffix"`

	// TargetSectors is the whitelist of sector names kept in the output.
	TargetSectors []string `mapstructure:"target_sectors"`

	Unit     string `mapstructure:"unit"`
	Citation string `mapstructure:"citation"`
}

// DefaultRules returns the rules for the municipal greenhouse-gas report layout.
func DefaultRules() Rules {
	return Rules{
		YearMarker:          "年度",
		HeaderYearThreshold: 3,
		SectorPatterns:      []string{"エネルギー転換", "産業", "民生", "運輸", "廃棄物"},
		SectorSuffix:        "部門",
		TargetSectors: []string{
			"エネルギー転換", "産業", "民生（家庭）",
			"民生（業務）", "運輸", "廃棄物",
		},
		Unit:     "千t-CO2",
		Citation: "出典：2022年度 温室効果ガス排出量の算定結果（報告資料 3ページ）",
	}
}

func (r Rules) isTarget(sector string) bool {
	for _, s := range r.TargetSectors {
		if s == sector {
			return true
		}
	}
	return false
}
