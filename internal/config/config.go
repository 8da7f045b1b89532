// Package config holds the runtime configuration for extraction and serving.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ZazaRy/co2report/internal/emissions"
)

// EnvPrefix is the prefix of environment variables overriding config keys,
// e.g. CO2REPORT_SOURCE_PAGE.
const EnvPrefix = "CO2REPORT"

// SourceConfig locates the report page to extract.
type SourceConfig struct {
	PDFPath string `mapstructure:"pdf_path"`
	// Page is 1-based.
	Page int `mapstructure:"page"`
}

// OutputConfig locates the generated JSON document.
type OutputConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig holds settings for the HTTP server.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	DataPath        string        `mapstructure:"data_path"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Config groups all settings.
type Config struct {
	Source SourceConfig    `mapstructure:"source"`
	Output OutputConfig    `mapstructure:"output"`
	Server ServerConfig    `mapstructure:"server"`
	Rules  emissions.Rules `mapstructure:"rules"`
	Log    LogConfig       `mapstructure:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Source: SourceConfig{
			PDFPath: "data/2024/reports/02_2022_report_material.pdf",
			Page:    3,
		},
		Output: OutputConfig{Path: "data/co2_emissions.json"},
		Server: ServerConfig{
			Addr:            ":5000",
			DataPath:        "data/co2_emissions.json",
			ShutdownTimeout: 10 * time.Second,
		},
		Rules: emissions.DefaultRules(),
		Log:   LogConfig{Level: "info"},
	}
}

// NewViper returns a viper instance with every key defaulted and
// environment overrides enabled.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers every field of c as a viper default.
func SetDefaults(v *viper.Viper, c Config) {
	v.SetDefault("source.pdf_path", c.Source.PDFPath)
	v.SetDefault("source.page", c.Source.Page)
	v.SetDefault("output.path", c.Output.Path)
	v.SetDefault("server.addr", c.Server.Addr)
	v.SetDefault("server.data_path", c.Server.DataPath)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
	v.SetDefault("rules.year_marker", c.Rules.YearMarker)
	v.SetDefault("rules.header_year_threshold", c.Rules.HeaderYearThreshold)
	v.SetDefault("rules.sector_patterns", c.Rules.SectorPatterns)
	v.SetDefault("rules.sector_suffix", c.Rules.SectorSuffix)
	v.SetDefault("rules.target_sectors", c.Rules.TargetSectors)
	v.SetDefault("rules.unit", c.Rules.Unit)
	v.SetDefault("rules.citation", c.Rules.Citation)
	v.SetDefault("log.level", c.Log.Level)
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Source.PDFPath == "" {
		errs = append(errs, errors.New("source.pdf_path is empty"))
	}
	if c.Source.Page < 1 {
		errs = append(errs, fmt.Errorf("source.page must be at least 1, got %d", c.Source.Page))
	}
	if c.Output.Path == "" {
		errs = append(errs, errors.New("output.path is empty"))
	}
	if c.Server.DataPath == "" {
		errs = append(errs, errors.New("server.data_path is empty"))
	}
	if c.Rules.YearMarker == "" {
		errs = append(errs, errors.New("rules.year_marker is empty"))
	}
	if c.Rules.HeaderYearThreshold < 0 {
		errs = append(errs, fmt.Errorf("rules.header_year_threshold must not be negative, got %d", c.Rules.HeaderYearThreshold))
	}
	if len(c.Rules.SectorPatterns) == 0 {
		errs = append(errs, errors.New("rules.sector_patterns is empty"))
	}
	if len(c.Rules.TargetSectors) == 0 {
		errs = append(errs, errors.New("rules.target_sectors is empty"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
