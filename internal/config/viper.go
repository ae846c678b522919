// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/osp-migrate/internal/dateutils"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable override, e.g. OSPMIG_INPUT_DIR.
const EnvPrefix = "OSPMIG"

// Supported input encodings.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Input struct {
		Dir         string `mapstructure:"dir" yaml:"dir"`
		Subawards   string `mapstructure:"subawards" yaml:"subawards"`
		Invoices    string `mapstructure:"invoices" yaml:"invoices"`
		ZFR1D       string `mapstructure:"zfr1d" yaml:"zfr1d"`
		Countries   string `mapstructure:"countries" yaml:"countries"`
		BudgetDiffs string `mapstructure:"budget_diffs" yaml:"budget_diffs"`
		Include     string `mapstructure:"include" yaml:"include"`
		Exclude     string `mapstructure:"exclude" yaml:"exclude"`
		Delimiter   string `mapstructure:"delimiter" yaml:"delimiter"`
		Encoding    string `mapstructure:"encoding" yaml:"encoding"`
	} `mapstructure:"input" yaml:"input"`

	Output struct {
		Dir             string `mapstructure:"dir" yaml:"dir"`
		Subawards       string `mapstructure:"subawards" yaml:"subawards"`
		SubawardDetails string `mapstructure:"subaward_details" yaml:"subaward_details"`
		Invoices        string `mapstructure:"invoices" yaml:"invoices"`
		InvoiceDetails  string `mapstructure:"invoice_details" yaml:"invoice_details"`
		Log             string `mapstructure:"log" yaml:"log"`
		IncludeState    bool   `mapstructure:"include_state" yaml:"include_state"`
	} `mapstructure:"output" yaml:"output"`

	Rules struct {
		FiscalYear     int    `mapstructure:"fiscal_year" yaml:"fiscal_year"`
		ActivityCutoff string `mapstructure:"activity_cutoff" yaml:"activity_cutoff"`
		MinDate        string `mapstructure:"min_date" yaml:"min_date"`
		MaxDate        string `mapstructure:"max_date" yaml:"max_date"`
		ChartFile      string `mapstructure:"chart_file" yaml:"chart_file"`
	} `mapstructure:"rules" yaml:"rules"`

	Invoices struct {
		DropZeroTotal bool `mapstructure:"drop_zero_total" yaml:"drop_zero_total"`
	} `mapstructure:"invoices" yaml:"invoices"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return InitializeConfigFromFile("")
}

// InitializeConfigFromFile is InitializeConfig with an explicit config file.
// An empty path searches the default locations.
func InitializeConfigFromFile(path string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.osp-migrate")
		v.AddConfigPath(".osp-migrate")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("input.dir", ".")
	v.SetDefault("input.subawards", "input_subs.txt")
	v.SetDefault("input.invoices", "input_invs.txt")
	v.SetDefault("input.zfr1d", "input_zfr1d.txt")
	v.SetDefault("input.countries", "input_subs_countries.txt")
	v.SetDefault("input.budget_diffs", "input_budget_diffs.txt")
	v.SetDefault("input.include", "subs_include.txt")
	v.SetDefault("input.exclude", "subs_exclude.txt")
	v.SetDefault("input.delimiter", "|")
	v.SetDefault("input.encoding", EncodingUTF8)

	v.SetDefault("output.dir", ".")
	v.SetDefault("output.subawards", "output_subs.txt")
	v.SetDefault("output.subaward_details", "output_subs_details.txt")
	v.SetDefault("output.invoices", "output_invs.txt")
	v.SetDefault("output.invoice_details", "output_invs_details.txt")
	v.SetDefault("output.log", "log.txt")
	v.SetDefault("output.include_state", false)

	v.SetDefault("rules.fiscal_year", 2017)
	v.SetDefault("rules.activity_cutoff", "2015-07-01")
	v.SetDefault("rules.min_date", "1980-01-01")
	v.SetDefault("rules.max_date", "2040-12-31")
	v.SetDefault("rules.chart_file", "")

	v.SetDefault("invoices.drop_zero_total", false)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len([]rune(config.Input.Delimiter)) != 1 {
		return fmt.Errorf("input delimiter must be a single character, got: %q", config.Input.Delimiter)
	}

	switch strings.ToLower(config.Input.Encoding) {
	case EncodingUTF8, EncodingWindows1252:
	default:
		return fmt.Errorf("input.encoding must be '%s' or '%s', got: %s",
			EncodingUTF8, EncodingWindows1252, config.Input.Encoding)
	}

	if config.Rules.FiscalYear < 1900 || config.Rules.FiscalYear > 9999 {
		return fmt.Errorf("rules.fiscal_year out of range: %d", config.Rules.FiscalYear)
	}

	for key, value := range map[string]string{
		"rules.activity_cutoff": config.Rules.ActivityCutoff,
		"rules.min_date":        config.Rules.MinDate,
		"rules.max_date":        config.Rules.MaxDate,
	} {
		if _, err := dateutils.ParseISO(value); err != nil {
			return fmt.Errorf("%s must be YYYY-MM-DD: %w", key, err)
		}
	}

	window, _ := config.DateWindow()
	if window.Max.Before(window.Min) {
		return fmt.Errorf("rules.max_date %s is before rules.min_date %s", config.Rules.MaxDate, config.Rules.MinDate)
	}

	return nil
}

// Delimiter returns the input field delimiter.
func (c *Config) Delimiter() string {
	return c.Input.Delimiter
}

// ActivityCutoff is the date before which a subaward's last period makes it inactive.
func (c *Config) ActivityCutoff() (time.Time, error) {
	return dateutils.ParseISO(c.Rules.ActivityCutoff)
}

// DateWindow returns the configured reasonable-date window.
func (c *Config) DateWindow() (dateutils.Window, error) {
	lo, err := dateutils.ParseISO(c.Rules.MinDate)
	if err != nil {
		return dateutils.Window{}, err
	}
	hi, err := dateutils.ParseISO(c.Rules.MaxDate)
	if err != nil {
		return dateutils.Window{}, err
	}
	return dateutils.Window{Min: lo, Max: hi}, nil
}

// InputPath resolves an input file name against input.dir.
func (c *Config) InputPath(name string) string {
	return resolve(c.Input.Dir, name)
}

// OutputPath resolves an output file name against output.dir.
func (c *Config) OutputPath(name string) string {
	return resolve(c.Output.Dir, name)
}

func resolve(dir, name string) string {
	if name == "" || filepath.IsAbs(name) || dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}
