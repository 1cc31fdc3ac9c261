package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/treasury-ledger/treasury/internal/categories"
	"github.com/treasury-ledger/treasury/internal/report"
	"github.com/treasury-ledger/treasury/internal/slot"
)

// FileName is the config file kept at the root of a data directory.
const FileName = "treasury.yaml"

// Config represents the top-level treasury.yaml configuration.
type Config struct {
	Organization OrganizationConfig `yaml:"organization"`
	Currency     CurrencyConfig     `yaml:"currency"`
	Storage      StorageConfig      `yaml:"storage"`
	Categories   CategoriesConfig   `yaml:"categories"`
	Format       FormatConfig       `yaml:"format"`
	Export       ExportConfig       `yaml:"export"`
	Log          LogConfig          `yaml:"log"`
}

// OrganizationConfig names who keeps the ledger.
type OrganizationConfig struct {
	Name string `yaml:"name"`
}

// CurrencyConfig controls how money is rendered.
type CurrencyConfig struct {
	Symbol string `yaml:"symbol"`
}

// StorageConfig selects where the ledger slot lives.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "file" or "sqlite"
	Slot    string `yaml:"slot"`
}

// CategoriesConfig lists the allowed categories per kind. The first is the default.
type CategoriesConfig struct {
	Income  []string `yaml:"income"`
	Expense []string `yaml:"expense"`
}

// FormatConfig controls dates and month names.
type FormatConfig struct {
	DateLayout string   `yaml:"date_layout"` // Go time layout for transaction dates
	MonthNames []string `yaml:"month_names"`
}

// ExportConfig names exported files.
type ExportConfig struct {
	ReportPrefix string `yaml:"report_prefix"`
	BackupPrefix string `yaml:"backup_prefix"`
}

// LogConfig controls diagnostics output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "human" or "json"
}

// Load reads a treasury.yaml file from disk. Keys the file omits keep their
// Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, falling back to Default("") when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(""), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default(orgName string) *Config {
	return &Config{
		Organization: OrganizationConfig{
			Name: orgName,
		},
		Currency: CurrencyConfig{
			Symbol: "Q",
		},
		Storage: StorageConfig{
			Backend: slot.BackendFile,
			Slot:    "treasury-data",
		},
		Categories: CategoriesConfig{
			Income:  categories.DefaultIncome(),
			Expense: categories.DefaultExpense(),
		},
		Format: FormatConfig{
			DateLayout: "2/1/2006",
			MonthNames: report.DefaultMonthNames(),
		},
		Export: ExportConfig{
			ReportPrefix: "Reporte",
			BackupPrefix: "Respaldo_Tesoreria",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "human",
		},
	}
}

// LoadDotEnv loads <dir>/.env into the process environment. Variables already
// set win. A missing file is not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from TREASURY_* environment variables.
func (c *Config) ApplyEnv() {
	c.Storage.Backend = getEnv("TREASURY_STORAGE_BACKEND", c.Storage.Backend)
	c.Storage.Slot = getEnv("TREASURY_STORAGE_SLOT", c.Storage.Slot)
	c.Currency.Symbol = getEnv("TREASURY_CURRENCY", c.Currency.Symbol)
	c.Format.DateLayout = getEnv("TREASURY_DATE_LAYOUT", c.Format.DateLayout)
	c.Log.Level = getEnv("TREASURY_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("TREASURY_LOG_FORMAT", c.Log.Format)
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var problems []string

	backends := []string{slot.BackendFile, slot.BackendSQLite}
	if !slices.Contains(backends, c.Storage.Backend) {
		problems = append(problems, fmt.Sprintf("invalid storage backend %q: must be one of %v", c.Storage.Backend, backends))
	}
	if strings.TrimSpace(c.Storage.Slot) == "" {
		problems = append(problems, "storage slot name cannot be empty")
	}
	if len(c.Categories.Income) == 0 {
		problems = append(problems, "at least one income category is required")
	}
	if len(c.Categories.Expense) == 0 {
		problems = append(problems, "at least one expense category is required")
	}
	if n := len(c.Format.MonthNames); n != 0 && n != 12 {
		problems = append(problems, fmt.Sprintf("month_names must list 12 months, got %d", n))
	}
	if c.Format.DateLayout == "" {
		problems = append(problems, "date_layout cannot be empty")
	}
	if c.Log.Format != "" && c.Log.Format != "human" && c.Log.Format != "json" {
		problems = append(problems, fmt.Sprintf("invalid log format %q: must be human or json", c.Log.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Labels returns the report labels with this config's currency, prefix and month names.
func (c *Config) Labels() report.Labels {
	l := report.DefaultLabels()
	if c.Currency.Symbol != "" {
		l.Currency = c.Currency.Symbol
	}
	if c.Export.ReportPrefix != "" {
		l.FilePrefix = c.Export.ReportPrefix
	}
	if len(c.Format.MonthNames) == 12 {
		l.MonthNames = c.Format.MonthNames
	}
	return l
}
