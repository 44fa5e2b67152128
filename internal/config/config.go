// Package config loads catalog-import settings from a YAML file and the environment.
//
// Values are resolved in order: built-in defaults, the YAML file (a missing file is
// fine), then environment variables named by `env` struct tags. The result is
// validated before use.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fivec-maps/catalog-import/internal/apperrors"
	"github.com/fivec-maps/catalog-import/internal/catalog"
	"github.com/fivec-maps/catalog-import/internal/logger"
	"github.com/fivec-maps/catalog-import/internal/reconcile"
	"github.com/fivec-maps/catalog-import/internal/scraper"
)

// DefaultPath is the config file read when none is given.
const DefaultPath = "catalog.yaml"

// Location is a seeded campus building.
type Location struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Category  string  `yaml:"category"`
}

// College selects the scraper strategy and seed locations for one college.
type College struct {
	Code      string     `yaml:"code"`
	Name      string     `yaml:"name"`
	Strategy  string     `yaml:"strategy"`
	Source    string     `yaml:"source"`
	Locations []Location `yaml:"locations"`
}

// Config structure represents the application configuration
type Config struct {
	Database struct {
		Driver string `yaml:"driver" env:"CATALOG_DB_DRIVER"`
		DSN    string `yaml:"dsn" env:"CATALOG_DB_DSN"`
	} `yaml:"database"`

	DataDir string `yaml:"data_dir" env:"CATALOG_DATA_DIR"`

	Scrape struct {
		TableClass   string        `yaml:"table_class" env:"CATALOG_TABLE_CLASS"`
		Delimiter    string        `yaml:"delimiter" env:"CATALOG_DELIMITER"`
		FetchTimeout time.Duration `yaml:"fetch_timeout" env:"CATALOG_FETCH_TIMEOUT"`
		UserAgent    string        `yaml:"user_agent" env:"CATALOG_USER_AGENT"`
		Retries      int           `yaml:"retries" env:"CATALOG_FETCH_RETRIES"`
	} `yaml:"scrape"`

	Reconcile struct {
		Mode string `yaml:"mode" env:"CATALOG_RECONCILE_MODE"`
	} `yaml:"reconcile"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Pretty bool   `yaml:"pretty" env:"LOG_PRETTY"`
	} `yaml:"logging"`

	Departments map[string]string `yaml:"departments"`
	Colleges    []College         `yaml:"colleges"`

	envOverrides []string
}

// Load loads configuration from path and environment variables.
func Load(path string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("%w: failed to parse config: %w", apperrors.ErrInvalidConfig, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	overrides, err := applyEnv(config)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load from environment: %w", apperrors.ErrInvalidConfig, err)
	}
	config.envOverrides = overrides

	if len(config.Departments) == 0 {
		config.Departments = make(map[string]string, len(catalog.DefaultDepartmentNames))
		for code, name := range catalog.DefaultDepartmentNames {
			config.Departments[code] = name
		}
	}
	if len(config.Colleges) == 0 {
		config.Colleges = defaultColleges()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Database.Driver = "sqlite"
	config.Database.DSN = "~/.local/share/catalog-import/catalog.db"

	config.DataDir = "~/.local/share/catalog-import"

	config.Scrape.TableClass = scraper.DefaultTableClass
	config.Scrape.Delimiter = scraper.DefaultDelimiter
	config.Scrape.FetchTimeout = scraper.Timeout
	config.Scrape.UserAgent = scraper.UserAgent
	config.Scrape.Retries = 2

	config.Reconcile.Mode = string(reconcile.DefaultMode)

	config.Logging.Level = "info"
}

// defaultColleges seeds Pomona's known buildings.
func defaultColleges() []College {
	return []College{
		{
			Code:     string(catalog.Pomona),
			Name:     "Pomona College",
			Strategy: scraper.StrategyTable,
			Locations: []Location{
				{Name: "Seaver North", Latitude: 34.0980, Longitude: -117.7070, Category: "academic"},
				{Name: "Edmunds Union", Latitude: 34.0975, Longitude: -117.7075, Category: "dining"},
				{Name: "Bridges Auditorium", Latitude: 34.0969, Longitude: -117.7073, Category: "academic"},
				{Name: "Frank Dining Hall", Latitude: 34.0975, Longitude: -117.7080, Category: "dining"},
			},
		},
	}
}

// Validate checks the configuration. Every error wraps apperrors.ErrInvalidConfig.
func (c *Config) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return invalid("database driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return invalid("database dsn is required")
	}

	if c.Scrape.TableClass == "" {
		return invalid("scrape table_class is required")
	}
	if strings.TrimSpace(c.Scrape.Delimiter) == "" {
		return invalid("scrape delimiter must contain a non-space character")
	}
	if c.Scrape.FetchTimeout <= 0 {
		return invalid("scrape fetch_timeout must be positive, got %s", c.Scrape.FetchTimeout)
	}

	if c.Scrape.Retries < 0 {
		return invalid("scrape retries must not be negative")
	}

	if _, err := reconcile.ParseMode(c.Reconcile.Mode); err != nil {
		return err
	}

	seen := make(map[string]bool)
	for _, college := range c.Colleges {
		code, ok := catalog.ParseCollegeCode(college.Code)
		if !ok {
			return invalid("unknown college code %q", college.Code)
		}
		if seen[string(code)] {
			return invalid("college %s configured twice", code)
		}
		seen[string(code)] = true

		switch college.Strategy {
		case "", scraper.StrategyTable, scraper.StrategyStatic:
		default:
			return invalid("college %s: unknown strategy %q", code, college.Strategy)
		}
	}

	return nil
}

// FetchTimeout returns the fetch timeout.
func (c *Config) FetchTimeout() time.Duration {
	if c.Scrape.FetchTimeout <= 0 {
		return scraper.Timeout
	}
	return c.Scrape.FetchTimeout
}

// EnvOverrides returns the environment variables that overrode file values.
func (c *Config) EnvOverrides() []string {
	return c.envOverrides
}

// Mode returns the reconcile mode.
func (c *Config) Mode() reconcile.Mode {
	mode, err := reconcile.ParseMode(c.Reconcile.Mode)
	if err != nil {
		return reconcile.DefaultMode
	}
	return mode
}

// DepartmentNames returns the department table.
func (c *Config) DepartmentNames() catalog.DepartmentNames {
	return catalog.DepartmentNames(c.Departments)
}

// ScraperOptions returns the extraction options.
func (c *Config) ScraperOptions() scraper.Options {
	return scraper.Options{
		TableClass:  c.Scrape.TableClass,
		Delimiter:   c.Scrape.Delimiter,
		Departments: c.DepartmentNames(),
	}
}

// Loader returns a page loader using the configured timeout and user agent.
func (c *Config) Loader() *scraper.Loader {
	return scraper.NewLoader(c.FetchTimeout(), c.Scrape.UserAgent).WithRetries(c.Scrape.Retries, 0)
}

// LoggerConfig returns the logger settings.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:  logger.ParseLevel(c.Logging.Level),
		Pretty: c.Logging.Pretty,
	}
}

// Strategies builds the configured per-college strategies.
func (c *Config) Strategies() ([]scraper.Strategy, error) {
	loader := c.Loader()
	opts := c.ScraperOptions()

	strategies := make([]scraper.Strategy, 0, len(c.Colleges))
	for _, college := range c.Colleges {
		code, _ := catalog.ParseCollegeCode(college.Code)
		s, err := scraper.NewStrategy(college.Strategy, code, college.Source, loader, opts, college.CatalogLocations())
		if err != nil {
			return nil, fmt.Errorf("%w: college %s: %w", apperrors.ErrInvalidConfig, code, err)
		}
		strategies = append(strategies, s)
	}
	return strategies, nil
}

// CatalogLocations converts the configured locations.
func (c College) CatalogLocations() []catalog.Location {
	out := make([]catalog.Location, 0, len(c.Locations))
	for _, l := range c.Locations {
		out = append(out, catalog.Location{
			Name:      l.Name,
			Latitude:  l.Latitude,
			Longitude: l.Longitude,
			Category:  l.Category,
		})
	}
	return out
}

// CatalogColleges returns the five known colleges, named as configured where a name is given.
func (c *Config) CatalogColleges() []catalog.College {
	names := make(map[catalog.CollegeCode]string, len(c.Colleges))
	for _, college := range c.Colleges {
		if code, ok := catalog.ParseCollegeCode(college.Code); ok && college.Name != "" {
			names[code] = college.Name
		}
	}

	out := make([]catalog.College, len(catalog.KnownColleges))
	copy(out, catalog.KnownColleges)
	for i := range out {
		if name, ok := names[out[i].Code]; ok {
			out[i].Name = name
		}
	}
	return out
}
