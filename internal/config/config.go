// Package config provides YAML-based configuration loading for localbzz.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config is the top-level localbzz configuration, loaded from bzz.yaml.
type Config struct {
	Database  DatabaseConfig   `yaml:"database"`
	Server    ServerConfig     `yaml:"server"`
	Horizon   HorizonConfig    `yaml:"horizon"`
	Events    EventsConfig     `yaml:"events"`
	Log       LogConfig        `yaml:"log"`
	Templates []TemplateConfig `yaml:"templates"`
}

// DatabaseConfig holds connection settings for the backing store.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Path     string `yaml:"path"`
}

// ServerConfig holds the dashboard listen settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// HorizonConfig controls the rolling-horizon sweep.
type HorizonConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Months   int    `yaml:"months"`
	Schedule string `yaml:"schedule"`
}

// EventsConfig holds the AMQP broker URL. An empty URL disables publishing.
type EventsConfig struct {
	URL string `yaml:"url"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// TemplateConfig is a workflow template seeded into the store.
type TemplateConfig struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Steps       []StepConfig `yaml:"steps"`
}

// StepConfig is one step of a seeded workflow template.
type StepConfig struct {
	Order     int    `yaml:"order"`
	Title     string `yaml:"title"`
	TaskType  string `yaml:"task_type"`
	Role      string `yaml:"role"`
	Offset    int    `yaml:"offset"`
	Anchor    string `yaml:"anchor"`
	DependsOn *int   `yaml:"depends_on"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config. Environment
// overrides are applied after the file and before defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.overrideFromEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// overrideFromEnv replaces file values with DB_*, MQ_URL and LOG_LEVEL
// environment variables when they are set.
func (c *Config) overrideFromEnv() {
	if host := os.Getenv("DB_HOST"); host != "" {
		c.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Database.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		c.Database.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		c.Database.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		c.Database.Name = name
	}
	if url := os.Getenv("MQ_URL"); url != "" {
		c.Events.URL = url
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			c.Database.Path = "localbzz.db"
		}
	case DriverMySQL, DriverPostgres:
		if c.Database.Host == "" {
			c.Database.Host = "127.0.0.1"
		}
		if c.Database.Port == 0 {
			if c.Database.Driver == DriverMySQL {
				c.Database.Port = 3306
			} else {
				c.Database.Port = 5432
			}
		}
		if c.Database.Name == "" {
			c.Database.Name = "localbzz"
		}
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Horizon.Months == 0 {
		c.Horizon.Months = 6
	}
	if c.Horizon.Schedule == "" {
		c.Horizon.Schedule = "0 * * * *"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	for i := range c.Templates {
		for j := range c.Templates[i].Steps {
			if c.Templates[i].Steps[j].Anchor == "" {
				c.Templates[i].Steps[j].Anchor = "start_date"
			}
		}
	}
}

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// validate checks that all required fields are present and consistent.
// Step-level template rules are enforced when templates are seeded.
func (c *Config) validate() error {
	var errs []string
	switch c.Database.Driver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q is not one of sqlite, mysql, postgres", c.Database.Driver))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}
	if c.Horizon.Months < 0 {
		errs = append(errs, "horizon.months must be positive")
	}
	if _, err := scheduleParser.Parse(c.Horizon.Schedule); err != nil {
		errs = append(errs, fmt.Sprintf("horizon.schedule %q: %v", c.Horizon.Schedule, err))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	seen := make(map[string]bool)
	for i, t := range c.Templates {
		if t.Name == "" {
			errs = append(errs, fmt.Sprintf("templates[%d].name is required", i))
		}
		if seen[t.Name] {
			errs = append(errs, fmt.Sprintf("templates[%d].name %q is duplicated", i, t.Name))
		}
		seen[t.Name] = true
		if len(t.Steps) == 0 {
			errs = append(errs, fmt.Sprintf("templates[%d].steps must not be empty", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
