package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		LogLevel    string `yaml:"log_level"`
	} `yaml:"app"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Backup BackupConfig `yaml:"backup"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	API struct {
		Enabled         bool     `yaml:"enabled"`
		Port            int      `yaml:"port"`
		APIKeys         []string `yaml:"api_keys"`
		RateLimitRPS    float64  `yaml:"rate_limit_rps"`
		RateLimitBurst  int      `yaml:"rate_limit_burst"`
		CacheTTLSeconds int      `yaml:"cache_ttl_seconds"`
	} `yaml:"api"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Rental struct {
		HorizonDays           int    `yaml:"horizon_days"`
		MinLeadDays           int    `yaml:"min_lead_days"`
		DiscountThresholdDays int    `yaml:"discount_threshold_days"`
		EarlyReturnHour       int    `yaml:"early_return_hour"`
		ReturnHour            int    `yaml:"return_hour"`
		Timezone              string `yaml:"timezone"`
		SessionTimeoutMinutes int    `yaml:"session_timeout_minutes"`
	} `yaml:"rental"`

	Catalog struct {
		Path                  string `yaml:"path"`
		ReloadIntervalSeconds int    `yaml:"reload_interval_seconds"`
	} `yaml:"catalog"`
}

// BackupConfig controls periodic database snapshots.
type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	IntervalHours int    `yaml:"interval_hours"`
	Path          string `yaml:"path"`
	RetentionDays int    `yaml:"retention_days"`
}

// Interval defaults to one day.
func (b BackupConfig) Interval() time.Duration {
	if b.IntervalHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(b.IntervalHours) * time.Hour
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/prokat.db"
	}

	if cfg.Backup.Path == "" {
		cfg.Backup.Path = filepath.Join(filepath.Dir(cfg.Database.Path), "backups")
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) HorizonDays() int {
	if c.Rental.HorizonDays <= 0 {
		return 90
	}
	return c.Rental.HorizonDays
}

// MinLeadDays is how many days ahead a product with zero stock may still be booked.
func (c *Config) MinLeadDays() int {
	if c.Rental.MinLeadDays <= 0 {
		return 3
	}
	return c.Rental.MinLeadDays
}

func (c *Config) DiscountThresholdDays() int {
	if c.Rental.DiscountThresholdDays <= 0 {
		return 7
	}
	return c.Rental.DiscountThresholdDays
}

func (c *Config) EarlyReturnHour() int {
	if c.Rental.EarlyReturnHour <= 0 || c.Rental.EarlyReturnHour > 23 {
		return 9
	}
	return c.Rental.EarlyReturnHour
}

func (c *Config) ReturnHour() int {
	if c.Rental.ReturnHour <= 0 || c.Rental.ReturnHour > 23 {
		return 12
	}
	return c.Rental.ReturnHour
}

// Location resolves rental.timezone; unknown or empty names fall back to Europe/Moscow, then UTC.
func (c *Config) Location() *time.Location {
	name := c.Rental.Timezone
	if name == "" {
		name = "Europe/Moscow"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) SessionTimeout() time.Duration {
	if c.Rental.SessionTimeoutMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.Rental.SessionTimeoutMinutes) * time.Minute
}

// CacheTTL is zero when caching is disabled.
func (c *Config) CacheTTL() time.Duration {
	if c.API.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.API.CacheTTLSeconds) * time.Second
}

func (c *Config) CatalogReloadInterval() time.Duration {
	if c.Catalog.ReloadIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Catalog.ReloadIntervalSeconds) * time.Second
}
