package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v9"
	"gopkg.in/yaml.v3"
)

// Selectors drive HTML extraction for directory-style sources. Keeping them
// in config means a provider changing its markup is a config edit, not a
// rebuild (layout drift still surfaces as item errors either way).
type Selectors struct {
	Item        string `yaml:"item"`
	Title       string `yaml:"title"`
	Provider    string `yaml:"provider"`
	Price       string `yaml:"price"`
	Description string `yaml:"description"`
	Duration    string `yaml:"duration"`
	Seats       string `yaml:"seats"`
	Location    string `yaml:"location"`
	Link        string `yaml:"link"`
}

type DirectorySource struct {
	Enabled   bool      `yaml:"enabled"`
	BaseURL   string    `yaml:"base_url"`
	Selectors Selectors `yaml:"selectors"`
}

type PortalSource struct {
	Enabled        bool   `yaml:"enabled"`
	BaseURL        string `yaml:"base_url"`
	Username       string `yaml:"username"`
	KeyringAccount string `yaml:"keyring_account"`
	PageSize       int    `yaml:"page_size"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port" env:"PORT"`
		DataDir string `yaml:"data_dir" env:"DATA_DIR"`
	} `yaml:"app"`

	Scraping struct {
		DelayMS            int `yaml:"delay_ms" env:"SCRAPING_DELAY_MS"`
		MaxConcurrent      int `yaml:"max_concurrent_requests" env:"MAX_CONCURRENT_REQUESTS"`
		InterSourcePauseMS int `yaml:"inter_source_pause_ms" env:"INTER_SOURCE_PAUSE_MS"`
	} `yaml:"scraping"`

	Schedule struct {
		DailyCron      string `yaml:"daily_cron" env:"DAILY_CRON"`
		StartupDelayMS int    `yaml:"startup_delay_ms" env:"STARTUP_DELAY_MS"`
	} `yaml:"schedule"`

	Sources struct {
		SkillsFuture DirectorySource `yaml:"skillsfuture"`
		Portal       PortalSource    `yaml:"portal"`
		Sample       struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"sample"`
	} `yaml:"sources"`
}

// Load reads the YAML file, then overlays environment variables on top so
// deployments can tune pacing without touching the file.
func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Port == 0 {
		cfg.App.Port = 38471
	}
	if cfg.Scraping.DelayMS <= 0 {
		cfg.Scraping.DelayMS = 1000
	}
	if cfg.Scraping.MaxConcurrent <= 0 {
		cfg.Scraping.MaxConcurrent = 5
	}
	if cfg.Scraping.InterSourcePauseMS <= 0 {
		cfg.Scraping.InterSourcePauseMS = 5000
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 2 * * *"
	}
	if cfg.Schedule.StartupDelayMS <= 0 {
		cfg.Schedule.StartupDelayMS = 60000
	}
	if cfg.Sources.Portal.PageSize <= 0 {
		cfg.Sources.Portal.PageSize = 50
	}
}

func (c Config) RequestDelay() time.Duration {
	return time.Duration(c.Scraping.DelayMS) * time.Millisecond
}

func (c Config) InterSourcePause() time.Duration {
	return time.Duration(c.Scraping.InterSourcePauseMS) * time.Millisecond
}

func (c Config) StartupDelay() time.Duration {
	return time.Duration(c.Schedule.StartupDelayMS) * time.Millisecond
}
