package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shanehull/shopfinder/internal/model"
	"github.com/shanehull/shopfinder/internal/search"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Search struct {
		Endpoint          string  `yaml:"endpoint"`
		Region            string  `yaml:"region"`
		SafeSearch        string  `yaml:"safe_search"`
		UserAgent         string  `yaml:"user_agent"`
		TimeoutSeconds    int     `yaml:"timeout_seconds"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
	} `yaml:"search"`

	Collect struct {
		Variants        []string `yaml:"variants"`
		MaxResults      int      `yaml:"max_results"`
		RequireLocation bool     `yaml:"require_location"`
	} `yaml:"collect"`

	Enrich struct {
		Workers        int `yaml:"workers"`
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"enrich"`

	Storage struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"storage"`

	Export struct {
		OutDir   string `yaml:"out_dir"`
		FileName string `yaml:"file_name"`
	} `yaml:"export"`

	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
	} `yaml:"log"`
}

func Default() Config {
	var cfg Config
	cfg.Search.Endpoint = search.DefaultEndpoint
	cfg.Search.Region = search.DefaultRegion
	cfg.Search.SafeSearch = "off"
	cfg.Search.UserAgent = search.DefaultUserAgent
	cfg.Search.TimeoutSeconds = 15
	cfg.Search.RequestsPerSecond = 1
	cfg.Collect.Variants = append([]string(nil), model.BaseVariants...)
	cfg.Collect.MaxResults = model.DefaultResults
	cfg.Collect.RequireLocation = true
	cfg.Enrich.Workers = 4
	cfg.Enrich.TimeoutSeconds = 10
	cfg.Storage.DBPath = "out/shopfinder.duckdb"
	cfg.Export.OutDir = "out"
	cfg.Export.FileName = "shop_finder_leads.xlsx"
	cfg.Server.Port = 3000
	cfg.Log.Level = "info"
	cfg.Log.MaxSizeMB = 10
	cfg.Log.MaxBackups = 3
	return cfg
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup("SHOPFINDER_DB"); ok && v != "" {
		c.Storage.DBPath = v
	}
	if v, ok := lookup("SHOPFINDER_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("SHOPFINDER_LOG_FILE"); ok && v != "" {
		c.Log.File = v
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Collect.MaxResults < model.MinResults || c.Collect.MaxResults > model.MaxResults {
		errs = append(errs, fmt.Errorf("collect.max_results must be between %d and %d", model.MinResults, model.MaxResults))
	}
	if len(c.Collect.Variants) == 0 {
		errs = append(errs, errors.New("collect.variants must not be empty"))
	}
	switch strings.ToLower(c.Search.SafeSearch) {
	case "off", "moderate", "strict":
	default:
		errs = append(errs, fmt.Errorf("search.safe_search %q is not one of off, moderate, strict", c.Search.SafeSearch))
	}
	if c.Search.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("search.requests_per_second must not be negative"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Enrich.Workers < 1 {
		errs = append(errs, errors.New("enrich.workers must be at least 1"))
	}
	return errors.Join(errs...)
}

func (c Config) SearchOptions() search.Options {
	return search.Options{
		Endpoint:          c.Search.Endpoint,
		Region:            c.Search.Region,
		SafeSearch:        c.Search.SafeSearch,
		UserAgent:         c.Search.UserAgent,
		Timeout:           time.Duration(c.Search.TimeoutSeconds) * time.Second,
		RequestsPerSecond: c.Search.RequestsPerSecond,
	}
}

func (c Config) EnrichTimeout() time.Duration {
	return time.Duration(c.Enrich.TimeoutSeconds) * time.Second
}
