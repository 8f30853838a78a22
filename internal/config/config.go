package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lox/weatherlog/internal/logbook"
)

// DefaultMaxDays is the largest -n value accepted unless configured.
const DefaultMaxDays = logbook.DefaultCapacity

// Config holds settings loaded from YAML, .env and the environment.
type Config struct {
	MaxDays int

	// Seed fixes the random stream when HasSeed is set; otherwise the
	// wall clock seeds it.
	Seed    uint64
	HasSeed bool

	ArchivePath string
	ChartPath   string
	MetricsFile string

	LogLevel string
}

type fileConfig struct {
	Simulation struct {
		MaxDays int     `yaml:"max_days"`
		Seed    *uint64 `yaml:"seed"`
	} `yaml:"simulation"`

	Output struct {
		Archive     string `yaml:"archive"`
		Chart       string `yaml:"chart"`
		MetricsFile string `yaml:"metrics_file"`
	} `yaml:"output"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads .env from the working directory (if present), then the YAML
// file at path (if path is not empty), then environment overrides:
// WEATHERLOG_MAX_DAYS, WEATHERLOG_SEED, WEATHERLOG_ARCHIVE,
// WEATHERLOG_CHART, WEATHERLOG_METRICS_FILE and LOG_LEVEL.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	var fc fileConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("config file not found: %s", path)
			}
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg := &Config{
		MaxDays:     fc.Simulation.MaxDays,
		ArchivePath: strings.TrimSpace(fc.Output.Archive),
		ChartPath:   strings.TrimSpace(fc.Output.Chart),
		MetricsFile: strings.TrimSpace(fc.Output.MetricsFile),
		LogLevel:    strings.TrimSpace(fc.Log.Level),
	}
	if fc.Simulation.Seed != nil {
		cfg.Seed = *fc.Simulation.Seed
		cfg.HasSeed = true
	}

	if v := strings.TrimSpace(os.Getenv("WEATHERLOG_MAX_DAYS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid WEATHERLOG_MAX_DAYS: %w", err)
		}
		cfg.MaxDays = n
	}
	if v := strings.TrimSpace(os.Getenv("WEATHERLOG_SEED")); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid WEATHERLOG_SEED: %w", err)
		}
		cfg.Seed = n
		cfg.HasSeed = true
	}
	cfg.ArchivePath = getenvDefault("WEATHERLOG_ARCHIVE", cfg.ArchivePath)
	cfg.ChartPath = getenvDefault("WEATHERLOG_CHART", cfg.ChartPath)
	cfg.MetricsFile = getenvDefault("WEATHERLOG_METRICS_FILE", cfg.MetricsFile)
	cfg.LogLevel = getenvDefault("LOG_LEVEL", cfg.LogLevel)

	if cfg.MaxDays == 0 {
		cfg.MaxDays = DefaultMaxDays
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// validate checks values that cannot be defaulted.
func validate(cfg *Config) error {
	if cfg.MaxDays < 1 || cfg.MaxDays > logbook.MaxCapacity {
		return fmt.Errorf("simulation.max_days must be between 1 and %d, got %d", logbook.MaxCapacity, cfg.MaxDays)
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", cfg.LogLevel)
	}
	return nil
}
