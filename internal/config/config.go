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
)

const DefaultPath = "composelint.yaml"

type Config struct {
	Project struct {
		Root    string   `yaml:"root"`
		Exclude []string `yaml:"exclude"` // directory names skipped while crawling
	} `yaml:"project"`
	Analysis struct {
		ContentEmitters []string `yaml:"content_emitters"` // extra composables known to emit content
		Workers         int      `yaml:"workers"`
		CacheSize       int      `yaml:"cache_size"`
	} `yaml:"analysis"`
	Storage struct {
		DB string `yaml:"db"`
	} `yaml:"storage"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Project.Root = "."
	cfg.Analysis.CacheSize = 1024
	cfg.Storage.DB = "composelint.db"
	return &cfg
}

// LoadConfig reads path on top of Default. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := Validate(file); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", path, err)
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	// 3. Override with Environment Variables if present
	if emitters := os.Getenv("COMPOSELINT_CONTENT_EMITTERS"); emitters != "" {
		cfg.Analysis.ContentEmitters = append(cfg.Analysis.ContentEmitters, SplitList(emitters)...)
	}
	if db := os.Getenv("COMPOSELINT_DB"); db != "" {
		cfg.Storage.DB = db
	}
	if workers := os.Getenv("COMPOSELINT_WORKERS"); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil {
			return nil, fmt.Errorf("invalid COMPOSELINT_WORKERS %q: %w", workers, err)
		}
		cfg.Analysis.Workers = n
	}

	return cfg, nil
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
