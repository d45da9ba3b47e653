// Package config provides configuration loading and structs for the honya server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Data      DataConfig      `yaml:"data"`
	Recommend RecommendConfig `yaml:"recommend"`
	Search    SearchConfig    `yaml:"search"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DataConfig holds the catalog/rating data source settings.
// Source selects between a directory of JSON shards and a SQLite database.
type DataConfig struct {
	Source       string `yaml:"source"` // "json" or "sqlite"
	Dir          string `yaml:"dir"`
	DatabasePath string `yaml:"database_path"`
	Reload       bool   `yaml:"reload"` // watch Dir and rebuild the snapshot on change
}

// RecommendConfig holds the recommendation engine thresholds and limits.
type RecommendConfig struct {
	// HighRatingThreshold is the minimum rating for a book to count toward a
	// user's taste profile when computing similarity.
	HighRatingThreshold int `yaml:"high_rating_threshold"`
	// RecommendThreshold is the minimum rating for a similar user's book to
	// become a recommendation candidate.
	RecommendThreshold int `yaml:"recommend_threshold"`
	// TopSimilarUsers is how many of the most similar users contribute candidates.
	TopSimilarUsers int `yaml:"top_similar_users"`
	// MaxRecommendations caps the number of books returned.
	MaxRecommendations int `yaml:"max_recommendations"`
	// ListDelimiter separates values in the multi-value query parameters.
	ListDelimiter string `yaml:"list_delimiter"`
}

// SearchConfig holds settings for the full-text title search index.
type SearchConfig struct {
	// IndexPath is the Bleve index location; empty means an in-memory index
	// rebuilt from the catalog at startup.
	IndexPath    string `yaml:"index_path"`
	DefaultLimit int    `yaml:"default_limit"`
	MaxLimit     int    `yaml:"max_limit"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Data.Dir = expandPath(cfg.Data.Dir, configDir)
	cfg.Data.DatabasePath = expandPath(cfg.Data.DatabasePath, configDir)
	if cfg.Search.IndexPath != "" {
		cfg.Search.IndexPath = expandPath(cfg.Search.IndexPath, configDir)
	}

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
