package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: 0.0.0.0
  port: 9000
data:
  source: sqlite
  database_path: ./honya.db
recommend:
  high_rating_threshold: 5
  top_similar_users: 3
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Debug {
		t.Error("expected debug true")
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 9000 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Data.Source != "sqlite" {
		t.Errorf("source = %q", cfg.Data.Source)
	}
	if cfg.Data.DatabasePath != filepath.Join(dir, "honya.db") {
		t.Errorf("database_path = %q, want expanded relative to config dir", cfg.Data.DatabasePath)
	}
	// Explicit values survive; untouched values get defaults.
	if cfg.Recommend.HighRatingThreshold != 5 {
		t.Errorf("high_rating_threshold = %d, want 5", cfg.Recommend.HighRatingThreshold)
	}
	if cfg.Recommend.TopSimilarUsers != 3 {
		t.Errorf("top_similar_users = %d, want 3", cfg.Recommend.TopSimilarUsers)
	}
	if cfg.Recommend.RecommendThreshold != 7 {
		t.Errorf("recommend_threshold = %d, want default 7", cfg.Recommend.RecommendThreshold)
	}
	if cfg.Recommend.ListDelimiter != ";" {
		t.Errorf("list_delimiter = %q, want default ;", cfg.Recommend.ListDelimiter)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Port != 8000 {
		t.Errorf("port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Recommend.HighRatingThreshold != 4 || cfg.Recommend.RecommendThreshold != 7 {
		t.Errorf("thresholds = %d/%d, want 4/7",
			cfg.Recommend.HighRatingThreshold, cfg.Recommend.RecommendThreshold)
	}
	if cfg.Recommend.TopSimilarUsers != 5 || cfg.Recommend.MaxRecommendations != 10 {
		t.Errorf("limits = %d/%d, want 5/10",
			cfg.Recommend.TopSimilarUsers, cfg.Recommend.MaxRecommendations)
	}
	if cfg.Search.DefaultLimit != 10 || cfg.Search.MaxLimit != 100 {
		t.Errorf("search limits = %+v", cfg.Search)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Server.Port = 8123
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Server.Port != 8123 {
		t.Errorf("port = %d, want 8123", loaded.Server.Port)
	}
}
