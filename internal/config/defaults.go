package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Data.Source == "" {
		cfg.Data.Source = "json"
	}
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = "/usr/local/var/honya/data"
	}
	if cfg.Data.DatabasePath == "" {
		cfg.Data.DatabasePath = "/usr/local/var/honya/db/honya.db"
	}
	if cfg.Recommend.HighRatingThreshold == 0 {
		cfg.Recommend.HighRatingThreshold = 4
	}
	if cfg.Recommend.RecommendThreshold == 0 {
		cfg.Recommend.RecommendThreshold = 7
	}
	if cfg.Recommend.TopSimilarUsers == 0 {
		cfg.Recommend.TopSimilarUsers = 5
	}
	if cfg.Recommend.MaxRecommendations == 0 {
		cfg.Recommend.MaxRecommendations = 10
	}
	if cfg.Recommend.ListDelimiter == "" {
		cfg.Recommend.ListDelimiter = ";"
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
}
