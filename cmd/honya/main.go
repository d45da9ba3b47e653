// Package main is the honya CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/hyperjump/honya/internal/catalog"
	"github.com/hyperjump/honya/internal/cli"
	"github.com/hyperjump/honya/internal/config"
	"github.com/hyperjump/honya/internal/metrics"
	"github.com/hyperjump/honya/internal/models"
	"github.com/hyperjump/honya/internal/ratings"
	"github.com/hyperjump/honya/internal/recommend"
	"github.com/hyperjump/honya/internal/search"
	"github.com/hyperjump/honya/internal/server"
	"github.com/hyperjump/honya/internal/store"
	"github.com/hyperjump/honya/internal/watcher"
	"github.com/hyperjump/honya/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/honya/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "honya server" from the project dir uses the project's config (including debug).
// When neither file exists at the default location, built-in defaults are used, so the
// server runs without any config file. Returns the config and the path actually loaded
// (empty when running on defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "recommend":
		runRecommend()
	case "books":
		runBooks()
	case "status":
		runStatus()
	case "import":
		runImport()
	case "version", "--version", "-v":
		fmt.Printf("honya version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// buildState loads the full data set and builds an immutable snapshot: the
// catalog, the rating index, the recommendation engine, and the search index.
func buildState(cfg *config.Config, logger *zap.Logger, debug bool) (*server.State, error) {
	loader, err := store.Open(&cfg.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to open data source: %w", err)
	}
	defer loader.Close()

	ctx := context.Background()
	books, err := loader.LoadBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load books: %w", err)
	}
	rs, err := loader.LoadRatings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}

	cat := catalog.New(books)
	idx := ratings.NewIndex(rs)

	engineOpts := []recommend.EngineOption{}
	if debug && logger != nil {
		engineOpts = append(engineOpts, recommend.WithLogger(logger))
	}
	engine := recommend.NewEngine(cat, idx, &cfg.Recommend, engineOpts...)

	searchIdx, err := search.New(cfg.Search.IndexPath, books)
	if err != nil {
		return nil, fmt.Errorf("failed to build search index: %w", err)
	}

	metrics.SetSnapshotSizes(cat.Len(), idx.Len())
	if logger != nil {
		logger.Info("snapshot built",
			zap.Int("books", cat.Len()),
			zap.Int("ratings", idx.Len()),
			zap.Int("users", idx.UserCount()),
		)
	}
	return &server.State{Engine: engine, Search: searchIdx}, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (query resolution, reloads, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	state, err := buildState(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}

	srv := server.NewServer(state, cfg, logger)

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	var watchSvc *watcher.Watcher
	if cfg.Data.Reload && cfg.Data.Source == "json" {
		watchOpts := []watcher.Option{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc = watcher.New(cfg.Data.Dir, func() {
			old := srv.State()
			next, buildErr := buildState(cfg, logger, debugMode)
			if buildErr != nil {
				logger.Warn("data reload failed, keeping previous snapshot", zap.Error(buildErr))
				return
			}
			srv.Swap(next)
			metrics.DataReloadsTotal.Inc()
			if old.Search != nil {
				_ = old.Search.Close()
			}
			logger.Info("data reloaded", zap.String("dir", cfg.Data.Dir))
		}, watchOpts...)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
	}

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if watchSvc != nil {
		watchSvc.Stop()
	}
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
	if st := srv.State(); st != nil && st.Search != nil {
		_ = st.Search.Close()
	}
}

// recommendQueryValues builds the query string values for GET /recommend from
// the flag values, joining multiple entries with the configured delimiter.
func recommendQueryValues(titles, authors, years []string, delimiter string) url.Values {
	v := url.Values{}
	if len(titles) > 0 {
		v.Set("titles", strings.Join(titles, delimiter))
	}
	if len(authors) > 0 {
		v.Set("authors", strings.Join(authors, delimiter))
	}
	if len(years) > 0 {
		v.Set("years", strings.Join(years, delimiter))
	}
	return v
}

// splitList splits a delimiter-joined flag value into its entries, dropping
// empty ones. Returns nil for an empty value.
func splitList(value, delimiter string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, delimiter)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseOutputFormat(name string) (cli.OutputFormat, error) {
	switch name {
	case "json":
		return cli.OutputJSON, nil
	case "text":
		return cli.OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", name)
	}
}

func runRecommend() {
	fs := flag.NewFlagSet("recommend", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8000", "server URL (empty = load data directly when server is not running)")
	titlesFlag := fs.String("titles", "", "book titles, multiple separated by the list delimiter")
	authorsFlag := fs.String("authors", "", "author names, multiple separated by the list delimiter")
	yearsFlag := fs.String("years", "", "publication years, multiple separated by the list delimiter")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	delimiter := cfg.Recommend.ListDelimiter
	filters := &models.Filters{
		Titles:  splitList(*titlesFlag, delimiter),
		Authors: splitList(*authorsFlag, delimiter),
		Years:   splitList(*yearsFlag, delimiter),
	}
	if filters.Empty() {
		fmt.Println("Usage: honya recommend [flags] --titles <t1;t2> --authors <a1;a2> --years <y1;y2>")
		fmt.Println("At least one of --titles, --authors, or --years is required.")
		os.Exit(1)
	}

	if *serverURL != "" {
		books, err := recommendViaHTTP(*serverURL, recommendQueryValues(filters.Titles, filters.Authors, filters.Years, delimiter))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Recommend failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteBooks(os.Stdout, books, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Direct data access (when server is not running).
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	state, err := buildState(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer state.Search.Close()

	books, err := state.Engine.Recommend(context.Background(), filters)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Recommend failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteBooks(os.Stdout, books, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func recommendViaHTTP(serverURL string, query url.Values) ([]models.Book, error) {
	resp, err := http.Get(serverURL + "/recommend?" + query.Encode())
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var books []models.Book
	if err := json.NewDecoder(resp.Body).Decode(&books); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return books, nil
}

func runBooks() {
	fs := flag.NewFlagSet("books", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8000", "server URL (empty = load data directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	var titles []string
	if *serverURL != "" {
		titles, err = booksViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Books failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		loader, err := store.Open(&cfg.Data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open data source: %v\n", err)
			os.Exit(1)
		}
		defer loader.Close()
		books, err := loader.LoadBooks(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load books: %v\n", err)
			os.Exit(1)
		}
		titles = catalog.New(books).Titles()
	}
	if err := cli.WriteTitles(os.Stdout, titles, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func booksViaHTTP(serverURL string) ([]string, error) {
	resp, err := http.Get(serverURL + "/books")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var titles []string
	if err := json.NewDecoder(resp.Body).Decode(&titles); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return titles, nil
}

// statusResponse is the shape of the GET /api/v1/status response.
type statusResponse struct {
	Books      int                    `json:"books"`
	Ratings    int                    `json:"ratings"`
	Users      int                    `json:"users"`
	SearchDocs uint64                 `json:"search_docs,omitempty"`
	Config     map[string]interface{} `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8000", "server URL (empty = load data directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		loader, err := store.Open(&cfg.Data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open data source: %v\n", err)
			os.Exit(1)
		}
		defer loader.Close()
		ctx := context.Background()
		books, err := loader.LoadBooks(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load books: %v\n", err)
			os.Exit(1)
		}
		rs, err := loader.LoadRatings(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load ratings: %v\n", err)
			os.Exit(1)
		}
		idx := ratings.NewIndex(rs)
		status = statusResponse{
			Books:   len(books),
			Ratings: idx.Len(),
			Users:   idx.UserCount(),
			Config: map[string]interface{}{
				"data_source":           cfg.Data.Source,
				"high_rating_threshold": cfg.Recommend.HighRatingThreshold,
				"recommend_threshold":   cfg.Recommend.RecommendThreshold,
				"top_similar_users":     cfg.Recommend.TopSimilarUsers,
				"max_recommendations":   cfg.Recommend.MaxRecommendations,
				"reload":                cfg.Data.Reload,
			},
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("books:        %d   # count of catalog books\n", status.Books)
		fmt.Printf("ratings:      %d   # count of rating entries\n", status.Ratings)
		fmt.Printf("users:        %d   # count of distinct raters\n", status.Users)
		if status.SearchDocs > 0 {
			fmt.Printf("search_docs:  %d   # count of indexed titles\n", status.SearchDocs)
		}
		if status.Config != nil {
			fmt.Println()
			fmt.Println("# configuration")
			for _, key := range []string{"data_source", "high_rating_threshold", "recommend_threshold", "top_similar_users", "max_recommendations", "reload"} {
				if v, ok := status.Config[key]; ok {
					fmt.Printf("%-22s %v\n", key+":", v)
				}
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	fromDir := fs.String("from", "", "directory of JSON shards to import (default: the configured data dir)")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	dir := *fromDir
	if dir == "" {
		dir = cfg.Data.Dir
	}

	src := store.NewJSONStore(dir)
	defer src.Close()
	ctx := context.Background()
	books, err := src.LoadBooks(ctx)
	if err != nil {
		fmt.Printf("Failed to load books from %s: %v\n", dir, err)
		os.Exit(1)
	}
	rs, err := src.LoadRatings(ctx)
	if err != nil {
		fmt.Printf("Failed to load ratings from %s: %v\n", dir, err)
		os.Exit(1)
	}

	db, err := store.NewSQLiteStorage(cfg.Data.DatabasePath)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.ImportBooks(ctx, books); err != nil {
		fmt.Printf("Failed to import books: %v\n", err)
		os.Exit(1)
	}
	if err := db.ImportRatings(ctx, rs); err != nil {
		fmt.Printf("Failed to import ratings: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Imported %d book(s) and %d rating(s) into %s\n", len(books), len(rs), cfg.Data.DatabasePath)
}

func printUsage() {
	fmt.Println(`honya - Book catalog and recommendation server

Usage:
  honya server [flags]            Start the HTTP server
  honya recommend [flags]         Get book recommendations
  honya books [flags]             List catalog book titles
  honya status [flags]            Show catalog/rating/index status
  honya import [flags]            Import JSON shards into the SQLite database
  honya version                   Show version
  honya help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/honya/config.yaml)
  --debug            Enable debug logging (query resolution, reloads, etc.)

Recommend Flags:
  --config string    Config file path (for direct data mode; also sets the list delimiter)
  --server string    Server URL (default: http://localhost:8000). Use empty (--server "") to load data directly.
  --titles string    Book titles, multiple separated by the list delimiter (default ";")
  --authors string   Author names, multiple separated by the list delimiter
  --years string     Publication years, multiple separated by the list delimiter
  --output string    Output format: text or json (default: text)

Books Flags:
  --config string    Config file path (for direct data mode)
  --server string    Server URL (default: http://localhost:8000). Use empty (--server "") to load data directly.
  --output string    Output format: text or json (default: text)

Status Flags:
  --config string    Config file path (for direct data mode)
  --server string    Server URL (default: http://localhost:8000). Use empty (--server "") to load data directly.
  --output string    Output format: text or json (default: text)

Import Flags:
  --config string    Config file path
  --from string      Directory of JSON shards to import (default: the configured data dir)

Examples:
  honya server
  honya recommend --titles "Dune;Neuromancer"
  honya recommend --authors "frank herbert" --years 1960
  honya recommend --output json --titles Dune
  honya books
  honya status --output json
  honya import --from ./data`)
}
