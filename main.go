package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/bloomiox/resusbih/internal/api"
	"github.com/bloomiox/resusbih/internal/classify"
	"github.com/bloomiox/resusbih/internal/config"
	"github.com/bloomiox/resusbih/internal/handler"
	"github.com/bloomiox/resusbih/internal/logger"
	"github.com/bloomiox/resusbih/internal/preview"
	"github.com/bloomiox/resusbih/internal/proxy"
	"github.com/bloomiox/resusbih/internal/store"
)

// Connection check timeouts at startup.
const (
	dbPingTimeout    = 5 * time.Second
	redisPingTimeout = 2 * time.Second
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	db, err := connectDatabase(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database", logger.Error(err))
		return 1
	}
	defer func() { _ = db.Close() }()

	return runServer(cfg, log, db)
}

// loadConfig loads and validates configuration.
func loadConfig() (*config.Config, error) {
	configPath := config.GetConfigPath("config.yml")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("validate config: %w", validationErr)
	}
	return cfg, nil
}

// createLogger creates a logger instance from configuration.
func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}

// connectDatabase opens and verifies a database connection.
func connectDatabase(cfg *config.Config, log logger.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	log.Info("Database connected",
		logger.String("host", cfg.Database.Host),
		logger.Int("port", cfg.Database.Port),
		logger.String("database", cfg.Database.Database),
	)

	return db, nil
}

// buildArticleStore creates the Postgres store, wrapped in the Redis cache
// when the cache is enabled.
func buildArticleStore(cfg *config.Config, log logger.Logger, db *sql.DB) (store.ArticleStore, error) {
	articles := store.ArticleStore(store.NewPostgresStore(db))

	if !cfg.Cache.Enabled {
		return articles, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Addr,
		Password: cfg.Cache.Password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if pingErr := client.Ping(ctx).Err(); pingErr != nil {
		return nil, fmt.Errorf("ping redis: %w", pingErr)
	}

	log.Info("Article cache enabled",
		logger.String("addr", cfg.Cache.Addr),
		logger.Duration("ttl", cfg.Cache.TTL),
	)

	return store.NewCachedStore(articles, client, log, cfg.Cache.TTL, cfg.Cache.NotFoundTTL), nil
}

// runServer creates all dependencies and starts the HTTP server.
func runServer(cfg *config.Config, log logger.Logger, db *sql.DB) int {
	upstreamURL, err := url.Parse(cfg.Upstream.URL)
	if err != nil {
		log.Error("Invalid upstream URL", logger.Error(err))
		return 1
	}
	passthrough := proxy.New(upstreamURL, log)

	articles, err := buildArticleStore(cfg, log, db)
	if err != nil {
		log.Error("Failed to build article store", logger.Error(err))
		return 1
	}

	renderer, err := preview.NewRenderer(preview.SiteMeta{
		URL:                cfg.Site.URL,
		Name:               cfg.Site.Name,
		DefaultTitle:       cfg.Site.DefaultTitle,
		DefaultDescription: cfg.Site.DefaultDescription,
		DefaultImage:       cfg.Site.DefaultImage,
		Locale:             cfg.Site.Locale,
		TwitterHandle:      cfg.Site.TwitterHandle,
		Section:            cfg.Site.Section,
		GenericDescription: cfg.Site.GenericDescription,
		ArticleRoute:       cfg.Preview.Route,
		ArticleParam:       cfg.Preview.ArticleParam,
	})
	if err != nil {
		log.Error("Failed to build renderer", logger.Error(err))
		return 1
	}

	previewHandler := handler.NewPreviewHandler(
		classify.NewDetector(cfg.Preview.ArticleParam, cfg.Bots.AllPatterns()),
		articles,
		renderer,
		passthrough,
		log,
		cfg.Preview.LookupTimeout,
		cfg.Preview.AlwaysRender,
	)

	server := api.NewServer(cfg, log, previewHandler, passthrough)

	log.Info("Preview gateway starting",
		logger.Int("port", cfg.Service.Port),
		logger.String("route", cfg.Preview.Route),
		logger.String("upstream", cfg.Upstream.URL),
		logger.Bool("always_render", cfg.Preview.AlwaysRender),
	)

	if err := server.Run(); err != nil {
		log.Error("Server error", logger.Error(err))
		return 1
	}

	log.Info("Preview gateway exited cleanly")
	return 0
}
