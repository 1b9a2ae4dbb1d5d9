package config

import (
	"fmt"
	"net/url"
	"time"
)

// Default configuration values.
const (
	defaultServiceName  = "preview-gateway"
	defaultServicePort  = 8094
	defaultVersion      = "0.1.0"
	defaultLoggingLevel = "info"
	defaultLoggingFmt   = "json"
	defaultDBHost       = "localhost"
	defaultDBPort       = 5432
	defaultDBName       = "resusbih"
	defaultDBUser       = "postgres"
	defaultDBSSLMode    = "disable"

	defaultPreviewRoute  = "/news"
	defaultArticleParam  = "article"
	defaultLookupTimeout = 5 * time.Second

	defaultSiteURL         = "https://resusbih.org"
	defaultSiteName        = "RESUSBIH"
	defaultSiteTitle       = "Udruženje Resuscitacijski savjet u Bosni i Hercegovini"
	defaultSiteDescription = "Znanje koje spašava živote. Promicanje i unaprjeđenje znanja i " +
		"vještina oživljavanja u Bosni i Hercegovini."
	defaultSiteImage     = "https://pub-7d86d5f2e97b46c0a2c2ed8485d9788b.r2.dev/RESUSBIH%20LOGO.png"
	defaultSiteLocale    = "hr_HR"
	defaultTwitterHandle = "@resusbih"
	defaultSection       = "Novosti"
	defaultGenericText   = "Pročitajte najnovije vijesti iz Udruženja Resuscitacijski savjet " +
		"u Bosni i Hercegovini."

	defaultCacheTTL         = time.Hour
	defaultCacheNotFoundTTL = 5 * time.Minute
)

// defaultBotPatterns are the crawler User-Agent substrings recognized out of the
// box. Matching is case-insensitive substring containment, so entries are lowercase.
var defaultBotPatterns = []string{
	"facebookexternalhit",
	"twitterbot",
	"linkedinbot",
	"whatsapp",
	"telegrambot",
	"skypeuripreview",
	"slackbot",
	"discordbot",
	"googlebot",
	"bingbot",
	"yandexbot",
}

// Config holds the application configuration.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Preview  PreviewConfig  `yaml:"preview"`
	Site     SiteConfig     `yaml:"site"`
	Bots     BotsConfig     `yaml:"bots"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"PREVIEW_GATEWAY_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"            yaml:"debug"`
}

// UpstreamConfig identifies the SPA/static origin that non-preview requests
// are forwarded to.
type UpstreamConfig struct {
	URL string `env:"UPSTREAM_URL" yaml:"url"`
}

// PreviewConfig controls the social preview responder.
type PreviewConfig struct {
	// Route is the public article-detail path the responder intercepts.
	Route string `yaml:"route"`
	// ArticleParam is the query parameter carrying the article id.
	ArticleParam string `yaml:"article_param"`
	// AlwaysRender serves the preview document to ordinary browsers too,
	// instead of passing them through to the SPA origin.
	AlwaysRender bool `env:"PREVIEW_ALWAYS_RENDER" yaml:"always_render"`
	// LookupTimeout bounds the single article store lookup per request.
	LookupTimeout time.Duration `yaml:"lookup_timeout"`
}

// SiteConfig holds the static site metadata used for default documents and
// article-independent tags.
type SiteConfig struct {
	URL                string `env:"SITE_URL" yaml:"url"`
	Name               string `yaml:"name"`
	DefaultTitle       string `yaml:"default_title"`
	DefaultDescription string `yaml:"default_description"`
	DefaultImage       string `yaml:"default_image"`
	Locale             string `yaml:"locale"`
	TwitterHandle      string `yaml:"twitter_handle"`
	Section            string `yaml:"section"`
	GenericDescription string `yaml:"generic_description"`
}

// BotsConfig holds the crawler allow-list.
type BotsConfig struct {
	// Patterns replaces the built-in crawler list when set.
	Patterns []string `env:"BOT_PATTERNS" yaml:"patterns"`
	// ExtraPatterns extends the list without replacing it.
	ExtraPatterns []string `env:"BOT_EXTRA_PATTERNS" yaml:"extra_patterns"`
}

// AllPatterns returns the effective crawler substring list.
func (b *BotsConfig) AllPatterns() []string {
	patterns := b.Patterns
	if len(patterns) == 0 {
		patterns = defaultBotPatterns
	}
	return append(append([]string{}, patterns...), b.ExtraPatterns...)
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host     string `env:"POSTGRES_RESUSBIH_HOST"     yaml:"host"`
	Port     int    `env:"POSTGRES_RESUSBIH_PORT"     yaml:"port"`
	User     string `env:"POSTGRES_RESUSBIH_USER"     yaml:"user"`
	Password string `env:"POSTGRES_RESUSBIH_PASSWORD" yaml:"password"`
	Database string `env:"POSTGRES_RESUSBIH_DB"       yaml:"database"`
	SSLMode  string `env:"POSTGRES_RESUSBIH_SSLMODE"  yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// CacheConfig holds the optional Redis article-metadata cache settings.
type CacheConfig struct {
	Enabled     bool          `env:"PREVIEW_CACHE_ENABLED" yaml:"enabled"`
	Addr        string        `env:"REDIS_ADDR"            yaml:"addr"`
	Password    string        `env:"REDIS_PASSWORD"        yaml:"password"`
	TTL         time.Duration `yaml:"ttl"`
	NotFoundTTL time.Duration `yaml:"not_found_ttl"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return loadWithDefaults[Config](path, SetDefaults)
}

// SetDefaults applies default values to the config.
func SetDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setPreviewDefaults(&cfg.Preview)
	setSiteDefaults(&cfg.Site)
	setDatabaseDefaults(&cfg.Database)
	setCacheDefaults(&cfg.Cache)
	setLoggingDefaults(&cfg.Logging)
}

func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
}

func setPreviewDefaults(p *PreviewConfig) {
	if p.Route == "" {
		p.Route = defaultPreviewRoute
	}
	if p.ArticleParam == "" {
		p.ArticleParam = defaultArticleParam
	}
	if p.LookupTimeout == 0 {
		p.LookupTimeout = defaultLookupTimeout
	}
}

func setSiteDefaults(s *SiteConfig) {
	if s.URL == "" {
		s.URL = defaultSiteURL
	}
	if s.Name == "" {
		s.Name = defaultSiteName
	}
	if s.DefaultTitle == "" {
		s.DefaultTitle = defaultSiteTitle
	}
	if s.DefaultDescription == "" {
		s.DefaultDescription = defaultSiteDescription
	}
	if s.DefaultImage == "" {
		s.DefaultImage = defaultSiteImage
	}
	if s.Locale == "" {
		s.Locale = defaultSiteLocale
	}
	if s.TwitterHandle == "" {
		s.TwitterHandle = defaultTwitterHandle
	}
	if s.Section == "" {
		s.Section = defaultSection
	}
	if s.GenericDescription == "" {
		s.GenericDescription = defaultGenericText
	}
}

func setDatabaseDefaults(db *DatabaseConfig) {
	if db.Host == "" {
		db.Host = defaultDBHost
	}
	if db.Port == 0 {
		db.Port = defaultDBPort
	}
	if db.User == "" {
		db.User = defaultDBUser
	}
	if db.Database == "" {
		db.Database = defaultDBName
	}
	if db.SSLMode == "" {
		db.SSLMode = defaultDBSSLMode
	}
}

func setCacheDefaults(c *CacheConfig) {
	if c.TTL == 0 {
		c.TTL = defaultCacheTTL
	}
	if c.NotFoundTTL == 0 {
		c.NotFoundTTL = defaultCacheNotFoundTTL
	}
}

func setLoggingDefaults(log *LoggingConfig) {
	if log.Level == "" {
		log.Level = defaultLoggingLevel
	}
	if log.Format == "" {
		log.Format = defaultLoggingFmt
	}
}

// Validate validates the configuration. Required connection settings must be
// present; there are no embedded fallback credentials.
func (c *Config) Validate() error {
	if err := validatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if err := validateRequired("upstream.url", c.Upstream.URL); err != nil {
		return err
	}
	if _, err := url.ParseRequestURI(c.Upstream.URL); err != nil {
		return &ValidationError{Field: "upstream.url", Message: "must be a valid URL"}
	}
	if err := validateRequired("site.url", c.Site.URL); err != nil {
		return err
	}
	if err := validateRequired("database.password", c.Database.Password); err != nil {
		return err
	}
	if c.Cache.Enabled {
		if err := validateRequired("cache.addr", c.Cache.Addr); err != nil {
			return err
		}
	}
	return nil
}
