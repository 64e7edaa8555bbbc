// Package config loads cv-forge settings from a config file, CVFORGE_*
// environment variables and command-line flags, in increasing priority.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderGemini  = "gemini"
	ProviderService = "service"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	AI     AIConfig     `mapstructure:"ai"`
	Store  StoreConfig  `mapstructure:"store"`
	PDF    PDFConfig    `mapstructure:"pdf"`
}

type ServerConfig struct {
	Port      string `mapstructure:"port"`
	BodyLimit int    `mapstructure:"body-limit"`
}

type LogConfig struct {
	JSON      bool `mapstructure:"json"`
	Debug     bool `mapstructure:"debug"`
	MaxLength int  `mapstructure:"max-length"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   GeminiConfig  `mapstructure:"gemini"`
	Service  ServiceConfig `mapstructure:"service"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api-key"`
	Model  string `mapstructure:"model"`
}

type ServiceConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retries int           `mapstructure:"retries"`
}

type StoreConfig struct {
	Driver   string         `mapstructure:"driver"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type PDFConfig struct {
	ChromePath string        `mapstructure:"chrome-path"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// SetDefaults registers defaults and environment bindings on v. The
// unprefixed names are the ones the service has always read.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.body-limit", 10*1024*1024)
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
	v.SetDefault("log.max-length", 2000)
	v.SetDefault("ai.provider", ProviderService)
	v.SetDefault("ai.gemini.api-key", "")
	v.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	v.SetDefault("ai.service.url", "http://ai-service:8000")
	v.SetDefault("ai.service.timeout", 60*time.Second)
	v.SetDefault("ai.service.retries", 3)
	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.postgres.dsn", "")
	v.SetDefault("store.sqlite.path", "cv-forge.db")
	v.SetDefault("pdf.chrome-path", "")
	v.SetDefault("pdf.timeout", 60*time.Second)

	v.SetEnvPrefix("CVFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("server.port", "CVFORGE_SERVER_PORT", "PORT")
	_ = v.BindEnv("ai.service.url", "CVFORGE_AI_SERVICE_URL", "AI_SERVICE_URL")
	_ = v.BindEnv("ai.gemini.api-key", "CVFORGE_AI_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("pdf.chrome-path", "CVFORGE_PDF_CHROME_PATH", "CHROME_PATH")
	_ = v.BindEnv("store.postgres.dsn", "CVFORGE_STORE_POSTGRES_DSN", "DATABASE_URL")
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the chosen provider and driver have what they need.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return fmt.Errorf("config error: 'server.port' must be set")
	}

	switch c.AI.Provider {
	case ProviderGemini:
		if strings.TrimSpace(c.AI.Gemini.APIKey) == "" {
			return fmt.Errorf("config error: 'ai.gemini.api-key' is required for provider %q", ProviderGemini)
		}
	case ProviderService:
		if strings.TrimSpace(c.AI.Service.URL) == "" {
			return fmt.Errorf("config error: 'ai.service.url' is required for provider %q", ProviderService)
		}
		if c.AI.Service.Retries < 1 {
			return fmt.Errorf("config error: 'ai.service.retries' must be at least 1")
		}
	default:
		return fmt.Errorf("config error: unknown ai.provider %q", c.AI.Provider)
	}

	switch c.Store.Driver {
	case DriverPostgres:
		if strings.TrimSpace(c.Store.Postgres.DSN) == "" {
			return fmt.Errorf("config error: 'store.postgres.dsn' is required for driver %q", DriverPostgres)
		}
	case DriverSQLite:
		if strings.TrimSpace(c.Store.SQLite.Path) == "" {
			return fmt.Errorf("config error: 'store.sqlite.path' is required for driver %q", DriverSQLite)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config error: unknown store.driver %q", c.Store.Driver)
	}

	return nil
}
