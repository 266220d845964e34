// Package config loads service configuration from an optional JSON file and
// FOODGENIUS_* environment variables using Viper.
package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Orders  OrdersConfig  `mapstructure:"orders"`
	RefData RefDataConfig `mapstructure:"refdata"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Images  ImagesConfig  `mapstructure:"images"`
}

// AppConfig contains process-level settings.
type AppConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig selects where recipes come from.
type CatalogConfig struct {
	Driver      string `mapstructure:"driver"`
	Path        string `mapstructure:"path"`
	DatabaseURL string `mapstructure:"database_url"`
}

// OrdersConfig selects where orders are stored. An empty URL keeps orders in
// memory.
type OrdersConfig struct {
	DatabaseURL string `mapstructure:"database_url"`
}

// RefDataConfig points at the synonym and substitution tables.
type RefDataConfig struct {
	SynonymsPath      string `mapstructure:"synonyms_path"`
	SubstitutionsPath string `mapstructure:"substitutions_path"`
	Watch             bool   `mapstructure:"watch"`
}

// LLMConfig selects the text generator behind chat and LLM transforms.
type LLMConfig struct {
	Provider     string  `mapstructure:"provider"`
	GeminiAPIKey string  `mapstructure:"gemini_api_key"`
	GeminiModel  string  `mapstructure:"gemini_model"`
	OllamaURL    string  `mapstructure:"ollama_url"`
	OllamaModel  string  `mapstructure:"ollama_model"`
	Temperature  float64 `mapstructure:"temperature"`
}

// ImagesConfig controls image URLs and the local image directory.
type ImagesConfig struct {
	CloudName     string `mapstructure:"cloud_name"`
	CloudinaryURL string `mapstructure:"cloudinary_url"`
	Dir           string `mapstructure:"dir"`
}

var cloudinaryURL = regexp.MustCompile(`^cloudinary://([^:]+):([^@]+)@(.+)$`)

// ResolvedCloudName returns the configured cloud name, falling back to the
// one embedded in a cloudinary:// URL.
func (c ImagesConfig) ResolvedCloudName() string {
	if c.CloudName != "" {
		return c.CloudName
	}
	if m := cloudinaryURL.FindStringSubmatch(c.CloudinaryURL); m != nil {
		return m[3]
	}
	return ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("catalog.driver", "file")
	v.SetDefault("catalog.path", "data/recipes.json")
	v.SetDefault("catalog.database_url", "")

	v.SetDefault("orders.database_url", "")

	v.SetDefault("refdata.synonyms_path", "data/synonyms.json")
	v.SetDefault("refdata.substitutions_path", "data/substitutions.json")
	v.SetDefault("refdata.watch", false)

	v.SetDefault("llm.provider", "none")
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.gemini_model", "gemini-1.5-flash")
	v.SetDefault("llm.ollama_url", "http://localhost:11434/api/generate")
	v.SetDefault("llm.ollama_model", "llama3")
	v.SetDefault("llm.temperature", 0.3)

	v.SetDefault("images.cloud_name", "")
	v.SetDefault("images.cloudinary_url", "")
	v.SetDefault("images.dir", "images")
}

// Load reads configuration. path may be empty, in which case only defaults
// and environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FOODGENIUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// conventional names used by the deployment scripts
	_ = v.BindEnv("catalog.database_url", "FOODGENIUS_CATALOG_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("orders.database_url", "FOODGENIUS_ORDERS_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("llm.gemini_api_key", "FOODGENIUS_LLM_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("images.cloudinary_url", "FOODGENIUS_IMAGES_CLOUDINARY_URL", "CLOUDINARY_URL")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks cross-field requirements.
func (c *Config) Validate() error {
	switch c.Catalog.Driver {
	case "file":
		if c.Catalog.Path == "" {
			return fmt.Errorf("catalog.path is required for the file driver")
		}
	case "postgres":
		if c.Catalog.DatabaseURL == "" {
			return fmt.Errorf("catalog.database_url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown catalog driver %q", c.Catalog.Driver)
	}

	switch c.LLM.Provider {
	case "none", "ollama":
	case "gemini":
		if c.LLM.GeminiAPIKey == "" {
			return fmt.Errorf("llm.gemini_api_key is required for the gemini provider")
		}
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}
