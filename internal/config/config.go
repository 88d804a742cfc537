package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Search   SearchConfig   `yaml:"search" mapstructure:"search"`
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	Budget   BudgetConfig   `yaml:"budget" mapstructure:"budget"`
	Validate ValidateConfig `yaml:"validate" mapstructure:"validate"`
	Classify ClassifyConfig `yaml:"classify" mapstructure:"classify"`
	Sink     SinkConfig     `yaml:"sink" mapstructure:"sink"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// SearchConfig selects and credentials the search provider backend.
type SearchConfig struct {
	Provider   string `yaml:"provider" mapstructure:"provider"`
	GoogleKey  string `yaml:"google_key" mapstructure:"google_key"`
	GoogleCX   string `yaml:"google_cx" mapstructure:"google_cx"`
	SerpAPIKey string `yaml:"serpapi_key" mapstructure:"serpapi_key"`
	ExtraQuery bool   `yaml:"extra_query" mapstructure:"extra_query"`
}

// ResolverConfig configures candidate acceptance and the resolution cache.
type ResolverConfig struct {
	MinScore  float64 `yaml:"min_score" mapstructure:"min_score"`
	CachePath string  `yaml:"cache_path" mapstructure:"cache_path"`
}

// BudgetConfig configures the per-entity wall-clock budget.
type BudgetConfig struct {
	PerEntitySecs    int     `yaml:"per_entity_secs" mapstructure:"per_entity_secs"`
	ResolverFraction float64 `yaml:"resolver_fraction" mapstructure:"resolver_fraction"`
	Mode             string  `yaml:"mode" mapstructure:"mode"`
	MaxLivenessSecs  int     `yaml:"max_liveness_secs" mapstructure:"max_liveness_secs"`
}

// ValidateConfig configures URL normalization and the liveness probe.
type ValidateConfig struct {
	AllowHTTP     bool `yaml:"allow_http" mapstructure:"allow_http"`
	DropDeadLinks bool `yaml:"drop_dead_links" mapstructure:"drop_dead_links"`
}

// ClassifyConfig configures the include/industry classifier.
type ClassifyConfig struct {
	Key        string `yaml:"key" mapstructure:"key"`
	Model      string `yaml:"model" mapstructure:"model"`
	Mode       string `yaml:"mode" mapstructure:"mode"`
	ThesisPath string `yaml:"thesis_path" mapstructure:"thesis_path"`
}

// SinkConfig selects the destination for included rows.
type SinkConfig struct {
	Kind        string `yaml:"kind" mapstructure:"kind"`
	BatchSize   int    `yaml:"batch_size" mapstructure:"batch_size"`
	NotionToken string `yaml:"notion_token" mapstructure:"notion_token"`
	NotionDB    string `yaml:"notion_db" mapstructure:"notion_db"`
	XLSXPath    string `yaml:"xlsx_path" mapstructure:"xlsx_path"`
}

// PipelineConfig configures orchestrator behavior.
type PipelineConfig struct {
	MaxItems   int `yaml:"max_items" mapstructure:"max_items"`
	ThrottleMS int `yaml:"throttle_ms" mapstructure:"throttle_ms"`
}

// StoreConfig configures the run/disposition database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the resolve-trigger server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROSPECTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("search.provider", "google")
	v.SetDefault("search.extra_query", false)
	v.SetDefault("resolver.min_score", 35.0)
	v.SetDefault("resolver.cache_path", "resolution_cache.json")
	v.SetDefault("budget.per_entity_secs", 15)
	v.SetDefault("budget.resolver_fraction", 0.65)
	v.SetDefault("budget.mode", "hard")
	v.SetDefault("budget.max_liveness_secs", 10)
	v.SetDefault("validate.allow_http", false)
	v.SetDefault("validate.drop_dead_links", true)
	v.SetDefault("classify.model", "claude-haiku-4-5-20251001")
	v.SetDefault("classify.mode", "strict")
	v.SetDefault("sink.kind", "none")
	v.SetDefault("sink.batch_size", 50)
	v.SetDefault("sink.xlsx_path", "prospects.xlsx")
	v.SetDefault("pipeline.throttle_ms", 30)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
