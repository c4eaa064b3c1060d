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
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Scoring   ScoringConfig   `yaml:"scoring" mapstructure:"scoring"`
	Dedupe    DedupeConfig    `yaml:"dedupe" mapstructure:"dedupe"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key        string `yaml:"key" mapstructure:"key"`
	HaikuModel string `yaml:"haiku_model" mapstructure:"haiku_model"`
	MaxTokens  int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ScoringConfig configures buyer/deal scoring.
type ScoringConfig struct {
	Concurrency int             `yaml:"concurrency" mapstructure:"concurrency"`
	Geography   GeographyConfig `yaml:"geography" mapstructure:"geography"`
	Service     ServiceConfig   `yaml:"service" mapstructure:"service"`
}

// GeographyConfig holds the geography scorer's score table. The location
// threshold separates proximity-gated deals from multi-location platforms.
type GeographyConfig struct {
	LocationThreshold int     `yaml:"location_threshold" mapstructure:"location_threshold"`
	LocalExact        float64 `yaml:"local_exact" mapstructure:"local_exact"`
	LocalAdjacent     float64 `yaml:"local_adjacent" mapstructure:"local_adjacent"`
	MultiExact        float64 `yaml:"multi_exact" mapstructure:"multi_exact"`
	MultiAdjacent     float64 `yaml:"multi_adjacent" mapstructure:"multi_adjacent"`
	MultiDistant      float64 `yaml:"multi_distant" mapstructure:"multi_distant"`
	Unknown           float64 `yaml:"unknown" mapstructure:"unknown"`
	CrossBorder       float64 `yaml:"cross_border" mapstructure:"cross_border"`
}

// ServiceConfig configures the service fit scorer. Keyword weights are the
// maximum bonus for each match group.
type ServiceConfig struct {
	UseAI             bool    `yaml:"use_ai" mapstructure:"use_ai"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries        int     `yaml:"max_retries" mapstructure:"max_retries"`
	BreakerThreshold  int     `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
	BreakerResetSecs  int     `yaml:"breaker_reset_secs" mapstructure:"breaker_reset_secs"`
	ConflictPenalty   float64 `yaml:"conflict_penalty" mapstructure:"conflict_penalty"`
	RequiredWeight    float64 `yaml:"required_weight" mapstructure:"required_weight"`
	UnlistedBonus     float64 `yaml:"unlisted_bonus" mapstructure:"unlisted_bonus"`
	PreferredWeight   float64 `yaml:"preferred_weight" mapstructure:"preferred_weight"`
	BuyerWeight       float64 `yaml:"buyer_weight" mapstructure:"buyer_weight"`
}

// DedupeConfig bounds the similar-name test used by the duplicate matcher.
type DedupeConfig struct {
	MaxEditDistance int     `yaml:"max_edit_distance" mapstructure:"max_edit_distance"`
	EditRatio       float64 `yaml:"edit_ratio" mapstructure:"edit_ratio"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
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
	v.SetEnvPrefix("BUYERMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.haiku_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("scoring.concurrency", 8)
	v.SetDefault("scoring.geography.location_threshold", 3)
	v.SetDefault("scoring.geography.local_exact", 95)
	v.SetDefault("scoring.geography.local_adjacent", 75)
	v.SetDefault("scoring.geography.multi_exact", 90)
	v.SetDefault("scoring.geography.multi_adjacent", 70)
	v.SetDefault("scoring.geography.multi_distant", 40)
	v.SetDefault("scoring.geography.unknown", 50)
	v.SetDefault("scoring.geography.cross_border", 25)
	v.SetDefault("scoring.service.use_ai", true)
	v.SetDefault("scoring.service.requests_per_second", 2)
	v.SetDefault("scoring.service.timeout_secs", 30)
	v.SetDefault("scoring.service.max_retries", 2)
	v.SetDefault("scoring.service.breaker_threshold", 5)
	v.SetDefault("scoring.service.breaker_reset_secs", 60)
	v.SetDefault("scoring.service.conflict_penalty", 30)
	v.SetDefault("scoring.service.required_weight", 30)
	v.SetDefault("scoring.service.unlisted_bonus", 20)
	v.SetDefault("scoring.service.preferred_weight", 15)
	v.SetDefault("scoring.service.buyer_weight", 10)
	v.SetDefault("dedupe.max_edit_distance", 3)
	v.SetDefault("dedupe.edit_ratio", 0.2)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
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

// Validate checks the settings a command mode needs. Modes: "offline"
// (pure scoring, no store), "store" (migrate, weights, dedupe, score deal)
// and "serve".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "offline":
	case "store":
		errs = append(errs, c.validateStore()...)
	case "serve":
		errs = append(errs, c.validateStore()...)
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Scoring.Concurrency < 1 || c.Scoring.Concurrency > 64 {
		errs = append(errs, "scoring.concurrency must be between 1 and 64")
	}

	g := c.Scoring.Geography
	if g.LocationThreshold < 1 {
		errs = append(errs, "scoring.geography.location_threshold must be >= 1")
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"local_exact", g.LocalExact},
		{"local_adjacent", g.LocalAdjacent},
		{"multi_exact", g.MultiExact},
		{"multi_adjacent", g.MultiAdjacent},
		{"multi_distant", g.MultiDistant},
		{"unknown", g.Unknown},
		{"cross_border", g.CrossBorder},
	} {
		if f.v < 0 || f.v > 100 {
			errs = append(errs, "scoring.geography."+f.name+" must be between 0 and 100")
		}
	}

	if c.Dedupe.MaxEditDistance < 0 {
		errs = append(errs, "dedupe.max_edit_distance must be >= 0")
	}
	if c.Dedupe.EditRatio < 0 || c.Dedupe.EditRatio > 1 {
		errs = append(errs, "dedupe.edit_ratio must be between 0 and 1")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateStore() []string {
	var errs []string
	switch c.Store.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, "store.driver must be postgres or sqlite")
	}
	if c.Store.DatabaseURL == "" {
		errs = append(errs, "store.database_url is required")
	}
	return errs
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
