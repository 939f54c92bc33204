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
	Expectations ExpectationsConfig `yaml:"expectations" mapstructure:"expectations"`
	Engine       EngineConfig       `yaml:"engine" mapstructure:"engine"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// ExpectationsConfig selects where the baseline table is loaded from at
// startup. Driver is one of embedded, yaml, sqlite, postgres.
type ExpectationsConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// CalibrationPair is an offline-derived linear transform for one pillar.
type CalibrationPair struct {
	A float64 `yaml:"a" mapstructure:"a"`
	B float64 `yaml:"b" mapstructure:"b"`
}

// EngineConfig holds the scoring tunables. All of these are data, not
// behavior: they may be retuned without touching engine logic.
type EngineConfig struct {
	DefaultAllocation map[string]float64         `yaml:"default_allocation" mapstructure:"default_allocation"`
	FallbackFloors    map[string]float64         `yaml:"fallback_floors" mapstructure:"fallback_floors"`
	Calibration       map[string]CalibrationPair `yaml:"calibration" mapstructure:"calibration"`
}

// ServerConfig configures the scoring HTTP adapter.
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
	v.SetEnvPrefix("LIVABILITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("expectations.driver", "embedded")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})

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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the engine cannot honor.
func (c *Config) Validate() error {
	switch c.Expectations.Driver {
	case "embedded", "":
	case "yaml":
		if c.Expectations.Path == "" {
			return eris.New("config: expectations.path required for yaml driver")
		}
	case "sqlite":
		if c.Expectations.Path == "" {
			return eris.New("config: expectations.path required for sqlite driver")
		}
	case "postgres":
		if c.Expectations.DatabaseURL == "" {
			return eris.New("config: expectations.database_url required for postgres driver")
		}
	default:
		return eris.Errorf("config: unknown expectations driver %q", c.Expectations.Driver)
	}

	for pillar, w := range c.Engine.DefaultAllocation {
		if w < 0 {
			return eris.Errorf("config: default allocation for %s is negative", pillar)
		}
	}
	for area, f := range c.Engine.FallbackFloors {
		if f < 0 || f >= 1 {
			return eris.Errorf("config: fallback floor for %s must be in [0, 1)", area)
		}
	}
	return nil
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
