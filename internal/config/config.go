package config

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultUserAgent is the default User-Agent string sent with all HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const (
	DefaultDomain         = "https://rezka.ag"
	DefaultAcceptLanguage = "ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7"
	DefaultMaxAttempts    = 3
	DefaultRetryDelay     = 800 * time.Millisecond
	DefaultHistoryItems   = 10
)

type Config struct {
	ProxyConnectionString string `mapstructure:"proxy_connection_string"`
	RezkaDomain           string `mapstructure:"rezka_domain"`
	ClientTimeout         string `mapstructure:"client_timeout"` // Go duration string like "30s", "1m", etc.
	UserAgent             string `mapstructure:"user_agent"`
	AcceptLanguage        string `mapstructure:"accept_language"`
	LogLevel              string `mapstructure:"log_level"`
	Resolver              struct {
		MaxAttempts int    `mapstructure:"max_attempts"`
		RetryDelay  string `mapstructure:"retry_delay"` // Go duration string, "0s" disables the pause
	} `mapstructure:"resolver"`
	Cache struct {
		Provider string `mapstructure:"provider"` // "memory" or "redis"
		Size     int    `mapstructure:"size"`     // Maximum number of cached media pages
		TTL      string `mapstructure:"ttl"`
		Redis    struct {
			Address  string `mapstructure:"address"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"cache"`
	History struct {
		Path     string `mapstructure:"path"`
		MaxItems int    `mapstructure:"max_items"`
	} `mapstructure:"history"`
	Metrics struct {
		Enabled bool   `mapstructure:"enabled"`
		Address string `mapstructure:"address"`
		Port    int    `mapstructure:"port"`
	} `mapstructure:"metrics"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: false,
	}).With().Timestamp().Logger()

	config, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	level := zerolog.InfoLevel
	if config.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", config.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)

	logger.Debug().Str("level", level.String()).Msg("Logging configured")
	globalConfig = config
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variable support
	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.BindEnv("log_level", "LOG_LEVEL")

	viper.SetDefault("rezka_domain", DefaultDomain)
	viper.SetDefault("client_timeout", "30s")
	viper.SetDefault("accept_language", DefaultAcceptLanguage)
	viper.SetDefault("resolver.max_attempts", DefaultMaxAttempts)
	viper.SetDefault("resolver.retry_delay", DefaultRetryDelay.String())
	viper.SetDefault("cache.provider", "memory")
	viper.SetDefault("cache.size", 200)
	viper.SetDefault("cache.ttl", "30m")
	viper.SetDefault("history.path", "rezka-history.db")
	viper.SetDefault("history.max_items", DefaultHistoryItems)
	viper.SetDefault("metrics.port", 9090)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	return &config, nil
}

func GetConfig() *Config {
	return globalConfig
}

func GetUserAgent() string {
	if globalConfig != nil && globalConfig.UserAgent != "" {
		return globalConfig.UserAgent
	}

	return DefaultUserAgent
}

func GetLogger() zerolog.Logger {
	return logger
}

// Domain returns the configured site origin without a trailing slash.
func (c *Config) Domain() string {
	if c == nil || c.RezkaDomain == "" {
		return DefaultDomain
	}
	return strings.TrimRight(c.RezkaDomain, "/")
}

// Duration parses a Go duration string, returning fallback when the value is
// empty or invalid. Invalid values are logged.
func Duration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		logger.Warn().Err(err).Str("duration", value).Dur("fallback", fallback).Msg("Invalid duration, using fallback")
		return fallback
	}
	return d
}
