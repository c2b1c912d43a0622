package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string          `mapstructure:"environment"`
	LogLevel    string          `mapstructure:"log_level"`
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Analysis    AnalysisConfig  `mapstructure:"analysis"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AnalysisConfig holds the tunables of the shock analysis pipeline. The
// threshold is a 0-1 ratio; reported magnitudes are percentages.
type AnalysisConfig struct {
	ShockThreshold    float64 `mapstructure:"shock_threshold"`
	BaselineWindow    int     `mapstructure:"baseline_window"`
	ClusterWindowDays int     `mapstructure:"cluster_window_days"`
	TrendPeriod       int     `mapstructure:"trend_period"`
}

type CacheConfig struct {
	ResultTTL string `mapstructure:"result_ttl"`
}

// TelemetryConfig controls request tracing. With no endpoint set, spans go to
// stdout.
type TelemetryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// ResultTTLDuration parses the configured result cache TTL.
func (c CacheConfig) ResultTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.ResultTTL)
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// Set default values
	setDefaults()

	// Enable environment variable support
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Environment = strings.ToLower(config.Environment)

	if config.Analysis.ShockThreshold < 0 || config.Analysis.ShockThreshold > 1 {
		return nil, fmt.Errorf("analysis.shock_threshold must be a 0-1 ratio, got %v",
			config.Analysis.ShockThreshold)
	}
	if config.Analysis.BaselineWindow < 1 {
		return nil, fmt.Errorf("analysis.baseline_window must be at least 1, got %d",
			config.Analysis.BaselineWindow)
	}
	if config.Cache.ResultTTL != "" {
		if _, err := time.ParseDuration(config.Cache.ResultTTL); err != nil {
			return nil, fmt.Errorf("invalid cache.result_ttl duration: %w", err)
		}
	}

	return &config, nil
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "yemen_market_analysis")
	viper.SetDefault("database.sslmode", "disable")

	// Redis
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Analysis
	viper.SetDefault("analysis.shock_threshold", 0.15)
	viper.SetDefault("analysis.baseline_window", 3)
	viper.SetDefault("analysis.cluster_window_days", 30)
	viper.SetDefault("analysis.trend_period", 6)

	// Cache
	viper.SetDefault("cache.result_ttl", "10m")

	// Telemetry
	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.otlp_endpoint", "")
}
