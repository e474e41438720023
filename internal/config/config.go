package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App     App     `mapstructure:"app"`
	AI      AI      `mapstructure:"ai"`
	YouTube YouTube `mapstructure:"youtube"`
	Brief   Brief   `mapstructure:"brief"`
	Alerts  Alerts  `mapstructure:"alerts"`
	Cache   Cache   `mapstructure:"cache"`
	Server  Server  `mapstructure:"server"`
	Logging Logging `mapstructure:"logging"`
}

// App holds general application configuration
type App struct {
	Debug   bool   `mapstructure:"debug"`
	DataDir string `mapstructure:"data_dir"`
}

// AI holds AI/LLM configuration
type AI struct {
	Gemini GeminiConfig `mapstructure:"gemini"`
}

// GeminiConfig holds Google Gemini configuration
type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Timeout     string  `mapstructure:"timeout"`
	MaxTokens   int32   `mapstructure:"max_tokens"`
	Temperature float32 `mapstructure:"temperature"`
}

// YouTube holds YouTube Data API configuration
type YouTube struct {
	APIKey      string   `mapstructure:"api_key"`
	Channels    []string `mapstructure:"channels"`
	MaxVideos   int64    `mapstructure:"max_videos"`
	MaxComments int64    `mapstructure:"max_comments"`
	Timeout     string   `mapstructure:"timeout"`
}

// Brief holds trend-brief pipeline configuration
type Brief struct {
	Timeframe            string `mapstructure:"timeframe"`
	RefreshIntervalHours int    `mapstructure:"refresh_interval_hours"`
	AutoRefresh          bool   `mapstructure:"auto_refresh"`
	MinRequestInterval   string `mapstructure:"min_request_interval"`
}

// Alerts holds alert threshold configuration
type Alerts struct {
	MinEngagementRate float64 `mapstructure:"min_engagement_rate"`
	ViewSpike         uint64  `mapstructure:"view_spike"`
}

// Cache holds cache configuration
type Cache struct {
	Directory string    `mapstructure:"directory"`
	TTL       TTLConfig `mapstructure:"ttl"`
}

// TTLConfig holds TTL configuration for cached content
type TTLConfig struct {
	Comments string `mapstructure:"comments"`
}

// Server holds the JSON API server configuration
type Server struct {
	Addr         string   `mapstructure:"addr"`
	CORSOrigins  []string `mapstructure:"cors_origins"`
	ReadTimeout  string   `mapstructure:"read_timeout"`
	WriteTimeout string   `mapstructure:"write_timeout"`
}

// Logging holds logging configuration
type Logging struct {
	Level string `mapstructure:"level"`
}

var globalConfig *Config

// Load loads the configuration from .env, config file, environment
// variables, and defaults, in that order of discovery.
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".trendlens")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := postProcessConfig(config); err != nil {
		return nil, fmt.Errorf("error post-processing config: %w", err)
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.data_dir", ".trendlens-cache")

	// AI defaults. An empty api_key is not an error: the pipeline runs
	// in demo mode with a canned generation client.
	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash-preview-05-20")
	viper.SetDefault("ai.gemini.timeout", "30s")
	viper.SetDefault("ai.gemini.max_tokens", 8192)
	viper.SetDefault("ai.gemini.temperature", 0.7)

	// YouTube defaults
	viper.SetDefault("youtube.channels", []string{})
	viper.SetDefault("youtube.max_videos", 10)
	viper.SetDefault("youtube.max_comments", 20)
	viper.SetDefault("youtube.timeout", "30s")

	// Brief defaults
	viper.SetDefault("brief.timeframe", "48 hours")
	viper.SetDefault("brief.refresh_interval_hours", 24)
	viper.SetDefault("brief.auto_refresh", false)
	viper.SetDefault("brief.min_request_interval", "2s")

	// Alert defaults
	viper.SetDefault("alerts.min_engagement_rate", 0.02)
	viper.SetDefault("alerts.view_spike", 100000)

	// Cache defaults
	viper.SetDefault("cache.directory", ".trendlens-cache")
	viper.SetDefault("cache.ttl.comments", "24h")

	// Server defaults
	viper.SetDefault("server.addr", "localhost:8484")
	viper.SetDefault("server.cors_origins", []string{"http://localhost:5173"})
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "60s")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
}

// bindEnvironmentVariables sets up flexible environment variable binding
func bindEnvironmentVariables() {
	// Gemini API key - support multiple formats
	bindEnvKeys("ai.gemini.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_GEMINI_API_KEY",
		"GOOGLE_AI_API_KEY",
	})

	// YouTube Data API key
	bindEnvKeys("youtube.api_key", []string{
		"YOUTUBE_API_KEY",
		"GOOGLE_YOUTUBE_API_KEY",
	})

	bindEnvKeys("app.debug", []string{
		"DEBUG",
		"TRENDLENS_DEBUG",
	})

	bindEnvKeys("server.addr", []string{
		"TRENDLENS_ADDR",
	})
}

// bindEnvKeys binds the first found environment variable to a viper key
func bindEnvKeys(viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			viper.Set(viperKey, value)
			return
		}
	}
}

// postProcessConfig validates durations and expands paths
func postProcessConfig(config *Config) error {
	if config.Cache.Directory != "" {
		config.Cache.Directory = expandPath(config.Cache.Directory)
	}
	if config.App.DataDir != "" {
		config.App.DataDir = expandPath(config.App.DataDir)
	}

	durations := map[string]string{
		"ai.gemini.timeout":          config.AI.Gemini.Timeout,
		"youtube.timeout":            config.YouTube.Timeout,
		"brief.min_request_interval": config.Brief.MinRequestInterval,
		"cache.ttl.comments":         config.Cache.TTL.Comments,
		"server.read_timeout":        config.Server.ReadTimeout,
		"server.write_timeout":       config.Server.WriteTimeout,
	}

	for key, duration := range durations {
		if duration != "" {
			if _, err := time.ParseDuration(duration); err != nil {
				return fmt.Errorf("invalid duration for %s: %s", key, duration)
			}
		}
	}

	if config.Brief.RefreshIntervalHours <= 0 {
		return fmt.Errorf("brief.refresh_interval_hours must be positive, got %d", config.Brief.RefreshIntervalHours)
	}

	return nil
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// Convenience getters for commonly used configuration values
func GetGeminiAPIKey() string  { return Get().AI.Gemini.APIKey }
func GetGeminiModel() string   { return Get().AI.Gemini.Model }
func GetYouTubeAPIKey() string { return Get().YouTube.APIKey }
func GetCacheDirectory() string {
	return Get().Cache.Directory
}
func IsDebugMode() bool { return Get().App.Debug }

// RefreshInterval returns the configured refresh interval as a duration.
func RefreshInterval() time.Duration {
	return time.Duration(Get().Brief.RefreshIntervalHours) * time.Hour
}

// MinRequestInterval returns the minimum spacing between generation
// requests, falling back to the 2s default on parse failure.
func MinRequestInterval() time.Duration {
	d, err := time.ParseDuration(Get().Brief.MinRequestInterval)
	if err != nil {
		return 2 * time.Second
	}
	return d
}

// Reset clears the global configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viper.Reset()
}
