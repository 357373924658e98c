package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"
)

const bytesInMB = 1024 * 1024

// Config holds all configuration for the bot
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Download DownloadConfig `yaml:"download"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Logging  LoggingConfig  `yaml:"logging"`
	Service  ServiceConfig  `yaml:"service"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken    string        `yaml:"bot_token"`
	SendTimeout time.Duration `yaml:"send_timeout"`
}

// DownloadConfig holds download pipeline configuration
type DownloadConfig struct {
	Dir              string        `yaml:"dir"`
	MaxFileSize      int64         `yaml:"-"`
	MaxFileSizeMB    int64         `yaml:"max_file_size_mb"`
	FetchTimeout     time.Duration `yaml:"fetch_timeout"`
	MaxConcurrent    int           `yaml:"max_concurrent"`
	RatePerMinute    int           `yaml:"rate_limit_per_minute"`
	RateBurst        int           `yaml:"rate_limit_burst"`
	YtDlpPath        string        `yaml:"ytdlp_path"`
	InstagramCookies string        `yaml:"instagram_cookies"`
}

// KafkaConfig holds Kafka configuration. Empty Brokers disables event publishing.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Enabled reports whether download events should be published
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name string `yaml:"name"`
	Port string `yaml:"port"`
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config   *Config
	Telegram *TelegramConfig
	Download *DownloadConfig
	Kafka    *KafkaConfig
	Logging  *LoggingConfig
	Service  *ServiceConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:   cfg,
		Telegram: &cfg.Telegram,
		Download: &cfg.Download,
		Kafka:    &cfg.Kafka,
		Logging:  &cfg.Logging,
		Service:  &cfg.Service,
	}, nil
}

// Default returns configuration with built-in defaults
func Default() *Config {
	return &Config{
		Telegram: TelegramConfig{
			SendTimeout: 2 * time.Minute,
		},
		Download: DownloadConfig{
			Dir:           "downloads",
			MaxFileSizeMB: 50,
			FetchTimeout:  5 * time.Minute,
			MaxConcurrent: 4,
			RatePerMinute: 6,
			RateBurst:     3,
			YtDlpPath:     "yt-dlp",
		},
		Kafka: KafkaConfig{
			Topic: "downloads.events",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Service: ServiceConfig{
			Name: "savevideo-bot",
			Port: "8080",
		},
	}
}

// Load loads configuration from defaults, optional YAML file and environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.Download.MaxFileSize = cfg.Download.MaxFileSizeMB * bytesInMB

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeFile overlays values from a YAML file on top of the current config
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

func (c *Config) applyEnv() error {
	var err error

	c.Telegram.BotToken = getEnv("BOT_TOKEN", getEnv("TELEGRAM_BOT_TOKEN", c.Telegram.BotToken))
	if c.Telegram.SendTimeout, err = getEnvDuration("SEND_TIMEOUT", c.Telegram.SendTimeout); err != nil {
		return err
	}

	c.Download.Dir = getEnv("DOWNLOADS_DIR", c.Download.Dir)
	if c.Download.MaxFileSizeMB, err = getEnvInt64("MAX_FILE_SIZE_MB", c.Download.MaxFileSizeMB); err != nil {
		return err
	}
	if c.Download.FetchTimeout, err = getEnvDuration("FETCH_TIMEOUT", c.Download.FetchTimeout); err != nil {
		return err
	}
	if c.Download.MaxConcurrent, err = getEnvInt("MAX_CONCURRENT_DOWNLOADS", c.Download.MaxConcurrent); err != nil {
		return err
	}
	if c.Download.RatePerMinute, err = getEnvInt("RATE_LIMIT_PER_MINUTE", c.Download.RatePerMinute); err != nil {
		return err
	}
	if c.Download.RateBurst, err = getEnvInt("RATE_LIMIT_BURST", c.Download.RateBurst); err != nil {
		return err
	}
	c.Download.YtDlpPath = getEnv("YTDLP_PATH", c.Download.YtDlpPath)
	c.Download.InstagramCookies = getEnv("INSTAGRAM_COOKIES", c.Download.InstagramCookies)

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		c.Kafka.Brokers = splitList(brokers)
	}
	c.Kafka.Topic = getEnv("KAFKA_TOPIC", c.Kafka.Topic)

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Service.Name = getEnv("SERVICE_NAME", c.Service.Name)
	c.Service.Port = getEnv("SERVICE_PORT", c.Service.Port)

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}

	if c.Telegram.SendTimeout <= 0 {
		return fmt.Errorf("SEND_TIMEOUT must be positive")
	}

	if c.Download.Dir == "" {
		return fmt.Errorf("DOWNLOADS_DIR is required")
	}

	if c.Download.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE_MB must be positive")
	}

	if c.Download.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}

	if c.Download.MaxConcurrent <= 0 {
		return fmt.Errorf("MAX_CONCURRENT_DOWNLOADS must be positive")
	}

	if c.Download.RatePerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}

	if c.Download.RatePerMinute > 0 && c.Download.RateBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive when rate limiting is enabled")
	}

	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
