// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/suryansh00001/AI-Search/internal/domain"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type QueueConfig struct {
	Workers       int           `yaml:"workers"`        // concurrent pipeline workers
	MinInterval   time.Duration `yaml:"min_interval"`   // global spacing between dispatches
	StreamTimeout time.Duration `yaml:"stream_timeout"` // per-read wait bound for stream consumers
	Retention     time.Duration `yaml:"retention"`      // job lifetime after its stream drains
}

type AIConfig struct {
	GeminiKey       string  `yaml:"gemini_key"`
	GeminiURL       string  `yaml:"gemini_url"`
	OpenAIKey       string  `yaml:"openai_key"`
	OpenAIBaseURL   string  `yaml:"openai_base_url"`
	Model           string  `yaml:"model"`
	MaxTokens       int     `yaml:"max_tokens"`
	Temperature     float32 `yaml:"temperature"`
	MaxRetries      int     `yaml:"max_retries"`
	ConcurrentLimit int     `yaml:"concurrent_limit"` // max concurrent generation streams
}

type SearchConfig struct {
	TavilyKey  string        `yaml:"tavily_key"`
	MaxResults int           `yaml:"max_results"`
	CacheTTL   time.Duration `yaml:"cache_ttl"`
}

type PDFConfig struct {
	MaxChars int `yaml:"max_chars"`
}

type RedisConfig struct {
	URL string `yaml:"url"` // optional; enables the search cache
}

type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Queue  QueueConfig  `yaml:"queue"`
	AI     AIConfig     `yaml:"ai"`
	Search SearchConfig `yaml:"search"`
	PDF    PDFConfig    `yaml:"pdf"`
	Redis  RedisConfig  `yaml:"redis"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	// Minimal validation. Search and PDF degrade at call time when
	// unconfigured; generation credentials are required up front.
	if cfg.AI.GeminiKey == "" && cfg.AI.OpenAIKey == "" && !dev {
		return nil, fmt.Errorf("ai.gemini_key or ai.openai_key: %w", domain.ErrConfigMissing)
	}
	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Queue.Workers <= 0 {
		cfg.Queue.Workers = 1
	}
	if cfg.Queue.MinInterval <= 0 {
		// Free-tier upstream quota: 5 requests/minute.
		cfg.Queue.MinInterval = 12 * time.Second
	}
	if cfg.Queue.StreamTimeout <= 0 {
		cfg.Queue.StreamTimeout = 5 * time.Minute
	}
	if cfg.Queue.Retention <= 0 {
		cfg.Queue.Retention = time.Minute
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.5-flash"
	}
	if cfg.AI.MaxTokens <= 0 {
		cfg.AI.MaxTokens = 1024
	}
	if cfg.AI.Temperature <= 0 {
		cfg.AI.Temperature = 0.5
	}
	if cfg.AI.MaxRetries <= 0 {
		cfg.AI.MaxRetries = 3
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 4
	}
	if cfg.Search.MaxResults <= 0 {
		cfg.Search.MaxResults = 3
	}
	if cfg.Search.CacheTTL <= 0 {
		cfg.Search.CacheTTL = time.Hour
	}
	if cfg.PDF.MaxChars <= 0 {
		cfg.PDF.MaxChars = 50000
	}
}
