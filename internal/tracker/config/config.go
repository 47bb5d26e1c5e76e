package config

import (
	"time"

	"golang-upper-limit-tracker/pkg/config"
)

// Crawler holds settings for the upper-limit movers page scraper.
type Crawler struct {
	MoversURL     string        `mapstructure:"movers_url"`
	UserAgent     string        `mapstructure:"user_agent"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MinChangeRate float64       `mapstructure:"min_change_rate"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	MaxConcurrent int           `mapstructure:"max_concurrent"`
}

// News holds settings for the news search scraper and its RSS fallback.
type News struct {
	SearchURL  string        `mapstructure:"search_url"`
	RSSBaseURL string        `mapstructure:"rss_base_url"`
	Keyword    string        `mapstructure:"keyword"`
	MaxResults int           `mapstructure:"max_results"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// AI holds configuration for AI providers.
type AI struct {
	Provider string `mapstructure:"provider"`
}

// OpenAI holds the configuration for the OpenAI API.
type OpenAI struct {
	BaseURL             string `mapstructure:"base_url"`
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	BaseURL             string `mapstructure:"base_url"`
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Scheduler holds configuration for the batch ingestion trigger.
type Scheduler struct {
	Enabled  bool          `mapstructure:"enabled"`
	CronSpec string        `mapstructure:"cron_spec"`
	Timezone string        `mapstructure:"timezone"`
	LockTTL  time.Duration `mapstructure:"lock_ttl"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the tracker service.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	API       config.API      `mapstructure:"api"`
	Crawler   Crawler         `mapstructure:"crawler"`
	News      News            `mapstructure:"news"`
	AI        AI              `mapstructure:"ai"`
	OpenAI    OpenAI          `mapstructure:"openai"`
	Gemini    Gemini          `mapstructure:"gemini"`
	Scheduler Scheduler       `mapstructure:"scheduler"`
	Telegram  Telegram        `mapstructure:"telegram"`
}

// Load loads the tracker configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
