package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // timezone names resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration settings
type Config struct {
	GitHub   GitHubConfig   `yaml:"github" mapstructure:"github"`
	Trending TrendingConfig `yaml:"trending" mapstructure:"trending"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

type GitHubConfig struct {
	BaseURL           string        `yaml:"base_url" mapstructure:"base_url"`
	Token             string        `yaml:"token" mapstructure:"token"` // Optional, raises the upstream quota
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	SearchPerPage     int           `yaml:"search_per_page" mapstructure:"search_per_page"`
}

type TrendingConfig struct {
	EventsPerPage int    `yaml:"events_per_page" mapstructure:"events_per_page"`
	MaxEventPages int    `yaml:"max_event_pages" mapstructure:"max_event_pages"`
	Concurrency   int    `yaml:"concurrency" mapstructure:"concurrency"` // 1 = sequential
	Timezone      string `yaml:"timezone" mapstructure:"timezone"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr" mapstructure:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`

	// AllowedOrigins enables CORS for browser clients; empty disables it
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // "text", "json"
	File   string `yaml:"file" mapstructure:"file"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		GitHub: GitHubConfig{
			BaseURL:           "https://api.github.com/",
			RequestsPerSecond: 10,
			Timeout:           30 * time.Second,
			SearchPerPage:     30,
		},
		Trending: TrendingConfig{
			EventsPerPage: 100,
			MaxEventPages: 3,
			Concurrency:   1,
			Timezone:      "UTC",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 2 * time.Minute, // a cold search walks up to 3 event pages per candidate
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from file
func Load(path string) (*Config, error) {
	// Load .env files first (in order of precedence)
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	setDefaults(v, cfg)

	v.SetEnvPrefix("STARTREND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".startrend")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".startrend"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("github.base_url", cfg.GitHub.BaseURL)
	v.SetDefault("github.requests_per_second", cfg.GitHub.RequestsPerSecond)
	v.SetDefault("github.timeout", cfg.GitHub.Timeout)
	v.SetDefault("github.search_per_page", cfg.GitHub.SearchPerPage)
	v.SetDefault("trending.events_per_page", cfg.Trending.EventsPerPage)
	v.SetDefault("trending.max_event_pages", cfg.Trending.MaxEventPages)
	v.SetDefault("trending.concurrency", cfg.Trending.Concurrency)
	v.SetDefault("trending.timezone", cfg.Trending.Timezone)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.read_timeout", cfg.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", cfg.Server.WriteTimeout)
	v.SetDefault("server.allowed_origins", cfg.Server.AllowedOrigins)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
}

// loadEnvFiles loads .env files in order of precedence
func loadEnvFiles() {
	// godotenv never overrides a variable that is already set, so the first file wins
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}

	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".startrend", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		_ = godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.GitHub.Token = token
	}
	if url := os.Getenv("GITHUB_API_URL"); url != "" {
		cfg.GitHub.BaseURL = url
	}
	if rps := os.Getenv("GITHUB_REQUESTS_PER_SECOND"); rps != "" {
		if f, err := strconv.ParseFloat(rps, 64); err == nil {
			cfg.GitHub.RequestsPerSecond = f
		}
	}
	if level := os.Getenv("STARTREND_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if c := os.Getenv("STARTREND_CONCURRENCY"); c != "" {
		if n, err := strconv.Atoi(c); err == nil {
			cfg.Trending.Concurrency = n
		}
	}
	if addr := os.Getenv("STARTREND_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
}

// Location resolves the configured timezone used for calendar-day boundaries
func (c *Config) Location() (*time.Location, error) {
	if c.Trending.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Trending.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Trending.Timezone, err)
	}
	return loc, nil
}

// Redacted returns a copy safe for display
func (c *Config) Redacted() *Config {
	out := *c
	if out.GitHub.Token != "" {
		out.GitHub.Token = "********"
	}
	return &out
}

// YAML renders the configuration as YAML
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	data, err := c.YAML()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
