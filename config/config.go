package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Env      string `yaml:"env"` // "development" or "production"
	LogLevel string `yaml:"log_level"`

	// Root of the per-project session directories (~/.claude/projects)
	ProjectsDir string `yaml:"projects_dir"`

	// Local completion endpoint used for titling
	EndpointURL string        `yaml:"endpoint_url"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`

	// Excerpt bounds
	MaxChars    int `yaml:"max_chars"`
	NumMessages int `yaml:"num_messages"`

	// Binary spawned by the session picker to resume a session
	ClaudeBin string `yaml:"claude_bin"`
}

// TitlerConfig is the explicit configuration value handed to the titler components.
type TitlerConfig struct {
	EndpointURL  string
	ModelID      string
	APIKey       string
	MaxChars     int
	NumMessages  int
	MaxTokens    int
	Temperature  float32
	Timeout      time.Duration
	IndexRootDir string
}

// Default returns the built-in configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Env:         "development",
		LogLevel:    "info",
		ProjectsDir: filepath.Join(homeDir, ".claude", "projects"),
		EndpointURL: "http://localhost:1234/v1",
		Model:       "qwen/qwen3-4b",
		APIKey:      "lm-studio",
		MaxTokens:   200,
		Temperature: 0.3,
		Timeout:     60 * time.Second,
		MaxChars:    4000,
		NumMessages: 10,
		ClaudeBin:   "claude",
	}
}

// Load builds the configuration from defaults, the optional YAML file and
// environment variables, in that order of precedence (env wins).
func Load() (*Config, error) {
	cfg := Default()

	path := FilePath()
	if err := cfg.mergeFile(path); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	cfg.mergeEnv()
	cfg.ProjectsDir = expandHome(cfg.ProjectsDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FilePath returns the YAML config file location.
func FilePath() string {
	if p := os.Getenv("CLAUDE_TITLER_CONFIG"); p != "" {
		return expandHome(p)
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "claude-titler", "config.yaml")
}

// mergeFile overlays values from a YAML file. A missing file is not an error.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) mergeEnv() {
	c.Env = getEnv("ENV", c.Env)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.ProjectsDir = getEnv("CLAUDE_PROJECTS_DIR", c.ProjectsDir)
	c.EndpointURL = getEnv("TITLER_ENDPOINT_URL", c.EndpointURL)
	c.Model = getEnv("TITLER_MODEL", c.Model)
	c.APIKey = getEnv("TITLER_API_KEY", c.APIKey)
	c.MaxTokens = getEnvInt("TITLER_MAX_TOKENS", c.MaxTokens)
	c.Temperature = getEnvFloat32("TITLER_TEMPERATURE", c.Temperature)
	c.Timeout = getEnvDuration("TITLER_TIMEOUT", c.Timeout)
	c.MaxChars = getEnvInt("TITLER_MAX_CHARS", c.MaxChars)
	c.NumMessages = getEnvInt("TITLER_NUM_MESSAGES", c.NumMessages)
	c.ClaudeBin = getEnv("CLAUDE_BIN", c.ClaudeBin)
}

// Validate rejects values the titler cannot work with.
func (c *Config) Validate() error {
	if c.EndpointURL == "" {
		return fmt.Errorf("endpoint url must not be empty")
	}
	if c.Model == "" {
		return fmt.Errorf("model must not be empty")
	}
	// "..." prefix needs room
	if c.MaxChars < 4 {
		return fmt.Errorf("max_chars must be at least 4, got %d", c.MaxChars)
	}
	if c.NumMessages < 1 {
		return fmt.Errorf("num_messages must be at least 1, got %d", c.NumMessages)
	}
	if c.ProjectsDir == "" {
		return fmt.Errorf("projects dir must not be empty")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}

// Titler returns the titler sub-configuration.
func (c *Config) Titler() TitlerConfig {
	return TitlerConfig{
		EndpointURL:  c.EndpointURL,
		ModelID:      c.Model,
		APIKey:       c.APIKey,
		MaxChars:     c.MaxChars,
		NumMessages:  c.NumMessages,
		MaxTokens:    c.MaxTokens,
		Temperature:  c.Temperature,
		Timeout:      c.Timeout,
		IndexRootDir: c.ProjectsDir,
	}
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(f)
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func expandHome(path string) string {
	if path == "~" || (len(path) > 1 && path[:2] == "~/") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
