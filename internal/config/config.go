// Package config loads dorkgen settings from a YAML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when no --config flag is given.
const DefaultPath = "dorkgen.yaml"

// Provider names accepted in llm.provider.
const (
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"
)

// StorageConfig locates the local dork database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LogConfig controls the file logger.
type LogConfig struct {
	Dir   string `yaml:"dir"`
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// GenerationConfig tunes the generation coordinator.
type GenerationConfig struct {
	BatchSize int           `yaml:"batch_size"`
	Delay     time.Duration `yaml:"delay"`
}

// LLMConfig selects and configures the text-generation backend.
type LLMConfig struct {
	Provider   string        `yaml:"provider"`
	APIKey     string        `yaml:"api_key"`
	BaseURL    string        `yaml:"base_url"`
	Model      string        `yaml:"model"`
	MaxRetries int           `yaml:"max_retries"`
	Timeout    time.Duration `yaml:"timeout"`
}

// SearchConfig configures the automated web search.
type SearchConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Delay       time.Duration `yaml:"delay"`
	Timeout     time.Duration `yaml:"timeout"`
	Proxy       string        `yaml:"proxy"`
	RandomAgent bool          `yaml:"random_agent"`
}

// ShodanConfig configures the device index search.
type ShodanConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Config is the full dorkgen configuration.
type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	Log        LogConfig        `yaml:"log"`
	Generation GenerationConfig `yaml:"generation"`
	LLM        LLMConfig        `yaml:"llm"`
	Search     SearchConfig     `yaml:"search"`
	Shodan     ShodanConfig     `yaml:"shodan"`
}

// Default returns the built-in configuration. The YAML file is decoded on
// top of it, so a key that is present in the file (even with a zero value
// such as "0s") wins over the default.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{DBPath: "db/google_dorks.db"},
		Log: LogConfig{
			Dir:   "logs",
			File:  "google_dorks.log",
			Level: "info",
		},
		Generation: GenerationConfig{
			BatchSize: 5,
			Delay:     2 * time.Second,
		},
		LLM: LLMConfig{
			Provider:   ProviderGoogle,
			Model:      "gemini-1.5-pro-latest",
			MaxRetries: 2,
			Timeout:    60 * time.Second,
		},
		Search: SearchConfig{
			BaseURL:     "https://www.google.com",
			Delay:       2 * time.Second,
			Timeout:     30 * time.Second,
			RandomAgent: true,
		},
		Shodan: ShodanConfig{
			BaseURL: "https://api.shodan.io",
			Timeout: 30 * time.Second,
		},
	}
}

// Load reads the YAML file at path (DefaultPath when empty), applies
// DORKGEN_* environment overrides and validates the result. A missing file
// is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.DBPath) == "" {
		return errors.New("config: storage.db_path cannot be empty")
	}
	if strings.TrimSpace(c.Log.Dir) == "" {
		return errors.New("config: log.dir cannot be empty")
	}
	if strings.TrimSpace(c.Log.File) == "" {
		return errors.New("config: log.file cannot be empty")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log.level %q", c.Log.Level)
	}
	switch strings.ToLower(c.LLM.Provider) {
	case ProviderGoogle, ProviderOpenAI:
	default:
		return fmt.Errorf("config: unknown llm.provider %q", c.LLM.Provider)
	}
	if c.Generation.BatchSize < 1 {
		return fmt.Errorf("config: generation.batch_size must be at least 1, got %d", c.Generation.BatchSize)
	}
	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("config: llm.max_retries cannot be negative, got %d", c.LLM.MaxRetries)
	}

	durations := []struct {
		name string
		d    time.Duration
	}{
		{"generation.delay", c.Generation.Delay},
		{"llm.timeout", c.LLM.Timeout},
		{"search.delay", c.Search.Delay},
		{"search.timeout", c.Search.Timeout},
		{"shodan.timeout", c.Shodan.Timeout},
	}
	for _, d := range durations {
		if d.d < 0 {
			return fmt.Errorf("config: %s cannot be negative, got %s", d.name, d.d)
		}
	}
	return nil
}

func applyEnvOverrides(c *Config) error {
	setString(&c.Storage.DBPath, "DORKGEN_DB_PATH")
	setString(&c.Log.Dir, "DORKGEN_LOG_DIR")
	setString(&c.Log.Level, "DORKGEN_LOG_LEVEL")
	setString(&c.LLM.Provider, "DORKGEN_LLM_PROVIDER")
	setString(&c.LLM.APIKey, "DORKGEN_LLM_API_KEY")
	setString(&c.LLM.BaseURL, "DORKGEN_LLM_BASE_URL")
	setString(&c.LLM.Model, "DORKGEN_LLM_MODEL")
	setString(&c.Search.BaseURL, "DORKGEN_SEARCH_BASE_URL")
	setString(&c.Search.Proxy, "DORKGEN_SEARCH_PROXY")
	setString(&c.Shodan.APIKey, "DORKGEN_SHODAN_API_KEY")
	setString(&c.Shodan.BaseURL, "DORKGEN_SHODAN_BASE_URL")

	if err := setInt(&c.Generation.BatchSize, "DORKGEN_BATCH_SIZE"); err != nil {
		return err
	}
	if err := setDuration(&c.Generation.Delay, "DORKGEN_GENERATION_DELAY"); err != nil {
		return err
	}
	return setDuration(&c.Search.Delay, "DORKGEN_SEARCH_DELAY")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = d
	return nil
}
