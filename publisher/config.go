package publisher

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"auto_presentation_generator/assembler"
	"auto_presentation_generator/generator"
	"auto_presentation_generator/imagesearch"
	"auto_presentation_generator/logger"
)

const (
	DefaultProvider   = "openai"
	DefaultModel      = "gpt-3.5-turbo"
	DefaultServerAddr = ":8080"
	DefaultTemplates  = "templates"
)

// Config is the on-disk configuration (YAML) after env overrides.
type Config struct {
	LLM          *LLMConfig    `yaml:"llm,omitempty"`
	Images       ImagesConfig  `yaml:"images"`
	TemplatesDir string        `yaml:"templates_dir"`
	ServerAddr   string        `yaml:"server_addr"`
	Log          logger.Config `yaml:"log"`
}

// LLMConfig 生成模块的模型配置。
type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int64         `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ImagesConfig tunes image search and download.
type ImagesConfig struct {
	SearchURL     string        `yaml:"search_url"`
	MaxPages      int           `yaml:"max_pages"`
	MaxImageBytes int64         `yaml:"max_image_bytes"`
	Blocklist     []string      `yaml:"blocklist"`
	Timeout       time.Duration `yaml:"timeout"`
	OutlineFilter string        `yaml:"outline_filter"`
	DeckFilter    string        `yaml:"deck_filter"`
	Concurrency   int           `yaml:"concurrency"`
	// SearchAttempts bounds tries per results page; RetryInterval is the
	// first backoff wait between them.
	SearchAttempts int           `yaml:"search_attempts"`
	RetryInterval  time.Duration `yaml:"retry_interval"`
	// SafeSearch turns the search engine's adult filter on; it is off by default.
	SafeSearch bool `yaml:"safe_search"`
}

// Settings converts the llm section for generator clients.
func (c *LLMConfig) Settings() *generator.LLMSettings {
	return &generator.LLMSettings{
		Provider:    c.Provider,
		Model:       c.Model,
		APIKey:      c.APIKey,
		BaseURL:     c.BaseURL,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		Timeout:     c.Timeout,
	}
}

// Resolver returns the imagesearch configuration.
func (c ImagesConfig) Resolver() imagesearch.Config {
	return imagesearch.Config{
		SearchURL:      c.SearchURL,
		MaxPages:       c.MaxPages,
		MaxImageBytes:  c.MaxImageBytes,
		Blocklist:      c.Blocklist,
		SearchAttempts: c.SearchAttempts,
		RetryInterval:  c.RetryInterval,
	}
}

// Assembler returns the assembler configuration.
func (c ImagesConfig) Assembler() assembler.Config {
	return assembler.Config{
		OutlineFilter:  c.OutlineFilter,
		DeckFilter:     c.DeckFilter,
		FetchTimeout:   c.Timeout,
		AdultFilterOff: !c.SafeSearch,
		Concurrency:    c.Concurrency,
	}
}

// LoadConfig reads .env files, the YAML file at path and environment
// overrides, then fills defaults. A missing file is not an error: the
// service can run from the environment alone.
func LoadConfig(path string) (Config, error) {
	if err := loadEnvFiles(); err != nil {
		return Config{}, err
	}
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	applyEnv(&cfg)
	cfg.setDefaults()
	return cfg, nil
}

func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if cfg.LLM == nil {
		cfg.LLM = &LLMConfig{}
	}
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&cfg.LLM.APIKey, "OPENAI_API_KEY")
	set(&cfg.LLM.Provider, "LLM_PROVIDER")
	set(&cfg.LLM.Model, "LLM_MODEL")
	set(&cfg.LLM.BaseURL, "LLM_BASE_URL")
	set(&cfg.ServerAddr, "SERVER_ADDR")
	set(&cfg.Log.Level, "LOG_LEVEL")
	set(&cfg.TemplatesDir, "TEMPLATES_DIR")
}

func (c *Config) setDefaults() {
	if c.LLM == nil {
		c.LLM = &LLMConfig{}
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = DefaultProvider
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultModel
	}
	if c.ServerAddr == "" {
		c.ServerAddr = DefaultServerAddr
	}
	if c.TemplatesDir == "" {
		c.TemplatesDir = DefaultTemplates
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Images.Timeout <= 0 {
		c.Images.Timeout = imagesearch.DefaultTimeout
	}
}
