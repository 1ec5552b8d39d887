package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	coreconfig "github.com/go-core-fx/config"
	"github.com/joho/godotenv"
)

const (
	DefaultBaseURL   = "https://api.storehubhq.com"
	DefaultRateLimit = 3.0

	accountPlaceholder = "{account}"
)

var ErrMissingCredentials = errors.New("STOREHUB_API_KEY and STOREHUB_ACCOUNT_ID are required (or set STOREHUB_MOCK_MODE=true)")

type Config struct {
	APIKey      string        `koanf:"storehub_api_key"`
	AccountID   string        `koanf:"storehub_account_id"`
	StoreID     string        `koanf:"storehub_store_id"`
	BaseURL     string        `koanf:"storehub_base_url"`
	RateLimit   float64       `koanf:"storehub_rate_limit"`
	MockMode    bool          `koanf:"storehub_mock_mode"`
	Timeout     time.Duration `koanf:"timeout"`
	LogFile     string        `koanf:"log_file"`
	Debug       bool          `koanf:"debug"`
	MetricsAddr string        `koanf:"metrics_addr"`
	LLMBaseURL  string        `koanf:"llm_base_url"`
	LLMAPIKey   string        `koanf:"llm_api_key"`
	LLMModel    string        `koanf:"llm_model"`
}

func New() (Config, error) {
	cfg := Config{
		BaseURL:   DefaultBaseURL,
		RateLimit: DefaultRateLimit,
		Timeout:   30 * time.Second,
		LogFile:   "./storehub-mcp.log",
		Debug:     false,
	}

	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	if err := coreconfig.Load(&cfg); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}

	return cfg.normalized(), nil
}

func (c Config) normalized() Config {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.AccountID = strings.TrimSpace(c.AccountID)
	c.StoreID = strings.TrimSpace(c.StoreID)
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.RateLimit <= 0 {
		c.RateLimit = DefaultRateLimit
	}
	return c
}

// HasCredentials reports whether both StoreHub secrets are present.
func (c Config) HasCredentials() bool {
	return strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.AccountID) != ""
}

// RequireCredentials fails unless the process can talk to the live API.
func (c Config) RequireCredentials() error {
	if c.MockMode || c.HasCredentials() {
		return nil
	}
	return ErrMissingCredentials
}

// ResolvedBaseURL substitutes the account id into the base URL template.
func (c Config) ResolvedBaseURL() string {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.ReplaceAll(base, accountPlaceholder, url.PathEscape(strings.TrimSpace(c.AccountID)))
}
