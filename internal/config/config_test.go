package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireCredentials(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "both present", cfg: Config{APIKey: "key", AccountID: "acme"}},
		{name: "missing key", cfg: Config{AccountID: "acme"}, wantErr: true},
		{name: "missing account", cfg: Config{APIKey: "key"}, wantErr: true},
		{name: "whitespace only", cfg: Config{APIKey: "  ", AccountID: "\t"}, wantErr: true},
		{name: "mock mode without secrets", cfg: Config{MockMode: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.RequireCredentials()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingCredentials)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestResolvedBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, Config{AccountID: "acme"}.ResolvedBaseURL())
	assert.Equal(t,
		"https://acme.api.example.com",
		Config{BaseURL: "https://{account}.api.example.com", AccountID: "acme"}.ResolvedBaseURL(),
	)
}

func TestNormalized(t *testing.T) {
	cfg := Config{
		APIKey:    " key ",
		AccountID: " acme ",
		BaseURL:   "https://api.example.com/",
		RateLimit: -1,
	}.normalized()

	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, "acme", cfg.AccountID)
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, DefaultRateLimit, cfg.RateLimit)
}
