package quota

import (
	"net/http"
	"time"
)

// Config holds the client settings for reaching a quota deployment.
type Config struct {
	BaseURL string        `env:"QUOTA_BASE_URL,required"`
	APIKey  string        `env:"QUOTA_API_KEY"`
	Timeout time.Duration `env:"QUOTA_TIMEOUT" envDefault:"10s"`
}

// NewClientFromConfig builds a Client from environment-driven config.
func NewClientFromConfig(cfg Config) *Client {
	opts := []ClientOption{
		WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.APIKey != "" {
		opts = append(opts, WithClientAPIKey(cfg.APIKey))
	}
	return NewClient(cfg.BaseURL, opts...)
}
