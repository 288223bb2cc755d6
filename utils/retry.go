package utils

import (
	"net/http"
	"time"

	"github.com/PuerkitoBio/rehttp"
)

// RetryConfig controls the retrying HTTP client used for upstream APIs.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Timeout    time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   8 * time.Second,
		Timeout:    90 * time.Second,
	}
}

// NewRetryingClient returns an http.Client that retries rate limited (429),
// unavailable (503) and temporary network failures with exponential jittered
// backoff. Request bodies are buffered by the transport so POSTs can be resent.
func NewRetryingClient(cfg RetryConfig) *http.Client {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultRetryConfig().BaseDelay
	}
	if cfg.MaxDelay < cfg.BaseDelay {
		cfg.MaxDelay = cfg.BaseDelay
	}

	transport := rehttp.NewTransport(
		http.DefaultTransport,
		rehttp.RetryAll(
			rehttp.RetryMaxRetries(cfg.MaxRetries),
			rehttp.RetryAny(
				rehttp.RetryStatuses(http.StatusTooManyRequests, http.StatusServiceUnavailable),
				rehttp.RetryTemporaryErr(),
			),
		),
		rehttp.ExpJitterDelay(cfg.BaseDelay, cfg.MaxDelay),
	)

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}
}
