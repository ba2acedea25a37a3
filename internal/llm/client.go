package llm

import (
	"context"
	"time"
)

// Client defines the interface for generative model providers.
type Client interface {
	Classify(ctx context.Context, prompt string) (ClassificationResponse, error)
}

// ClassificationResponse contains the provider's raw classification result.
type ClassificationResponse struct {
	Category   string
	Confidence float64
}

// Config holds configuration for the generative fallback stage.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
	CacheTTL    time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}
