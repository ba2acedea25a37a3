package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cedisense/cedisense/internal/common"
	"github.com/cedisense/cedisense/internal/model"
)

// Categorizer adapts a generative provider client to the categorization
// stage contract.
type Categorizer struct {
	client      Client
	cache       *resultCache
	rateLimiter *rateLimiter
	logger      *slog.Logger
	timeout     time.Duration
	retryOpts   common.RetryOptions
}

// NewCategorizer creates a generative categorizer from configuration.
func NewCategorizer(cfg Config, logger *slog.Logger) (*Categorizer, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return NewCategorizerWithClient(client, cfg, logger), nil
}

// NewCategorizerWithClient wraps an existing provider client. Tests use this
// to substitute a stub client for the real API.
func NewCategorizerWithClient(client Client, cfg Config, logger *slog.Logger) *Categorizer {
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	retryOpts := common.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 2
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	return &Categorizer{
		client:      client,
		cache:       newResultCache(cfg.CacheTTL),
		rateLimiter: newRateLimiter(cfg.RateLimit),
		logger:      logger,
		timeout:     timeout,
		retryOpts:   retryOpts,
	}
}

// Predict asks the generative model to categorize the description. The call
// is bounded by the configured timeout; exceeding it is a stage failure, not
// a hang. An answer outside the category enumeration is rejected the same
// way; the terminal rule stage handles whatever falls through.
func (c *Categorizer) Predict(ctx context.Context, description string) (model.CategorizationResult, error) {
	key := cacheKey(description)
	if result, found := c.cache.get(key); found {
		c.logger.Debug("generative cache hit", "description", description)
		return result, nil
	}

	if err := c.rateLimiter.wait(ctx); err != nil {
		return model.CategorizationResult{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var response ClassificationResponse
	err := common.WithRetry(ctx, func() error {
		var classifyErr error
		response, classifyErr = c.client.Classify(ctx, buildPrompt(description))
		return classifyErr
	}, c.retryOpts)
	if err != nil {
		return model.CategorizationResult{}, fmt.Errorf("generative classification failed: %w", err)
	}

	category := model.Category(response.Category)
	if !model.ValidCategory(category) {
		return model.CategorizationResult{}, fmt.Errorf("%w: generative model returned %q",
			common.ErrInvalidCategory, response.Category)
	}

	result := model.CategorizationResult{
		Category:   category,
		Confidence: response.Confidence,
		Method:     model.MethodGenerative,
	}
	c.cache.set(key, result)

	c.logger.Info("description classified by generative model",
		"category", result.Category,
		"confidence", result.Confidence)

	return result, nil
}

// Categories returns the full enumeration; the prompt constrains the model
// to it.
func (c *Categorizer) Categories() []model.Category {
	return model.Categories()
}

// Close releases the cache and rate limiter goroutines.
func (c *Categorizer) Close() {
	c.cache.Close()
	c.rateLimiter.Close()
}

// buildPrompt creates the classification prompt for one description.
func buildPrompt(description string) string {
	var categories []string
	for _, cat := range model.Categories() {
		categories = append(categories, string(cat))
	}

	return fmt.Sprintf(`Classify this personal expense description into exactly one of the allowed categories.

Allowed categories:
%s

Description: %s

Respond with a JSON object in this exact format:
{"category": "<one of the allowed categories>", "confidence": <number between 0 and 1>}`,
		"- "+strings.Join(categories, "\n- "),
		description)
}
