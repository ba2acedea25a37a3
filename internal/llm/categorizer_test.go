package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cedisense/cedisense/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient is a contract-conforming fake provider. The generative stage is
// non-deterministic in production, so tests pin it to fixed responses.
type stubClient struct {
	response ClassificationResponse
	err      error
	delay    time.Duration
	calls    int
}

func (s *stubClient) Classify(ctx context.Context, _ string) (ClassificationResponse, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ClassificationResponse{}, ctx.Err()
		}
	}
	if s.err != nil {
		return ClassificationResponse{}, s.err
	}
	return s.response, nil
}

func newTestCategorizer(client Client) *Categorizer {
	return NewCategorizerWithClient(client, Config{
		Timeout:    time.Second,
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
		RateLimit:  600,
	}, nil)
}

func TestCategorizer_Predict(t *testing.T) {
	client := &stubClient{response: ClassificationResponse{Category: "food", Confidence: 0.82}}
	categorizer := newTestCategorizer(client)
	defer categorizer.Close()

	result, err := categorizer.Predict(context.Background(), "mystery brunch spot")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryFood, result.Category)
	assert.Equal(t, 0.82, result.Confidence)
	assert.Equal(t, model.MethodGenerative, result.Method)
}

func TestCategorizer_CachesByNormalizedDescription(t *testing.T) {
	client := &stubClient{response: ClassificationResponse{Category: "travel", Confidence: 0.7}}
	categorizer := newTestCategorizer(client)
	defer categorizer.Close()

	_, err := categorizer.Predict(context.Background(), "Weekend  Trip Deposit")
	require.NoError(t, err)
	_, err = categorizer.Predict(context.Background(), "weekend trip deposit")
	require.NoError(t, err)

	assert.Equal(t, 1, client.calls, "second call should be served from cache")
}

func TestCategorizer_ProviderErrorIsStageFailure(t *testing.T) {
	client := &stubClient{err: errors.New("upstream unavailable")}
	categorizer := newTestCategorizer(client)
	defer categorizer.Close()

	_, err := categorizer.Predict(context.Background(), "anything")
	assert.Error(t, err)
}

func TestCategorizer_RejectsUnknownCategory(t *testing.T) {
	client := &stubClient{response: ClassificationResponse{Category: "gambling", Confidence: 0.9}}
	categorizer := newTestCategorizer(client)
	defer categorizer.Close()

	_, err := categorizer.Predict(context.Background(), "lottery ticket")
	assert.Error(t, err)
}

func TestCategorizer_TimeoutEnforced(t *testing.T) {
	client := &stubClient{
		response: ClassificationResponse{Category: "food", Confidence: 0.9},
		delay:    500 * time.Millisecond,
	}
	categorizer := NewCategorizerWithClient(client, Config{
		Timeout:    50 * time.Millisecond,
		MaxRetries: 1,
		RateLimit:  600,
	}, nil)
	defer categorizer.Close()

	start := time.Now()
	_, err := categorizer.Predict(context.Background(), "slow response")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 400*time.Millisecond, "timeout must bound the call")
}

func TestCategorizer_Categories(t *testing.T) {
	categorizer := newTestCategorizer(&stubClient{})
	defer categorizer.Close()

	assert.Equal(t, model.Categories(), categorizer.Categories())
}

func TestCacheExpiry(t *testing.T) {
	cache := newResultCache(10 * time.Millisecond)
	defer cache.Close()

	cache.set("k", model.CategorizationResult{Category: model.CategoryFood})
	_, found := cache.get("k")
	assert.True(t, found)
	assert.Equal(t, 1, cache.size())

	time.Sleep(20 * time.Millisecond)
	_, found = cache.get("k")
	assert.False(t, found)
}
