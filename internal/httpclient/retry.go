package httpclient

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/aleister1102/holidaysync/internal/common/errorwrapper"
	"github.com/rs/zerolog"
)

// RetryHandlerConfig configuration for retry handler
type RetryHandlerConfig struct {
	MaxRetries   int
	BaseDelay    time.Duration
	MaxDelay     time.Duration
	EnableJitter bool
}

func DefaultRetryHandlerConfig() RetryHandlerConfig {
	return RetryHandlerConfig{
		MaxRetries:   2,
		BaseDelay:    2 * time.Second,
		MaxDelay:     30 * time.Second,
		EnableJitter: true,
	}
}

// RetryHandler retries network failures and retryable HTTP statuses with exponential backoff
type RetryHandler struct {
	config RetryHandlerConfig
	logger zerolog.Logger
}

func NewRetryHandler(config RetryHandlerConfig, logger zerolog.Logger) *RetryHandler {
	return &RetryHandler{
		config: config,
		logger: logger.With().Str("component", "RetryHandler").Logger(),
	}
}

// ShouldRetry reports whether err is transient and attempts remain.
func (rh *RetryHandler) ShouldRetry(err error, attempt int) bool {
	if err == nil || attempt >= rh.config.MaxRetries {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var httpErr *errorwrapper.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Retryable()
	}
	return errors.Is(err, errorwrapper.ErrNetworkFailure)
}

// CalculateDelay returns baseDelay * 2^attempt, capped at MaxDelay, plus up to 10% jitter.
func (rh *RetryHandler) CalculateDelay(attempt int) time.Duration {
	delay := rh.config.BaseDelay
	if attempt > 0 {
		delay = rh.config.BaseDelay * time.Duration(math.Pow(2, float64(attempt)))
	}
	if rh.config.MaxDelay > 0 && delay > rh.config.MaxDelay {
		delay = rh.config.MaxDelay
	}
	if rh.config.EnableJitter && delay >= 10*time.Millisecond {
		delay += time.Duration(rand.Int63n(int64(delay / 10)))
	}
	return delay
}

func (rh *RetryHandler) DoWithRetry(ctx context.Context, url string, fn func() ([]byte, error)) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := fn()
		if err == nil {
			return data, nil
		}
		if !rh.ShouldRetry(err, attempt) {
			return nil, err
		}

		delay := rh.CalculateDelay(attempt)
		rh.logger.Warn().
			Err(err).
			Str("url", url).
			Int("attempt", attempt+1).
			Int("max_retries", rh.config.MaxRetries).
			Dur("delay", delay).
			Msg("Fetch failed, waiting before retry")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}
