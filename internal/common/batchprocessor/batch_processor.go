package batchprocessor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// BatchProcessorConfig holds configuration for batch processing
type BatchProcessorConfig struct {
	MaxConcurrent int           // Max items processed at once (default: 1 for sequential processing)
	ItemTimeout   time.Duration // Timeout per item, 0 disables it
}

// DefaultBatchProcessorConfig returns default configuration
func DefaultBatchProcessorConfig() BatchProcessorConfig {
	return BatchProcessorConfig{
		MaxConcurrent: 1,
		ItemTimeout:   5 * time.Minute,
	}
}

// ItemResult holds the outcome of one processed item
type ItemResult[R any] struct {
	Index    int
	Value    R
	Error    error
	Duration time.Duration
	// Skipped is set when cancellation stopped the item from starting.
	Skipped bool
}

// ProcessFunc processes one item under its own (possibly time-limited) context
type ProcessFunc[T, R any] func(ctx context.Context, item T, index int) (R, error)

// BatchProcessor runs independent items through a bounded set of goroutines
type BatchProcessor struct {
	config BatchProcessorConfig
	logger zerolog.Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(config BatchProcessorConfig, logger zerolog.Logger) *BatchProcessor {
	if config.MaxConcurrent < 1 {
		config.MaxConcurrent = 1
	}
	return &BatchProcessor{
		config: config,
		logger: logger.With().Str("component", "BatchProcessor").Logger(),
	}
}

func (bp *BatchProcessor) Config() BatchProcessorConfig {
	return bp.config
}

// Process runs fn for every item and returns one result per item, in input
// order. A failing item never stops the others; cancellation marks the items
// not yet started as skipped and returns ctx.Err().
func Process[T, R any](ctx context.Context, bp *BatchProcessor, items []T, fn ProcessFunc[T, R]) ([]ItemResult[R], error) {
	results := make([]ItemResult[R], len(items))
	for i := range results {
		results[i] = ItemResult[R]{Index: i, Skipped: true}
	}

	bp.logger.Info().
		Int("total_items", len(items)).
		Int("max_concurrent", bp.config.MaxConcurrent).
		Msg("Starting batch processing")

	semaphore := make(chan struct{}, bp.config.MaxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex

	interrupted := func(started int) ([]ItemResult[R], error) {
		bp.logger.Info().
			Int("started_items", started).
			Int("total_items", len(items)).
			Msg("Batch processing interrupted by context cancellation")
		wg.Wait()
		return results, ctx.Err()
	}

	for i, item := range items {
		if ctx.Err() != nil {
			return interrupted(i)
		}
		select {
		case <-ctx.Done():
			return interrupted(i)
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(index int, data T) {
			defer wg.Done()
			defer func() { <-semaphore }()

			itemCtx, cancel := bp.itemContext(ctx)
			defer cancel()

			start := time.Now()
			value, err := fn(itemCtx, data, index)
			duration := time.Since(start)

			mu.Lock()
			results[index] = ItemResult[R]{Index: index, Value: value, Error: err, Duration: duration}
			mu.Unlock()

			if err != nil {
				bp.logger.Error().Err(err).Int("item_index", index).Dur("duration", duration).Msg("Item processing failed")
				return
			}
			bp.logger.Debug().Int("item_index", index).Dur("duration", duration).Msg("Item processing completed")
		}(i, item)
	}

	wg.Wait()
	return results, nil
}

func (bp *BatchProcessor) itemContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if bp.config.ItemTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, bp.config.ItemTimeout)
}
