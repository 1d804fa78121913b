package pagination

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/civicgrid/content-client/pkg/content"
)

// Config holds worker pool settings for a full-listing fetch.
type Config struct {
	// MaxConcurrency is the maximum number of parallel page fetches
	MaxConcurrency int

	// Timeout bounds a single page fetch
	Timeout time.Duration
}

// DefaultConfig returns safe defaults for the content API.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 8,
		Timeout:        15 * time.Second,
	}
}

// PageFunc fetches one page of a listing.
type PageFunc[T any] func(ctx context.Context, page int) (content.Page[T], error)

// FetchAll fetches every page of a listing and returns the items in
// page order. The first page establishes the total count; a worker
// pool fetches the rest. Any page failure aborts the fetch.
func FetchAll[T any](ctx context.Context, pageSize int, cfg Config, fetch PageFunc[T]) ([]T, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive (got %d)", pageSize)
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 8
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	start := time.Now()

	first, err := fetchPage(ctx, 1, cfg.Timeout, fetch)
	if err != nil {
		return nil, fmt.Errorf("fetch first page: %w", err)
	}

	totalPages := (first.Count + pageSize - 1) / pageSize
	if totalPages <= 1 {
		return first.Items, nil
	}

	log.Debug().
		Int("total_pages", totalPages).
		Int("count", first.Count).
		Msg("Starting parallel page fetch")

	// Index 0 stays empty; pages land at their own index so the
	// flattened result keeps page order regardless of completion order.
	pages := make([][]T, totalPages+1)
	pages[1] = first.Items

	queue := make(chan int, totalPages)
	for page := 2; page <= totalPages; page++ {
		queue <- page
	}
	close(queue)

	var (
		mu       sync.Mutex
		fetched  = 1
		firstErr error
	)

	workers := cfg.MaxConcurrency
	if workers > totalPages-1 {
		workers = totalPages - 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for page := range queue {
				select {
				case <-ctx.Done():
					return
				default:
				}

				result, err := fetchPage(ctx, page, cfg.Timeout, fetch)

				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = fmt.Errorf("fetch page %d: %w", page, err)
					}
					mu.Unlock()
					return
				}
				pages[page] = result.Items
				fetched++
				if fetched%50 == 0 {
					log.Info().
						Int("fetched", fetched).
						Int("total", totalPages).
						Msg("Fetch progress")
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items := make([]T, 0, first.Count)
	for page := 1; page <= totalPages; page++ {
		items = append(items, pages[page]...)
	}

	log.Debug().
		Int("pages", totalPages).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return items, nil
}

func fetchPage[T any](ctx context.Context, page int, timeout time.Duration, fetch PageFunc[T]) (content.Page[T], error) {
	pageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fetch(pageCtx, page)
}
