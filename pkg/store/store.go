// Package store provides the state layer between domain clients and a
// UI: per-domain stores with loading/error status, a last-result cache
// tier, and action coordinators that route reads through the shared
// request cache.
package store

import (
	"context"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/civicgrid/content-client/pkg/cache"
	"github.com/civicgrid/content-client/pkg/client"
	"github.com/civicgrid/content-client/pkg/content"
)

// State is a point-in-time copy of a store's contents.
type State[T, C any] struct {
	Loading       bool
	Error         string
	Items         []T
	Categories    []C
	Featured      []T
	SearchResults []T
	Total         int
	Page          int
	PageSize      int
	SearchTotal   int
}

// Store holds the UI-facing state for one content domain. T is the
// item type, C the category type.
type Store[T, C any] struct {
	client *client.Client[T, C]
	cache  *cache.RequestCache

	status          Status
	listState       CacheState
	featuredState   CacheState
	categoriesState CacheState

	mu            sync.RWMutex
	items         []T
	categories    []C
	featured      []T
	searchResults []T
	total         int
	page          int
	pageSize      int
	searchTotal   int

	logger zerolog.Logger
}

// New creates a store over a domain client.
func New[T, C any](c *client.Client[T, C]) *Store[T, C] {
	return &Store[T, C]{
		client: c,
		cache:  c.Cache(),
		logger: log.With().
			Str("component", "content-store").
			Str("domain", string(c.Domain())).
			Logger(),
	}
}

// Loading reports whether an action is in flight.
func (s *Store[T, C]) Loading() bool {
	return s.status.Loading()
}

// Err returns the message of the last failed action, or "".
func (s *Store[T, C]) Err() string {
	return s.status.Err()
}

// Snapshot returns a copy of the current state.
func (s *Store[T, C]) Snapshot() State[T, C] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State[T, C]{
		Loading:       s.status.Loading(),
		Error:         s.status.Err(),
		Items:         s.items,
		Categories:    s.categories,
		Featured:      s.featured,
		SearchResults: s.searchResults,
		Total:         s.total,
		Page:          s.page,
		PageSize:      s.pageSize,
		SearchTotal:   s.searchTotal,
	}
}

// SetItems replaces the listing state.
func (s *Store[T, C]) SetItems(items []T, total, page, pageSize int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.total = total
	s.page = page
	s.pageSize = pageSize
}

// SetCategories replaces the category list.
func (s *Store[T, C]) SetCategories(categories []C) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = categories
}

// SetFeatured replaces the featured items.
func (s *Store[T, C]) SetFeatured(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.featured = items
}

// SetSearchResults replaces the search results.
func (s *Store[T, C]) SetSearchResults(items []T, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchResults = items
	s.searchTotal = total
}

// FetchItems loads one page of the domain listing into the store.
func (s *Store[T, C]) FetchItems(ctx context.Context, params content.ListParams, opts Options) {
	RunCachedAction(ctx, &s.status, &s.listState, params.Query(), opts,
		func(ctx context.Context) (content.Page[T], error) {
			return s.client.List(ctx, params)
		},
		func(page content.Page[T]) {
			s.SetItems(page.Items, page.Count, params.Page, params.PageSize)
		},
		func() {
			s.SetItems(nil, 0, params.Page, params.PageSize)
		},
		"failed to load items")
}

// FetchBySlug loads one item. The result is returned rather than
// stored; detail views own their copy.
func (s *Store[T, C]) FetchBySlug(ctx context.Context, slug string) (T, bool) {
	return RunAction(ctx, &s.status, func(ctx context.Context) (T, error) {
		return s.client.GetBySlug(ctx, slug)
	}, "failed to load item")
}

// FetchFeatured loads the domain's featured items into the store.
func (s *Store[T, C]) FetchFeatured(ctx context.Context, limit int, opts Options) {
	params := map[string]string{"limit": strconv.Itoa(limit)}
	RunCachedAction(ctx, &s.status, &s.featuredState, params, opts,
		func(ctx context.Context) ([]T, error) {
			return s.client.GetFeatured(ctx, limit)
		},
		func(items []T) {
			s.SetFeatured(items)
		},
		func() {
			s.SetFeatured(nil)
		},
		"failed to load featured items")
}

// Search runs a full-text query and stores the results. Search is
// never cached at either tier.
func (s *Store[T, C]) Search(ctx context.Context, params content.SearchParams) {
	page, ok := RunAction(ctx, &s.status, func(ctx context.Context) (content.Page[T], error) {
		return s.client.Search(ctx, params)
	}, "search failed")
	if !ok {
		s.SetSearchResults(nil, 0)
		return
	}
	s.SetSearchResults(page.Items, page.Count)
}

// FetchCategories loads the domain's categories into the store.
func (s *Store[T, C]) FetchCategories(ctx context.Context, opts Options) {
	RunCachedAction(ctx, &s.status, &s.categoriesState, nil, opts,
		func(ctx context.Context) ([]C, error) {
			return s.client.GetCategories(ctx)
		},
		func(categories []C) {
			s.SetCategories(categories)
		},
		func() {
			s.SetCategories(nil)
		},
		"failed to load categories")
}

// InvalidateCache drops both cache tiers for this domain: the store
// markers and every request cache entry under the domain prefix.
func (s *Store[T, C]) InvalidateCache() {
	s.listState.Invalidate()
	s.featuredState.Invalidate()
	s.categoriesState.Invalidate()

	removed := s.cache.InvalidateByPrefix(string(s.client.Domain()) + ":")
	s.logger.Debug().Int("entries", removed).Msg("Cache invalidated")
}
