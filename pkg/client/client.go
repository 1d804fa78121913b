// Package client provides typed, cached read access to one content
// domain. A Client wires a transport to the shared request cache:
// reads are coalesced by request signature and served from cache
// within each operation's TTL. Search always goes to the transport.
package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/civicgrid/content-client/pkg/cache"
	"github.com/civicgrid/content-client/pkg/content"
	"github.com/civicgrid/content-client/pkg/pagination"
	"github.com/civicgrid/content-client/pkg/transport"
)

// Config holds the collaborators and envelope layout for one domain
// client.
type Config struct {
	// Domain selects the content area and its REST base path
	Domain content.Domain

	// Transport performs the HTTP reads
	Transport transport.Transport

	// Cache is the shared read-through request cache
	Cache *cache.RequestCache

	// ItemsField is the envelope field for list payloads (e.g. "articles")
	ItemsField string

	// ItemField is the envelope field for single-item payloads (e.g. "article")
	ItemField string

	// FeaturedPath overrides the featured subpath (default "/featured")
	FeaturedPath string
}

// Client is a typed read client for one content domain. T is the item
// type, C the category type.
type Client[T, C any] struct {
	domain       content.Domain
	base         string
	transport    transport.Transport
	cache        *cache.RequestCache
	itemsField   string
	itemField    string
	featuredPath string
	logger       zerolog.Logger
}

// New creates a domain client.
func New[T, C any](cfg Config) (*Client[T, C], error) {
	if !cfg.Domain.Valid() {
		return nil, fmt.Errorf("unknown content domain %q", cfg.Domain)
	}
	if cfg.Transport == nil {
		return nil, fmt.Errorf("transport is required")
	}
	if cfg.Cache == nil {
		return nil, fmt.Errorf("request cache is required")
	}
	if cfg.ItemsField == "" {
		return nil, fmt.Errorf("items field is required")
	}
	if cfg.ItemField == "" {
		return nil, fmt.Errorf("item field is required")
	}
	if cfg.FeaturedPath == "" {
		cfg.FeaturedPath = "/featured"
	}

	return &Client[T, C]{
		domain:       cfg.Domain,
		base:         cfg.Domain.BasePath(),
		transport:    cfg.Transport,
		cache:        cfg.Cache,
		itemsField:   cfg.ItemsField,
		itemField:    cfg.ItemField,
		featuredPath: cfg.FeaturedPath,
		logger: log.With().
			Str("component", "content-client").
			Str("domain", string(cfg.Domain)).
			Logger(),
	}, nil
}

// Domain returns the content domain this client serves.
func (c *Client[T, C]) Domain() content.Domain {
	return c.domain
}

// Cache returns the request cache this client reads through.
func (c *Client[T, C]) Cache() *cache.RequestCache {
	return c.cache
}

// List fetches one page of the domain listing.
func (c *Client[T, C]) List(ctx context.Context, params content.ListParams) (content.Page[T], error) {
	query := params.Query()
	return c.fetchPage(ctx, "list", c.base, query, cache.ShapeList, cache.SerializeParams(query))
}

// GetBySlug fetches a single item by its URL slug.
func (c *Client[T, C]) GetBySlug(ctx context.Context, slug string) (T, error) {
	if slug == "" {
		var zero T
		return zero, emptyField("slug")
	}
	return c.fetchItem(ctx, "slug", c.base+"/slug/"+url.PathEscape(slug), slug)
}

// GetByID fetches a single item by its identifier.
func (c *Client[T, C]) GetByID(ctx context.Context, id string) (T, error) {
	if id == "" {
		var zero T
		return zero, emptyField("id")
	}
	return c.fetchItem(ctx, "id", c.base+"/"+url.PathEscape(id), id)
}

// GetFeatured fetches the domain's featured items. A limit of zero
// lets the API choose.
func (c *Client[T, C]) GetFeatured(ctx context.Context, limit int) ([]T, error) {
	query := map[string]string{}
	if limit > 0 {
		query["limit"] = strconv.Itoa(limit)
	}

	page, err := c.fetchPage(ctx, "featured", c.base+c.featuredPath, query, cache.ShapeFeatured, strconv.Itoa(limit))
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// GetRecent fetches the newest items as the first page of the listing.
func (c *Client[T, C]) GetRecent(ctx context.Context, limit int) ([]T, error) {
	if limit <= 0 {
		limit = 10
	}
	query := map[string]string{"page": "1", "pageSize": strconv.Itoa(limit)}

	page, err := c.fetchPage(ctx, "recent", c.base, query, cache.ShapeList, strconv.Itoa(limit))
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// GetCategories fetches the domain's category list.
func (c *Client[T, C]) GetCategories(ctx context.Context) ([]C, error) {
	endpoint := c.base + "/categories"
	key := cache.Key{Domain: string(c.domain), Operation: "categories"}

	return cache.ReadThrough(ctx, c.cache, key, cache.TTLFor(cache.ShapeCategories), cache.Signature(endpoint, nil),
		func(ctx context.Context) ([]C, error) {
			body, err := c.transport.Do(ctx, endpoint, transport.CallOptions{})
			if err != nil {
				return nil, err
			}
			page, err := decodePage[C](body, "categories")
			if err != nil {
				return nil, err
			}
			return page.Items, nil
		})
}

// GetByCategory fetches one page of the items filed under a category.
func (c *Client[T, C]) GetByCategory(ctx context.Context, category string, params content.ListParams) (content.Page[T], error) {
	if category == "" {
		return content.Page[T]{}, emptyField("category")
	}

	query := params.Query()
	endpoint := c.base + "/categories/" + url.PathEscape(category) + "/" + string(c.domain)
	return c.fetchPage(ctx, "category", endpoint, query, cache.ShapeList, cache.Signature(category, query))
}

// Search runs a full-text query. Search results change with every
// keystroke, so they are never cached or coalesced.
func (c *Client[T, C]) Search(ctx context.Context, params content.SearchParams) (content.Page[T], error) {
	body, err := c.transport.Do(ctx, c.base+"/search", transport.CallOptions{Query: params.Query()})
	if err != nil {
		return content.Page[T]{}, err
	}
	return decodePage[T](body, c.itemsField)
}

// ListAll fetches every page of the domain listing in parallel.
func (c *Client[T, C]) ListAll(ctx context.Context, pageSize int) ([]T, error) {
	if pageSize <= 0 {
		pageSize = 50
	}

	c.logger.Debug().Int("page_size", pageSize).Msg("Fetching full listing")

	return pagination.FetchAll(ctx, pageSize, pagination.DefaultConfig(),
		func(ctx context.Context, page int) (content.Page[T], error) {
			return c.List(ctx, content.ListParams{Page: page, PageSize: pageSize})
		})
}

// fetchPage reads a list endpoint through the request cache.
func (c *Client[T, C]) fetchPage(ctx context.Context, op, endpoint string, query map[string]string, shape cache.Shape, discriminant string) (content.Page[T], error) {
	key := cache.Key{Domain: string(c.domain), Operation: op, Discriminant: discriminant}

	return cache.ReadThrough(ctx, c.cache, key, cache.TTLFor(shape), cache.Signature(endpoint, query),
		func(ctx context.Context) (content.Page[T], error) {
			body, err := c.transport.Do(ctx, endpoint, transport.CallOptions{Query: query})
			if err != nil {
				return content.Page[T]{}, err
			}
			return decodePage[T](body, c.itemsField)
		})
}

// fetchItem reads a single-item endpoint through the request cache.
func (c *Client[T, C]) fetchItem(ctx context.Context, op, endpoint, discriminant string) (T, error) {
	key := cache.Key{Domain: string(c.domain), Operation: op, Discriminant: discriminant}

	return cache.ReadThrough(ctx, c.cache, key, cache.TTLFor(cache.ShapeDetail), cache.Signature(endpoint, nil),
		func(ctx context.Context) (T, error) {
			var zero T
			body, err := c.transport.Do(ctx, endpoint, transport.CallOptions{})
			if err != nil {
				return zero, err
			}
			return decodeItem[T](body, c.itemField)
		})
}
