package client

import (
	"github.com/civicgrid/content-client/pkg/cache"
	"github.com/civicgrid/content-client/pkg/content"
	"github.com/civicgrid/content-client/pkg/transport"
)

// NewNews returns a client for the news domain.
func NewNews(t transport.Transport, rc *cache.RequestCache) (*Client[content.Article, content.Category], error) {
	return New[content.Article, content.Category](Config{
		Domain:     content.DomainNews,
		Transport:  t,
		Cache:      rc,
		ItemsField: "articles",
		ItemField:  "article",
	})
}

// NewEvents returns a client for the events domain.
func NewEvents(t transport.Transport, rc *cache.RequestCache) (*Client[content.Event, content.Category], error) {
	return New[content.Event, content.Category](Config{
		Domain:     content.DomainEvents,
		Transport:  t,
		Cache:      rc,
		ItemsField: "events",
		ItemField:  "event",
	})
}

// NewServices returns a client for the services domain.
func NewServices(t transport.Transport, rc *cache.RequestCache) (*Client[content.Service, content.Category], error) {
	return New[content.Service, content.Category](Config{
		Domain:     content.DomainServices,
		Transport:  t,
		Cache:      rc,
		ItemsField: "services",
		ItemField:  "service",
	})
}

// NewResearch returns a client for the research domain. Research
// exposes its highlighted work under /published rather than /featured.
func NewResearch(t transport.Transport, rc *cache.RequestCache) (*Client[content.Publication, content.Category], error) {
	return New[content.Publication, content.Category](Config{
		Domain:       content.DomainResearch,
		Transport:    t,
		Cache:        rc,
		ItemsField:   "publications",
		ItemField:    "publication",
		FeaturedPath: "/published",
	})
}
