package cache

import "time"

// Shape classifies cacheable content by how quickly it goes stale.
type Shape string

const (
	// ShapeCategories is a domain's category taxonomy.
	ShapeCategories Shape = "categories"

	// ShapeFeatured is a curated featured/published collection.
	ShapeFeatured Shape = "featured"

	// ShapeDetail is a single item fetched by slug or id.
	ShapeDetail Shape = "detail"

	// ShapeList is a paged or filtered collection.
	ShapeList Shape = "list"
)

// TTL per content shape, the same table for every domain. Staleness
// tolerance is proportional to how often that shape of content changes.
// Free-text search is never cached at all.
const (
	TTLCategories = 15 * time.Minute
	TTLFeatured   = 5 * time.Minute
	TTLDetail     = 2 * time.Minute
	TTLList       = 30 * time.Second
)

// TTLFor returns the TTL for a content shape. Unknown shapes get the
// list TTL, the shortest window.
func TTLFor(shape Shape) time.Duration {
	switch shape {
	case ShapeCategories:
		return TTLCategories
	case ShapeFeatured:
		return TTLFeatured
	case ShapeDetail:
		return TTLDetail
	case ShapeList:
		return TTLList
	default:
		return TTLList
	}
}
