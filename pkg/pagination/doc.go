// Package pagination provides parallel fetching for paginated content
// listings.
//
// List responses carry a total count, so the first page determines how
// many pages exist. This package implements a worker pool that fetches
// the remaining pages in parallel and reassembles the items in page
// order.
//
// Example usage:
//
//	items, err := pagination.FetchAll(ctx, 50, pagination.DefaultConfig(),
//		func(ctx context.Context, page int) (content.Page[Article], error) {
//			return newsClient.List(ctx, content.ListParams{Page: page, PageSize: 50})
//		})
//
// FetchAll:
//   - Fetches the first page to determine the total page count
//   - Spawns a worker pool (default 8 workers)
//   - Distributes the remaining pages across the workers
//   - Reassembles results in page order with progress logging
//   - Aborts on the first page failure
package pagination
