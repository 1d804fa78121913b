package content

import "strconv"

// ListParams selects a page of a domain listing. Zero-valued fields
// are omitted from the query string.
type ListParams struct {
	Page     int
	PageSize int
	Search   string
	Category string
	Featured *bool
}

// Query renders the parameter set for the list endpoint.
func (p ListParams) Query() map[string]string {
	q := map[string]string{}
	if p.Page > 0 {
		q["page"] = strconv.Itoa(p.Page)
	}
	if p.PageSize > 0 {
		q["pageSize"] = strconv.Itoa(p.PageSize)
	}
	if p.Search != "" {
		q["search"] = p.Search
	}
	if p.Category != "" {
		q["category"] = p.Category
	}
	if p.Featured != nil {
		q["featured"] = strconv.FormatBool(*p.Featured)
	}
	return q
}

// SearchParams selects a page of full-text search results.
type SearchParams struct {
	Term     string
	Page     int
	PageSize int
}

// Query renders the parameter set for the search endpoint.
func (p SearchParams) Query() map[string]string {
	q := map[string]string{"q": p.Term}
	if p.Page > 0 {
		q["page"] = strconv.Itoa(p.Page)
	}
	if p.PageSize > 0 {
		q["pageSize"] = strconv.Itoa(p.PageSize)
	}
	return q
}

// Bool returns a pointer to b, for ListParams.Featured.
func Bool(b bool) *bool {
	return &b
}
