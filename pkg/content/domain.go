// Package content defines the shared domain model for the content API:
// the content domains, their item and category types, the paged result
// envelope, and the request parameter sets clients render into query
// strings.
package content

// Domain identifies one content area served by the API.
type Domain string

const (
	DomainNews     Domain = "news"
	DomainEvents   Domain = "events"
	DomainServices Domain = "services"
	DomainResearch Domain = "research"
)

// Domains returns all known content domains.
func Domains() []Domain {
	return []Domain{DomainNews, DomainEvents, DomainServices, DomainResearch}
}

// Valid reports whether d names a known content domain.
func (d Domain) Valid() bool {
	switch d {
	case DomainNews, DomainEvents, DomainServices, DomainResearch:
		return true
	}
	return false
}

// BasePath returns the REST base path for the domain,
// e.g. "/api/v1/news".
func (d Domain) BasePath() string {
	return "/api/v1/" + string(d)
}
