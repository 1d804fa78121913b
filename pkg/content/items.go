package content

import "time"

// Category groups items within a domain.
type Category struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Article is a news item.
type Article struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary,omitempty"`
	Body        string    `json:"body,omitempty"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags,omitempty"`
	Author      string    `json:"author,omitempty"`
	Featured    bool      `json:"featured"`
	PublishedAt time.Time `json:"published_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Event is a scheduled happening with a venue and a time window.
type Event struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Location    string    `json:"location,omitempty"`
	Featured    bool      `json:"featured"`
	Capacity    int       `json:"capacity,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
}

// Service is an offered service with a responsible department.
type Service struct {
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Category     string `json:"category"`
	Department   string `json:"department,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	Online       bool   `json:"online"`
	Featured     bool   `json:"featured"`
}

// Publication is a research output.
type Publication struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Abstract    string    `json:"abstract,omitempty"`
	Category    string    `json:"category"`
	Authors     []string  `json:"authors,omitempty"`
	DOI         string    `json:"doi,omitempty"`
	Published   bool      `json:"published"`
	Featured    bool      `json:"featured"`
	PublishedAt time.Time `json:"published_at"`
}

// Page is one page of a domain listing.
type Page[T any] struct {
	Items         []T    `json:"items"`
	Count         int    `json:"count"`
	CorrelationID string `json:"correlation_id,omitempty"`
}
