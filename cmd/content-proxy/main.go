// Command content-proxy exposes the cached content client as a small HTTP
// service. Every read route under /api/v1/{domain} is served through the
// request cache, so repeated and concurrent reads of the same resource hit
// the upstream API once. Responses are re-encoded in a normalized envelope
// ({"items": ...} / {"item": ...}) regardless of the upstream field names.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/civicgrid/content-client/pkg/cache"
	"github.com/civicgrid/content-client/pkg/client"
	"github.com/civicgrid/content-client/pkg/content"
	"github.com/civicgrid/content-client/pkg/logging"
	"github.com/civicgrid/content-client/pkg/transport"
)

// rawClient reads a domain without a concrete item type. The proxy never
// inspects item payloads, it only moves them between the upstream API and
// the caller.
type rawClient = client.Client[json.RawMessage, json.RawMessage]

// envelopeFields maps each domain to the field names used by the upstream
// wire format. The research domain publishes its featured list under
// /published instead of /featured.
var envelopeFields = map[content.Domain]client.Config{
	content.DomainNews:     {ItemsField: "articles", ItemField: "article"},
	content.DomainEvents:   {ItemsField: "events", ItemField: "event"},
	content.DomainServices: {ItemsField: "services", ItemField: "service"},
	content.DomainResearch: {ItemsField: "publications", ItemField: "publication", FeaturedPath: "/published"},
}

// proxy holds one request cache and one client per domain. Separate caches
// keep /cache/stats meaningful per domain and let shutdown close each one.
type proxy struct {
	transport *transport.Client
	caches    map[content.Domain]*cache.RequestCache
	clients   map[content.Domain]*rawClient
	logger    zerolog.Logger
}

func newProxy(apiURL string, sweepInterval time.Duration) (*proxy, error) {
	tr, err := transport.New(transport.DefaultConfig(apiURL))
	if err != nil {
		return nil, fmt.Errorf("create transport: %w", err)
	}

	p := &proxy{
		transport: tr,
		caches:    make(map[content.Domain]*cache.RequestCache),
		clients:   make(map[content.Domain]*rawClient),
		logger:    logging.NewLogger("content-proxy"),
	}

	for domain, fields := range envelopeFields {
		rc := cache.New(cache.Config{
			Name:          string(domain),
			SweepInterval: sweepInterval,
		})

		cfg := fields
		cfg.Domain = domain
		cfg.Transport = tr
		cfg.Cache = rc

		c, err := client.New[json.RawMessage, json.RawMessage](cfg)
		if err != nil {
			return nil, fmt.Errorf("create %s client: %w", domain, err)
		}

		p.caches[domain] = rc
		p.clients[domain] = c
	}

	return p, nil
}

// Close stops the sweep task of every cache and releases transport
// connections.
func (p *proxy) Close() {
	for _, rc := range p.caches {
		rc.Close()
	}
	p.transport.Close()
}

func (p *proxy) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthzHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/cache/stats", p.statsHandler)

	r.Route("/api/v1/{domain}", func(r chi.Router) {
		r.Get("/", p.listHandler)
		r.Get("/featured", p.featuredHandler)
		r.Get("/published", p.featuredHandler)
		r.Get("/recent", p.recentHandler)
		r.Get("/search", p.searchHandler)
		r.Get("/categories", p.categoriesHandler)
		r.Get("/categories/{category}/{items}", p.byCategoryHandler)
		r.Get("/slug/{slug}", p.slugHandler)
		r.Get("/{id}", p.byIDHandler)
	})

	return r
}

func healthzHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// domainClient resolves the {domain} route parameter. Unknown domains are a
// routing 404, not an upstream error.
func (p *proxy) domainClient(w http.ResponseWriter, r *http.Request) (*rawClient, bool) {
	domain := content.Domain(chi.URLParam(r, "domain"))
	c, ok := p.clients[domain]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": map[string]string{
				"code":    "unknown_domain",
				"message": fmt.Sprintf("unknown content domain %q", domain),
			},
		})
		return nil, false
	}
	return c, true
}

func (p *proxy) listHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := p.domainClient(w, r)
	if !ok {
		return
	}

	page, err := c.List(r.Context(), parseListParams(r))
	if err != nil {
		p.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (p *proxy) slugHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := p.domainClient(w, r)
	if !ok {
		return
	}

	item, err := c.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		p.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": item})
}

func (p *proxy) byIDHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := p.domainClient(w, r)
	if !ok {
		return
	}

	item, err := c.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		p.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": item})
}

func (p *proxy) featuredHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := p.domainClient(w, r)
	if !ok {
		return
	}

	items, err := c.GetFeatured(r.Context(), queryInt(r, "limit"))
	if err != nil {
		p.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (p *proxy) recentHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := p.domainClient(w, r)
	if !ok {
		return
	}

	items, err := c.GetRecent(r.Context(), queryInt(r, "limit"))
	if err != nil {
		p.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (p *proxy) searchHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := p.domainClient(w, r)
	if !ok {
		return
	}

	params := content.SearchParams{
		Term:     r.URL.Query().Get("q"),
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "pageSize"),
	}
	page, err := c.Search(r.Context(), params)
	if err != nil {
		p.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (p *proxy) categoriesHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := p.domainClient(w, r)
	if !ok {
		return
	}

	categories, err := c.GetCategories(r.Context())
	if err != nil {
		p.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": categories, "count": len(categories)})
}

func (p *proxy) byCategoryHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := p.domainClient(w, r)
	if !ok {
		return
	}

	page, err := c.GetByCategory(r.Context(), chi.URLParam(r, "category"), parseListParams(r))
	if err != nil {
		p.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// statsHandler reports cache stats and request metrics for every domain.
func (p *proxy) statsHandler(w http.ResponseWriter, _ *http.Request) {
	type domainStats struct {
		Stats   cache.Stats   `json:"stats"`
		Metrics cache.Metrics `json:"metrics"`
	}

	out := make(map[string]domainStats, len(p.caches))
	for domain, rc := range p.caches {
		out[string(domain)] = domainStats{Stats: rc.Stats(), Metrics: rc.Metrics()}
	}
	writeJSON(w, http.StatusOK, out)
}

func (p *proxy) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	code := "upstream_error"

	var valErr *client.ValidationError
	var apiErr *transport.APIError
	switch {
	case errors.As(err, &valErr):
		status = http.StatusBadRequest
		code = "validation_error"
	case errors.As(err, &apiErr):
		code = string(apiErr.Class)
		if apiErr.Code != "" {
			code = apiErr.Code
		}
		if apiErr.StatusCode > 0 {
			status = apiErr.StatusCode
		}
	}

	p.logger.Warn().
		Err(err).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("Request failed")

	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": err.Error(),
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func parseListParams(r *http.Request) content.ListParams {
	q := r.URL.Query()

	params := content.ListParams{
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "pageSize"),
		Search:   q.Get("search"),
		Category: q.Get("category"),
	}
	if raw := q.Get("featured"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			params.Featured = content.Bool(v)
		}
	}
	return params
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return v
}

func main() {
	logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", string(logging.LevelInfo))),
		Pretty: getEnvBool("LOG_PRETTY", false),
		Output: os.Stderr,
	})
	logger := logging.NewLogger("content-proxy")

	apiURL := getEnv("CONTENT_API_URL", "http://localhost:9000")
	port := getEnv("PORT", "8080")
	sweepInterval := getEnvDuration("CACHE_SWEEP_INTERVAL", cache.DefaultSweepInterval)

	p, err := newProxy(apiURL, sweepInterval)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize proxy")
	}
	defer p.Close()

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           p.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("upstream", apiURL).
			Dur("sweep_interval", sweepInterval).
			Msg("Content proxy listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	case <-ctx.Done():
		logger.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Shutdown did not complete cleanly")
		}
	}
}
