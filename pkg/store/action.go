package store

import (
	"context"
	"time"

	"github.com/civicgrid/content-client/pkg/cache"
)

// DefaultTTL is the store-tier freshness window used when Options.TTL
// is unset.
const DefaultTTL = 5 * time.Minute

// Options controls the store-tier cache behavior for one action.
type Options struct {
	// UseCache skips the call when the store tier is still fresh
	UseCache bool

	// TTL is the freshness window (DefaultTTL when <= 0)
	TTL time.Duration
}

// RunAction runs one store action. Loading is raised for the duration
// of the call and the previous error is cleared. On failure the error
// message (or fallback when the message is empty) lands in st and the
// zero value is returned with ok false; the error never escapes.
func RunAction[R any](ctx context.Context, st *Status, call func(context.Context) (R, error), fallback string) (R, bool) {
	st.setLoading(true)
	st.setErr("")
	defer st.setLoading(false)

	result, err := call(ctx)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = fallback
		}
		st.setErr(msg)

		var zero R
		return zero, false
	}

	return result, true
}

// RunCachedAction runs call through RunAction unless cs already holds
// fresh state for params. A store-tier hit returns without touching
// Loading or the call. On success onSuccess(result) runs before the
// marker is set; on failure onError runs so callers can reset
// list-shaped state.
func RunCachedAction[R any](ctx context.Context, st *Status, cs *CacheState, params map[string]string, opts Options, call func(context.Context) (R, error), onSuccess func(R), onError func(), fallback string) {
	key := cache.SerializeParams(params)
	if key == "" {
		// The marker treats an empty key as unset, so parameterless
		// actions map to a fixed key.
		key = "all"
	}

	if opts.UseCache {
		ttl := opts.TTL
		if ttl <= 0 {
			ttl = DefaultTTL
		}
		if cs.IsValid(key, ttl) {
			cache.CacheHits.WithLabelValues("store").Inc()
			return
		}
	}

	result, ok := RunAction(ctx, st, call, fallback)
	if !ok {
		if onError != nil {
			onError()
		}
		return
	}

	if onSuccess != nil {
		onSuccess(result)
	}
	cs.SetCacheData(key)
}
