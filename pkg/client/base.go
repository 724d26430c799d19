// Package client implements the INE endpoint clients — catalogue,
// data, and metadata — and the high-level [Client] facade that wires
// them together with the cache backend, the HTTP client, and the
// catalogue search index.
//
// Each endpoint client builds its endpoint-specific query parameters,
// derives the cache key, tries the cache, and only then goes to the
// network; successfully parsed payloads are written back with the
// endpoint's TTL class. Cache failures degrade to a direct fetch and
// are logged, never swallowed silently.
package client

import (
	"context"
	"net/url"

	"github.com/charmbracelet/log"

	"github.com/tmcosta/goine/pkg/cache"
	"github.com/tmcosta/goine/pkg/httputil"
)

// base carries the dependencies shared by all endpoint clients.
// Everything is injected at construction; there is no global state.
type base struct {
	http   *httputil.Client
	cache  cache.Cache
	lang   string
	logger *log.Logger
}

func newBase(httpc *httputil.Client, c cache.Cache, lang string, logger *log.Logger) base {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return base{http: httpc, cache: c, lang: lang, logger: logger}
}

// fetch serves a request through the cache. On a miss (or a cache
// failure, which is logged and treated as a miss) it fetches from the
// network and returns fromCache=false: the caller stores the payload
// with [base.store] once it has parsed successfully, so malformed
// payloads never leave a cache write behind.
func (b *base) fetch(ctx context.Context, class cache.Class, endpoint string, params url.Values) (payload []byte, key string, fromCache bool, err error) {
	key = cache.Key(endpoint, params, b.lang)

	if data, ok, cerr := b.cache.Get(ctx, class, key); cerr != nil {
		b.logger.Warn("cache read failed, fetching from network", "endpoint", endpoint, "err", cerr)
	} else if ok {
		b.logger.Debug("cache hit", "endpoint", endpoint, "namespace", class.Namespace())
		return data, key, true, nil
	}

	data, err := b.http.Fetch(ctx, endpoint, params)
	if err != nil {
		return nil, key, false, err
	}
	return data, key, false, nil
}

// store writes a validated payload back to the cache. Failures are
// logged and do not fail the request.
func (b *base) store(ctx context.Context, class cache.Class, key string, payload []byte) {
	if err := b.cache.Set(ctx, class, key, payload); err != nil {
		b.logger.Warn("cache write failed", "namespace", class.Namespace(), "err", err)
	}
}

// params returns the base query parameters every endpoint shares.
func (b *base) params() url.Values {
	v := url.Values{}
	v.Set("lang", b.lang)
	return v
}
