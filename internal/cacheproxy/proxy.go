package cacheproxy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"sync"
)

// Default generation names. Bump the version suffix when the precached asset
// set changes shape; Activate drops generations that no longer match.
const (
	DefaultStaticCacheName = "shoplist-static-v1"
	DefaultAPICacheName    = "shoplist-api-v1"
)

// apiCachePatterns selects the API reads worth falling back on while offline.
// Everything else under /api/ goes network-only.
var apiCachePatterns = []*regexp.Regexp{
	regexp.MustCompile(`/api/stores$`),
	regexp.MustCompile(`/api/templates$`),
	regexp.MustCompile(`/api/lists\?`),
}

// Fetcher reaches the origin. Implementations must honor the request context.
type Fetcher interface {
	Do(r *http.Request) (*http.Response, error)
}

// Upstream forwards requests to an origin base URL over a plain HTTP client.
type Upstream struct {
	base   string
	client *http.Client
}

func NewUpstream(base string, client *http.Client) *Upstream {
	if client == nil {
		client = http.DefaultClient
	}
	return &Upstream{base: strings.TrimRight(base, "/"), client: client}
}

func (u *Upstream) Do(r *http.Request) (*http.Response, error) {
	req, err := http.NewRequestWithContext(r.Context(), r.Method, u.base+r.URL.RequestURI(), r.Body)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header = r.Header.Clone()
	return u.client.Do(req)
}

// Lifecycle states. A proxy serves traffic in any state; install and activate
// only govern which cache generations are warm and which get pruned.
const (
	stateNew = iota
	stateInstalled
	stateActive
)

// Proxy is the caching intermediary. Static assets are served cache-first,
// the cacheable API reads network-first with cached fallback, and the rest of
// the API network-only. Offline failures turn into synthetic 503 responses so
// the client always gets an answer.
type Proxy struct {
	fetcher  Fetcher
	registry *Registry
	logger   *slog.Logger

	staticName   string
	apiName      string
	precacheURLs []string

	mu    sync.Mutex
	state int
}

type Option func(*Proxy)

// WithCacheNames overrides the generation names, for upgrades and tests.
func WithCacheNames(static, api string) Option {
	return func(p *Proxy) {
		p.staticName = static
		p.apiName = api
	}
}

// WithPrecacheURLs sets the asset shell fetched during Install.
func WithPrecacheURLs(urls []string) Option {
	return func(p *Proxy) { p.precacheURLs = urls }
}

func New(fetcher Fetcher, logger *slog.Logger, opts ...Option) *Proxy {
	p := &Proxy{
		fetcher:    fetcher,
		registry:   NewRegistry(),
		logger:     logger.With("component", "cacheproxy"),
		staticName: DefaultStaticCacheName,
		apiName:    DefaultAPICacheName,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Install warms the static generation with the precache set. All-or-nothing:
// any fetch failure aborts the install and commits nothing.
func (p *Proxy) Install(ctx context.Context) error {
	staged := make(map[string]entry, len(p.precacheURLs))
	for _, url := range p.precacheURLs {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("precache %s: %w", url, err)
		}
		resp, err := p.fetcher.Do(req)
		if err != nil {
			return fmt.Errorf("precache %s: %w", url, err)
		}
		e, err := readEntry(resp)
		if err != nil {
			return fmt.Errorf("precache %s: %w", url, err)
		}
		if e.status < 200 || e.status > 299 {
			return fmt.Errorf("precache %s: status %d", url, e.status)
		}
		staged[req.URL.RequestURI()] = e
	}
	p.registry.Open(p.staticName).putAll(staged)

	p.mu.Lock()
	if p.state == stateNew {
		p.state = stateInstalled
	}
	p.mu.Unlock()
	p.logger.Info("installed", "precached", len(staged), "cache", p.staticName)
	return nil
}

// Activate prunes every generation other than the current static and API
// names, then starts serving with the new set.
func (p *Proxy) Activate() {
	for _, name := range p.registry.Names() {
		if name != p.staticName && name != p.apiName {
			p.registry.Delete(name)
			p.logger.Info("dropped stale cache", "cache", name)
		}
	}
	p.mu.Lock()
	p.state = stateActive
	p.mu.Unlock()
}

// SkipWaiting promotes an installed proxy without waiting for the usual
// activation point. Active or brand-new proxies are left alone.
func (p *Proxy) SkipWaiting() {
	p.mu.Lock()
	installed := p.state == stateInstalled
	p.mu.Unlock()
	if installed {
		p.Activate()
	}
}

// PrecacheURLs adds extra URLs to the static generation on demand, with the
// same all-or-nothing commit as Install.
func (p *Proxy) PrecacheURLs(ctx context.Context, urls []string) error {
	staged := make(map[string]entry, len(urls))
	for _, url := range urls {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("cache %s: %w", url, err)
		}
		resp, err := p.fetcher.Do(req)
		if err != nil {
			return fmt.Errorf("cache %s: %w", url, err)
		}
		e, err := readEntry(resp)
		if err != nil {
			return fmt.Errorf("cache %s: %w", url, err)
		}
		staged[req.URL.RequestURI()] = e
	}
	p.registry.Open(p.staticName).putAll(staged)
	return nil
}

// ConnectivityChanged reacts to the online signal. Coming back online clears
// the API generation so the next reads refetch instead of replaying stale
// offline fallbacks.
func (p *Proxy) ConnectivityChanged(online bool) {
	if !online {
		return
	}
	p.registry.Open(p.apiName).Clear()
	p.logger.Info("connectivity restored, api cache cleared", "cache", p.apiName)
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		p.passThrough(w, r)
		return
	}
	if strings.HasPrefix(r.URL.Path, "/api/") {
		p.serveAPI(w, r)
		return
	}
	p.serveStatic(w, r)
}

// passThrough forwards without caching. Mutating requests never touch the
// cache layer.
func (p *Proxy) passThrough(w http.ResponseWriter, r *http.Request) {
	resp, err := p.fetcher.Do(r)
	if err != nil {
		p.logger.Error("upstream request failed", "method", r.Method, "url", r.URL.String(), "error", err)
		writeJSONError(w, `{"error":"Network unavailable"}`)
		return
	}
	defer resp.Body.Close()
	copyHeader(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)
	io.Copy(w, resp.Body)
}

func (p *Proxy) serveAPI(w http.ResponseWriter, r *http.Request) {
	key := r.URL.RequestURI()
	if !cacheableAPI(key) {
		resp, err := p.fetcher.Do(r)
		if err != nil {
			writeJSONError(w, `{"error":"Network unavailable"}`)
			return
		}
		defer resp.Body.Close()
		copyHeader(w.Header(), resp.Header)
		w.WriteHeader(resp.StatusCode)
		io.Copy(w, resp.Body)
		return
	}

	// Network first. A fresh answer is always preferred; the cache only
	// exists to answer while offline.
	resp, err := p.fetcher.Do(r)
	if err == nil {
		e, readErr := readEntry(resp)
		if readErr != nil {
			err = readErr
		} else {
			if e.status >= 200 && e.status <= 299 {
				p.registry.Open(p.apiName).put(key, e)
			}
			writeEntry(w, e)
			return
		}
	}

	p.logger.Warn("network failed, trying cache", "url", key, "error", err)
	if e, ok := p.registry.Open(p.apiName).get(key); ok {
		writeEntry(w, e)
		return
	}
	writeJSONError(w, `{"error":"Offline and no cached data available","offline":true}`)
}

func (p *Proxy) serveStatic(w http.ResponseWriter, r *http.Request) {
	key := r.URL.RequestURI()
	static := p.registry.Open(p.staticName)
	if e, ok := static.get(key); ok {
		writeEntry(w, e)
		return
	}

	resp, err := p.fetcher.Do(r)
	if err == nil {
		e, readErr := readEntry(resp)
		if readErr != nil {
			err = readErr
		} else {
			if e.status >= 200 && e.status <= 299 {
				static.put(key, e)
			}
			writeEntry(w, e)
			return
		}
	}

	// Offline navigation falls back to the cached app shell so the client
	// boots and works against its own cache.
	if isNavigation(r) {
		if e, ok := static.get("/index.html"); ok {
			writeEntry(w, e)
			return
		}
	}
	p.logger.Warn("static asset unavailable", "url", key, "error", err)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusServiceUnavailable)
	io.WriteString(w, "Offline and resource not cached")
}

func cacheableAPI(requestURI string) bool {
	for _, pattern := range apiCachePatterns {
		if pattern.MatchString(requestURI) {
			return true
		}
	}
	return false
}

// isNavigation detects a page load as opposed to a subresource fetch.
func isNavigation(r *http.Request) bool {
	if r.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func readEntry(resp *http.Response) (entry, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return entry{}, fmt.Errorf("read response body: %w", err)
	}
	return entry{status: resp.StatusCode, header: resp.Header.Clone(), body: body}, nil
}

func writeEntry(w http.ResponseWriter, e entry) {
	copyHeader(w.Header(), e.header)
	w.WriteHeader(e.status)
	w.Write(bytes.Clone(e.body))
}

func copyHeader(dst, src http.Header) {
	for key, values := range src {
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}

func writeJSONError(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	io.WriteString(w, body)
}
