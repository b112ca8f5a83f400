package cacheproxy

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeOrigin is a scriptable Fetcher: per-URI responses plus a global offline
// switch that makes every fetch fail.
type fakeOrigin struct {
	mu        sync.Mutex
	offline   bool
	responses map[string]string
	statuses  map[string]int
	calls     map[string]int
}

func newFakeOrigin() *fakeOrigin {
	return &fakeOrigin{
		responses: make(map[string]string),
		statuses:  make(map[string]int),
		calls:     make(map[string]int),
	}
}

func (f *fakeOrigin) set(uri, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[uri] = body
}

func (f *fakeOrigin) setOffline(offline bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offline = offline
}

func (f *fakeOrigin) Do(r *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	uri := r.URL.RequestURI()
	f.calls[uri]++
	if f.offline {
		return nil, errors.New("dial tcp: network is unreachable")
	}
	body, ok := f.responses[uri]
	status := http.StatusOK
	if s, hasStatus := f.statuses[uri]; hasStatus {
		status = s
	} else if !ok {
		status = http.StatusNotFound
		body = "not found"
	}
	rec := httptest.NewRecorder()
	rec.WriteHeader(status)
	io.WriteString(rec, body)
	return rec.Result(), nil
}

func newTestProxy(t *testing.T, origin *fakeOrigin, opts ...Option) *Proxy {
	t.Helper()
	return New(origin, slog.Default(), opts...)
}

func get(t *testing.T, p *Proxy, uri string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, uri, nil)
	for key, values := range header {
		req.Header[key] = values
	}
	w := httptest.NewRecorder()
	p.ServeHTTP(w, req)
	return w
}

func TestAPINetworkFirstCachesAndFallsBack(t *testing.T) {
	origin := newFakeOrigin()
	origin.set("/api/stores", `[{"name":"Market"}]`)
	p := newTestProxy(t, origin)

	// Online: answered from the network and cached.
	w := get(t, p, "/api/stores", nil)
	if w.Code != http.StatusOK || w.Body.String() != `[{"name":"Market"}]` {
		t.Fatalf("online response = %d %q", w.Code, w.Body.String())
	}

	// Offline: the cached copy answers.
	origin.setOffline(true)
	w = get(t, p, "/api/stores", nil)
	if w.Code != http.StatusOK || w.Body.String() != `[{"name":"Market"}]` {
		t.Fatalf("offline response = %d %q, want cached copy", w.Code, w.Body.String())
	}
}

func TestAPIOfflineWithoutCacheIs503(t *testing.T) {
	origin := newFakeOrigin()
	origin.setOffline(true)
	p := newTestProxy(t, origin)

	w := get(t, p, "/api/templates", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q, want application/json", ct)
	}
	var body struct {
		Error   string `json:"error"`
		Offline bool   `json:"offline"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "Offline and no cached data available" || !body.Offline {
		t.Errorf("body = %+v", body)
	}
}

func TestNonCacheableAPIIsNetworkOnly(t *testing.T) {
	origin := newFakeOrigin()
	origin.set("/api/suggestions", `[]`)
	p := newTestProxy(t, origin)

	// Served online, never cached.
	get(t, p, "/api/suggestions", nil)

	origin.setOffline(true)
	w := get(t, p, "/api/suggestions", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	var body struct {
		Error   string `json:"error"`
		Offline bool   `json:"offline"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Error != "Network unavailable" {
		t.Errorf("error = %q, want Network unavailable", body.Error)
	}
	if body.Offline {
		t.Error("network-only failures carry no offline flag")
	}
}

func TestAPIErrorStatusNotCached(t *testing.T) {
	origin := newFakeOrigin()
	origin.statuses["/api/stores"] = http.StatusInternalServerError
	origin.responses["/api/stores"] = "boom"
	p := newTestProxy(t, origin)

	w := get(t, p, "/api/stores", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want upstream 500 passed through", w.Code)
	}

	// The failed response must not have been cached as a fallback.
	origin.setOffline(true)
	w = get(t, p, "/api/stores", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("offline status = %d, want 503 (error responses are not cached)", w.Code)
	}
}

func TestStaticCacheFirst(t *testing.T) {
	origin := newFakeOrigin()
	origin.set("/app.js", "console.log(1)")
	p := newTestProxy(t, origin)

	get(t, p, "/app.js", nil)
	get(t, p, "/app.js", nil)

	origin.mu.Lock()
	calls := origin.calls["/app.js"]
	origin.mu.Unlock()
	if calls != 1 {
		t.Errorf("origin fetched %d times, want 1 (cache-first)", calls)
	}
}

func TestNavigationFallsBackToShell(t *testing.T) {
	origin := newFakeOrigin()
	origin.set("/index.html", "<html>shell</html>")
	p := newTestProxy(t, origin, WithPrecacheURLs([]string{"/index.html"}))
	if err := p.Install(context.Background()); err != nil {
		t.Fatalf("install: %v", err)
	}

	origin.setOffline(true)
	header := http.Header{"Sec-Fetch-Mode": []string{"navigate"}}
	w := get(t, p, "/lists/abc", header)
	if w.Code != http.StatusOK || w.Body.String() != "<html>shell</html>" {
		t.Fatalf("navigation fallback = %d %q, want cached shell", w.Code, w.Body.String())
	}

	// Subresource requests get the plain 503 instead.
	w = get(t, p, "/missing.css", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Offline and resource not cached") {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestInstallIsAllOrNothing(t *testing.T) {
	origin := newFakeOrigin()
	origin.set("/index.html", "<html>shell</html>")
	// /manifest.json is missing, so its 404 must abort the install.
	p := newTestProxy(t, origin, WithPrecacheURLs([]string{"/index.html", "/manifest.json"}))

	if err := p.Install(context.Background()); err == nil {
		t.Fatal("expected install to fail on a missing precache asset")
	}
	if n := p.registry.Open(p.staticName).Len(); n != 0 {
		t.Errorf("static cache has %d entries after failed install, want 0", n)
	}
}

func TestActivateDropsStaleGenerations(t *testing.T) {
	origin := newFakeOrigin()
	p := newTestProxy(t, origin, WithCacheNames("static-v2", "api-v2"))
	p.registry.Open("static-v1").put("/old.js", entry{status: 200})
	p.registry.Open("static-v2")
	p.registry.Open("api-v2")

	p.Activate()

	for _, name := range p.registry.Names() {
		if name == "static-v1" {
			t.Error("stale generation survived activation")
		}
	}
}

func TestConnectivityChangeClearsAPICache(t *testing.T) {
	origin := newFakeOrigin()
	origin.set("/api/stores", `["v1"]`)
	p := newTestProxy(t, origin)

	get(t, p, "/api/stores", nil)
	if p.registry.Open(p.apiName).Len() != 1 {
		t.Fatal("expected one cached api response")
	}

	// Going offline keeps the fallback data.
	p.ConnectivityChanged(false)
	if p.registry.Open(p.apiName).Len() != 1 {
		t.Error("offline transition must not discard the fallback cache")
	}

	// Coming back online invalidates it so fresh data is refetched.
	p.ConnectivityChanged(true)
	if p.registry.Open(p.apiName).Len() != 0 {
		t.Error("online transition should clear the api cache")
	}
}

func TestNonGETBypassesCache(t *testing.T) {
	origin := newFakeOrigin()
	origin.set("/api/lists", `{"id":"l1"}`)
	p := newTestProxy(t, origin)

	req := httptest.NewRequest(http.MethodPost, "/api/lists", strings.NewReader(`{"name":"Trip"}`))
	w := httptest.NewRecorder()
	p.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if p.registry.Open(p.apiName).Len() != 0 {
		t.Error("mutating request was cached")
	}
}

func TestPrecacheURLsMessage(t *testing.T) {
	origin := newFakeOrigin()
	origin.set("/extra.css", "body{}")
	p := newTestProxy(t, origin)

	if err := p.PrecacheURLs(context.Background(), []string{"/extra.css"}); err != nil {
		t.Fatalf("precache: %v", err)
	}

	origin.setOffline(true)
	w := get(t, p, "/extra.css", nil)
	if w.Code != http.StatusOK || w.Body.String() != "body{}" {
		t.Errorf("response = %d %q, want precached asset", w.Code, w.Body.String())
	}
}

func TestSkipWaitingPromotesInstalled(t *testing.T) {
	origin := newFakeOrigin()
	p := newTestProxy(t, origin)

	// Brand new: nothing to promote.
	p.SkipWaiting()
	p.mu.Lock()
	state := p.state
	p.mu.Unlock()
	if state != stateNew {
		t.Fatalf("state = %d, want new", state)
	}

	if err := p.Install(context.Background()); err != nil {
		t.Fatalf("install: %v", err)
	}
	p.SkipWaiting()
	p.mu.Lock()
	state = p.state
	p.mu.Unlock()
	if state != stateActive {
		t.Errorf("state = %d, want active after skip-waiting", state)
	}
}
