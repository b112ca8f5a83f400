package cacheproxy

import (
	"encoding/json"
	"net/http"
)

// ControlHandler exposes the proxy's control signals over HTTP: promoting an
// installed generation and precaching extra URLs on demand.
func ControlHandler(p *Proxy) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /control/skip-waiting", func(w http.ResponseWriter, r *http.Request) {
		p.SkipWaiting()
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("POST /control/cache-urls", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			URLs []string `json:"urls"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		if err := p.PrecacheURLs(r.Context(), req.URLs); err != nil {
			p.logger.Error("precache request failed", "error", err)
			http.Error(w, "precache failed", http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}
