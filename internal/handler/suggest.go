package handler

import (
	"log/slog"
	"net/http"

	"shoplist/internal/service"
)

type SuggestHandler struct {
	svc    *service.Service
	logger *slog.Logger
}

func NewSuggestHandler(svc *service.Service, logger *slog.Logger) *SuggestHandler {
	return &SuggestHandler{svc: svc, logger: logger}
}

// Suggest answers GET /api/suggestions?storeId=...&item=a&item=b where the
// item parameters name what is already on the list.
func (h *SuggestHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	suggestions, err := h.svc.Suggest(query["item"], query.Get("storeId"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}
