package handler

import (
	"io"
	"log/slog"
	"net/http"

	"shoplist/internal/service"
)

// DataHandler covers the whole-store operations: export, import, clear, and
// storage statistics.
type DataHandler struct {
	svc    *service.Service
	logger *slog.Logger
}

func NewDataHandler(svc *service.Service, logger *slog.Logger) *DataHandler {
	return &DataHandler{svc: svc, logger: logger}
}

func (h *DataHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportData()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="shoplist-export.json"`)
	w.Write(data)
}

func (h *DataHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 32<<20))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read body"})
		return
	}
	if err := h.svc.ImportData(data); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

func (h *DataHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearAllData(); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DataHandler) Storage(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.StorageInfo()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
