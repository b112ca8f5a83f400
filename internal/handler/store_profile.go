package handler

import (
	"log/slog"
	"net/http"

	"shoplist/internal/model"
	"shoplist/internal/service"
)

type StoreHandler struct {
	svc    *service.Service
	logger *slog.Logger
}

func NewStoreHandler(svc *service.Service, logger *slog.Logger) *StoreHandler {
	return &StoreHandler{svc: svc, logger: logger}
}

type storeRequest struct {
	Name        string                  `json:"name"`
	Type        string                  `json:"type"`
	Address     string                  `json:"address"`
	Layout      *model.StoreLayout      `json:"layout"`
	Preferences *model.StorePreferences `json:"preferences"`
}

func (h *StoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req storeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	profile, err := h.svc.CreateStore(service.StoreParams{
		Name:        req.Name,
		Type:        req.Type,
		Address:     req.Address,
		Layout:      req.Layout,
		Preferences: req.Preferences,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

func (h *StoreHandler) List(w http.ResponseWriter, r *http.Request) {
	stores, err := h.svc.GetStores()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if stores == nil {
		stores = []model.StoreProfile{}
	}
	writeJSON(w, http.StatusOK, stores)
}

func (h *StoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.GetStore(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type storeUpdateRequest struct {
	Name        *string                 `json:"name"`
	Type        *string                 `json:"type"`
	Address     *string                 `json:"address"`
	Layout      *model.StoreLayout      `json:"layout"`
	Preferences *model.StorePreferences `json:"preferences"`
}

func (h *StoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req storeUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	profile, err := h.svc.UpdateStore(r.PathValue("id"), service.StoreUpdate{
		Name:        req.Name,
		Type:        req.Type,
		Address:     req.Address,
		Layout:      req.Layout,
		Preferences: req.Preferences,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *StoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteStore(r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
