package handler

import (
	"log/slog"
	"net/http"

	"shoplist/internal/model"
	"shoplist/internal/service"
)

type ListHandler struct {
	svc    *service.Service
	logger *slog.Logger
}

func NewListHandler(svc *service.Service, logger *slog.Logger) *ListHandler {
	return &ListHandler{svc: svc, logger: logger}
}

type listRequest struct {
	Name       string `json:"name"`
	StoreID    string `json:"storeId"`
	TemplateID string `json:"templateId"`
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if !decodeBody(w, r, &req) {
		return
	}

	list, err := h.svc.CreateList(service.ListParams{
		Name:       req.Name,
		StoreID:    req.StoreID,
		TemplateID: req.TemplateID,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

func (h *ListHandler) List(w http.ResponseWriter, r *http.Request) {
	storeID := r.URL.Query().Get("storeId")
	activeOnly := r.URL.Query().Get("active") == "true"

	lists, err := h.svc.GetLists(storeID, activeOnly)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if lists == nil {
		lists = []model.ShoppingList{}
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.GetList(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type listUpdateRequest struct {
	Name    *string `json:"name"`
	StoreID *string `json:"storeId"`
}

func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req listUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	list, err := h.svc.UpdateList(r.PathValue("id"), service.ListUpdate{
		Name:    req.Name,
		StoreID: req.StoreID,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ListHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.CompleteList(id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	list, err := h.svc.GetList(id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type itemRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Quantity string `json:"quantity"`
	Notes    string `json:"notes"`
}

func (h *ListHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.svc.AddItemToList(r.PathValue("id"), service.ItemParams{
		Name:     req.Name,
		Category: req.Category,
		Quantity: req.Quantity,
		Notes:    req.Notes,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

type itemUpdateRequest struct {
	Name           *string `json:"name"`
	Category       *string `json:"category"`
	Checked        *bool   `json:"checked"`
	Quantity       *string `json:"quantity"`
	Notes          *string `json:"notes"`
	ClearCheckedAt bool    `json:"clearCheckedAt"`
}

func (h *ListHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req itemUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.svc.UpdateListItem(r.PathValue("id"), r.PathValue("item_id"), service.ItemUpdate{
		Name:           req.Name,
		Category:       req.Category,
		Checked:        req.Checked,
		Quantity:       req.Quantity,
		Notes:          req.Notes,
		ClearCheckedAt: req.ClearCheckedAt,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ListHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteListItem(r.PathValue("id"), r.PathValue("item_id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
