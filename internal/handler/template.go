package handler

import (
	"log/slog"
	"net/http"

	"shoplist/internal/model"
	"shoplist/internal/service"
)

type TemplateHandler struct {
	svc    *service.Service
	logger *slog.Logger
}

func NewTemplateHandler(svc *service.Service, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{svc: svc, logger: logger}
}

type templateRequest struct {
	Name    string               `json:"name"`
	StoreID string               `json:"storeId"`
	Items   []model.TemplateItem `json:"items"`
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tpl, err := h.svc.CreateTemplate(service.TemplateParams{
		Name:    req.Name,
		StoreID: req.StoreID,
		Items:   req.Items,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, tpl)
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.svc.GetTemplates(r.URL.Query().Get("storeId"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if templates == nil {
		templates = []model.Template{}
	}
	writeJSON(w, http.StatusOK, templates)
}

func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.svc.GetTemplate(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

type generateListRequest struct {
	Name string `json:"name"`
}

// GenerateList instantiates a shopping list from the template.
func (h *TemplateHandler) GenerateList(w http.ResponseWriter, r *http.Request) {
	var req generateListRequest
	if !decodeBody(w, r, &req) {
		return
	}

	list, err := h.svc.GenerateListFromTemplate(r.PathValue("id"), req.Name)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}
