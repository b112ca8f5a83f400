package handler

import (
	"log/slog"
	"net/http"

	"shoplist/internal/model"
	"shoplist/internal/service"
)

type ReceiptHandler struct {
	svc    *service.Service
	logger *slog.Logger
}

func NewReceiptHandler(svc *service.Service, logger *slog.Logger) *ReceiptHandler {
	return &ReceiptHandler{svc: svc, logger: logger}
}

type receiptRequest struct {
	StoreID string              `json:"storeId"`
	Date    string              `json:"date"`
	Total   float64             `json:"total"`
	Items   []model.ReceiptItem `json:"items"`
	RawText string              `json:"rawText"`
}

func (h *ReceiptHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req receiptRequest
	if !decodeBody(w, r, &req) {
		return
	}

	receipt, err := h.svc.SaveReceipt(service.SaveReceiptParams{
		StoreID: req.StoreID,
		Date:    req.Date,
		Total:   req.Total,
		Items:   req.Items,
		RawText: req.RawText,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func (h *ReceiptHandler) List(w http.ResponseWriter, r *http.Request) {
	receipts, err := h.svc.GetReceipts(r.URL.Query().Get("storeId"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if receipts == nil {
		receipts = []model.Receipt{}
	}
	writeJSON(w, http.StatusOK, receipts)
}
