package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"shoplist/internal/handler"
	"shoplist/internal/middleware"
	"shoplist/internal/service"
	"shoplist/internal/store"
	ws "shoplist/internal/websocket"
)

type Server struct {
	db       *sql.DB
	hub      *ws.Hub
	svc      *service.Service
	storeH   *handler.StoreHandler
	listH    *handler.ListHandler
	tplH     *handler.TemplateHandler
	receiptH *handler.ReceiptHandler
	suggestH *handler.SuggestHandler
	dataH    *handler.DataHandler
	logger   *slog.Logger
}

func New(db *sql.DB, dbPath string, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))
	st := store.New(db)
	svc := service.New(st, hub, dbPath, logger.With("component", "service"))

	return &Server{
		db:       db,
		hub:      hub,
		svc:      svc,
		storeH:   handler.NewStoreHandler(svc, logger.With("component", "store_handler")),
		listH:    handler.NewListHandler(svc, logger.With("component", "list_handler")),
		tplH:     handler.NewTemplateHandler(svc, logger.With("component", "template_handler")),
		receiptH: handler.NewReceiptHandler(svc, logger.With("component", "receipt_handler")),
		suggestH: handler.NewSuggestHandler(svc, logger.With("component", "suggest_handler")),
		dataH:    handler.NewDataHandler(svc, logger.With("component", "data_handler")),
		logger:   logger,
	}
}

// Hub returns the websocket hub for lifecycle control.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// Service returns the domain service for embedding callers.
func (s *Server) Service() *service.Service {
	return s.svc
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ws", ws.Handle(s.hub, s.logger.With("component", "ws_handler")))

	// Store profiles
	mux.HandleFunc("GET /api/stores", s.storeH.List)
	mux.HandleFunc("POST /api/stores", s.storeH.Create)
	mux.HandleFunc("GET /api/stores/{id}", s.storeH.Get)
	mux.HandleFunc("PUT /api/stores/{id}", s.storeH.Update)
	mux.HandleFunc("DELETE /api/stores/{id}", s.storeH.Delete)

	// Shopping lists and their items
	mux.HandleFunc("GET /api/lists", s.listH.List)
	mux.HandleFunc("POST /api/lists", s.listH.Create)
	mux.HandleFunc("GET /api/lists/{id}", s.listH.Get)
	mux.HandleFunc("PUT /api/lists/{id}", s.listH.Update)
	mux.HandleFunc("POST /api/lists/{id}/complete", s.listH.Complete)
	mux.HandleFunc("POST /api/lists/{id}/items", s.listH.AddItem)
	mux.HandleFunc("PUT /api/lists/{id}/items/{item_id}", s.listH.UpdateItem)
	mux.HandleFunc("DELETE /api/lists/{id}/items/{item_id}", s.listH.DeleteItem)

	// Templates
	mux.HandleFunc("GET /api/templates", s.tplH.List)
	mux.HandleFunc("POST /api/templates", s.tplH.Create)
	mux.HandleFunc("GET /api/templates/{id}", s.tplH.Get)
	mux.HandleFunc("POST /api/templates/{id}/generate", s.tplH.GenerateList)

	// Receipts
	mux.HandleFunc("GET /api/receipts", s.receiptH.List)
	mux.HandleFunc("POST /api/receipts", s.receiptH.Create)

	// Suggestions
	mux.HandleFunc("GET /api/suggestions", s.suggestH.Suggest)

	// Whole-store data operations
	mux.HandleFunc("GET /api/export", s.dataH.Export)
	mux.HandleFunc("POST /api/import", s.dataH.Import)
	mux.HandleFunc("DELETE /api/data", s.dataH.Clear)
	mux.HandleFunc("GET /api/storage", s.dataH.Storage)

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
