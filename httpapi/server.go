// Package httpapi exposes the inventory and order services over HTTP.
//
// All routes require a bearer token; deletes additionally require the
// Manager role. Handlers stay thin: decode, call the service, map the
// error class onto a status code.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/logitrack/logitrack/inventory"
	"github.com/logitrack/logitrack/orders"
)

// InventoryService is the inventory surface the handlers need.
type InventoryService interface {
	List(ctx context.Context) ([]inventory.ItemView, error)
	Create(ctx context.Context, in inventory.CreateInput) (inventory.ItemView, error)
	Delete(ctx context.Context, id int64) error
}

// OrderService is the order surface the handlers need.
type OrderService interface {
	List(ctx context.Context) ([]orders.OrderView, error)
	Get(ctx context.Context, id int64) (orders.OrderView, error)
	Create(ctx context.Context, in orders.CreateInput) (orders.OrderView, error)
	Delete(ctx context.Context, id int64) error
}

// Server routes HTTP requests to the aggregate services.
type Server struct {
	router    *mux.Router
	inventory InventoryService
	orders    OrderService
	log       *zap.Logger
}

// NewServer builds the router with authentication and request logging
// applied to every route.
func NewServer(inv InventoryService, ord OrderService, verifier *TokenVerifier, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		router:    mux.NewRouter(),
		inventory: inv,
		orders:    ord,
		log:       log,
	}

	s.router.Use(mux.MiddlewareFunc(RequestLogger(log)))
	s.router.Use(mux.MiddlewareFunc(Authenticate(verifier)))

	manager := RequireRole(RoleManager)

	s.router.HandleFunc("/inventory", s.handleListInventory).Methods(http.MethodGet)
	s.router.HandleFunc("/inventory/timed", s.handleListInventoryTimed).Methods(http.MethodGet)
	s.router.HandleFunc("/inventory", s.handleCreateItem).Methods(http.MethodPost)
	s.router.Handle("/inventory/{id:[0-9]+}", manager(http.HandlerFunc(s.handleDeleteItem))).Methods(http.MethodDelete)

	s.router.HandleFunc("/orders", s.handleListOrders).Methods(http.MethodGet)
	s.router.HandleFunc("/orders/{id:[0-9]+}", s.handleGetOrder).Methods(http.MethodGet)
	s.router.HandleFunc("/orders", s.handleCreateOrder).Methods(http.MethodPost)
	s.router.Handle("/orders/{id:[0-9]+}", manager(http.HandlerFunc(s.handleDeleteOrder))).Methods(http.MethodDelete)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func (s *Server) handleListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := s.inventory.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// handleListInventoryTimed serves the same payload as handleListInventory
// and reports how long retrieval took, for spotting cold-cache reads.
func (s *Server) handleListInventoryTimed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	items, err := s.inventory.List(r.Context())
	elapsed := time.Since(start)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.log.Info("inventory retrieval timed",
		zap.Duration("elapsed", elapsed),
		zap.Int("items", len(items)),
	)
	w.Header().Set("X-Elapsed-Ms", strconv.FormatInt(elapsed.Milliseconds(), 10))
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var in inventory.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}

	view, err := s.inventory.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/inventory/%d", view.ItemID))
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.inventory.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	views, err := s.orders.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	view, err := s.orders.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var in orders.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}

	view, err := s.orders.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/orders/%d", view.OrderID))
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.orders.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
