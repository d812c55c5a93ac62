// internal/circulation/handler.go
package circulation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"libris/internal/catalog"
	"libris/internal/membership"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes registers the public circulation endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/loans", h.handleBorrow)
	r.Post("/returns", h.handleReturn)
}

// AdminRoutes registers the endpoints reserved for staff.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Get("/loans/overdue", h.handleOverdue)
}

type loanRequest struct {
	MemberID uuid.UUID `json:"member_id"`
	ItemID   uuid.UUID `json:"item_id"`
}

func (h *Handler) handleBorrow(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	receipt, err := h.service.Borrow(r.Context(), req.MemberID, req.ItemID)
	if err != nil {
		switch {
		case errors.Is(err, ErrItemUnavailable),
			errors.Is(err, ErrUnpaidFines),
			errors.Is(err, ErrOverdueItems):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, catalog.ErrNotFound), errors.Is(err, membership.ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(receipt)
}

func (h *Handler) handleReturn(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Return(r.Context(), req.MemberID, req.ItemID); err != nil {
		switch {
		case errors.Is(err, ErrLoanNotFound), errors.Is(err, catalog.ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleOverdue(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.OverdueItems(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(reports)
}
