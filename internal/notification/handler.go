// internal/notification/handler.go
package notification

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// AdminRoutes registers the notification endpoints. Dispatch is
// restricted to staff since it fans out to external channels.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Post("/notifications/dispatch", h.handleDispatch)
}

func (h *Handler) handleDispatch(w http.ResponseWriter, r *http.Request) {
	if err := h.hub.DispatchOverdueNotices(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "dispatched"})
}
