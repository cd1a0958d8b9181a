package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Routes registers the public codec routes on r and the order and registry
// routes on a subrouter guarded by auth.
func (h *Handler) Routes(r *mux.Router, auth mux.MiddlewareFunc) {
	r.HandleFunc("/terms/pack", h.PackTerms).Methods(http.MethodPost)
	r.HandleFunc("/terms/unpack", h.UnpackTerms).Methods(http.MethodPost)
	r.HandleFunc("/schedule", h.Schedule).Methods(http.MethodPost)

	protected := r.PathPrefix("/").Subrouter()
	protected.Use(auth)
	protected.HandleFunc("/orders/debt", h.ToDebtOrder).Methods(http.MethodPost)
	protected.HandleFunc("/orders/loan", h.FromDebtOrder).Methods(http.MethodPost)
	protected.HandleFunc("/entries", h.CreateEntry).Methods(http.MethodPost)
	protected.HandleFunc("/entries/{id}/schedule", h.EntrySchedule).Methods(http.MethodGet)
}
