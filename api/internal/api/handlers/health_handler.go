package handlers

import (
	"encoding/json"
	"net/http"

	"ember/api/internal/core/domain"
)

type HealthHandler struct {
	Store domain.SecretStore
}

func NewHealthHandler(store domain.SecretStore) *HealthHandler {
	return &HealthHandler{Store: store}
}

// Check handles GET /health. It reports store connectivity and nothing else;
// the endpoint is unauthenticated, so it must not disclose configuration.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.Store.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "degraded"})
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
