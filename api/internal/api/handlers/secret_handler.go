package handlers

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"ember/api/internal/core/services"
)

// Use a single instance of Validate, it caches struct info
var validate = validator.New()

// ==============================================================================
// 1. Request Payloads (Input Validation)
// ==============================================================================

type StoreSecretRequest struct {
	// The caller supplies an already-encrypted blob; it is never inspected.
	EncryptedSecret string `json:"encryptedSecret" validate:"required,max=65536"`
	TTL             int64  `json:"ttl" validate:"omitempty,min=1"`
	AllowedIP       string `json:"allowedIp" validate:"omitempty,ip"`
	Password        string `json:"password" validate:"omitempty,max=512"`
}

type ViewSecretRequest struct {
	Password string `json:"password" validate:"omitempty,max=512"`
}

// ==============================================================================
// 2. The Handler Struct (Dependency Injection)
// ==============================================================================

type SecretHandler struct {
	StoreService *services.StoreService
	ViewService  *services.ViewService
}

func NewSecretHandler(storeService *services.StoreService, viewService *services.ViewService) *SecretHandler {
	return &SecretHandler{
		StoreService: storeService,
		ViewService:  viewService,
	}
}

// ==============================================================================
// 3. HTTP Methods
// ==============================================================================

// Store handles POST /api/store
func (h *SecretHandler) Store(w http.ResponseWriter, r *http.Request) {
	var req StoreSecretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "Invalid JSON payload"}`, http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		HandleError(w, r, err)
		return
	}

	link, err := h.StoreService.Store(r.Context(), services.StoreRequest{
		EncryptedSecret: req.EncryptedSecret,
		TTLSeconds:      req.TTL,
		AllowedIP:       req.AllowedIP,
		Password:        req.Password,
	})
	if err != nil {
		HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"link": link})
}

// View handles POST /api/view/{token}
func (h *SecretHandler) View(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	// The body is optional: password-less secrets are viewed with no payload.
	var req ViewSecretRequest
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, `{"error": "Failed to read request body"}`, http.StatusBadRequest)
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, `{"error": "Invalid JSON payload"}`, http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			HandleError(w, r, err)
			return
		}
	}

	encryptedSecret, err := h.ViewService.View(r.Context(), token, req.Password, clientAddress(r))
	if err != nil {
		HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"encryptedSecret": encryptedSecret})
}

// clientAddress resolves the viewing caller's network address: the first entry
// of a forwarded-for chain when present, else the direct peer address with its
// port stripped.
func clientAddress(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// Already a bare address (e.g. rewritten by the RealIP middleware)
		return r.RemoteAddr
	}
	return host
}
