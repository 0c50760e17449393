package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"ember/api/internal/core/domain"
)

// HandleError converts a service error into its caller-visible status and
// message. Client-caused errors pass through as-is; server-caused errors are
// logged with their cause and answered with the bare sentinel text so
// internals never leak.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &validationErrs):
		writeError(w, http.StatusBadRequest, "Validation failed: "+validationErrs.Error())

	case errors.Is(err, domain.ErrMissingSecret):
		writeError(w, http.StatusBadRequest, domain.ErrMissingSecret.Error())

	case errors.Is(err, domain.ErrPasswordRequired):
		writeError(w, http.StatusUnauthorized, domain.ErrPasswordRequired.Error())

	case errors.Is(err, domain.ErrIPNotAllowed):
		writeError(w, http.StatusForbidden, domain.ErrIPNotAllowed.Error())

	case errors.Is(err, domain.ErrWrongPassword):
		writeError(w, http.StatusForbidden, domain.ErrWrongPassword.Error())

	case errors.Is(err, domain.ErrSecretNotFound):
		writeError(w, http.StatusNotFound, domain.ErrSecretNotFound.Error())

	case errors.Is(err, domain.ErrCorruptRecord):
		slog.Error("corrupt secret record", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, domain.ErrCorruptRecord.Error())

	case errors.Is(err, domain.ErrStorage):
		slog.Error("secret storage failure", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, domain.ErrStorage.Error())

	default:
		slog.Error("unhandled error", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
