package json

import (
	"encoding/json"
	"net/http"

	domainerrors "kasbah/pkg/domain-errors"
)

// WriteJSON encodes response as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		// best-effort fallback; don't override status for the caller
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// WriteGuardError writes the guard's legacy error envelope. The extension
// matches on the exact body shape, so the envelope never changes.
func WriteGuardError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]any{
		"ok":    false,
		"error": message,
	})
}

// WriteDomainError translates a domain error into the guard envelope,
// mapping its code to an HTTP status. The error's message becomes the
// envelope text, so callers set it to the exact legacy string.
func WriteDomainError(w http.ResponseWriter, err error) {
	WriteGuardError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case domainerrors.HasCode(err, domainerrors.CodeInvalidInput),
		domainerrors.HasCode(err, domainerrors.CodeBadRequest),
		domainerrors.HasCode(err, domainerrors.CodeValidation):
		return http.StatusBadRequest
	case domainerrors.HasCode(err, domainerrors.CodeNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
