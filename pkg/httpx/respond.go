package httpx

import (
	"encoding/json"
	"net/http"
)

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message writes the {"message": ...} error body the API uses for
// domain errors.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// ValidationFailed writes a 400 with per-field messages.
func ValidationFailed(w http.ResponseWriter, details map[string][]string) {
	JSON(w, http.StatusBadRequest, map[string]any{
		"message": "Validation failed",
		"errors":  details,
	})
}

// InternalError writes the generic 500 body. The real error stays in
// the logs only.
func InternalError(w http.ResponseWriter) {
	Message(w, http.StatusInternalServerError, "An error occurred")
}
