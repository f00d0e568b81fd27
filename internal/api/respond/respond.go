package respond

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteError writes {"error": <status text>, "details": details}.
func WriteError(w http.ResponseWriter, statusCode int, details string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Details: details,
	})
}

func WriteBadRequest(w http.ResponseWriter, details string) {
	WriteError(w, http.StatusBadRequest, details)
}

func WriteUnauthorized(w http.ResponseWriter, details string) {
	WriteError(w, http.StatusUnauthorized, details)
}

func WriteForbidden(w http.ResponseWriter, details string) {
	WriteError(w, http.StatusForbidden, details)
}

func WriteNotFound(w http.ResponseWriter, details string) {
	WriteError(w, http.StatusNotFound, details)
}

// WriteInternalError never echoes the underlying error; callers log it.
func WriteInternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "an internal error occurred")
}
