package utils

import (
	"encoding/json"
	"net/http"
)

// respond writes a JSON body with the given status code. The header is
// already flushed when encoding fails, so the failure can only be logged.
func respond(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		Logger.Errorf("failed to encode response body: %v", err)
	}
}

func WriteJSON(w http.ResponseWriter, data interface{}) {
	respond(w, http.StatusOK, data)
}

func WriteError(w http.ResponseWriter, message string, statusCode int) {
	respond(w, statusCode, map[string]string{
		"status":  "error",
		"message": message,
	})
}
