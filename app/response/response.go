// Package response writes the JSON envelope shared by every endpoint.
package response

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON writes a successful envelope.
func JSON(w http.ResponseWriter, status int, data any, message string) {
	write(w, status, Envelope{Success: true, Data: data, Message: message})
}

// Error writes a failed envelope.
func Error(w http.ResponseWriter, status int, msg string) {
	write(w, status, Envelope{Success: false, Error: msg})
}

func write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ParseID reads a positive numeric path value.
func ParseID(r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
