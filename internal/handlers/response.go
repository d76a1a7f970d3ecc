package handlers

import (
	"encoding/json"
	"net/http"
)

// Response is the uniform JSON envelope returned by every endpoint.
// swagger:model Response
type Response struct {
	// Operation outcome
	Success bool `json:"success"`

	// Payload, omitted when there is none
	Data interface{} `json:"data,omitempty"`

	// Human-readable status message
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, data interface{}, message string) {
	writeJSON(w, status, Response{Success: true, Data: data, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: false, Message: message})
}
