package api

import (
	"encoding/json"
	"net/http"
)

// envelope is the wire shape of every response: status is "success" or
// "error"; data carries the payload on success, code/reason describe the
// failure otherwise.
type envelope struct {
	Status  string `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Status: "success", Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message, reason string) {
	writeJSON(w, status, envelope{Status: "error", Code: code, Message: message, Reason: reason})
}
