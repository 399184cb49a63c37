package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fincompare/fincompare/internal/port/a2a"
)

// writeJSON encodes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", "error", err)
	}
}

// writeRPCError encodes a JSON-RPC error envelope with the given HTTP status.
func writeRPCError(w http.ResponseWriter, status int, id any, code int, message string, data map[string]any) {
	writeJSON(w, status, a2a.JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &a2a.RPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	})
}
