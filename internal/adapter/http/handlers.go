// Package http provides the HTTP surface of the comparison agent: the A2A
// JSON-RPC endpoint, the agent card and the health check.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/fincompare/fincompare/internal/port/a2a"
	"github.com/fincompare/fincompare/internal/service"
)

// maxBodyBytes caps the size of an inbound JSON-RPC envelope.
const maxBodyBytes = 1 << 20

// Handlers bundles the services the HTTP layer dispatches to.
type Handlers struct {
	Agent   *service.AgentService
	BaseURL string
}

// A2ACompare is the main A2A endpoint. It validates the JSON-RPC envelope,
// unpacks the method-specific params and hands the messages to the agent.
func (h *Handlers) A2ACompare(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req a2a.JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRPCError(w, http.StatusInternalServerError, nil, a2a.CodeInternalError,
			"Internal error", map[string]any{"details": err.Error()})
		return
	}

	if req.JSONRPC != "2.0" || req.ID == nil {
		writeRPCError(w, http.StatusBadRequest, req.ID, a2a.CodeInvalidRequest,
			"Invalid Request: jsonrpc must be '2.0' and id is required", nil)
		return
	}

	var (
		messages  []a2a.Message
		contextID string
		taskID    string
	)
	switch req.Method {
	case "message/send":
		if req.Params.Message != nil {
			messages = []a2a.Message{*req.Params.Message}
		}
	case "execute":
		messages = req.Params.Messages
		contextID = req.Params.ContextID
		taskID = req.Params.TaskID
	}

	task, err := h.Agent.ProcessMessages(r.Context(), messages, contextID, taskID)
	if err != nil {
		writeRPCError(w, http.StatusInternalServerError, req.ID, a2a.CodeInternalError,
			"Internal error", map[string]any{"details": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, a2a.JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  task,
	})
}

// AgentCard serves the A2A agent card.
func (h *Handlers) AgentCard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a2a.BuildAgentCard(h.BaseURL))
}

// Health reports service liveness.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"agent":  "company_comparison",
	})
}
