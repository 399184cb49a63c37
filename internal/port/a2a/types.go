// Package a2a defines the wire shapes of the A2A protocol: a JSON-RPC 2.0
// envelope carrying messages in, and task results with artifacts out.
package a2a

// JSON-RPC error codes used by the endpoint.
const (
	CodeInvalidRequest = -32600
	CodeInternalError  = -32603
)

// Task states.
const (
	StateCompleted = "completed"
	StateFailed    = "failed"
)

// Message part kinds.
const (
	PartText = "text"
	PartData = "data"
)

// Message roles.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// JSONRPCRequest is the inbound envelope.
type JSONRPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id"`
	Method  string `json:"method"`
	Params  Params `json:"params"`
}

// Params carries the method-specific payload. message/send supplies a single
// Message; execute supplies a list plus optional explicit identifiers.
type Params struct {
	Message       *Message       `json:"message,omitempty"`
	Messages      []Message      `json:"messages,omitempty"`
	ContextID     string         `json:"contextId,omitempty"`
	TaskID        string         `json:"taskId,omitempty"`
	Configuration map[string]any `json:"configuration,omitempty"`
}

// JSONRPCResponse is the outbound envelope.
type JSONRPCResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  *Task     `json:"result,omitempty"`
	Error   *RPCError `json:"error,omitempty"`
}

// RPCError is the JSON-RPC error object.
type RPCError struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// Message is a protocol-level conversation message composed of parts.
type Message struct {
	Role   string `json:"role"`
	Parts  []Part `json:"parts"`
	TaskID string `json:"taskId,omitempty"`
}

// Part is one piece of a message: plain text or structured data.
type Part struct {
	Kind string         `json:"kind"`
	Text string         `json:"text,omitempty"`
	Data map[string]any `json:"data,omitempty"`
}

// Task is the result of one request/response cycle.
type Task struct {
	ID        string     `json:"id"`
	ContextID string     `json:"contextId"`
	Status    TaskStatus `json:"status"`
	Artifacts []Artifact `json:"artifacts"`
	History   []Message  `json:"history,omitempty"`
}

// TaskStatus carries the terminal state and the agent's response message.
type TaskStatus struct {
	State   string   `json:"state"`
	Message *Message `json:"message,omitempty"`
}

// Artifact is a named output payload attached to a completed task.
type Artifact struct {
	Name  string `json:"name"`
	Parts []Part `json:"parts"`
}

// TextMessage builds an agent message with a single text part.
func TextMessage(role, text, taskID string) *Message {
	return &Message{
		Role:   role,
		Parts:  []Part{{Kind: PartText, Text: text}},
		TaskID: taskID,
	}
}
