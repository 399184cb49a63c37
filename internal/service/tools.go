package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/fincompare/fincompare/internal/port/llm"
)

// ToolHandler executes one model-issued tool invocation. args is the
// serialized argument object exactly as the model produced it.
type ToolHandler func(ctx context.Context, args json.RawMessage) (any, error)

// ToolRegistry maps declared tool names to bound handlers. The mapping is
// populated at startup and is the only place a model-named tool can resolve
// to code; a name outside the registry never reaches anything callable.
type ToolRegistry struct {
	specs    []llm.Tool
	handlers map[string]ToolHandler
}

// NewToolRegistry creates an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{handlers: make(map[string]ToolHandler)}
}

// Register declares a tool to the model and binds its handler.
func (r *ToolRegistry) Register(spec llm.FunctionSpec, h ToolHandler) {
	r.specs = append(r.specs, llm.Tool{Type: "function", Function: spec})
	r.handlers[spec.Name] = h
}

// Specs returns the tool declarations sent with every model call.
func (r *ToolRegistry) Specs() []llm.Tool {
	return r.specs
}

// Dispatch runs the named tool and wraps its serialized return value as a
// tool-role message carrying the originating call identifier. An unknown tool
// name yields an empty-object result rather than failing the turn; a handler
// error or malformed argument payload fails it.
func (r *ToolRegistry) Dispatch(ctx context.Context, call llm.ToolCall) (llm.Message, error) {
	handler, ok := r.handlers[call.Function.Name]
	if !ok {
		slog.Warn("model requested unknown tool", "tool", call.Function.Name, "call_id", call.ID)
		return llm.Message{
			Role:       llm.RoleTool,
			Content:    "{}",
			ToolCallID: call.ID,
		}, nil
	}

	result, err := handler(ctx, json.RawMessage(call.Function.Arguments))
	if err != nil {
		return llm.Message{}, fmt.Errorf("tool %s: %w", call.Function.Name, err)
	}

	content, err := json.Marshal(result)
	if err != nil {
		return llm.Message{}, fmt.Errorf("marshal result of %s: %w", call.Function.Name, err)
	}

	return llm.Message{
		Role:       llm.RoleTool,
		Content:    string(content),
		ToolCallID: call.ID,
	}, nil
}

// compareArgs is the argument shape of the compare_companies tool.
type compareArgs struct {
	Ticker1 string `json:"ticker1"`
	Ticker2 string `json:"ticker2"`
}

// RegisterComparisonTool declares compare_companies and binds it to the
// compare service.
func RegisterComparisonTool(r *ToolRegistry, compareSvc *CompareService) {
	spec := llm.FunctionSpec{
		Name: "compare_companies",
		Description: "Compare two companies' financial performance using their stock ticker symbols. " +
			"Returns key metrics including market cap, profit margins, P/E ratio, dividend yield, and more.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"ticker1": map[string]any{
					"type":        "string",
					"description": "The stock ticker symbol of the first company (e.g., 'AAPL' for Apple)",
				},
				"ticker2": map[string]any{
					"type":        "string",
					"description": "The stock ticker symbol of the second company (e.g., 'MSFT' for Microsoft)",
				},
			},
			"required": []string{"ticker1", "ticker2"},
		},
	}

	r.Register(spec, func(ctx context.Context, args json.RawMessage) (any, error) {
		var a compareArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, fmt.Errorf("parse arguments: %w", err)
		}
		return compareSvc.Compare(ctx, a.Ticker1, a.Ticker2), nil
	})
}
