package service

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/semaphore"

	fcotel "github.com/fincompare/fincompare/internal/adapter/otel"
	"github.com/fincompare/fincompare/internal/domain"
	"github.com/fincompare/fincompare/internal/port/a2a"
	"github.com/fincompare/fincompare/internal/port/llm"
	"github.com/fincompare/fincompare/internal/session"
)

//go:embed templates/comparison_system.tmpl
var systemPrompt string

// refusalText is returned verbatim for inputs that are not comparison queries.
const refusalText = "This AI Agent is designed only for comparing two companies.\n\n" +
	"Example inputs:\n" +
	"- Compare Apple and Microsoft\n" +
	"- How does Tesla compare to Ford?\n" +
	"- Which is better, Google or Amazon?\n\n" +
	"Please rephrase your request to include two companies for comparison."

// AgentService drives the tool-calling conversation with the model and
// translates A2A requests into turns and back into task results.
type AgentService struct {
	completer llm.Completer
	tools     *ToolRegistry
	sessions  *session.Store
	maxRounds int
	llmSlots  *semaphore.Weighted
	metrics   *fcotel.Metrics
}

// NewAgentService creates an AgentService. metrics may be nil.
func NewAgentService(completer llm.Completer, tools *ToolRegistry, sessions *session.Store, maxRounds int, maxConcurrentLLM int64, metrics *fcotel.Metrics) *AgentService {
	if maxRounds < 1 {
		maxRounds = 8
	}
	if maxConcurrentLLM < 1 {
		maxConcurrentLLM = 16
	}
	return &AgentService{
		completer: completer,
		tools:     tools,
		sessions:  sessions,
		maxRounds: maxRounds,
		llmSlots:  semaphore.NewWeighted(maxConcurrentLLM),
		metrics:   metrics,
	}
}

// ProcessMessages handles one A2A request: extract the user's text, filter
// non-comparison queries, run the conversation loop, and shape the outcome as
// a task with artifacts. Input errors (no message, no extractable text) are
// returned as Go errors for the transport layer; everything downstream of a
// valid input becomes a completed or failed task.
func (s *AgentService) ProcessMessages(ctx context.Context, messages []a2a.Message, contextID, taskID string) (*a2a.Task, error) {
	if len(messages) == 0 {
		return nil, domain.ErrNoMessage
	}
	if taskID == "" {
		taskID = uuid.NewString()
	}

	userText := extractUserText(messages[len(messages)-1])
	if userText == "" {
		return nil, domain.ErrNoInput
	}

	if !IsComparisonQuery(userText) {
		if contextID == "" {
			contextID = uuid.NewString()
		}
		if s.metrics != nil {
			s.metrics.TasksRefused.Add(ctx, 1)
		}
		slog.Info("non-comparison query refused", "task_id", taskID, "context_id", contextID)

		response := a2a.TextMessage(a2a.RoleAgent, refusalText, taskID)
		return &a2a.Task{
			ID:        taskID,
			ContextID: contextID,
			Status:    a2a.TaskStatus{State: a2a.StateCompleted, Message: response},
			Artifacts: []a2a.Artifact{},
			History:   append(append([]a2a.Message{}, messages...), *response),
		}, nil
	}

	sess := s.sessions.GetOrCreate(contextID)
	contextID = sess.ID

	ctx, span := fcotel.StartTaskSpan(ctx, taskID, contextID)
	defer span.End()

	start := time.Now()

	// One turn per context at a time; concurrent requests on the same
	// context queue here instead of interleaving history mutation.
	sess.Lock()
	finalText, comparisonData, err := s.chatWithTools(ctx, userText, sess)
	sess.Unlock()

	if s.metrics != nil {
		s.metrics.TurnDuration.Record(ctx, time.Since(start).Seconds())
	}

	if err != nil {
		if s.metrics != nil {
			s.metrics.TasksFailed.Add(ctx, 1)
		}
		slog.Error("conversation turn failed", "task_id", taskID, "context_id", contextID, "error", err)

		response := a2a.TextMessage(a2a.RoleAgent,
			fmt.Sprintf("An error occurred while processing your request: %v", err), taskID)
		return &a2a.Task{
			ID:        taskID,
			ContextID: contextID,
			Status:    a2a.TaskStatus{State: a2a.StateFailed, Message: response},
			Artifacts: []a2a.Artifact{},
			History:   append(append([]a2a.Message{}, messages...), *response),
		}, nil
	}

	if s.metrics != nil {
		s.metrics.TasksCompleted.Add(ctx, 1)
	}
	slog.Info("comparison task completed",
		"task_id", taskID,
		"context_id", contextID,
		"has_data", comparisonData != nil,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	response := a2a.TextMessage(a2a.RoleAgent, finalText, taskID)
	artifacts := []a2a.Artifact{
		{Name: "comparison_text", Parts: []a2a.Part{{Kind: a2a.PartText, Text: finalText}}},
	}
	if comparisonData != nil {
		artifacts = append(artifacts, a2a.Artifact{
			Name:  "comparison_data",
			Parts: []a2a.Part{{Kind: a2a.PartData, Data: comparisonData}},
		})
	}

	return &a2a.Task{
		ID:        taskID,
		ContextID: contextID,
		Status:    a2a.TaskStatus{State: a2a.StateCompleted, Message: response},
		Artifacts: artifacts,
		History:   append(append([]a2a.Message{}, messages...), *response),
	}, nil
}

// chatWithTools runs the model loop for one turn: send history plus the new
// user message with the tool declarations, execute any requested tool calls,
// and repeat until the model answers directly or the round cap is hit. The
// session lock must be held; session history is only appended on success.
func (s *AgentService) chatWithTools(ctx context.Context, userText string, sess *session.Session) (string, map[string]any, error) {
	msgs := make([]llm.Message, 0, sess.Len()+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	msgs = append(msgs, sess.History()...)
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: userText})

	var comparisonData map[string]any

	for round := 0; round < s.maxRounds; round++ {
		resp, err := s.complete(ctx, llm.ChatCompletionRequest{
			Messages: msgs,
			Tools:    s.tools.Specs(),
		})
		if err != nil {
			return "", nil, err
		}

		choice := resp.Choices[0]
		if choice.FinishReason != llm.FinishToolCalls || len(choice.Message.ToolCalls) == 0 {
			finalText := choice.Message.Content
			sess.Append(
				llm.Message{Role: llm.RoleUser, Content: userText},
				llm.Message{Role: llm.RoleAssistant, Content: finalText},
			)
			return finalText, comparisonData, nil
		}

		results := make([]llm.Message, 0, len(choice.Message.ToolCalls))
		for _, call := range choice.Message.ToolCalls {
			callCtx, callSpan := fcotel.StartToolCallSpan(ctx, call.ID, call.Function.Name)
			result, err := s.tools.Dispatch(callCtx, call)
			callSpan.End()
			if err != nil {
				return "", nil, err
			}
			if s.metrics != nil {
				s.metrics.ToolCalls.Add(ctx, 1, metric.WithAttributes(
					attribute.String("tool", call.Function.Name),
				))
			}

			// Retain the turn's structured comparison data; the insight
			// field marks a successful comparison payload.
			var payload map[string]any
			if json.Unmarshal([]byte(result.Content), &payload) == nil {
				if _, ok := payload["insight"]; ok {
					comparisonData = payload
				}
			}

			results = append(results, result)
		}

		// The assistant's request message goes back verbatim, call ids and
		// serialized arguments untouched, then every matching result.
		msgs = append(msgs, choice.Message)
		msgs = append(msgs, results...)
	}

	return "", nil, domain.ErrLoopLimit
}

// complete performs one model round-trip under the global concurrency cap.
func (s *AgentService) complete(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	if err := s.llmSlots.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire llm slot: %w", err)
	}
	defer s.llmSlots.Release(1)

	if s.metrics != nil {
		s.metrics.ModelCalls.Add(ctx, 1)
	}
	return s.completer.ChatCompletion(ctx, req)
}

// extractUserText pulls the user's text out of a protocol message: a direct
// text part wins; otherwise a nested data part's "history" entries are
// scanned newest-first, skipping error entries and markup placeholders.
func extractUserText(msg a2a.Message) string {
	for _, p := range msg.Parts {
		if p.Kind == a2a.PartText {
			if text := strings.TrimSpace(p.Text); text != "" {
				return text
			}
		}
	}

	for _, p := range msg.Parts {
		if p.Kind != a2a.PartData || p.Data == nil {
			continue
		}
		entries, ok := p.Data["history"].([]any)
		if !ok {
			continue
		}
		for i := len(entries) - 1; i >= 0; i-- {
			entry, ok := entries[i].(map[string]any)
			if !ok {
				continue
			}
			if _, hasErr := entry["error"]; hasErr {
				continue
			}
			text, _ := entry["text"].(string)
			text = strings.TrimSpace(text)
			if text == "" || strings.HasPrefix(text, "<") {
				continue
			}
			return text
		}
	}

	return ""
}
