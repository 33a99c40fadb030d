package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/petasbytes/toolloop/memory"
	"github.com/petasbytes/toolloop/tools"
	"github.com/sashabaranov/go-openai"
)

const (
	DefaultOpenAIBaseURL = "http://localhost:11434/v1"
	DefaultOpenAIModel   = "gpt-oss:20b"
)

// OpenAI completes conversations against an OpenAI-compatible chat endpoint.
type OpenAI struct {
	client    *openai.Client
	maxTokens int
	log       *slog.Logger
}

// NewOpenAI targets baseURL, or the local Ollama endpoint when empty.
func NewOpenAI(baseURL, apiKey string, maxTokens int) *OpenAI {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &OpenAI{client: openai.NewClientWithConfig(cfg), maxTokens: maxTokens, log: slog.Default()}
}

// WithLogger sets the logger used for request diagnostics.
func (o *OpenAI) WithLogger(l *slog.Logger) *OpenAI {
	if l != nil {
		o.log = l
	}
	return o
}

func (o *OpenAI) Complete(ctx context.Context, req Request) (memory.Turn, error) {
	if req.Stream {
		return memory.Turn{}, ErrStreamingUnsupported
	}
	model := req.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	msgs, err := openaiMessages(req.Turns)
	if err != nil {
		return memory.Turn{}, err
	}
	creq := openai.ChatCompletionRequest{
		Model:     model,
		Messages:  msgs,
		Tools:     openaiTools(req.Tools),
		MaxTokens: o.maxTokens,
	}

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, creq)
	if err != nil {
		return memory.Turn{}, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return memory.Turn{}, ErrEmptyResponse
	}
	choice := resp.Choices[0]
	o.log.Debug("completion received",
		"backend", "openai",
		"model", model,
		"turns", len(req.Turns),
		"tool_calls", len(choice.Message.ToolCalls),
		"finish_reason", string(choice.FinishReason),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return o.turn(choice.Message), nil
}

func openaiMessages(turns []memory.Turn) ([]openai.ChatCompletionMessage, error) {
	out := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case memory.RoleUser:
			out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: t.Content})
		case memory.RoleAssistant:
			m := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: t.Content}
			for _, r := range t.ToolRequests {
				args, err := json.Marshal(r.Arguments)
				if err != nil {
					return nil, fmt.Errorf("openai: encode arguments of %s: %w", r.Name, err)
				}
				m.ToolCalls = append(m.ToolCalls, openai.ToolCall{
					ID:   r.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      r.Name,
						Arguments: string(args),
					},
				})
			}
			out = append(out, m)
		case memory.RoleTool:
			out = append(out, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    t.Content,
				Name:       t.ToolName,
				ToolCallID: t.ToolCallID,
			})
		}
	}
	return out, nil
}

func openaiTools(defs []tools.ToolDefinition) []openai.Tool {
	out := make([]openai.Tool, 0, len(defs))
	for _, t := range defs {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.InputSchema,
			},
		})
	}
	return out
}

// turn maps a reply to an assistant turn. Calls without an id, or repeating an
// earlier id of the same reply, get call_<uuid>;
// arguments that fail to decode are left empty and rejected at dispatch.
func (o *OpenAI) turn(m openai.ChatCompletionMessage) memory.Turn {
	reqs := make([]memory.ToolRequest, 0, len(m.ToolCalls))
	seen := make(map[string]struct{}, len(m.ToolCalls))
	for _, tc := range m.ToolCalls {
		id := tc.ID
		if _, dup := seen[id]; dup || id == "" {
			id = "call_" + uuid.NewString()
		}
		seen[id] = struct{}{}
		args := map[string]any{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				o.log.Warn("undecodable tool arguments", "tool", tc.Function.Name, "error", err)
				args = map[string]any{}
			}
		}
		reqs = append(reqs, memory.ToolRequest{ID: id, Name: tc.Function.Name, Arguments: args})
	}
	return memory.AssistantTurn(m.Content, reqs...)
}
