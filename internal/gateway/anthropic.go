package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/petasbytes/toolloop/memory"
	"github.com/petasbytes/toolloop/tools"
)

const DefaultAnthropicModel = anthropic.ModelClaude3_7SonnetLatest

// Anthropic completes conversations through the Messages API.
type Anthropic struct {
	client    *anthropic.Client
	maxTokens int64
	log       *slog.Logger
}

// NewAnthropic returns a backend using the API key from the env unless opts override it.
func NewAnthropic(maxTokens int64, opts ...option.RequestOption) *Anthropic {
	c := anthropic.NewClient(opts...)
	return NewAnthropicWithClient(&c, maxTokens)
}

func NewAnthropicWithClient(c *anthropic.Client, maxTokens int64) *Anthropic {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Anthropic{client: c, maxTokens: maxTokens, log: slog.Default()}
}

// WithLogger sets the logger used for request diagnostics.
func (a *Anthropic) WithLogger(l *slog.Logger) *Anthropic {
	if l != nil {
		a.log = l
	}
	return a
}

func (a *Anthropic) Complete(ctx context.Context, req Request) (memory.Turn, error) {
	if req.Stream {
		return memory.Turn{}, ErrStreamingUnsupported
	}
	model := anthropic.Model(req.Model)
	if req.Model == "" {
		model = DefaultAnthropicModel
	}
	params := anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: a.maxTokens,
		Messages:  anthropicMessages(req.Turns),
		Tools:     anthropicTools(req.Tools),
	}

	start := time.Now()
	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return memory.Turn{}, fmt.Errorf("anthropic: %w", err)
	}
	a.log.Debug("completion received",
		"backend", "anthropic",
		"model", string(model),
		"turns", len(req.Turns),
		"blocks", len(msg.Content),
		"stop_reason", string(msg.StopReason),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return anthropicTurn(msg)
}

// anthropicMessages maps turns to message params. Consecutive tool results fold
// into a single user message of tool_result blocks.
func anthropicMessages(turns []memory.Turn) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(turns))
	var results []anthropic.ContentBlockParamUnion
	flush := func() {
		if len(results) > 0 {
			out = append(out, anthropic.NewUserMessage(results...))
			results = nil
		}
	}
	for _, t := range turns {
		switch t.Role {
		case memory.RoleTool:
			results = append(results, anthropic.NewToolResultBlock(t.ToolCallID, t.Content, t.IsError))
		case memory.RoleUser:
			flush()
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(t.Content)))
		case memory.RoleAssistant:
			flush()
			blocks := make([]anthropic.ContentBlockParamUnion, 0, 1+len(t.ToolRequests))
			if t.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(t.Content))
			}
			for _, r := range t.ToolRequests {
				input := r.Arguments
				if input == nil {
					input = map[string]any{}
				}
				blocks = append(blocks, anthropic.ContentBlockParamUnion{OfToolUse: &anthropic.ToolUseBlockParam{
					ID:    r.ID,
					Name:  r.Name,
					Input: input,
				}})
			}
			// the API rejects empty content
			if len(blocks) == 0 {
				continue
			}
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		}
	}
	flush()
	return out
}

func anthropicTools(defs []tools.ToolDefinition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, t := range defs {
		schema := anthropic.ToolInputSchemaParam{}
		if t.InputSchema != nil {
			schema.Properties = t.InputSchema.Properties
			schema.Required = t.InputSchema.Required
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: schema,
		}})
	}
	return out
}

func anthropicTurn(msg *anthropic.Message) (memory.Turn, error) {
	if msg == nil {
		return memory.Turn{}, ErrEmptyResponse
	}
	var (
		text []string
		reqs []memory.ToolRequest
	)
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			if v.Text != "" {
				text = append(text, v.Text)
			}
		case anthropic.ToolUseBlock:
			args := map[string]any{}
			if raw := v.JSON.Input.Raw(); raw != "" {
				if err := json.Unmarshal([]byte(raw), &args); err != nil {
					return memory.Turn{}, fmt.Errorf("anthropic: decode input of %s: %w", v.Name, err)
				}
			}
			reqs = append(reqs, memory.ToolRequest{ID: v.ID, Name: v.Name, Arguments: args})
		}
	}
	return memory.AssistantTurn(strings.Join(text, "\n"), reqs...), nil
}
