package gateway_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/petasbytes/toolloop/internal/gateway"
	"github.com/petasbytes/toolloop/memory"
	"github.com/petasbytes/toolloop/tools"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newOpenAIServer serves one canned chat completion and records the request body.
func newOpenAIServer(t *testing.T, reply openai.ChatCompletionResponse, got *openai.ChatCompletionRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		if got != nil {
			assert.NoError(t, json.Unmarshal(body, got))
		}
		w.Header().Set("Content-Type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAI_SendsConversationAndTools(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := newOpenAIServer(t, openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "done"}}},
	}, &got)
	gw := gateway.NewOpenAI(srv.URL+"/v1", "test-key", 512)

	turns := []memory.Turn{
		memory.UserTurn("read a.txt"),
		memory.AssistantTurn("", memory.ToolRequest{ID: "c1", Name: "read_file", Arguments: map[string]any{"path": "a.txt"}}),
		memory.ToolResultTurn("c1", "read_file", "hi", false),
	}
	turn, err := gw.Complete(context.Background(), gateway.Request{Model: "llama3", Turns: turns, Tools: tools.Builtins()})
	require.NoError(t, err)
	assert.Equal(t, "done", turn.Content)
	assert.Empty(t, turn.ToolRequests)

	assert.Equal(t, "llama3", got.Model)
	assert.Equal(t, 512, got.MaxTokens)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, openai.ChatMessageRoleUser, got.Messages[0].Role)
	require.Len(t, got.Messages[1].ToolCalls, 1)
	assert.Equal(t, "c1", got.Messages[1].ToolCalls[0].ID)
	assert.JSONEq(t, `{"path":"a.txt"}`, got.Messages[1].ToolCalls[0].Function.Arguments)
	assert.Equal(t, openai.ChatMessageRoleTool, got.Messages[2].Role)
	assert.Equal(t, "c1", got.Messages[2].ToolCallID)
	assert.Equal(t, "hi", got.Messages[2].Content)

	require.Len(t, got.Tools, len(tools.Builtins()))
	for i, d := range tools.Builtins() {
		require.NotNil(t, got.Tools[i].Function)
		assert.Equal(t, d.Name, got.Tools[i].Function.Name)
	}
}

func TestOpenAI_MapsToolCalls(t *testing.T) {
	srv := newOpenAIServer(t, openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			FinishReason: openai.FinishReasonToolCalls,
			Message: openai.ChatCompletionMessage{
				Role: "assistant",
				ToolCalls: []openai.ToolCall{
					{ID: "c1", Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: "list_files", Arguments: `{"path":"."}`}},
					{Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: "read_file", Arguments: `{"path":"b.txt"}`}},
				},
			},
		}},
	}, nil)
	gw := gateway.NewOpenAI(srv.URL+"/v1", "test-key", 0)

	turn, err := gw.Complete(context.Background(), gateway.Request{Turns: []memory.Turn{memory.UserTurn("go")}})
	require.NoError(t, err)
	require.Len(t, turn.ToolRequests, 2)
	assert.Equal(t, "c1", turn.ToolRequests[0].ID)
	assert.Equal(t, ".", turn.ToolRequests[0].Arguments["path"])
	assert.True(t, strings.HasPrefix(turn.ToolRequests[1].ID, "call_"), "generated id: %s", turn.ToolRequests[1].ID)
	assert.Equal(t, "read_file", turn.ToolRequests[1].Name)
}

func TestOpenAI_RepeatedCallIDsAreReplaced(t *testing.T) {
	srv := newOpenAIServer(t, openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{
			Role: "assistant",
			ToolCalls: []openai.ToolCall{
				{ID: "c1", Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: "read_file", Arguments: `{"path":"a.txt"}`}},
				{ID: "c1", Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: "read_file", Arguments: `{"path":"b.txt"}`}},
			},
		}}},
	}, nil)
	gw := gateway.NewOpenAI(srv.URL+"/v1", "test-key", 0)

	turn, err := gw.Complete(context.Background(), gateway.Request{Turns: []memory.Turn{memory.UserTurn("go")}})
	require.NoError(t, err)
	require.Len(t, turn.ToolRequests, 2)
	assert.Equal(t, "c1", turn.ToolRequests[0].ID)
	assert.NotEqual(t, "c1", turn.ToolRequests[1].ID)
	assert.True(t, strings.HasPrefix(turn.ToolRequests[1].ID, "call_"), turn.ToolRequests[1].ID)
	assert.Equal(t, "b.txt", turn.ToolRequests[1].Arguments["path"])
}

func TestOpenAI_UndecodableArgumentsLeftEmpty(t *testing.T) {
	srv := newOpenAIServer(t, openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{
			Role:      "assistant",
			ToolCalls: []openai.ToolCall{{ID: "c1", Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: "read_file", Arguments: `{not json`}}},
		}}},
	}, nil)
	gw := gateway.NewOpenAI(srv.URL+"/v1", "test-key", 0)

	turn, err := gw.Complete(context.Background(), gateway.Request{Turns: []memory.Turn{memory.UserTurn("go")}})
	require.NoError(t, err)
	require.Len(t, turn.ToolRequests, 1)
	assert.Empty(t, turn.ToolRequests[0].Arguments)
}

func TestOpenAI_NoChoices(t *testing.T) {
	srv := newOpenAIServer(t, openai.ChatCompletionResponse{}, nil)
	gw := gateway.NewOpenAI(srv.URL+"/v1", "test-key", 0)
	_, err := gw.Complete(context.Background(), gateway.Request{Turns: []memory.Turn{memory.UserTurn("go")}})
	require.ErrorIs(t, err, gateway.ErrEmptyResponse)
}

func TestOpenAI_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"model not found"}}`, http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	gw := gateway.NewOpenAI(srv.URL+"/v1", "test-key", 0)
	_, err := gw.Complete(context.Background(), gateway.Request{Turns: []memory.Turn{memory.UserTurn("go")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai:")
}

func TestOpenAI_DefaultModel(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := newOpenAIServer(t, openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "ok"}}},
	}, &got)
	gw := gateway.NewOpenAI(srv.URL+"/v1", "test-key", 0)
	_, err := gw.Complete(context.Background(), gateway.Request{Turns: []memory.Turn{memory.UserTurn("go")}})
	require.NoError(t, err)
	assert.Equal(t, gateway.DefaultOpenAIModel, got.Model)
}
