package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/petasbytes/toolloop/internal/config"
	"github.com/petasbytes/toolloop/internal/runner"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, slog.LevelInfo)
	log.Debug("hidden")
	log.Info("shown", "k", "v")

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m), buf.String())
	assert.Equal(t, "shown", m["msg"])
	assert.Equal(t, "v", m["k"])
}

func openAIServer(t *testing.T, replies ...string) *httptest.Server {
	t.Helper()
	n := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if n >= len(replies) {
			http.Error(w, `{"error":{"message":"unexpected call"}}`, http.StatusInternalServerError)
			return
		}
		resp := openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Role: "assistant", Content: replies[n]},
		}}}
		n++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRun_OpenAISession(t *testing.T) {
	srv := openAIServer(t, "Hello!")
	cfg := config.Config{Provider: config.ProviderOpenAI, OpenAIBaseURL: srv.URL + "/v1", OpenAIKey: "k", MaxTokens: 64}
	var out bytes.Buffer

	err := run(context.Background(), cfg, strings.NewReader("hi\n\n"), &out, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "You: Agent: Hello!\nYou: ")
}

func TestRun_CancelledIsCleanExit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := config.Config{Provider: config.ProviderOpenAI, OpenAIBaseURL: "http://127.0.0.1:1/v1", MaxTokens: 64}
	var out bytes.Buffer

	require.NoError(t, run(ctx, cfg, strings.NewReader(""), &out, slog.New(slog.DiscardHandler)))
	assert.Contains(t, out.String(), "Exiting...")
}

func TestRun_GatewayFailureIsReturned(t *testing.T) {
	srv := openAIServer(t) // every call fails
	cfg := config.Config{Provider: config.ProviderOpenAI, OpenAIBaseURL: srv.URL + "/v1", OpenAIKey: "k", MaxTokens: 64}

	err := run(context.Background(), cfg, strings.NewReader("hi\n"), &bytes.Buffer{}, slog.New(slog.DiscardHandler))
	assert.ErrorIs(t, err, runner.ErrGateway)
}

func TestRootCmd_RejectsUnknownProvider(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "k")
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--provider", "gemini"})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}
