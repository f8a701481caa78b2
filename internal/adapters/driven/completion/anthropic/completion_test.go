package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall-labs/studyhall-cli/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) (*CompletionService, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewCompletionService(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "claude-test",
	})
	require.NoError(t, err)
	return svc, server
}

func TestNewCompletionService_RequiresAPIKey(t *testing.T) {
	_, err := NewCompletionService(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestNewCompletionService_Defaults(t *testing.T) {
	svc, err := NewCompletionService(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, svc.ModelName())
}

func TestComplete_TextResponse(t *testing.T) {
	var gotBody map[string]any
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"content":     []map[string]any{{"type": "text", "text": "The answer."}},
			"stop_reason": "end_turn",
		})
	})

	resp, err := svc.Complete(context.Background(), driven.CompletionRequest{
		System:      "Be brief.",
		Messages:    []driven.Message{driven.TextMessage("user", "Question?")},
		MaxTokens:   800,
		Temperature: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, "The answer.", resp.Text())
	assert.Equal(t, driven.StopEndTurn, resp.StopReason)
	assert.Empty(t, resp.ToolCalls())

	assert.Equal(t, "claude-test", gotBody["model"])
	assert.Equal(t, "Be brief.", gotBody["system"])
	assert.Equal(t, float64(800), gotBody["max_tokens"])
	// Explicit zero temperature must be present in the payload.
	temp, ok := gotBody["temperature"]
	require.True(t, ok)
	assert.Equal(t, float64(0), temp)
	_, hasTools := gotBody["tools"]
	assert.False(t, hasTools)
}

func TestComplete_SendsToolDefinitions(t *testing.T) {
	var gotBody struct {
		Tools []apiTool `json:"tools"`
	}
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{
					"type":  "tool_use",
					"id":    "toolu_123",
					"name":  "search_course_content",
					"input": map[string]any{"query": "embeddings"},
				},
			},
			"stop_reason": "tool_use",
		})
	})

	resp, err := svc.Complete(context.Background(), driven.CompletionRequest{
		Messages: []driven.Message{driven.TextMessage("user", "Q")},
		Tools: []driven.ToolDefinition{
			{
				Name:        "search_course_content",
				Description: "Search course materials",
				InputSchema: map[string]any{"type": "object"},
			},
		},
	})
	require.NoError(t, err)

	require.Len(t, gotBody.Tools, 1)
	assert.Equal(t, "search_course_content", gotBody.Tools[0].Name)
	assert.Equal(t, map[string]any{"type": "object"}, gotBody.Tools[0].InputSchema)

	calls := resp.ToolCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "toolu_123", calls[0].ID)
	assert.Equal(t, "search_course_content", calls[0].Name)
	assert.Equal(t, map[string]any{"query": "embeddings"}, calls[0].Input)
	assert.Equal(t, driven.StopToolUse, resp.StopReason)
}

func TestComplete_RoundTripsToolResultBlocks(t *testing.T) {
	var gotBody struct {
		Messages []messagesMessage `json:"messages"`
	}
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content":     []map[string]any{{"type": "text", "text": "Final."}},
			"stop_reason": "end_turn",
		})
	})

	_, err := svc.Complete(context.Background(), driven.CompletionRequest{
		Messages: []driven.Message{
			driven.TextMessage("user", "Q"),
			{
				Role: "assistant",
				Content: []driven.ContentBlock{
					{Type: driven.BlockToolUse, ID: "toolu_1", Name: "search_course_content", Input: map[string]any{"query": "x"}},
				},
			},
			{
				Role: "user",
				Content: []driven.ContentBlock{
					{Type: driven.BlockToolResult, ToolUseID: "toolu_1", Content: "result text"},
				},
			},
		},
	})
	require.NoError(t, err)

	require.Len(t, gotBody.Messages, 3)
	assert.Equal(t, "tool_use", gotBody.Messages[1].Content[0].Type)
	assert.Equal(t, "toolu_1", gotBody.Messages[1].Content[0].ID)
	result := gotBody.Messages[2].Content[0]
	assert.Equal(t, "tool_result", result.Type)
	assert.Equal(t, "toolu_1", result.ToolUseID)
	assert.Equal(t, "result text", result.Content)
}

func TestComplete_APIError(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "authentication_error", "message": "invalid x-api-key"},
		})
	})

	_, err := svc.Complete(context.Background(), driven.CompletionRequest{
		Messages: []driven.Message{driven.TextMessage("user", "Q")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid x-api-key")
}

func TestComplete_EmptyContent(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"content": []any{}, "stop_reason": "end_turn"})
	})

	_, err := svc.Complete(context.Background(), driven.CompletionRequest{
		Messages: []driven.Message{driven.TextMessage("user", "Q")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response content")
}

func TestPing(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.WriteHeader(http.StatusOK)
	})
	assert.NoError(t, svc.Ping(context.Background()))
}

func TestPing_Unauthorized(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	err := svc.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
