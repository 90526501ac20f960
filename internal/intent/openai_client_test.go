package intent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAICompatibleClientAgainstServer(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "mistral",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": " {\"intent\": \"bed_status\"} "}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 40, "completion_tokens": 8, "total_tokens": 48}
		}`))
	}))
	defer srv.Close()

	client := NewOpenAICompatibleClient("", srv.URL+"/v1/")
	resp, err := client.Complete(context.Background(), LLMRequest{
		Model:    "mistral",
		System:   []string{SystemPrompt},
		Messages: []ChatMessage{{Role: ChatRoleUser, Content: "how many beds are available"}},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"intent": "bed_status"}`, resp.Text)
	assert.Equal(t, "stop", resp.StopReason)
	assert.Equal(t, int32(48), resp.Usage.TotalTokens)

	assert.Equal(t, "mistral", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "how many beds are available", got.Messages[1].Content)
}

func TestOpenAIClientRejectsEmptyModelAndRole(t *testing.T) {
	client := NewOpenAICompatibleClient("", "http://127.0.0.1:1")
	_, err := client.Complete(context.Background(), LLMRequest{})
	assert.Error(t, err)

	_, err = client.Complete(context.Background(), LLMRequest{
		Model:    "mistral",
		Messages: []ChatMessage{{Role: "tool", Content: "x"}},
	})
	assert.ErrorContains(t, err, "unsupported role")
}
