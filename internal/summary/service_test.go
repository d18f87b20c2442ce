package summary

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/astramesh/chalice/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems(n int) []models.ContentItem {
	items := make([]models.ContentItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, models.ContentItem{
			Title:     fmt.Sprintf("Item %d", i),
			Content:   fmt.Sprintf("Content %d", i),
			Source:    "web",
			Timestamp: time.Now(),
		})
	}
	return items
}

func TestService_Enabled(t *testing.T) {
	assert.True(t, NewService("key", "claude-3-5-haiku-latest").Enabled())
	assert.False(t, NewService("", "claude-3-5-haiku-latest").Enabled())
}

func TestService_SummarizeDisabled(t *testing.T) {
	service := NewService("", "claude-3-5-haiku-latest")

	text, err := service.Summarize(context.Background(), testItems(3), "rust")
	assert.NoError(t, err)
	assert.Empty(t, text)
}

func TestService_SummarizeEmptyItems(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	service := NewService("key", "claude-3-5-haiku-latest", option.WithBaseURL(server.URL))

	text, err := service.Summarize(context.Background(), nil, "rust")
	assert.NoError(t, err)
	assert.Empty(t, text)
	assert.False(t, called, "no model call for empty items")
}

func TestService_Summarize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-haiku-latest",
			"content": [{"type": "text", "text": "A concise synopsis."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 42, "output_tokens": 7}
		}`))
	}))
	defer server.Close()

	service := NewService("key", "claude-3-5-haiku-latest", option.WithBaseURL(server.URL))

	text, err := service.Summarize(context.Background(), testItems(2), "rust")
	require.NoError(t, err)
	assert.Equal(t, "A concise synopsis.", text)
}

func TestService_SummarizeAPIFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"overloaded"}}`))
	}))
	defer server.Close()

	service := NewService("key", "claude-3-5-haiku-latest",
		option.WithBaseURL(server.URL), option.WithMaxRetries(0))

	_, err := service.Summarize(context.Background(), testItems(1), "rust")
	assert.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(testItems(2), "rust programming")

	assert.Contains(t, prompt, `"rust programming"`)
	assert.Contains(t, prompt, "Source: web")
	assert.Contains(t, prompt, "Title: Item 0")
	assert.Contains(t, prompt, "Content: Content 1")
}

func TestBuildPrompt_CapsItems(t *testing.T) {
	prompt := buildPrompt(testItems(25), "rust")

	assert.Equal(t, maxPromptItems, strings.Count(prompt, "Source: web"))
	assert.NotContains(t, prompt, "Title: Item 10")
}
