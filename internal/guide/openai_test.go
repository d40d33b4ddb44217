package guide

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOpenAI(t *testing.T, url string) *OpenAICompleter {
	t.Helper()
	c, err := NewOpenAICompleter("test-key", "gpt-test", url)
	require.NoError(t, err)
	return c
}

func TestOpenAICompleter_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "프롬프트", req.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-test",` +
			`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"# 가이드"}}]}`))
	}))
	defer srv.Close()

	got, err := testOpenAI(t, srv.URL).Complete(context.Background(), "프롬프트")
	require.NoError(t, err)
	assert.Equal(t, "# 가이드", got)
}

func TestOpenAICompleter_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-test","choices":[]}`))
	}))
	defer srv.Close()

	_, err := testOpenAI(t, srv.URL).Complete(context.Background(), "p")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAICompleter_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"bad model","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	_, err := testOpenAI(t, srv.URL).Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai chat completion")
}

func TestNewOpenAICompleter_Validation(t *testing.T) {
	_, err := NewOpenAICompleter("", "m", "")
	assert.Error(t, err)
	_, err = NewOpenAICompleter("k", "", "")
	assert.Error(t, err)
}
