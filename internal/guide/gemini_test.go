package guide

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func testGemini(t *testing.T, url string) *GeminiCompleter {
	t.Helper()
	c, err := newGeminiCompleter(context.Background(), "test-key", "gemini-test", genai.HTTPOptions{BaseURL: url})
	require.NoError(t, err)
	return c
}

func TestGeminiCompleter_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-test:generateContent"), r.URL.Path)

		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 1)
		assert.Equal(t, "프롬프트", req.Contents[0].Parts[0].Text)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"# 가이드 본문"}]}}]}`))
	}))
	defer srv.Close()

	got, err := testGemini(t, srv.URL).Complete(context.Background(), "프롬프트")
	require.NoError(t, err)
	assert.Equal(t, "# 가이드 본문", got)
}

func TestGeminiCompleter_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	_, err := testGemini(t, srv.URL).Complete(context.Background(), "p")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGeminiCompleter_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"bad request","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	_, err := testGemini(t, srv.URL).Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini generate")
}

func TestNewGeminiCompleter_RequiresKey(t *testing.T) {
	_, err := NewGeminiCompleter(context.Background(), "", "")
	assert.Error(t, err)
}
