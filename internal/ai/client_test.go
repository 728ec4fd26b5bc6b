package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteParsesAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req struct {
			Model  string `json:"model"`
			Stream bool   `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.False(t, req.Stream)

		fmt.Fprint(w, `{"choices":[{"message":{"content":"the answer"}}]}`)
	}))
	defer server.Close()

	client := NewClient()
	cfg := ChatConfig{BaseURL: server.URL, APIKey: "secret", Model: "test-model"}

	answer, err := client.Complete(context.Background(), cfg, []ChatMessage{{Role: "user", Content: "question"}})
	require.NoError(t, err)
	assert.Equal(t, "the answer", answer)
}

func TestCompleteErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient()
	cfg := ChatConfig{BaseURL: server.URL, Model: "test-model"}

	_, err := client.Complete(context.Background(), cfg, []ChatMessage{{Role: "user", Content: "q"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestStreamCompleteCollectsDeltas(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hello\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\" world\"}}]}\n\n")
		fmt.Fprint(w, ": keep-alive comment\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewClient()
	cfg := ChatConfig{BaseURL: server.URL, Model: "test-model"}

	var chunks []string
	full, err := client.StreamComplete(context.Background(), cfg, []ChatMessage{{Role: "user", Content: "q"}}, func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello world", full)
	assert.Equal(t, []string{"Hello", " world"}, chunks)
}

func TestStreamCompleteCallbackErrorStopsStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"first\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"second\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewClient()
	cfg := ChatConfig{BaseURL: server.URL, Model: "test-model"}

	_, err := client.StreamComplete(context.Background(), cfg, []ChatMessage{{Role: "user", Content: "q"}}, func(string) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)

		var req struct {
			Model      string `json:"model"`
			Input      string `json:"input"`
			Dimensions int    `json:"dimensions"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "embed-model", req.Model)
		assert.Equal(t, "some text", req.Input)
		assert.Equal(t, 4, req.Dimensions)

		fmt.Fprint(w, `{"data":[{"embedding":[0.1,0.2,0.3,0.4]}]}`)
	}))
	defer server.Close()

	client := NewClient()
	cfg := EmbeddingConfig{BaseURL: server.URL, Model: "embed-model", Dimensions: 4}

	vector, err := client.Embed(context.Background(), cfg, "  some text  ")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3, 0.4}, vector)
}

func TestEmbedRejectsEmptyInput(t *testing.T) {
	client := NewClient()
	_, err := client.Embed(context.Background(), EmbeddingConfig{BaseURL: "http://unused"}, "   ")
	assert.Error(t, err)
}

func TestExtractImageTextWrapsDataURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content []struct {
					Type     string `json:"type"`
					ImageURL struct {
						URL string `json:"url"`
					} `json:"image_url"`
				} `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		require.Len(t, req.Messages[0].Content, 2)
		assert.Equal(t, "data:image/png;base64,AAAA", req.Messages[0].Content[1].ImageURL.URL)

		fmt.Fprint(w, `{"choices":[{"message":{"content":"page text"}}]}`)
	}))
	defer server.Close()

	client := NewClient()
	cfg := VisionConfig{BaseURL: server.URL, Model: "vision-model"}

	text, err := client.ExtractImageText(context.Background(), cfg, "read this", "AAAA")
	require.NoError(t, err)
	assert.Equal(t, "page text", text)
}
