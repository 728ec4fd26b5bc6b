package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knowledgebot/internal/ai"
)

// newVisionStub serves /chat/completions and echoes the image payload
// back as the extracted text, so each page's output is identifiable.
func newVisionStub(t *testing.T, failOn string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

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

		payload := strings.TrimPrefix(req.Messages[0].Content[1].ImageURL.URL, "data:image/png;base64,")
		if failOn != "" && payload == failOn {
			http.Error(w, "vision model refused", http.StatusBadGateway)
			return
		}

		body, _ := json.Marshal(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "text of " + payload}},
			},
		})
		w.Write(body)
	}))
	return server, &calls
}

func pageFixture(num int) PageImage {
	return PageImage{
		PageNum:          num,
		ImageBase64:      fmt.Sprintf("img%d", num),
		OriginalFilename: "scan.pdf",
	}
}

func TestFromPagesJoinsInPageOrder(t *testing.T) {
	server, _ := newVisionStub(t, "")
	defer server.Close()

	e := NewExtractor(ai.NewClient(), ai.VisionConfig{BaseURL: server.URL, Model: "vision"}, 20)

	// Supplied out of order; output must follow page numbers.
	pages := []PageImage{pageFixture(3), pageFixture(1), pageFixture(2)}
	text, err := e.FromPages(context.Background(), pages, nil)
	require.NoError(t, err)

	expected := "Page: 1\n\ntext of img1" +
		"\n\n---\n\n" + "Page: 2\n\ntext of img2" +
		"\n\n---\n\n" + "Page: 3\n\ntext of img3"
	assert.Equal(t, expected, text)
}

func TestFromPagesBatchesSequentially(t *testing.T) {
	server, calls := newVisionStub(t, "")
	defer server.Close()

	e := NewExtractor(ai.NewClient(), ai.VisionConfig{BaseURL: server.URL, Model: "vision"}, 2)

	var messages []string
	pages := []PageImage{pageFixture(1), pageFixture(2), pageFixture(3), pageFixture(4), pageFixture(5)}
	_, err := e.FromPages(context.Background(), pages, func(m string) {
		messages = append(messages, m)
	})
	require.NoError(t, err)

	assert.Equal(t, int32(5), calls.Load())
	assert.Contains(t, messages, "Extracting text from pages 1-2 of 5...")
	assert.Contains(t, messages, "Extracting text from pages 3-4 of 5...")
	assert.Contains(t, messages, "Extracting text from pages 5-5 of 5...")
}

func TestFromPagesAnyFailureIsFatal(t *testing.T) {
	server, _ := newVisionStub(t, "img2")
	defer server.Close()

	e := NewExtractor(ai.NewClient(), ai.VisionConfig{BaseURL: server.URL, Model: "vision"}, 20)

	pages := []PageImage{pageFixture(1), pageFixture(2), pageFixture(3)}
	_, err := e.FromPages(context.Background(), pages, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract page 2 failed")
}

func TestFromPagesEmptyInput(t *testing.T) {
	e := newTestExtractor()
	_, err := e.FromPages(context.Background(), nil, nil)
	assert.Error(t, err)
}
