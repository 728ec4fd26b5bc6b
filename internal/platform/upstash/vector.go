// Package upstash is a minimal REST client for the Upstash Vector API:
// upsert, nearest-neighbour query, delete by id or id prefix, and index
// info. Similarity metric and ranking are index-side concerns; the
// client only relays scores.
package upstash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"knowledgebot/internal/model"
)

type Index struct {
	url        string
	token      string
	httpClient *http.Client
}

func NewIndex(url, token string) *Index {
	return &Index{
		url:        strings.TrimRight(url, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Upsert writes one chunk vector, overwriting any record with the same id.
func (i *Index) Upsert(ctx context.Context, rec model.VectorRecord) error {
	var out struct {
		Result string `json:"result"`
	}
	if err := i.postJSON(ctx, "/upsert", rec, &out); err != nil {
		return fmt.Errorf("vector upsert failed: %w", err)
	}
	return nil
}

// Query returns the topK nearest vectors with their metadata.
func (i *Index) Query(ctx context.Context, vector []float32, topK int) ([]model.VectorMatch, error) {
	req := map[string]any{
		"vector":          vector,
		"topK":            topK,
		"includeMetadata": true,
	}
	var out struct {
		Result []model.VectorMatch `json:"result"`
	}
	if err := i.postJSON(ctx, "/query", req, &out); err != nil {
		return nil, fmt.Errorf("vector query failed: %w", err)
	}
	return out.Result, nil
}

// DeleteByPrefix removes every record whose id starts with prefix.
func (i *Index) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	req := map[string]any{"prefix": prefix}
	var out struct {
		Result struct {
			Deleted int `json:"deleted"`
		} `json:"result"`
	}
	if err := i.postJSON(ctx, "/delete", req, &out); err != nil {
		return 0, fmt.Errorf("vector delete by prefix failed: %w", err)
	}
	return out.Result.Deleted, nil
}

// Info reports the record count; used by the health check.
func (i *Index) Info(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.url+"/info", nil)
	if err != nil {
		return 0, fmt.Errorf("build vector info request failed: %w", err)
	}
	i.setHeaders(req)

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("vector info request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read vector info response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return 0, fmt.Errorf("vector info status %d: %s", resp.StatusCode, string(raw))
	}

	var out struct {
		Result struct {
			VectorCount int `json:"vectorCount"`
		} `json:"result"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return 0, fmt.Errorf("parse vector info json failed: %w", err)
	}
	return out.Result.VectorCount, nil
}

func (i *Index) postJSON(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.url+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request failed: %w", err)
	}
	i.setHeaders(req)

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("parse response json failed: %w", err)
		}
	}
	return nil
}

func (i *Index) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if i.token != "" {
		req.Header.Set("Authorization", "Bearer "+i.token)
	}
}
