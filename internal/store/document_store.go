// Package store persists documents as JSON values in Redis under
// derived keys. It implements the key-value capability the pipeline
// services consume; durability and consistency belong to Redis itself.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	redisv9 "github.com/redis/go-redis/v9"

	"knowledgebot/internal/model"
)

type DocumentStore struct {
	client *redisv9.Client
}

func NewDocumentStore(client *redisv9.Client) *DocumentStore {
	return &DocumentStore{client: client}
}

// Get returns the document stored under key, or (nil, nil) when the key
// does not exist.
func (s *DocumentStore) Get(ctx context.Context, key string) (*model.StoredDocument, error) {
	raw, err := s.client.Get(ctx, key).Result()
	if err == redisv9.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get document failed: %w", err)
	}

	var doc model.StoredDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("unmarshal stored document failed: %w", err)
	}
	if doc.Key == "" {
		doc.Key = key
	}
	return &doc, nil
}

// Set writes the document under key. Plain SET semantics: concurrent
// writers to the same key race and the last writer wins.
func (s *DocumentStore) Set(ctx context.Context, key string, doc *model.StoredDocument) error {
	doc.Key = key
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal stored document failed: %w", err)
	}
	if err := s.client.Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set document failed: %w", err)
	}
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete document failed: %w", err)
	}
	return nil
}

// ListKeys returns every key under the given prefix via SCAN.
func (s *DocumentStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan keys failed: %w", err)
	}
	return keys, nil
}

// List fetches every document in the docs namespace. Entries that fail
// to load or parse are skipped, not fatal.
func (s *DocumentStore) List(ctx context.Context) ([]model.StoredDocument, error) {
	keys, err := s.ListKeys(ctx, KeyPrefix)
	if err != nil {
		return nil, err
	}

	docs := make([]model.StoredDocument, 0, len(keys))
	for _, key := range keys {
		doc, err := s.Get(ctx, key)
		if err != nil {
			log.Printf("skip unreadable document %s: %v", key, err)
			continue
		}
		if doc == nil {
			continue
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}
