// Package storage persists rendered preview HTML so previews can be served
// by URL after the generating request finishes.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// PreviewStore stores rendered preview HTML keyed by preview id and variant
// name. Entries expire with the preview session.
type PreviewStore interface {
	Put(ctx context.Context, previewID, variant, html string) error
	Get(ctx context.Context, previewID, variant string) (string, error)
	Variants(ctx context.Context, previewID string) ([]string, error)
}

// ErrNotFound is returned when no preview exists for the id/variant pair.
var ErrNotFound = fmt.Errorf("preview not found")

// RedisPreviewStore keeps preview HTML in Redis with a per-entry TTL.
type RedisPreviewStore struct {
	Client *redis.Client
	TTL    time.Duration
}

// InitRedis connects to Redis and returns a preview store. The client is
// instrumented for tracing before the connection is verified.
func InitRedis(addr string, ttl time.Duration) (*RedisPreviewStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	// Add OpenTelemetry instrumentation to Redis client
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("failed to instrument redis tracing: %w", err)
	}

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	zap.L().Info("Connected to Redis", zap.String("addr", addr))

	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisPreviewStore{Client: client, TTL: ttl}, nil
}

func previewKey(previewID, variant string) string {
	return fmt.Sprintf("previews:%s:%s", previewID, variant)
}

// Put stores one rendered variant. The TTL restarts on overwrite so a
// re-rendered preview keeps its full lifetime.
func (s *RedisPreviewStore) Put(ctx context.Context, previewID, variant, html string) error {
	if err := s.Client.Set(ctx, previewKey(previewID, variant), html, s.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store preview %s/%s: %w", previewID, variant, err)
	}
	return nil
}

// Get fetches one rendered variant. Missing or expired entries return
// ErrNotFound.
func (s *RedisPreviewStore) Get(ctx context.Context, previewID, variant string) (string, error) {
	val, err := s.Client.Get(ctx, previewKey(previewID, variant)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load preview %s/%s: %w", previewID, variant, err)
	}
	return val, nil
}

// Variants lists the stored variant names for a preview session.
func (s *RedisPreviewStore) Variants(ctx context.Context, previewID string) ([]string, error) {
	prefix := fmt.Sprintf("previews:%s:", previewID)
	var variants []string

	iter := s.Client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		variants = append(variants, strings.TrimPrefix(iter.Val(), prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list preview variants for %s: %w", previewID, err)
	}
	return variants, nil
}

// Close shuts down the Redis client.
func (s *RedisPreviewStore) Close() {
	if s != nil && s.Client != nil {
		if err := s.Client.Close(); err != nil {
			zap.L().Error("redis close", zap.Error(err))
		}
	}
}
