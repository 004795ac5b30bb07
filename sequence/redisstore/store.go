/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package redisstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultPrefix is prepended to sequence names to form Redis keys.
const DefaultPrefix = "entitymeta:seq:"

// Store keeps one integer key per sequence and draws values with INCR, which
// Redis executes atomically.
type Store struct {
	client redis.Cmdable
	prefix string
	logger *zap.Logger
}

type Option func(*Store)

func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func NewStore(client redis.Cmdable, opts ...Option) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	s := &Store{client: client, prefix: DefaultPrefix, logger: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

func (s *Store) Next(ctx context.Context, name string) (int64, error) {
	n, err := s.client.Incr(ctx, s.prefix+name).Result()
	if err != nil {
		s.logger.Error("sequence increment failed", zap.String("sequence", name), zap.Error(err))
		return 0, fmt.Errorf("INCR failed for sequence %s: %w", name, err)
	}
	return n, nil
}

// Reset sets the last drawn value of name, so the next value is last+1.
func (s *Store) Reset(ctx context.Context, name string, last int64) error {
	if err := s.client.Set(ctx, s.prefix+name, last, 0).Err(); err != nil {
		return fmt.Errorf("failed to reset sequence %s: %w", name, err)
	}
	s.logger.Info("sequence reset", zap.String("sequence", name), zap.Int64("last", last))
	return nil
}
