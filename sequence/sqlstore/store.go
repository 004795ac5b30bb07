/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// DefaultTable holds one row per sequence.
const DefaultTable = "entitymeta_sequences"

// Store keeps sequences in a PostgreSQL table of (name, value) rows. Next is a
// single upsert statement, so concurrent callers never draw the same value.
type Store struct {
	db     *sql.DB
	table  string
	logger *zap.Logger

	nextQuery   string
	resetQuery  string
	createQuery string
}

type Option func(*Store)

func WithTable(table string) Option {
	return func(s *Store) { s.table = table }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func NewStore(db *sql.DB, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle is required")
	}
	s := &Store{db: db, table: DefaultTable, logger: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	if s.table == "" {
		return nil, fmt.Errorf("sequence table name is required")
	}

	t := pq.QuoteIdentifier(s.table)
	s.nextQuery = fmt.Sprintf(
		`INSERT INTO %s (name, value) VALUES ($1, 1) ON CONFLICT (name) DO UPDATE SET value = %s.value + 1 RETURNING value`, t, t)
	s.resetQuery = fmt.Sprintf(
		`INSERT INTO %s (name, value) VALUES ($1, $2) ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value`, t)
	s.createQuery = fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (name TEXT PRIMARY KEY, value BIGINT NOT NULL)`, t)
	return s, nil
}

// EnsureTable creates the sequence table when it does not exist.
func (s *Store) EnsureTable(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.createQuery); err != nil {
		return fmt.Errorf("failed to create sequence table %s: %w", s.table, err)
	}
	return nil
}

func (s *Store) Next(ctx context.Context, name string) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, s.nextQuery, name).Scan(&n); err != nil {
		s.logger.Error("sequence increment failed",
			zap.String("table", s.table), zap.String("sequence", name), zap.Error(err))
		return 0, fmt.Errorf("failed to draw sequence %s: %w", name, err)
	}
	return n, nil
}

// Reset sets the last drawn value of name, so the next value is last+1.
func (s *Store) Reset(ctx context.Context, name string, last int64) error {
	if _, err := s.db.ExecContext(ctx, s.resetQuery, name, last); err != nil {
		return fmt.Errorf("failed to reset sequence %s: %w", name, err)
	}
	s.logger.Info("sequence reset", zap.String("sequence", name), zap.Int64("last", last))
	return nil
}
