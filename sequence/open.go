/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sequence

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/suparena/entitymeta/config"
	"github.com/suparena/entitymeta/generator"
	"github.com/suparena/entitymeta/internal/awsclient"
	"github.com/suparena/entitymeta/sequence/ddb"
	"github.com/suparena/entitymeta/sequence/redisstore"
	"github.com/suparena/entitymeta/sequence/sqlstore"
)

// Store is a sequence store holding a connection that must be released.
type Store interface {
	generator.SequenceStore
	Close() error
}

type closer struct {
	generator.SequenceStore
	close func() error
}

func (c closer) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}

// Open connects to the sequence backend selected by cfg.
func Open(ctx context.Context, cfg config.SequenceConfig, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("backend", cfg.Backend))

	switch cfg.Backend {
	case config.BackendMemory, "":
		return closer{SequenceStore: generator.NewMemoryStore()}, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		opts := []redisstore.Option{redisstore.WithLogger(logger)}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redisstore.WithPrefix(cfg.Redis.Prefix))
		}
		s, err := redisstore.NewStore(client, opts...)
		if err != nil {
			client.Close()
			return nil, err
		}
		return closer{SequenceStore: s, close: client.Close}, nil

	case config.BackendDynamoDB:
		client, err := awsclient.NewDynamoDB(ctx, cfg.DynamoDB.AccessKey, cfg.DynamoDB.SecretKey, cfg.DynamoDB.Region)
		if err != nil {
			return nil, err
		}
		logger.Info("DynamoDB client initialized",
			zap.String("table", cfg.DynamoDB.Table), zap.String("region", cfg.DynamoDB.Region))
		return closer{SequenceStore: ddb.NewStore(client, cfg.DynamoDB.Table, ddb.WithLogger(logger))}, nil

	case config.BackendSQL:
		db, err := sql.Open(cfg.SQL.Driver, cfg.SQL.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s database: %w", cfg.SQL.Driver, err)
		}
		s, err := sqlstore.NewStore(db, sqlstore.WithTable(cfg.SQL.Table), sqlstore.WithLogger(logger))
		if err != nil {
			db.Close()
			return nil, err
		}
		if err := s.EnsureTable(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return closer{SequenceStore: s, close: db.Close}, nil
	}
	return nil, fmt.Errorf("unknown sequence backend %q", cfg.Backend)
}
