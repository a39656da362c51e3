// Package store implements Postgres persistence for memories, profiles and
// medical documents over pgx.
package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvector "github.com/pgvector/pgvector-go/pgx"
)

var ErrNotFound = errors.New("not found")

// NewPool opens a pgx pool with pgvector types registered on every
// connection, so memory embeddings round-trip through the vector column.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	return pgxpool.NewWithConfig(ctx, cfg)
}
