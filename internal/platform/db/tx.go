package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

const (
	// TxKey carries an open transaction through a request context so that
	// repositories participate in the caller's unit of work.
	TxKey contextKey = "db_tx"
	// ConnKey carries a dedicated connection, used when a request must pin
	// its queries to a single session.
	ConnKey contextKey = "db_conn"
)

// TxFromContext retrieves the transaction bound to the context, or nil.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(TxKey).(pgx.Tx)
	return tx
}

// WithTx returns a child context carrying the given transaction.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, TxKey, tx)
}

// ConnFromContext retrieves a pinned connection from the context, or nil.
func ConnFromContext(ctx context.Context) *pgxpool.Conn {
	c, _ := ctx.Value(ConnKey).(*pgxpool.Conn)
	return c
}

// WithConn returns a child context carrying a pinned connection.
func WithConn(ctx context.Context, conn *pgxpool.Conn) context.Context {
	return context.WithValue(ctx, ConnKey, conn)
}

// InTx runs fn inside a transaction. The transaction is placed in the context
// passed to fn, so repository calls made within fn share it. A nested call
// (context already carries a transaction) reuses the outer transaction.
func InTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	if tx := TxFromContext(ctx); tx != nil {
		return fn(ctx)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
