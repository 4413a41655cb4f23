// Package dbtx abstracts the relational store behind a single withTx contract (spec §4.3):
// serializable multi-row transactions that commit atomically or roll back on error/panic, with
// bounded retry on serialization conflicts.
package dbtx

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"time"

	"github.com/lib/pq"

	"github.com/foodcourt-platform/platform/apierr"
)

// ErrSerializationFailure is the typed conflict surfaced by WithTx when Postgres reports a
// serialization failure (SQLSTATE 40001) or deadlock (40P01) under SERIALIZABLE isolation.
var ErrSerializationFailure = errors.New("dbtx: serialization failure")

// TxFunc runs business logic against tx. Returning an error rolls the transaction back.
type TxFunc func(ctx context.Context, tx *sql.Tx) error

// WithTx runs fn inside one SERIALIZABLE transaction. A panic inside fn is recovered, the
// transaction is rolled back, and the panic is re-raised — callers never observe a partially
// committed aggregate.
func WithTx(ctx context.Context, db *sql.DB, fn TxFunc) (err error) {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		_ = tx.Rollback()
		return classify(err)
	}

	if err = tx.Commit(); err != nil {
		return classify(err)
	}
	return nil
}

func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01":
			return ErrSerializationFailure
		}
	}
	return err
}

// RetryPolicy is the bounded-retry schedule from spec §4.3: 3 attempts, exponential backoff
// 20/100/500ms with jitter.
var RetryPolicy = []time.Duration{20 * time.Millisecond, 100 * time.Millisecond, 500 * time.Millisecond}

// RetrySerializable runs op up to len(RetryPolicy) times, retrying only on
// ErrSerializationFailure. Once attempts are exhausted it surfaces apierr.Conflict
// (spec §7: "only surface as Conflict after retries exhausted"), wrapping the original
// conflict so errors.Is(err, ErrSerializationFailure) still holds for callers that check.
func RetrySerializable(ctx context.Context, op func() error) error {
	var lastErr error
	for attempt := 0; attempt < len(RetryPolicy); attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, ErrSerializationFailure) {
			return lastErr
		}
		if attempt == len(RetryPolicy)-1 {
			break
		}
		backoff := RetryPolicy[attempt]
		jitter := time.Duration(rand.Int63n(int64(backoff) / 2))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff + jitter):
		}
	}
	return apierr.Wrap(apierr.Conflict, "operation could not complete after retrying", lastErr)
}
