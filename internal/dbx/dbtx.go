// Package dbx holds the small database/sql seams shared by the Postgres
// repositories: the DBTX handle satisfied by both *sql.DB and *sql.Tx, and
// WithTx for running a unit of work in one transaction.
package dbx

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "github.com/dmitrijs2005/todoapi/internal/dbx"

// TxSpanName names the span opened around every WithTx call.
const TxSpanName = "db.tx"

// DBTX is the part of database/sql the repositories need.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn in a single transaction on db, committing when fn returns nil
// and rolling back otherwise. A panic in fn rolls back and is re-raised.
//
// The transaction is traced as a child of the span in ctx; fn receives the
// span's context so queries inside it log under the same trace.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    _, err := tx.ExecContext(ctx, "UPDATE todos SET ...")
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, TxSpanName)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			span.SetStatus(codes.Error, "panic")
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit tx: %w", cerr)
		}
	}()

	return fn(ctx, tx)
}
