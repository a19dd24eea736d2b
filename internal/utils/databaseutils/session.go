package databaseutils

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/mdobak/go-xerrors"
)

type txKey struct{}

// SQLExecutor is the part of *sql.DB and *sql.Tx the query helpers need.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Session runs work inside a transaction. Query helpers called with the
// context handed to fn join that transaction.
type Session interface {
	DoTransactionally(ctx context.Context, fn func(txCtx context.Context) error) error
}

type sqlSession struct {
	db  *sql.DB
	log *slog.Logger
}

func NewSession(db *sql.DB, log *slog.Logger) Session {
	return &sqlSession{db: db, log: log}
}

// DoTransactionally commits when fn returns nil and rolls back otherwise,
// including when fn panics. Nested calls reuse the outer transaction.
func (s *sqlSession) DoTransactionally(ctx context.Context, fn func(txCtx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return xerrors.Newf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				s.log.Error("failed to rollback transaction",
					slog.String("rollback_error", rollbackErr.Error()),
					slog.String("error", err.Error()))
			}
			return
		}
		if commitErr := tx.Commit(); commitErr != nil {
			err = xerrors.Newf("commit transaction: %w", commitErr)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, tx))
}

// GetSQLExecutor returns the transaction carried by ctx, or db when there
// is none.
func GetSQLExecutor(ctx context.Context, db *sql.DB) SQLExecutor {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}
