// Package pgstore keeps profiles and posts as JSONB documents in PostgreSQL.
package pgstore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/devconnector/internal/store"
	"github.com/siahsang/devconnector/internal/utils/databaseutils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

type Store struct {
	log         *slog.Logger
	db          *sql.DB
	sqlTemplate *databaseutils.SQLTemplate
	session     databaseutils.Session
}

var _ store.Store = (*Store)(nil)

func New(db *sql.DB, log *slog.Logger, timeout time.Duration) *Store {
	return &Store{
		log:         log,
		db:          db,
		sqlTemplate: databaseutils.NewSQLTemplate(db, timeout),
		session:     databaseutils.NewSession(db, log),
	}
}

// Open connects to dsn and makes sure the schema exists.
func Open(ctx context.Context, dsn string, log *slog.Logger) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, xerrors.New(err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(10 * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, xerrors.New(err)
	}

	s := New(db, log, 3*time.Second)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return xerrors.New(err)
	}
	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, userID primitive.ObjectID) error {
	err := s.session.DoTransactionally(ctx, func(txCtx context.Context) error {
		if _, err := databaseutils.Execute(s.sqlTemplate, txCtx, `DELETE FROM posts WHERE user_id = $1`, userID.Hex()); err != nil {
			return err
		}
		if _, err := databaseutils.Execute(s.sqlTemplate, txCtx, `DELETE FROM profiles WHERE user_id = $1`, userID.Hex()); err != nil {
			return err
		}
		_, err := databaseutils.Execute(s.sqlTemplate, txCtx, `DELETE FROM users WHERE id = $1`, userID.Hex())
		return err
	})
	if err != nil {
		return xerrors.New(err)
	}

	s.log.Info("Account deleted", "user_id", userID.Hex())
	return nil
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

func mapError(err error) error {
	var pqErr *pq.Error
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return xerrors.New(store.ErrNoRecord)
	case errors.As(err, &pqErr) && pqErr.Code == uniqueViolation:
		return xerrors.New(store.ErrDuplicateKey)
	default:
		return xerrors.New(err)
	}
}

func parseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, xerrors.Newf("corrupt id %q: %w", hex, err)
	}
	return id, nil
}
