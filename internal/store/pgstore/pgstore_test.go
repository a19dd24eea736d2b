package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/siahsang/devconnector/internal/filter"
	"github.com/siahsang/devconnector/internal/store"
	"github.com/siahsang/devconnector/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(db, logger, time.Second), mock
}

func TestInsertUserDuplicateEmail(t *testing.T) {
	s, mock := newMockStore(t)
	user := &models.User{Name: "A", Email: "a@a.com", Password: "hash", Date: time.Now()}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: uniqueViolation, Constraint: "users_email_key"})

	err := s.InsertUser(context.Background(), user)
	assert.ErrorIs(t, err, store.ErrDuplicateKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail(t *testing.T) {
	s, mock := newMockStore(t)
	id := models.NewID()
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	columns := []string{"id", "name", "email", "password", "avatar", "created_at"}

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("a@a.com").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(id.Hex(), "A", "a@a.com", "hash", "//avatar", created))

	user, err := s.GetUserByEmail(context.Background(), "a@a.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "hash", user.Password)
	assert.Equal(t, created, user.Date)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("b@b.com").
		WillReturnRows(sqlmock.NewRows(columns))

	_, err = s.GetUserByEmail(context.Background(), "b@b.com")
	assert.ErrorIs(t, err, store.ErrNoRecord)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPostDecodesDocument(t *testing.T) {
	s, mock := newMockStore(t)
	post := models.Post{ID: models.NewID(), User: models.NewID(), Text: "hello", Likes: []models.Like{}, Comments: []models.Comment{}}
	doc, err := json.Marshal(post)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, doc FROM posts WHERE id = $1")).
		WithArgs(post.ID.Hex()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}).AddRow(post.ID.Hex(), doc))

	got, err := s.GetPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
	assert.Equal(t, post.User, got.User)
	assert.Equal(t, "hello", got.Text)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPostsPassesPaging(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).
		WithArgs(int64(10), int64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}))

	posts, err := s.ListPosts(context.Background(), filter.NewFilter(10, 20))
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavePostMissing(t *testing.T) {
	s, mock := newMockStore(t)
	post := &models.Post{ID: models.NewID()}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE posts SET doc = $2 WHERE id = $1")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.SavePost(context.Background(), post)
	assert.ErrorIs(t, err, store.ErrNoRecord)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAccountRunsInOneTransaction(t *testing.T) {
	s, mock := newMockStore(t)
	userID := models.NewID()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM posts WHERE user_id = $1")).
		WithArgs(userID.Hex()).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM profiles WHERE user_id = $1")).
		WithArgs(userID.Hex()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs(userID.Hex()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.DeleteAccount(context.Background(), userID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAccountRollsBackOnFailure(t *testing.T) {
	s, mock := newMockStore(t)
	userID := models.NewID()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM posts WHERE user_id = $1")).
		WithArgs(userID.Hex()).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM profiles WHERE user_id = $1")).
		WithArgs(userID.Hex()).WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := s.DeleteAccount(context.Background(), userID)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}
