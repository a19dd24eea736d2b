package pgstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/devconnector/internal/utils/collectionutils"
	"github.com/siahsang/devconnector/internal/utils/databaseutils"
	"github.com/siahsang/devconnector/internal/utils/stringutils"
	"github.com/siahsang/devconnector/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const userColumns = `id, name, email, password, avatar, created_at`

func (s *Store) InsertUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password, avatar, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if user.ID.IsZero() {
		user.ID = models.NewID()
	}

	args := []any{user.ID.Hex(), user.Name, user.Email, user.Password, user.Avatar, user.Date}
	if _, err := databaseutils.Execute(s.sqlTemplate, ctx, query, args...); err != nil {
		return mapError(err)
	}

	s.log.Info("User created", "user_id", user.ID.Hex(), "email", user.Email)
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := databaseutils.ExecuteSingleQuery(s.sqlTemplate, ctx, query, scanUser, id.Hex())
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := databaseutils.ExecuteSingleQuery(s.sqlTemplate, ctx, query, scanUser, email)
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

func (s *Store) GetUsersByIDList(ctx context.Context, ids []primitive.ObjectID) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}

	args := collectionutils.Map(ids, func(id primitive.ObjectID) any { return id.Hex() })
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id IN (%s)`, userColumns, stringutils.Placeholders(len(args), 1))

	users, err := databaseutils.ExecuteQuery(s.sqlTemplate, ctx, query, scanUser, args...)
	if err != nil {
		return nil, mapError(err)
	}
	return users, nil
}

func scanUser(rows *sql.Rows) (*models.User, error) {
	var (
		user = &models.User{}
		id   string
	)
	if err := rows.Scan(&id, &user.Name, &user.Email, &user.Password, &user.Avatar, &user.Date); err != nil {
		return nil, xerrors.New(err)
	}

	parsed, err := parseID(id)
	if err != nil {
		return nil, err
	}
	user.ID = parsed
	return user, nil
}
