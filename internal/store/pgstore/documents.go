package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/devconnector/internal/filter"
	"github.com/siahsang/devconnector/internal/store"
	"github.com/siahsang/devconnector/internal/utils/databaseutils"
	"github.com/siahsang/devconnector/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *Store) GetProfileByUser(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	query := `SELECT id, doc FROM profiles WHERE user_id = $1`

	profile, err := databaseutils.ExecuteSingleQuery(s.sqlTemplate, ctx, query, scanDocument[models.Profile], userID.Hex())
	if err != nil {
		return nil, mapError(err)
	}
	return profile, nil
}

func (s *Store) ListProfiles(ctx context.Context, f filter.Filter) ([]*models.Profile, error) {
	query := `
		SELECT id, doc FROM profiles
		ORDER BY created_at
		LIMIT $1 OFFSET $2
	`

	profiles, err := databaseutils.ExecuteQuery(s.sqlTemplate, ctx, query, scanDocument[models.Profile], f.Limit, f.Offset)
	if err != nil {
		return nil, mapError(err)
	}
	if profiles == nil {
		profiles = []*models.Profile{}
	}
	return profiles, nil
}

func (s *Store) SaveProfile(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, user_id, created_at, doc)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET doc = EXCLUDED.doc
		RETURNING id
	`
	if profile.ID.IsZero() {
		profile.ID = models.NewID()
	}
	doc, err := json.Marshal(profile)
	if err != nil {
		return xerrors.New(err)
	}

	id, err := databaseutils.ExecuteSingleQuery(s.sqlTemplate, ctx, query, func(rows *sql.Rows) (string, error) {
		var id string
		err := rows.Scan(&id)
		return id, err
	}, profile.ID.Hex(), profile.User.Hex(), profile.Date, doc)
	if err != nil {
		return mapError(err)
	}

	profile.ID, err = parseID(id)
	return err
}

func (s *Store) InsertPost(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, user_id, created_at, doc)
		VALUES ($1, $2, $3, $4)
	`
	if post.ID.IsZero() {
		post.ID = models.NewID()
	}
	doc, err := json.Marshal(post)
	if err != nil {
		return xerrors.New(err)
	}

	if _, err := databaseutils.Execute(s.sqlTemplate, ctx, query, post.ID.Hex(), post.User.Hex(), post.Date, doc); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *Store) GetPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	query := `SELECT id, doc FROM posts WHERE id = $1`

	post, err := databaseutils.ExecuteSingleQuery(s.sqlTemplate, ctx, query, scanDocument[models.Post], id.Hex())
	if err != nil {
		return nil, mapError(err)
	}
	return post, nil
}

func (s *Store) ListPosts(ctx context.Context, f filter.Filter) ([]*models.Post, error) {
	query := `
		SELECT id, doc FROM posts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	posts, err := databaseutils.ExecuteQuery(s.sqlTemplate, ctx, query, scanDocument[models.Post], f.Limit, f.Offset)
	if err != nil {
		return nil, mapError(err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, nil
}

func (s *Store) SavePost(ctx context.Context, post *models.Post) error {
	doc, err := json.Marshal(post)
	if err != nil {
		return xerrors.New(err)
	}

	affected, err := databaseutils.Execute(s.sqlTemplate, ctx, `UPDATE posts SET doc = $2 WHERE id = $1`, post.ID.Hex(), doc)
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return xerrors.New(store.ErrNoRecord)
	}
	return nil
}

func (s *Store) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	affected, err := databaseutils.Execute(s.sqlTemplate, ctx, `DELETE FROM posts WHERE id = $1`, id.Hex())
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return xerrors.New(store.ErrNoRecord)
	}
	return nil
}

// scanDocument decodes an (id, doc) row. The id column wins over the _id
// stored in the document.
func scanDocument[T models.Profile | models.Post](rows *sql.Rows) (*T, error) {
	var (
		id  string
		raw []byte
	)
	if err := rows.Scan(&id, &raw); err != nil {
		return nil, xerrors.New(err)
	}

	doc := new(T)
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, xerrors.Newf("decode document %s: %w", id, err)
	}

	parsed, err := parseID(id)
	if err != nil {
		return nil, err
	}
	switch d := any(doc).(type) {
	case *models.Profile:
		d.ID = parsed
	case *models.Post:
		d.ID = parsed
	}
	return doc, nil
}
