// Package mongostore is the MongoDB storage driver. Every record is one
// document; saves replace the whole document.
package mongostore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/devconnector/internal/filter"
	"github.com/siahsang/devconnector/internal/store"
	"github.com/siahsang/devconnector/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	log      *slog.Logger
	client   *mongo.Client
	users    *mongo.Collection
	profiles *mongo.Collection
	posts    *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// Open connects to uri, pings the deployment and creates the indexes.
func Open(ctx context.Context, uri, database string, log *slog.Logger) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, xerrors.New(err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, xerrors.New(err)
	}

	db := client.Database(database)
	s := &Store{
		log:      log,
		client:   client,
		users:    db.Collection("users"),
		profiles: db.Collection("profiles"),
		posts:    db.Collection("posts"),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Info("Connected to MongoDB", "database", database)
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return xerrors.New(err)
	}
	if _, err := s.profiles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return xerrors.New(err)
	}
	if _, err := s.posts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "user", Value: 1}}},
	}); err != nil {
		return xerrors.New(err)
	}
	return nil
}

func (s *Store) InsertUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = models.NewID()
	}
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		return mapError(err)
	}
	s.log.Info("User created", "user_id", user.ID.Hex(), "email", user.Email)
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return findOne[models.User](ctx, s.users, bson.M{"_id": id})
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.users, bson.M{"email": email})
}

func (s *Store) GetUsersByIDList(ctx context.Context, ids []primitive.ObjectID) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}
	return find[models.User](ctx, s.users, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
}

func (s *Store) GetProfileByUser(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	return findOne[models.Profile](ctx, s.profiles, bson.M{"user": userID})
}

func (s *Store) ListProfiles(ctx context.Context, f filter.Filter) ([]*models.Profile, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}}).
		SetSkip(f.Offset).
		SetLimit(f.Limit)
	return find[models.Profile](ctx, s.profiles, bson.M{}, opts)
}

func (s *Store) SaveProfile(ctx context.Context, profile *models.Profile) error {
	if profile.ID.IsZero() {
		profile.ID = models.NewID()
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.profiles.ReplaceOne(ctx, bson.M{"user": profile.User}, profile, opts); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *Store) InsertPost(ctx context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = models.NewID()
	}
	if _, err := s.posts.InsertOne(ctx, post); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *Store) GetPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	return findOne[models.Post](ctx, s.posts, bson.M{"_id": id})
}

func (s *Store) ListPosts(ctx context.Context, f filter.Filter) ([]*models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetSkip(f.Offset).
		SetLimit(f.Limit)
	return find[models.Post](ctx, s.posts, bson.M{}, opts)
}

func (s *Store) SavePost(ctx context.Context, post *models.Post) error {
	result, err := s.posts.ReplaceOne(ctx, bson.M{"_id": post.ID}, post)
	if err != nil {
		return mapError(err)
	}
	if result.MatchedCount == 0 {
		return xerrors.New(store.ErrNoRecord)
	}
	return nil
}

func (s *Store) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapError(err)
	}
	if result.DeletedCount == 0 {
		return xerrors.New(store.ErrNoRecord)
	}
	return nil
}

// DeleteAccount removes dependents before the identity so that a failure
// half way never leaves orphaned posts or profiles behind a deleted user.
// Standalone deployments have no multi-document transactions.
func (s *Store) DeleteAccount(ctx context.Context, userID primitive.ObjectID) error {
	posts, err := s.posts.DeleteMany(ctx, bson.M{"user": userID})
	if err != nil {
		return mapError(err)
	}
	if _, err := s.profiles.DeleteOne(ctx, bson.M{"user": userID}); err != nil {
		return mapError(err)
	}
	if _, err := s.users.DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		return mapError(err)
	}

	s.log.Info("Account deleted", "user_id", userID.Hex(), "posts_removed", posts.DeletedCount)
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func findOne[T any](ctx context.Context, collection *mongo.Collection, query bson.M) (*T, error) {
	doc := new(T)
	if err := collection.FindOne(ctx, query).Decode(doc); err != nil {
		return nil, mapError(err)
	}
	return doc, nil
}

func find[T any](ctx context.Context, collection *mongo.Collection, query bson.M, opts *options.FindOptions) ([]*T, error) {
	cursor, err := collection.Find(ctx, query, opts)
	if err != nil {
		return nil, mapError(err)
	}

	docs := []*T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mapError(err)
	}
	return docs, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return xerrors.New(store.ErrNoRecord)
	case mongo.IsDuplicateKeyError(err):
		return xerrors.New(store.ErrDuplicateKey)
	default:
		return xerrors.New(err)
	}
}
