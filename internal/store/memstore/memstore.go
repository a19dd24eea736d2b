// Package memstore keeps every document in process memory. It backs the
// "memory" store driver used for local development and tests.
package memstore

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/devconnector/internal/filter"
	"github.com/siahsang/devconnector/internal/store"
	"github.com/siahsang/devconnector/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store struct {
	mu       sync.RWMutex
	users    map[primitive.ObjectID]models.User
	profiles map[primitive.ObjectID]models.Profile // keyed by owning user
	posts    map[primitive.ObjectID]models.Post
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:    make(map[primitive.ObjectID]models.User),
		profiles: make(map[primitive.ObjectID]models.Profile),
		posts:    make(map[primitive.ObjectID]models.Post),
	}
}

func (s *Store) InsertUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return xerrors.New(store.ErrDuplicateKey)
		}
	}
	if user.ID.IsZero() {
		user.ID = models.NewID()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, xerrors.New(store.ErrNoRecord)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return &user, nil
		}
	}
	return nil, xerrors.New(store.ErrNoRecord)
}

func (s *Store) GetUsersByIDList(_ context.Context, ids []primitive.ObjectID) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			users = append(users, &user)
		}
	}
	return users, nil
}

func (s *Store) GetProfileByUser(_ context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return nil, xerrors.New(store.ErrNoRecord)
	}
	return cloneProfile(profile), nil
}

func (s *Store) ListProfiles(_ context.Context, f filter.Filter) ([]*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles := make([]*models.Profile, 0, len(s.profiles))
	for _, profile := range s.profiles {
		profiles = append(profiles, cloneProfile(profile))
	}
	slices.SortFunc(profiles, func(a, b *models.Profile) int {
		return a.Date.Compare(b.Date)
	})
	return page(profiles, f), nil
}

func (s *Store) SaveProfile(_ context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.profiles[profile.User]; ok {
		profile.ID = existing.ID
	} else if profile.ID.IsZero() {
		profile.ID = models.NewID()
	}
	s.profiles[profile.User] = *cloneProfile(*profile)
	return nil
}

func (s *Store) InsertPost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if post.ID.IsZero() {
		post.ID = models.NewID()
	}
	if _, exists := s.posts[post.ID]; exists {
		return xerrors.New(store.ErrDuplicateKey)
	}
	s.posts[post.ID] = *clonePost(*post)
	return nil
}

func (s *Store) GetPost(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, xerrors.New(store.ErrNoRecord)
	}
	return clonePost(post), nil
}

func (s *Store) ListPosts(_ context.Context, f filter.Filter) ([]*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]*models.Post, 0, len(s.posts))
	for _, post := range s.posts {
		posts = append(posts, clonePost(post))
	}
	slices.SortFunc(posts, func(a, b *models.Post) int {
		return b.Date.Compare(a.Date)
	})
	return page(posts, f), nil
}

func (s *Store) SavePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[post.ID]; !ok {
		return xerrors.New(store.ErrNoRecord)
	}
	s.posts[post.ID] = *clonePost(*post)
	return nil
}

func (s *Store) DeletePost(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return xerrors.New(store.ErrNoRecord)
	}
	delete(s.posts, id)
	return nil
}

func (s *Store) DeleteAccount(_ context.Context, userID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, post := range s.posts {
		if post.User == userID {
			delete(s.posts, id)
		}
	}
	delete(s.profiles, userID)
	delete(s.users, userID)
	return nil
}

func (s *Store) Close(context.Context) error {
	return nil
}

func page[T any](items []T, f filter.Filter) []T {
	start, end := f.Window(len(items))
	return items[start:end]
}

func cloneProfile(p models.Profile) *models.Profile {
	p.Skills = slices.Clone(p.Skills)
	p.Experience = slices.Clone(p.Experience)
	p.Education = slices.Clone(p.Education)
	return &p
}

func clonePost(p models.Post) *models.Post {
	p.Likes = slices.Clone(p.Likes)
	p.Comments = slices.Clone(p.Comments)
	return &p
}
