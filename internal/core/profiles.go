package core

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/devconnector/internal/events"
	"github.com/siahsang/devconnector/internal/filter"
	"github.com/siahsang/devconnector/internal/store"
	"github.com/siahsang/devconnector/internal/utils/collectionutils"
	"github.com/siahsang/devconnector/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrProfileNotFound = xerrors.Message("Profile not found")

// ProfileInput carries the editable profile fields. Empty strings leave the
// stored value untouched, except for the social links which are rebuilt on
// every save.
type ProfileInput struct {
	Company        string
	Website        string
	Location       string
	Status         string
	Skills         string // comma separated
	Bio            string
	GitHubUsername string
	Social         models.Social
}

func (c *Core) GetProfileByUser(ctx context.Context, userID primitive.ObjectID) (*models.ProfileView, error) {
	profile, err := c.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return c.populate(ctx, profile)
}

func (c *Core) ListProfiles(ctx context.Context, f filter.Filter) ([]*models.ProfileView, error) {
	profiles, err := c.store.ListProfiles(ctx, f)
	if err != nil {
		return nil, xerrors.New(err)
	}

	userIDs := collectionutils.Distinct(collectionutils.Map(profiles, func(p *models.Profile) primitive.ObjectID { return p.User }))
	users, err := c.store.GetUsersByIDList(ctx, userIDs)
	if err != nil {
		return nil, xerrors.New(err)
	}

	summaries := collectionutils.Associate(users, func(u *models.User) (primitive.ObjectID, models.UserSummary) {
		return u.ID, u.Summary()
	})

	return collectionutils.Map(profiles, func(p *models.Profile) *models.ProfileView {
		return &models.ProfileView{
			Profile: p,
			User:    collectionutils.GetOrDefault(summaries, p.User, models.UserSummary{ID: p.User}),
		}
	}), nil
}

// UpsertProfile creates the caller's profile or updates the provided fields.
func (c *Core) UpsertProfile(ctx context.Context, userID primitive.ObjectID, input ProfileInput) (*models.ProfileView, error) {
	profile, err := c.store.GetProfileByUser(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNoRecord):
		profile = &models.Profile{
			ID:         models.NewID(),
			User:       userID,
			Skills:     []string{},
			Experience: []models.Experience{},
			Education:  []models.Education{},
			Date:       c.now().UTC(),
		}
	case err != nil:
		return nil, xerrors.New(err)
	}

	setIfNotEmpty(&profile.Company, input.Company)
	setIfNotEmpty(&profile.Website, input.Website)
	setIfNotEmpty(&profile.Location, input.Location)
	setIfNotEmpty(&profile.Bio, input.Bio)
	setIfNotEmpty(&profile.Status, input.Status)
	setIfNotEmpty(&profile.GitHubUsername, input.GitHubUsername)
	if input.Skills != "" {
		profile.Skills = SplitSkills(input.Skills)
	}
	profile.Social = input.Social

	if err := c.store.SaveProfile(ctx, profile); err != nil {
		return nil, xerrors.New(err)
	}
	return c.populate(ctx, profile)
}

func (c *Core) AddExperience(ctx context.Context, userID primitive.ObjectID, exp models.Experience) (*models.ProfileView, error) {
	return c.updateProfile(ctx, userID, func(p *models.Profile) error {
		p.AddExperience(exp)
		return nil
	})
}

func (c *Core) RemoveExperience(ctx context.Context, userID, expID primitive.ObjectID) (*models.ProfileView, error) {
	return c.updateProfile(ctx, userID, func(p *models.Profile) error {
		return p.RemoveExperience(expID)
	})
}

func (c *Core) AddEducation(ctx context.Context, userID primitive.ObjectID, edu models.Education) (*models.ProfileView, error) {
	return c.updateProfile(ctx, userID, func(p *models.Profile) error {
		p.AddEducation(edu)
		return nil
	})
}

func (c *Core) RemoveEducation(ctx context.Context, userID, eduID primitive.ObjectID) (*models.ProfileView, error) {
	return c.updateProfile(ctx, userID, func(p *models.Profile) error {
		return p.RemoveEducation(eduID)
	})
}

// DeleteAccount removes the user's posts, profile and identity.
func (c *Core) DeleteAccount(ctx context.Context, userID primitive.ObjectID) error {
	if err := c.store.DeleteAccount(ctx, userID); err != nil {
		return xerrors.New(err)
	}

	c.log.Info("Account deleted", slog.String("user_id", userID.Hex()))
	c.publish(ctx, events.AccountDeleted, map[string]string{"user": userID.Hex()})
	return nil
}

func (c *Core) GitHubRepos(ctx context.Context, username string) (json.RawMessage, error) {
	return c.repos.Repos(ctx, strings.TrimSpace(username))
}

// SplitSkills turns "go, sql ,docker" into ["go" "sql" "docker"].
func SplitSkills(skills string) []string {
	parts := strings.Split(skills, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if skill := strings.TrimSpace(part); skill != "" {
			result = append(result, skill)
		}
	}
	return result
}

func (c *Core) updateProfile(ctx context.Context, userID primitive.ObjectID, mutate func(*models.Profile) error) (*models.ProfileView, error) {
	profile, err := c.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := mutate(profile); err != nil {
		return nil, xerrors.New(err)
	}
	if err := c.store.SaveProfile(ctx, profile); err != nil {
		return nil, xerrors.New(err)
	}
	return c.populate(ctx, profile)
}

func (c *Core) loadProfile(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	profile, err := c.store.GetProfileByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNoRecord) {
			return nil, xerrors.New(ErrProfileNotFound)
		}
		return nil, xerrors.New(err)
	}
	return profile, nil
}

func (c *Core) populate(ctx context.Context, profile *models.Profile) (*models.ProfileView, error) {
	view := &models.ProfileView{Profile: profile, User: models.UserSummary{ID: profile.User}}

	user, err := c.store.GetUserByID(ctx, profile.User)
	switch {
	case err == nil:
		view.User = user.Summary()
	case !errors.Is(err, store.ErrNoRecord):
		return nil, xerrors.New(err)
	}
	return view, nil
}

func setIfNotEmpty(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}
