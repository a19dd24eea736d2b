package core

import (
	"context"
	"testing"
	"time"

	"github.com/siahsang/devconnector/internal/events"
	"github.com/siahsang/devconnector/internal/filter"
	"github.com/siahsang/devconnector/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSkills(t *testing.T) {
	assert.Equal(t, []string{"go", "sql", "docker"}, SplitSkills(" go, sql ,docker,,"))
	assert.Empty(t, SplitSkills(" , "))
}

func TestUpsertProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.register(t, "Jane", "jane@example.com")

	_, err := f.core.GetProfileByUser(ctx, userID)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	created, err := f.core.UpsertProfile(ctx, userID, ProfileInput{
		Status:   "Developer",
		Skills:   "go, mongo",
		Company:  "Acme",
		Location: "Berlin",
		Social:   models.Social{Twitter: "https://twitter.com/jane"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane", created.User.Name)
	assert.Equal(t, []string{"go", "mongo"}, created.Skills)
	assert.Equal(t, "https://twitter.com/jane", created.Social.Twitter)

	updated, err := f.core.UpsertProfile(ctx, userID, ProfileInput{
		Status: "Senior Developer",
		Skills: "go",
		Social: models.Social{YouTube: "https://youtube.com/jane"},
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Senior Developer", updated.Status)
	assert.Equal(t, "Acme", updated.Company, "omitted fields keep their value")
	assert.Equal(t, models.Social{YouTube: "https://youtube.com/jane"}, updated.Social, "social links are rebuilt")
}

func TestListProfilesPopulatesOwners(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"Ann", "Bob"} {
		id := f.register(t, name, name+"@example.com")
		_, err := f.core.UpsertProfile(ctx, id, ProfileInput{Status: "Developer", Skills: "go"})
		require.NoError(t, err)
	}

	profiles, err := f.core.ListProfiles(ctx, filter.All())
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "Ann", profiles[0].User.Name)
	assert.Equal(t, "Bob", profiles[1].User.Name)
}

func TestExperienceAndEducation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.register(t, "Jane", "jane@example.com")

	_, err := f.core.AddExperience(ctx, userID, models.Experience{Title: "Dev", Company: "Acme"})
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, err = f.core.UpsertProfile(ctx, userID, ProfileInput{Status: "Developer", Skills: "go"})
	require.NoError(t, err)

	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = f.core.AddExperience(ctx, userID, models.Experience{Title: "Junior", Company: "Acme", From: from})
	require.NoError(t, err)
	profile, err := f.core.AddExperience(ctx, userID, models.Experience{Title: "Senior", Company: "Acme", From: from})
	require.NoError(t, err)
	require.Len(t, profile.Experience, 2)
	assert.Equal(t, "Senior", profile.Experience[0].Title)

	_, err = f.core.RemoveExperience(ctx, userID, models.NewID())
	assert.ErrorIs(t, err, models.ErrEntryNotFound)

	profile, err = f.core.RemoveExperience(ctx, userID, profile.Experience[1].ID)
	require.NoError(t, err)
	require.Len(t, profile.Experience, 1)
	assert.Equal(t, "Senior", profile.Experience[0].Title)

	profile, err = f.core.AddEducation(ctx, userID, models.Education{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: from})
	require.NoError(t, err)
	require.Len(t, profile.Education, 1)

	profile, err = f.core.RemoveEducation(ctx, userID, profile.Education[0].ID)
	require.NoError(t, err)
	assert.Empty(t, profile.Education)

	_, err = f.core.RemoveEducation(ctx, userID, models.NewID())
	assert.ErrorIs(t, err, models.ErrEntryNotFound)
}

func TestDeleteAccountCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.register(t, "Jane", "jane@example.com")
	otherID := f.register(t, "Bob", "bob@example.com")

	_, err := f.core.UpsertProfile(ctx, userID, ProfileInput{Status: "Developer", Skills: "go"})
	require.NoError(t, err)
	_, err = f.core.CreatePost(ctx, userID, "mine")
	require.NoError(t, err)
	kept, err := f.core.CreatePost(ctx, otherID, "theirs")
	require.NoError(t, err)

	require.NoError(t, f.core.DeleteAccount(ctx, userID))

	_, err = f.core.GetUser(ctx, userID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = f.core.GetProfileByUser(ctx, userID)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	posts, err := f.core.ListPosts(ctx, filter.All())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, kept.ID, posts[0].ID)
	assert.Contains(t, f.events.Subjects(), events.AccountDeleted)
}

func TestGitHubRepos(t *testing.T) {
	f := newFixture(t)

	repos, err := f.core.GitHubRepos(context.Background(), " octocat ")
	require.NoError(t, err)
	assert.Equal(t, "octocat", f.repos.got)
	assert.JSONEq(t, `[]`, string(repos))

	f.repos.err = errGitHubDown
	_, err = f.core.GitHubRepos(context.Background(), "octocat")
	assert.ErrorIs(t, err, errGitHubDown)
}
