package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileExperience(t *testing.T) {
	profile := &Profile{}
	profile.AddExperience(Experience{Title: "Junior", From: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)})
	profile.AddExperience(Experience{Title: "Senior", From: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)})

	require.Len(t, profile.Experience, 2)
	assert.Equal(t, "Senior", profile.Experience[0].Title)
	assert.False(t, profile.Experience[0].ID.IsZero())
	assert.NotEqual(t, profile.Experience[0].ID, profile.Experience[1].ID)

	assert.ErrorIs(t, profile.RemoveExperience(NewID()), ErrEntryNotFound)
	assert.Len(t, profile.Experience, 2, "unknown id must not remove anything")

	require.NoError(t, profile.RemoveExperience(profile.Experience[1].ID))
	require.Len(t, profile.Experience, 1)
	assert.Equal(t, "Senior", profile.Experience[0].Title)
}

func TestProfileEducation(t *testing.T) {
	profile := &Profile{}
	profile.AddEducation(Education{School: "A"})
	profile.AddEducation(Education{School: "B"})

	require.Len(t, profile.Education, 2)
	assert.Equal(t, "B", profile.Education[0].School)

	require.NoError(t, profile.RemoveEducation(profile.Education[0].ID))
	require.Len(t, profile.Education, 1)
	assert.Equal(t, "A", profile.Education[0].School)
	assert.ErrorIs(t, profile.RemoveEducation(NewID()), ErrEntryNotFound)
}

func TestParseID(t *testing.T) {
	id := NewID()
	parsed, err := ParseID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseID("not-an-id")
	assert.ErrorIs(t, err, ErrMalformedID)
}
