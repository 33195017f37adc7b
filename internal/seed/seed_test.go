package seed

import (
	"context"
	"testing"

	"skillswap/internal/auth"
	"skillswap/internal/models"
	"skillswap/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory_CreateUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	f, err := NewFactory(db, 42, true)
	require.NoError(t, err)

	first, err := f.CreateUser()
	require.NoError(t, err)
	second, err := f.CreateUser(func(u *models.User) { u.Role = models.RoleAdmin })
	require.NoError(t, err)

	assert.NotEqual(t, first.Username, second.Username)
	assert.Equal(t, first.Username+"@example.com", first.Email)
	assert.True(t, first.IsActive)
	assert.True(t, first.Availability.Valid())
	assert.Equal(t, models.RoleAdmin, second.Role)
	assert.True(t, auth.VerifyPassword(DemoPassword, first.PasswordHash))
}

func TestFactory_CompletedSwapHasTimestamp(t *testing.T) {
	db := testutil.NewTestDB(t)
	f, err := NewFactory(db, 7, true)
	require.NoError(t, err)

	a, err := f.CreateUser()
	require.NoError(t, err)
	b, err := f.CreateUser()
	require.NoError(t, err)
	skill, err := f.CreateOfferedSkill(b)
	require.NoError(t, err)

	swap, err := f.CreateSwap(a, b, skill, models.SwapStatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, swap.CompletedAt)
	require.NotNil(t, swap.SkillOfferedID)

	fb, err := f.CreateFeedback(swap, a.ID, b.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, fb.Rating, models.MinRating)
	assert.LessOrEqual(t, fb.Rating, models.MaxRating)
}

func TestSeeder_RunAndClear(t *testing.T) {
	db := testutil.NewTestDB(t)
	s, err := NewSeeder(db, Options{NumUsers: 5, SkillsPerUser: 1, NumSwaps: 12, Seed: 1, FastHash: true})
	require.NoError(t, err)

	summary, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Users)
	assert.Equal(t, 10, summary.Skills)

	var swaps, feedback int64
	require.NoError(t, db.Model(&models.Swap{}).Count(&swaps).Error)
	require.NoError(t, db.Model(&models.Feedback{}).Count(&feedback).Error)
	assert.Equal(t, int64(summary.Swaps), swaps)
	assert.Equal(t, int64(summary.Feedback), feedback)

	require.NoError(t, s.ClearAll())
	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}

func TestSeeder_RequiresTwoUsers(t *testing.T) {
	db := testutil.NewTestDB(t)
	s, err := NewSeeder(db, Options{NumUsers: 1, FastHash: true})
	require.NoError(t, err)

	_, err = s.Run(context.Background())
	assert.Error(t, err)
}
