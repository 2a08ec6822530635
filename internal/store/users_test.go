package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hemp-commons/internal/models"
	"hemp-commons/internal/utils"
)

func TestCreateUserRegistrationBonus(t *testing.T) {
	ctx := context.Background()
	s, _ := newEmptyStore(t)

	created, err := s.CreateUser(ctx, models.NewUserInput{Email: "a@x.com", Username: "a"})
	require.NoError(t, err)
	assert.Equal(t, PointsRegistration, created.HempPoints)

	found, err := s.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 25, found.HempPoints)
	assert.Equal(t, models.RoleUser, found.Role)
	assert.Equal(t, "Nepal", found.Location)

	rows, err := s.GetPointHistory(ctx, found.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 25, rows[0].Points)
	assert.Equal(t, "Registration Bonus", rows[0].Reason)
}

func TestEmailIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s, _ := newEmptyStore(t)
	mustCreateUser(t, s, "tara")

	found, err := s.GetUserByEmail(ctx, "TARA@Example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "tara", found.Username)

	_, err = s.CreateUser(ctx, models.NewUserInput{Username: "tara2", Email: "Tara@EXAMPLE.com"})
	assert.True(t, utils.IsErrorCode(err, utils.ErrDuplicateEmail))

	users := getCollection[models.User](ctx, s, KeyUsers)
	assert.Len(t, users, 1)
}

func TestCreateUserRejectsInvalidInput(t *testing.T) {
	s, _ := newEmptyStore(t)
	_, err := s.CreateUser(context.Background(), models.NewUserInput{Username: "nomail"})
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))
}

func TestLookupsReturnNilWhenAbsent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	u, err := s.GetUserByID(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = s.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)

	p, err := s.GetPostByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	bio := "Fiber artisan"
	updated, err := s.UpdateUser(ctx, "u2", models.UserUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Fiber artisan", updated.Bio)
	assert.Equal(t, 980, updated.HempPoints)

	_, err = s.UpdateUser(ctx, "missing", models.UserUpdate{Bio: &bio})
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}

func TestGetUserStats(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.FollowUser(ctx, "u1", "u2"))
	require.NoError(t, s.FollowUser(ctx, "u3", "u2"))
	require.NoError(t, s.FollowUser(ctx, "u2", "u5"))
	_, err := s.AddComment(ctx, models.NewCommentInput{PostID: "p2", UserID: "u2", Content: "Thank you!"})
	require.NoError(t, err)

	stats, err := s.GetUserStats(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.PostsCount)
	assert.Equal(t, 1, stats.CommentsCount)
	assert.Equal(t, 2, stats.FollowersCount)
	assert.Equal(t, 1, stats.FollowingCount)
	// u5 5200, u1 1420, then u2 985
	assert.Equal(t, 3, stats.Rank)

	_, err = s.GetUserStats(ctx, "missing")
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}

func TestRankTiesKeepStoredOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newEmptyStore(t)
	first := mustCreateUser(t, s, "first")
	second := mustCreateUser(t, s, "second")

	stats, err := s.GetUserStats(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Rank)

	stats, err = s.GetUserStats(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Rank)
}

func TestUpgradeToPremium(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	user, err := s.UpgradeToPremium(ctx, "u2", models.PlanYearly)
	require.NoError(t, err)
	assert.True(t, user.IsPremium)
	assert.Equal(t, 980+PointsPremium, user.HempPoints)

	revenue, err := s.GetRevenue(ctx)
	require.NoError(t, err)
	require.Len(t, revenue, 1)
	assert.Equal(t, models.RevenuePremium, revenue[0].Source)
	assert.True(t, revenue[0].Amount.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, "NPR", revenue[0].Currency)

	_, err = s.UpgradeToPremium(ctx, "u2", models.PremiumPlan("lifetime"))
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	_, err = s.UpgradeToPremium(ctx, "missing", models.PlanMonthly)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
	revenue, err = s.GetRevenue(ctx)
	require.NoError(t, err)
	assert.Len(t, revenue, 1)
}

func TestLoginAppliesDailyBonusOnce(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	result, err := s.Login(ctx, "USER@example.com", "password123")
	require.NoError(t, err)
	assert.True(t, result.DailyBonusAwarded)
	assert.Equal(t, 1420+PointsDailyLogin, result.User.HempPoints)
	assert.Equal(t, "2025-05-01", result.User.LastLogin)

	result, err = s.Login(ctx, "user@example.com", "password123")
	require.NoError(t, err)
	assert.False(t, result.DailyBonusAwarded)
	assert.Equal(t, 1420+PointsDailyLogin, result.User.HempPoints)

	_, err = s.Login(ctx, "user@example.com", "wrong")
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidCredentials))
	_, err = s.Login(ctx, "nobody@example.com", "password123")
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidCredentials))

	_, err = s.RecordDailyLogin(ctx, "missing")
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}
