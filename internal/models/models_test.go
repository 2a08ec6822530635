package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hemp-commons/internal/utils"
)

func TestNewUserDefaults(t *testing.T) {
	now := time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)
	in := NewUserInput{Username: " tara ", Email: "tara@example.com", Password: "secret"}
	require.NoError(t, in.Validate())

	user := NewUser("u9", in, now)
	assert.Equal(t, "tara", user.Username)
	assert.Equal(t, 0, user.HempPoints)
	assert.Equal(t, "Nepal", user.Location)
	assert.Equal(t, RoleUser, user.Role)
	assert.Equal(t, "2024-03-09", user.JoinedAt)
	assert.Contains(t, user.Avatar, "seed=tara")
	assert.Empty(t, user.Public().PasswordHash)
	assert.Equal(t, "secret", user.PasswordHash)
}

func TestNewUserInputValidation(t *testing.T) {
	err := NewUserInput{Username: "a"}.Validate()
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	err = NewUserInput{Username: "a", Email: "not-an-email"}.Validate()
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	err = NewUserInput{Email: "a@x.com"}.Validate()
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))
}

func TestUserUpdateApply(t *testing.T) {
	user := User{ID: "u1", Username: "old", Location: "Pokhara", HempPoints: 40, Role: RoleUser}
	bio := "grower"
	premium := true
	update := UserUpdate{Bio: &bio, IsPremium: &premium}
	require.NoError(t, update.Validate())

	update.Apply(&user)
	assert.Equal(t, "grower", user.Bio)
	assert.True(t, user.IsPremium)
	assert.Equal(t, "old", user.Username)
	assert.Equal(t, 40, user.HempPoints)

	badRole := Role("owner")
	assert.Error(t, UserUpdate{Role: &badRole}.Validate())
	empty := "  "
	assert.Error(t, UserUpdate{Username: &empty}.Validate())
}

func TestNewPostInputValidation(t *testing.T) {
	valid := NewPostInput{UserID: "u1", Title: "Retting", Content: "Dew retting notes", Category: CategoryGrowing}
	assert.NoError(t, valid.Validate())

	noCategory := valid
	noCategory.Category = "Cats"
	assert.True(t, utils.IsErrorCode(noCategory.Validate(), utils.ErrInvalidInput))

	all := valid
	all.Category = CategoryAll
	assert.Error(t, all.Validate())

	post := NewPost("p1", valid, true, time.Now())
	assert.Equal(t, 0, post.Likes)
	assert.Empty(t, post.LikedBy)
	assert.NotNil(t, post.LikedBy)
	assert.True(t, post.IsSponsored)
}

func TestPremiumPlanPrice(t *testing.T) {
	monthly, err := PlanMonthly.Price()
	require.NoError(t, err)
	assert.True(t, monthly.Equal(decimal.NewFromInt(500)))

	yearly, err := PlanYearly.Price()
	require.NoError(t, err)
	assert.True(t, yearly.Equal(decimal.NewFromInt(5000)))

	_, err = PremiumPlan("weekly").Price()
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))
}

func TestEstimateTokens(t *testing.T) {
	tokens, rate := EstimateTokens(1420, 0)
	assert.Equal(t, 14, tokens)
	assert.Equal(t, DefaultConversionRate, rate)

	tokens, rate = EstimateTokens(99, 50)
	assert.Equal(t, 1, tokens)
	assert.Equal(t, 50, rate)

	tokens, _ = EstimateTokens(-5, 10)
	assert.Equal(t, 0, tokens)
}

func TestCommunityVoteHelpers(t *testing.T) {
	vote := CommunityVote{
		Options:    []VoteOption{{ID: "a", Votes: 2}, {ID: "b", Votes: 1}},
		VotedUsers: []string{"u1", "u2", "u3"},
	}
	assert.True(t, vote.HasVoted("u2"))
	assert.False(t, vote.HasVoted("u4"))
	assert.Equal(t, 3, vote.TotalVotes())
}

func TestWelfareActivityInput(t *testing.T) {
	assert.Error(t, WelfareActivityInput{Type: WelfareRescue}.Validate())
	assert.Error(t, WelfareActivityInput{UserID: "u1", Type: "Party"}.Validate())
	assert.Error(t, WelfareActivityInput{UserID: "u1", Hours: -1}.Validate())

	act := NewWelfareActivity("w1", WelfareActivityInput{UserID: "u1", Hours: 3}, false, time.Now())
	assert.Equal(t, WelfareVolunteer, act.Type)
	assert.False(t, act.Verified)
}
