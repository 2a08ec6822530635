package store

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hemp-commons/internal/models"
	"hemp-commons/internal/utils"
)

func findVote(t *testing.T, s *Store, id string) models.CommunityVote {
	t.Helper()
	votes, err := s.GetVotes(context.Background())
	require.NoError(t, err)
	for _, v := range votes {
		if v.ID == id {
			return v
		}
	}
	t.Fatalf("vote %s not found", id)
	return models.CommunityVote{}
}

func TestCastVoteOncePerUser(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	vote, err := s.CastVote(ctx, "v1", "o2", "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, vote.TotalVotes())
	assert.Equal(t, []string{"u1"}, vote.VotedUsers)

	_, err = s.CastVote(ctx, "v1", "o3", "u1")
	assert.True(t, utils.IsErrorCode(err, utils.ErrAlreadyVoted))

	stored := findVote(t, s, "v1")
	assert.Equal(t, 1, stored.TotalVotes())
	assert.Equal(t, 1, stored.Options[1].Votes)

	voter, err := s.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1420+PointsVote, voter.HempPoints)

	// the same user may still vote in a different poll
	_, err = s.CastVote(ctx, "v2", "o1", "u1")
	require.NoError(t, err)
	assertLedgerMatchesBalances(t, s)
}

func TestCastVoteUnknownOptionStillRegistersVoter(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	vote, err := s.CastVote(ctx, "v2", "o9", "u2")
	require.NoError(t, err)
	assert.Zero(t, vote.TotalVotes())
	assert.True(t, vote.HasVoted("u2"))

	voter, err := s.GetUserByID(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 980+PointsVote, voter.HempPoints)
}

func TestCastVoteRejections(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.CastVote(ctx, "v404", "o1", "u1")
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))

	_, err = s.CastVote(ctx, "v1", "o1", "")
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	votes := getCollection[models.CommunityVote](ctx, s, KeyVotes)
	votes[0].Status = models.VoteClosed
	require.NoError(t, setCollection(ctx, s, KeyVotes, votes))

	_, err = s.CastVote(ctx, votes[0].ID, "o1", "u1")
	assert.True(t, utils.IsErrorCode(err, utils.ErrVoteClosed))
	assert.Equal(t, http.StatusConflict, utils.AppErrorToHTTPStatus(utils.ErrorCode(err)))
}

func TestCourseCompletionPaysOnce(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	progress, err := s.UpdateCourseProgress(ctx, "u4", "c3", 1)
	require.NoError(t, err)
	assert.False(t, progress.IsCompleted)

	progress, err = s.UpdateCourseProgress(ctx, "u4", "c3", 3)
	require.NoError(t, err)
	assert.True(t, progress.IsCompleted)

	progress, err = s.UpdateCourseProgress(ctx, "u4", "c3", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, progress.CompletedModules, "completed modules never go down")
	assert.True(t, progress.IsCompleted)

	_, err = s.UpdateCourseProgress(ctx, "u4", "c3", 5)
	require.NoError(t, err)

	learner, err := s.GetUserByID(ctx, "u4")
	require.NoError(t, err)
	assert.Equal(t, 720+50, learner.HempPoints)

	history, err := s.GetPointHistory(ctx, "u4")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Course Completion: Nepal Hemp Law and Compliance", history[1].Reason)
	assert.Equal(t, 50, history[1].Points)

	records, err := s.GetLearningProgress(ctx, "u4")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Rewarded)

	others, err := s.GetLearningProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestCourseProgressRejections(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.UpdateCourseProgress(ctx, "u1", "c99", 1)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))

	_, err = s.UpdateCourseProgress(ctx, "u1", "c1", -1)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	courses, err := s.GetCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 3)
}

func TestDonatePoints(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	err := s.DonatePoints(ctx, "u4", 721)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInsufficientBalance))
	err = s.DonatePoints(ctx, "u4", 0)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))
	err = s.DonatePoints(ctx, "ghost", 10)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))

	donor, err := s.GetUserByID(ctx, "u4")
	require.NoError(t, err)
	assert.Equal(t, 720, donor.HempPoints)
	assert.Empty(t, getCollection[models.WelfareActivity](ctx, s, KeyWelfare))

	require.NoError(t, s.DonatePoints(ctx, "u4", 200))
	donor, err = s.GetUserByID(ctx, "u4")
	require.NoError(t, err)
	assert.Equal(t, 720-200+PointsWelfare, donor.HempPoints)

	activities, err := s.GetWelfareActivities(ctx)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, models.WelfareDonation, activities[0].Type)
	assert.Equal(t, 200, activities[0].DonationAmount)
	assert.Equal(t, "Donated 200 Hemp Points", activities[0].Description)
	assert.True(t, activities[0].Verified)

	// the whole balance can be given away
	require.NoError(t, s.DonatePoints(ctx, "u4", 540))
	assertLedgerMatchesBalances(t, s)
}

func TestWelfareActivitiesAndStats(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	first, err := s.LogWelfareActivity(ctx, models.WelfareActivityInput{
		UserID:      "u3",
		Description: "Fed strays in Patan",
		Hours:       2.5,
	})
	require.NoError(t, err)
	assert.Equal(t, models.WelfareVolunteer, first.Type)
	assert.False(t, first.Verified)

	_, err = s.LogWelfareActivity(ctx, models.WelfareActivityInput{
		UserID: "u3",
		Type:   models.WelfareRescue,
		Hours:  4,
	})
	require.NoError(t, err)
	require.NoError(t, s.DonatePoints(ctx, "u1", 100))

	activities, err := s.GetWelfareActivities(ctx)
	require.NoError(t, err)
	require.Len(t, activities, 3)
	assert.Equal(t, models.WelfareDonation, activities[0].Type, "newest first")
	assert.Equal(t, first.ID, activities[2].ID)

	stats, err := s.GetWelfareStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalActivities)
	assert.InDelta(t, 6.5, stats.TotalVolunteerHours, 0.001)
	assert.Equal(t, 100, stats.TotalDonations)

	rescuer, err := s.GetUserByID(ctx, "u3")
	require.NoError(t, err)
	assert.Equal(t, 850+2*PointsWelfare, rescuer.HempPoints)

	_, err = s.LogWelfareActivity(ctx, models.WelfareActivityInput{UserID: "u3", Type: "Knitting"})
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))
}

func TestWalletAndTokenConversions(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	wallet, err := s.GetWalletAddress(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, wallet)

	_, err = s.SaveWalletAddress(ctx, "u1", "So1anaAddr", models.ChainSolana)
	require.NoError(t, err)
	saved, err := s.SaveWalletAddress(ctx, "u1", "  0xabc  ", models.ChainPolygon)
	require.NoError(t, err)
	assert.Equal(t, "0xabc", saved.Address)
	assert.True(t, saved.Verified)

	wallet, err = s.GetWalletAddress(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, wallet)
	assert.Equal(t, models.ChainPolygon, wallet.Chain)
	assert.Len(t, getCollection[models.WalletAddress](ctx, s, KeyWallets), 1)

	_, err = s.SaveWalletAddress(ctx, "u1", "addr", models.Chain("Dogecoin"))
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	conv, err := s.SaveTokenConversion(ctx, "u1", 1420, 0)
	require.NoError(t, err)
	assert.Equal(t, 14, conv.EstimatedTokens)
	assert.Equal(t, models.DefaultConversionRate, conv.ConversionRate)

	_, err = s.SaveTokenConversion(ctx, "u2", 980, 50)
	require.NoError(t, err)

	mine, err := s.GetTokenConversions(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 1420, mine[0].HempPoints)

	// estimates never touch the balance
	u1, err := s.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1420, u1.HempPoints)
}

func TestLeaderboard(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for i := 0; i < 8; i++ {
		mustCreateUser(t, s, "member"+string(rune('a'+i)))
	}

	board, err := s.GetLeaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, board, 10)
	assert.Equal(t, "u5", board[0].ID)
	assert.Equal(t, "u1", board[1].ID)
	for i := 1; i < len(board); i++ {
		assert.GreaterOrEqual(t, board[i-1].HempPoints, board[i].HempPoints)
	}
	for _, u := range board {
		assert.Empty(t, u.PasswordHash)
	}
}
