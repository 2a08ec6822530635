package store

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"hemp-commons/internal/models"
	"hemp-commons/internal/utils"
)

const leaderboardSize = 10

// rankedUsers orders users by descending balance, keeping stored order on ties.
func rankedUsers(users []models.User) []models.User {
	ranked := append([]models.User(nil), users...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].HempPoints > ranked[j].HempPoints
	})
	return ranked
}

func (s *Store) GetUserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}

	users := getCollection[models.User](ctx, s, KeyUsers)
	if findUser(users, userID) == -1 {
		return nil, utils.NewNotFoundError("user", userID)
	}

	stats := &models.UserStats{}
	for _, p := range getCollection[models.Post](ctx, s, KeyPosts) {
		if p.UserID == userID {
			stats.PostsCount++
		}
	}
	for _, c := range getCollection[models.Comment](ctx, s, KeyComments) {
		if c.UserID == userID {
			stats.CommentsCount++
		}
	}
	for _, f := range getCollection[models.Follow](ctx, s, KeyFollows) {
		if f.FollowingID == userID {
			stats.FollowersCount++
		}
		if f.FollowerID == userID {
			stats.FollowingCount++
		}
	}
	for i, u := range rankedUsers(users) {
		if u.ID == userID {
			stats.Rank = i + 1
			break
		}
	}
	return stats, nil
}

// GetLeaderboard returns the top users by balance, without passwords.
func (s *Store) GetLeaderboard(ctx context.Context) ([]models.User, error) {
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	ranked := rankedUsers(getCollection[models.User](ctx, s, KeyUsers))
	if len(ranked) > leaderboardSize {
		ranked = ranked[:leaderboardSize]
	}
	for i := range ranked {
		ranked[i] = ranked[i].Public()
	}
	return ranked, nil
}

// GetBusinessMetrics folds revenue, clicks, users and posts into one report.
// "Today" is the current UTC calendar date.
func (s *Store) GetBusinessMetrics(ctx context.Context) (*models.BusinessMetrics, error) {
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}

	metrics := &models.BusinessMetrics{
		TotalRevenue: decimal.Zero,
		DailyRevenue: decimal.Zero,
	}
	for _, r := range getCollection[models.RevenueRecord](ctx, s, KeyRevenue) {
		metrics.TotalRevenue = metrics.TotalRevenue.Add(r.Amount)
		if s.isToday(r.Timestamp) {
			metrics.DailyRevenue = metrics.DailyRevenue.Add(r.Amount)
		}
	}
	metrics.AffiliateClicks = len(getCollection[models.AffiliateClick](ctx, s, KeyAffiliateClicks))

	users := getCollection[models.User](ctx, s, KeyUsers)
	metrics.UserEngagement.TotalUsers = len(users)
	for _, u := range users {
		if u.IsPremium {
			metrics.PremiumSubscribers++
		}
	}

	for _, p := range getCollection[models.Post](ctx, s, KeyPosts) {
		if p.IsSponsored {
			metrics.ActiveCampaigns++
		}
		if s.isToday(p.CreatedAt) {
			metrics.UserEngagement.PostsToday++
		}
	}

	active := make(map[string]struct{})
	for _, row := range getCollection[models.PointHistory](ctx, s, KeyPointsHistory) {
		if s.isToday(row.CreatedAt) {
			active[row.UserID] = struct{}{}
		}
	}
	metrics.UserEngagement.ActiveUsersToday = len(active)

	return metrics, nil
}

// Counts is a cheap summary used by health checks.
type Counts struct {
	Users int `json:"users"`
	Posts int `json:"posts"`
}

// Counts reads collection sizes without the simulated delay.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	if err := s.Init(ctx); err != nil {
		return Counts{}, err
	}
	return Counts{
		Users: len(getCollection[models.User](ctx, s, KeyUsers)),
		Posts: len(getCollection[models.Post](ctx, s, KeyPosts)),
	}, nil
}
