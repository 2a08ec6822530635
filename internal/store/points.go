package store

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"hemp-commons/internal/models"
	"hemp-commons/internal/utils"
)

// Fixed point amounts.
const (
	PointsRegistration  = 25
	PointsDailyLogin    = 5
	PointsCreatePost    = 10
	PointsCreateComment = 5
	PointsReceiveLike   = 2
	PointsVote          = 5
	PointsWelfare       = 20
	PointsPremium       = 100
)

// AwardPoints credits (or, for negative values, debits) a user's balance and
// appends a ledger row. An unknown user is silently ignored.
func (s *Store) AwardPoints(ctx context.Context, userID string, points int, reason string) error {
	ctx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	return s.awardPoints(ctx, userID, points, reason)
}

// awardPoints is the single choke point for balance changes.
func (s *Store) awardPoints(ctx context.Context, userID string, points int, reason string) error {
	users, err := loadCollection[models.User](ctx, s, KeyUsers)
	if err != nil {
		return err
	}
	idx := findUser(users, userID)
	if idx == -1 {
		log.WithField("user", userID).Debug("awardPoints: unknown user, skipping")
		return nil
	}

	// both reads happen before either write so a failed load changes nothing
	history, err := loadCollection[models.PointHistory](ctx, s, KeyPointsHistory)
	if err != nil {
		return err
	}

	users[idx].HempPoints += points
	if err := setCollection(ctx, s, KeyUsers, users); err != nil {
		return err
	}

	history = append(history, models.PointHistory{
		ID:        s.newID(),
		UserID:    userID,
		Points:    points,
		Reason:    reason,
		CreatedAt: s.timestamp(),
	})
	if err := setCollection(ctx, s, KeyPointsHistory, history); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"user":   userID,
		"points": points,
		"reason": reason,
	}).Debug("Points awarded")
	return nil
}

// GetPointHistory returns a user's ledger rows in the order they were written.
func (s *Store) GetPointHistory(ctx context.Context, userID string) ([]models.PointHistory, error) {
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	var rows []models.PointHistory
	for _, row := range getCollection[models.PointHistory](ctx, s, KeyPointsHistory) {
		if row.UserID == userID {
			rows = append(rows, row)
		}
	}
	if rows == nil {
		rows = []models.PointHistory{}
	}
	return rows, nil
}

// LedgerBalance sums a user's signed ledger rows.
func (s *Store) LedgerBalance(ctx context.Context, userID string) (int, error) {
	rows, err := s.GetPointHistory(ctx, userID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, row := range rows {
		total += row.Points
	}
	return total, nil
}

// DonatePoints moves points from a user's balance to the animal welfare pool.
// The donation is itself a welfare activity and earns the welfare bonus.
func (s *Store) DonatePoints(ctx context.Context, userID string, amount int) error {
	if strings.TrimSpace(userID) == "" {
		return utils.NewInvalidInputError("user_id is required")
	}
	if amount <= 0 {
		return utils.NewInvalidInputError("donation amount must be positive")
	}

	ctx, err := s.begin(ctx)
	if err != nil {
		return err
	}

	users, err := loadCollection[models.User](ctx, s, KeyUsers)
	if err != nil {
		return err
	}
	idx := findUser(users, userID)
	if idx == -1 {
		return utils.NewNotFoundError("user", userID)
	}
	if users[idx].HempPoints < amount {
		return utils.NewInsufficientBalanceError(amount, users[idx].HempPoints)
	}

	if err := s.awardPoints(ctx, userID, -amount, models.ReasonDonation); err != nil {
		return err
	}

	_, err = s.logWelfareActivity(ctx, models.WelfareActivityInput{
		UserID:         userID,
		Type:           models.WelfareDonation,
		Description:    donationDescription(amount),
		DonationAmount: amount,
	}, true)
	return err
}
