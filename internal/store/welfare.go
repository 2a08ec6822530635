package store

import (
	"context"
	"fmt"

	"hemp-commons/internal/models"
)

// LogWelfareActivity records a user-submitted activity (unverified) and
// credits the welfare bonus.
func (s *Store) LogWelfareActivity(ctx context.Context, in models.WelfareActivityInput) (*models.WelfareActivity, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	return s.logWelfareActivity(ctx, in, false)
}

func (s *Store) logWelfareActivity(ctx context.Context, in models.WelfareActivityInput, verified bool) (*models.WelfareActivity, error) {
	activity := models.NewWelfareActivity(s.newID(), in, verified, s.timestamp())

	activities, err := loadCollection[models.WelfareActivity](ctx, s, KeyWelfare)
	if err != nil {
		return nil, err
	}
	activities = append([]models.WelfareActivity{activity}, activities...)
	if err := setCollection(ctx, s, KeyWelfare, activities); err != nil {
		return nil, err
	}

	if err := s.awardPoints(ctx, in.UserID, PointsWelfare, models.ReasonAnimalWelfare); err != nil {
		return nil, err
	}
	return &activity, nil
}

func donationDescription(amount int) string {
	return fmt.Sprintf("Donated %d Hemp Points", amount)
}

// GetWelfareActivities returns the activity log, newest first.
func (s *Store) GetWelfareActivities(ctx context.Context) ([]models.WelfareActivity, error) {
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	return getCollection[models.WelfareActivity](ctx, s, KeyWelfare), nil
}

func (s *Store) GetWelfareStats(ctx context.Context) (*models.WelfareStats, error) {
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	stats := &models.WelfareStats{}
	for _, a := range getCollection[models.WelfareActivity](ctx, s, KeyWelfare) {
		stats.TotalActivities++
		stats.TotalVolunteerHours += a.Hours
		stats.TotalDonations += a.DonationAmount
	}
	return stats, nil
}
