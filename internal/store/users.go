package store

import (
	"context"
	"fmt"
	"strings"

	"hemp-commons/internal/models"
	"hemp-commons/internal/utils"
)

// GetUserByEmail matches case-insensitively. A miss returns nil, nil.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	return s.userByEmail(ctx, email), nil
}

func (s *Store) userByEmail(ctx context.Context, email string) *models.User {
	email = strings.TrimSpace(email)
	for _, u := range getCollection[models.User](ctx, s, KeyUsers) {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found
		}
	}
	return nil
}

// GetUserByID returns nil, nil when the user does not exist.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	return s.userByID(ctx, id), nil
}

func (s *Store) userByID(ctx context.Context, id string) *models.User {
	users := getCollection[models.User](ctx, s, KeyUsers)
	if idx := findUser(users, id); idx != -1 {
		return &users[idx]
	}
	return nil
}

// CreateUser registers an account and credits the registration bonus. The
// returned record reflects the post-bonus balance.
func (s *Store) CreateUser(ctx context.Context, in models.NewUserInput) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}

	if s.userByEmail(ctx, in.Email) != nil {
		return nil, utils.NewDuplicateEmailError(strings.TrimSpace(in.Email))
	}

	users, err := loadCollection[models.User](ctx, s, KeyUsers)
	if err != nil {
		return nil, err
	}
	user := models.NewUser(s.newID(), in, s.timestamp())
	users = append(users, user)
	if err := setCollection(ctx, s, KeyUsers, users); err != nil {
		return nil, err
	}

	if err := s.awardPoints(ctx, user.ID, PointsRegistration, models.ReasonRegister); err != nil {
		return nil, err
	}

	log.WithField("user", user.ID).Info("User registered")
	if created := s.userByID(ctx, user.ID); created != nil {
		return created, nil
	}
	return &user, nil
}

// UpdateUser merges a partial profile edit.
func (s *Store) UpdateUser(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	return s.updateUser(ctx, id, update)
}

func (s *Store) updateUser(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
	users, err := loadCollection[models.User](ctx, s, KeyUsers)
	if err != nil {
		return nil, err
	}
	idx := findUser(users, id)
	if idx == -1 {
		return nil, utils.NewNotFoundError("user", id)
	}
	update.Apply(&users[idx])
	if err := setCollection(ctx, s, KeyUsers, users); err != nil {
		return nil, err
	}
	updated := users[idx]
	return &updated, nil
}

// UpgradeToPremium is one-way: there is no downgrade.
func (s *Store) UpgradeToPremium(ctx context.Context, userID string, plan models.PremiumPlan) (*models.User, error) {
	amount, err := plan.Price()
	if err != nil {
		return nil, err
	}
	ctx, err = s.begin(ctx)
	if err != nil {
		return nil, err
	}

	premium := true
	if _, err := s.updateUser(ctx, userID, models.UserUpdate{IsPremium: &premium}); err != nil {
		return nil, err
	}
	description := fmt.Sprintf("Premium Subscription (%s) - %s", plan, userID)
	if err := s.recordRevenue(ctx, models.RevenuePremium, amount, description); err != nil {
		return nil, err
	}
	if err := s.awardPoints(ctx, userID, PointsPremium, models.ReasonPremiumBonus); err != nil {
		return nil, err
	}
	return s.userByID(ctx, userID), nil
}

// LoginResult is the outcome of a successful simulated sign-in.
type LoginResult struct {
	User              models.User `json:"user"`
	DailyBonusAwarded bool        `json:"daily_bonus_awarded"`
}

// Login checks the stored demo password verbatim and applies the daily login
// bonus.
func (s *Store) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}

	user := s.userByEmail(ctx, email)
	if user == nil || user.PasswordHash != password {
		return nil, utils.NewAppError(utils.ErrInvalidCredentials, "Invalid credentials", nil)
	}

	awarded, err := s.recordDailyLogin(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: *s.userByID(ctx, user.ID), DailyBonusAwarded: awarded}, nil
}

// RecordDailyLogin grants the daily bonus once per calendar day.
func (s *Store) RecordDailyLogin(ctx context.Context, userID string) (bool, error) {
	ctx, err := s.begin(ctx)
	if err != nil {
		return false, err
	}
	return s.recordDailyLogin(ctx, userID)
}

func (s *Store) recordDailyLogin(ctx context.Context, userID string) (bool, error) {
	user := s.userByID(ctx, userID)
	if user == nil {
		return false, utils.NewNotFoundError("user", userID)
	}
	today := s.today()
	if user.LastLogin == today {
		return false, nil
	}
	if _, err := s.updateUser(ctx, userID, models.UserUpdate{LastLogin: &today}); err != nil {
		return false, err
	}
	if err := s.awardPoints(ctx, userID, PointsDailyLogin, models.ReasonDailyLogin); err != nil {
		return false, err
	}
	return true, nil
}
