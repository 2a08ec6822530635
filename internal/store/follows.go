package store

import (
	"context"
	"strings"

	"hemp-commons/internal/models"
	"hemp-commons/internal/utils"
)

func validateEdge(followerID, followingID string) error {
	if strings.TrimSpace(followerID) == "" || strings.TrimSpace(followingID) == "" {
		return utils.NewInvalidInputError("follower and following ids are required")
	}
	if followerID == followingID {
		return utils.NewInvalidInputError("users cannot follow themselves")
	}
	return nil
}

func findFollow(follows []models.Follow, followerID, followingID string) int {
	for i, f := range follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			return i
		}
	}
	return -1
}

// FollowUser adds the edge and notifies the followed user. Repeats are no-ops.
func (s *Store) FollowUser(ctx context.Context, followerID, followingID string) error {
	if err := validateEdge(followerID, followingID); err != nil {
		return err
	}
	ctx, err := s.begin(ctx)
	if err != nil {
		return err
	}

	follows, err := loadCollection[models.Follow](ctx, s, KeyFollows)
	if err != nil {
		return err
	}
	if findFollow(follows, followerID, followingID) != -1 {
		return nil
	}
	follows = append(follows, models.Follow{
		ID:          s.newID(),
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   s.timestamp(),
	})
	if err := setCollection(ctx, s, KeyFollows, follows); err != nil {
		return err
	}

	return s.createNotification(ctx, followingID, followerID, models.NotificationFollow, "started following you", followerID)
}

// UnfollowUser removes the edge if present. Earlier follow notifications stay.
func (s *Store) UnfollowUser(ctx context.Context, followerID, followingID string) error {
	if err := validateEdge(followerID, followingID); err != nil {
		return err
	}
	ctx, err := s.begin(ctx)
	if err != nil {
		return err
	}

	follows, err := loadCollection[models.Follow](ctx, s, KeyFollows)
	if err != nil {
		return err
	}
	idx := findFollow(follows, followerID, followingID)
	if idx == -1 {
		return nil
	}
	follows = append(follows[:idx], follows[idx+1:]...)
	return setCollection(ctx, s, KeyFollows, follows)
}

func (s *Store) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	ctx, err := s.begin(ctx)
	if err != nil {
		return false, err
	}
	return findFollow(getCollection[models.Follow](ctx, s, KeyFollows), followerID, followingID) != -1, nil
}
