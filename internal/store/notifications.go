package store

import (
	"context"

	"hemp-commons/internal/models"
)

// createNotification writes a notification with the actor's current display
// fields. Self-notifications are dropped. The feed keeps the newest
// notificationCap entries across all recipients.
func (s *Store) createNotification(ctx context.Context, recipientID, actorID string, kind models.NotificationType, content, relatedID string) error {
	if recipientID == actorID {
		return nil
	}

	actorName, actorAvatar := "Someone", ""
	if actor := s.userByID(ctx, actorID); actor != nil {
		actorName, actorAvatar = actor.Username, actor.Avatar
	}

	n := models.Notification{
		ID:          s.newID(),
		UserID:      recipientID,
		ActorID:     actorID,
		ActorName:   actorName,
		ActorAvatar: actorAvatar,
		Type:        kind,
		Content:     content,
		RelatedID:   relatedID,
		CreatedAt:   s.timestamp(),
	}

	notifications, err := loadCollection[models.Notification](ctx, s, KeyNotifications)
	if err != nil {
		return err
	}
	notifications = append([]models.Notification{n}, notifications...)
	if len(notifications) > s.notificationCap {
		notifications = notifications[:s.notificationCap]
	}
	if err := setCollection(ctx, s, KeyNotifications, notifications); err != nil {
		return err
	}

	if s.publisher != nil {
		s.publisher.Publish(n)
	}
	return nil
}

// GetNotifications returns the recipient's notifications, newest first.
func (s *Store) GetNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	result := []models.Notification{}
	for _, n := range getCollection[models.Notification](ctx, s, KeyNotifications) {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result, nil
}

// MarkNotificationsRead marks all of a user's notifications read and returns
// how many changed.
func (s *Store) MarkNotificationsRead(ctx context.Context, userID string) (int, error) {
	ctx, err := s.begin(ctx)
	if err != nil {
		return 0, err
	}

	notifications, err := loadCollection[models.Notification](ctx, s, KeyNotifications)
	if err != nil {
		return 0, err
	}
	changed := 0
	for i := range notifications {
		if notifications[i].UserID == userID && !notifications[i].Read {
			notifications[i].Read = true
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	if err := setCollection(ctx, s, KeyNotifications, notifications); err != nil {
		return 0, err
	}
	return changed, nil
}
