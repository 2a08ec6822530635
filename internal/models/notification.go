package models

import "time"

type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
	NotificationMention NotificationType = "mention"
	NotificationSystem  NotificationType = "system"
)

// Notification stores the actor's display fields as they were when it was written.
type Notification struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	ActorID     string           `json:"actor_id"`
	ActorName   string           `json:"actor_name"`
	ActorAvatar string           `json:"actor_avatar"`
	Type        NotificationType `json:"type"`
	Content     string           `json:"content"`
	Read        bool             `json:"read"`
	RelatedID   string           `json:"related_id,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

type Follow struct {
	ID          string    `json:"id"`
	FollowerID  string    `json:"follower_id"`
	FollowingID string    `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}
