package models

import (
	"strings"
	"time"

	"hemp-commons/internal/utils"
)

// Comment belongs to a post and optionally to a parent comment on the same post.
type Comment struct {
	ID        string     `json:"id"`
	PostID    string     `json:"post_id"`
	ParentID  string     `json:"parent_id,omitempty"`
	UserID    string     `json:"user_id"`
	Author    *User      `json:"author,omitempty"`
	Content   string     `json:"content"`
	Likes     int        `json:"likes"`
	LikedBy   []string   `json:"liked_by"`
	CreatedAt time.Time  `json:"created_at"`
	Replies   []*Comment `json:"replies,omitempty"` // populated by thread reconstruction only
}

type NewCommentInput struct {
	PostID   string `json:"post_id"`
	UserID   string `json:"user_id"`
	ParentID string `json:"parent_id"`
	Content  string `json:"content"`
}

func (in NewCommentInput) Validate() error {
	if strings.TrimSpace(in.PostID) == "" {
		return utils.NewInvalidInputError("post_id is required")
	}
	if strings.TrimSpace(in.UserID) == "" {
		return utils.NewInvalidInputError("user_id is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return utils.NewInvalidInputError("content is required")
	}
	return nil
}

func NewComment(id string, in NewCommentInput, now time.Time) Comment {
	return Comment{
		ID:        id,
		PostID:    in.PostID,
		ParentID:  in.ParentID,
		UserID:    in.UserID,
		Content:   in.Content,
		LikedBy:   []string{},
		CreatedAt: now,
	}
}
