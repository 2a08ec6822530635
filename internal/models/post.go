package models

import (
	"fmt"
	"strings"
	"time"

	"hemp-commons/internal/utils"
)

type PostCategory string

const (
	CategoryEducation     PostCategory = "Hemp Education"
	CategoryGrowing       PostCategory = "Growing Tips"
	CategoryProducts      PostCategory = "Products"
	CategoryAnimalWelfare PostCategory = "Animal Welfare"
	CategoryNepalNews     PostCategory = "Nepal News"
	CategoryGeneral       PostCategory = "General Discussion"

	// CategoryAll disables feed filtering.
	CategoryAll PostCategory = "All"
)

var PostCategories = []PostCategory{
	CategoryEducation,
	CategoryGrowing,
	CategoryProducts,
	CategoryAnimalWelfare,
	CategoryNepalNews,
	CategoryGeneral,
}

func (c PostCategory) Valid() bool {
	for _, known := range PostCategories {
		if c == known {
			return true
		}
	}
	return false
}

type Post struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	Author       *User        `json:"author,omitempty"` // joined at read time, never persisted
	Title        string       `json:"title"`
	Content      string       `json:"content"`
	ImageURL     string       `json:"image_url,omitempty"`
	Category     PostCategory `json:"category"`
	Likes        int          `json:"likes"`
	LikedBy      []string     `json:"liked_by"`
	CommentCount int          `json:"comment_count"`
	CreatedAt    time.Time    `json:"created_at"`
	IsSponsored  bool         `json:"is_sponsored"`
}

// HasLiked reports whether userID is in the liked-by set.
func (p *Post) HasLiked(userID string) bool {
	for _, id := range p.LikedBy {
		if id == userID {
			return true
		}
	}
	return false
}

type NewPostInput struct {
	UserID   string       `json:"user_id"`
	Title    string       `json:"title"`
	Content  string       `json:"content"`
	ImageURL string       `json:"image_url"`
	Category PostCategory `json:"category"`
}

func (in NewPostInput) Validate() error {
	if strings.TrimSpace(in.UserID) == "" {
		return utils.NewInvalidInputError("user_id is required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return utils.NewInvalidInputError("title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return utils.NewInvalidInputError("content is required")
	}
	if !in.Category.Valid() {
		return utils.NewInvalidInputError(fmt.Sprintf("unknown category: %q", in.Category))
	}
	return nil
}

func NewPost(id string, in NewPostInput, sponsored bool, now time.Time) Post {
	return Post{
		ID:          id,
		UserID:      in.UserID,
		Title:       strings.TrimSpace(in.Title),
		Content:     in.Content,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
		LikedBy:     []string{},
		CreatedAt:   now,
		IsSponsored: sponsored,
	}
}
