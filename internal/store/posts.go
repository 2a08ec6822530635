package store

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"hemp-commons/internal/models"
	"hemp-commons/internal/utils"
)

// DefaultSponsoredBudget is the campaign budget used when none is given.
var DefaultSponsoredBudget = decimal.NewFromInt(1000)

// GetPosts returns posts joined with their authors, newest first. An empty
// category or "All" disables filtering.
func (s *Store) GetPosts(ctx context.Context, category models.PostCategory) ([]models.Post, error) {
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}

	posts := getCollection[models.Post](ctx, s, KeyPosts)
	authors := userIndex(getCollection[models.User](ctx, s, KeyUsers))

	result := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if category != "" && category != models.CategoryAll && p.Category != category {
			continue
		}
		p.Author = resolveAuthor(authors, p.UserID)
		result = append(result, p)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// GetPostByID returns nil, nil when the post does not exist.
func (s *Store) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range getCollection[models.Post](ctx, s, KeyPosts) {
		if p.ID == id {
			authors := userIndex(getCollection[models.User](ctx, s, KeyUsers))
			p.Author = resolveAuthor(authors, p.UserID)
			return &p, nil
		}
	}
	return nil, nil
}

func (s *Store) CreatePost(ctx context.Context, in models.NewPostInput) (*models.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	return s.createPost(ctx, in, false)
}

// CreateSponsoredPost publishes a promoted post and books its budget as revenue.
func (s *Store) CreateSponsoredPost(ctx context.Context, in models.NewPostInput, budget decimal.Decimal) (*models.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if budget.IsZero() {
		budget = DefaultSponsoredBudget
	}
	if budget.IsNegative() {
		return nil, utils.NewInvalidInputError("campaign budget must be positive")
	}
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}

	post, err := s.createPost(ctx, in, true)
	if err != nil {
		return nil, err
	}
	if err := s.recordRevenue(ctx, models.RevenueSponsored, budget, "Sponsored Post: "+post.Title); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *Store) createPost(ctx context.Context, in models.NewPostInput, sponsored bool) (*models.Post, error) {
	post := models.NewPost(s.newID(), in, sponsored, s.timestamp())

	posts, err := loadCollection[models.Post](ctx, s, KeyPosts)
	if err != nil {
		return nil, err
	}
	posts = append([]models.Post{post}, posts...)
	if err := setCollection(ctx, s, KeyPosts, posts); err != nil {
		return nil, err
	}
	if err := s.awardPoints(ctx, in.UserID, PointsCreatePost, models.ReasonCreatePost); err != nil {
		return nil, err
	}

	authors := userIndex(getCollection[models.User](ctx, s, KeyUsers))
	post.Author = resolveAuthor(authors, post.UserID)
	log.WithField("post", post.ID).WithField("sponsored", sponsored).Info("Post created")
	return &post, nil
}

// ToggleLike flips userID's like on a post and reports whether the post is now
// liked. The liked-by set is authoritative; the count is derived from it.
func (s *Store) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	if userID == "" {
		return false, utils.NewInvalidInputError("user_id is required")
	}
	ctx, err := s.begin(ctx)
	if err != nil {
		return false, err
	}

	posts, err := loadCollection[models.Post](ctx, s, KeyPosts)
	if err != nil {
		return false, err
	}
	idx := -1
	for i := range posts {
		if posts[i].ID == postID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, utils.NewNotFoundError("post", postID)
	}

	post := &posts[idx]
	liked := !post.HasLiked(userID)
	if liked {
		post.LikedBy = append(post.LikedBy, userID)
	} else {
		remaining := make([]string, 0, len(post.LikedBy))
		for _, id := range post.LikedBy {
			if id != userID {
				remaining = append(remaining, id)
			}
		}
		post.LikedBy = remaining
	}
	post.Likes = len(post.LikedBy)

	if err := setCollection(ctx, s, KeyPosts, posts); err != nil {
		return false, err
	}

	if liked && post.UserID != userID {
		if err := s.awardPoints(ctx, post.UserID, PointsReceiveLike, models.ReasonReceiveLike); err != nil {
			return liked, err
		}
		if err := s.createNotification(ctx, post.UserID, userID, models.NotificationLike, "liked your post", postID); err != nil {
			return liked, err
		}
	}
	return liked, nil
}
