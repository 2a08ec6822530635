package store

import (
	"context"
	"sort"

	"hemp-commons/internal/models"
	"hemp-commons/internal/utils"
)

// GetComments returns the post's comments as a thread tree. Siblings are
// ordered oldest first; a comment whose parent is not among the post's
// comments is treated as a root.
func (s *Store) GetComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}

	authors := userIndex(getCollection[models.User](ctx, s, KeyUsers))
	var flat []*models.Comment
	for _, c := range getCollection[models.Comment](ctx, s, KeyComments) {
		if c.PostID != postID {
			continue
		}
		c.Author = resolveAuthor(authors, c.UserID)
		c.Replies = nil
		flat = append(flat, &c)
	}
	sort.SliceStable(flat, func(i, j int) bool {
		return flat[i].CreatedAt.Before(flat[j].CreatedAt)
	})

	return buildThread(flat), nil
}

func buildThread(flat []*models.Comment) []*models.Comment {
	byID := make(map[string]*models.Comment, len(flat))
	for _, c := range flat {
		byID[c.ID] = c
	}

	roots := make([]*models.Comment, 0)
	for _, c := range flat {
		if parent, ok := byID[c.ParentID]; ok && c.ParentID != "" && parent != c {
			parent.Replies = append(parent.Replies, c)
			continue
		}
		roots = append(roots, c)
	}
	return roots
}

// AddComment posts a comment and applies its side effects: the post's comment
// count, the commenter's points, and a notification to the post author.
func (s *Store) AddComment(ctx context.Context, in models.NewCommentInput) (*models.Comment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}

	posts, err := loadCollection[models.Post](ctx, s, KeyPosts)
	if err != nil {
		return nil, err
	}
	postIdx := -1
	for i := range posts {
		if posts[i].ID == in.PostID {
			postIdx = i
			break
		}
	}
	if postIdx == -1 {
		return nil, utils.NewNotFoundError("post", in.PostID)
	}

	comments, err := loadCollection[models.Comment](ctx, s, KeyComments)
	if err != nil {
		return nil, err
	}
	if in.ParentID != "" {
		parentOK := false
		for _, c := range comments {
			if c.ID == in.ParentID {
				parentOK = c.PostID == in.PostID
				break
			}
		}
		if !parentOK {
			return nil, utils.NewInvalidInputError("parent comment " + in.ParentID + " is not on post " + in.PostID)
		}
	}

	comment := models.NewComment(s.newID(), in, s.timestamp())
	comments = append(comments, comment)
	if err := setCollection(ctx, s, KeyComments, comments); err != nil {
		return nil, err
	}

	count := 0
	for _, c := range comments {
		if c.PostID == in.PostID {
			count++
		}
	}
	posts[postIdx].CommentCount = count
	if err := setCollection(ctx, s, KeyPosts, posts); err != nil {
		return nil, err
	}

	if err := s.awardPoints(ctx, in.UserID, PointsCreateComment, models.ReasonCreateComment); err != nil {
		return nil, err
	}

	postAuthor := posts[postIdx].UserID
	if postAuthor != in.UserID {
		if err := s.createNotification(ctx, postAuthor, in.UserID, models.NotificationComment, "commented on your post", in.PostID); err != nil {
			return nil, err
		}
	}

	authors := userIndex(getCollection[models.User](ctx, s, KeyUsers))
	comment.Author = resolveAuthor(authors, comment.UserID)
	return &comment, nil
}
