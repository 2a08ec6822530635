package handlers

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"hemp-commons/internal/engine"
	"hemp-commons/internal/models"
	"hemp-commons/internal/store"
	"hemp-commons/internal/utils"
)

// SponsoredPostRequest is a post plus its campaign budget in NPR. A zero
// budget books the default.
type SponsoredPostRequest struct {
	models.NewPostInput
	Budget decimal.Decimal `json:"budget"`
}

type LikeRequest struct {
	UserID string `json:"user_id"`
}

type LikeResponse struct {
	Liked bool         `json:"liked"`
	Post  *models.Post `json:"post"`
}

type CommentRequest struct {
	UserID   string `json:"user_id"`
	ParentID string `json:"parent_id"`
	Content  string `json:"content"`
}

// HandleGetPosts serves the feed, optionally filtered by ?category=.
func (s *Server) HandleGetPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := models.PostCategory(r.URL.Query().Get("category"))
		if category != "" && category != models.CategoryAll && !category.Valid() {
			writeError(w, utils.NewInvalidInputError("unknown category: "+string(category)))
			return
		}

		ctx, cancel := s.requestContext(r)
		defer cancel()
		posts, err := engine.Execute(ctx, s.Engine, "get_posts", func(ctx context.Context, st *store.Store) ([]models.Post, error) {
			return st.GetPosts(ctx, category)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, posts)
	}
}

func (s *Server) HandleGetPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		ctx, cancel := s.requestContext(r)
		defer cancel()
		post, err := engine.Execute(ctx, s.Engine, "get_post", func(ctx context.Context, st *store.Store) (*models.Post, error) {
			return st.GetPostByID(ctx, id)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		if post == nil {
			writeError(w, utils.NewNotFoundError("post", id))
			return
		}
		writeJSON(w, http.StatusOK, post)
	}
}

func (s *Server) HandleCreatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.NewPostInput
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		ctx, cancel := s.requestContext(r)
		defer cancel()
		post, err := engine.Execute(ctx, s.Engine, "create_post", func(ctx context.Context, st *store.Store) (*models.Post, error) {
			return st.CreatePost(ctx, req)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, post)
	}
}

func (s *Server) HandleCreateSponsoredPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SponsoredPostRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		ctx, cancel := s.requestContext(r)
		defer cancel()
		post, err := engine.Execute(ctx, s.Engine, "create_sponsored_post", func(ctx context.Context, st *store.Store) (*models.Post, error) {
			return st.CreateSponsoredPost(ctx, req.NewPostInput, req.Budget)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, post)
	}
}

func (s *Server) HandleToggleLike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		var req LikeRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		ctx, cancel := s.requestContext(r)
		defer cancel()
		resp, err := engine.Execute(ctx, s.Engine, "toggle_like", func(ctx context.Context, st *store.Store) (*LikeResponse, error) {
			liked, err := st.ToggleLike(ctx, id, req.UserID)
			if err != nil {
				return nil, err
			}
			post, err := st.GetPostByID(ctx, id)
			if err != nil {
				return nil, err
			}
			return &LikeResponse{Liked: liked, Post: post}, nil
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) HandleGetComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		ctx, cancel := s.requestContext(r)
		defer cancel()
		comments, err := engine.Execute(ctx, s.Engine, "get_comments", func(ctx context.Context, st *store.Store) ([]*models.Comment, error) {
			return st.GetComments(ctx, id)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, comments)
	}
}

func (s *Server) HandleAddComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CommentRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		in := models.NewCommentInput{
			PostID:   r.PathValue("id"),
			UserID:   req.UserID,
			ParentID: req.ParentID,
			Content:  req.Content,
		}

		ctx, cancel := s.requestContext(r)
		defer cancel()
		comment, err := engine.Execute(ctx, s.Engine, "add_comment", func(ctx context.Context, st *store.Store) (*models.Comment, error) {
			return st.AddComment(ctx, in)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, comment)
	}
}
