package handlers

import (
	"context"
	"net/http"
	"time"

	"hemp-commons/internal/engine"
	"hemp-commons/internal/models"
	"hemp-commons/internal/store"
	"hemp-commons/internal/utils"
)

type HealthResponse struct {
	Status     string         `json:"status"`
	UserCount  int            `json:"user_count"`
	PostCount  int            `json:"post_count"`
	ServerTime time.Time      `json:"server_time"`
	Metrics    utils.Snapshot `json:"metrics"`
}

// HandleHealth reports collection sizes straight from the store actor,
// without the simulated delay.
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := s.requestContext(r)
		defer cancel()

		counts, err := s.Engine.Counts(ctx)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, HealthResponse{
			Status:     "healthy",
			UserCount:  counts.Users,
			PostCount:  counts.Posts,
			ServerTime: time.Now(),
			Metrics:    s.Metrics.Snapshot(),
		})
	}
}

func (s *Server) HandleLeaderboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := s.requestContext(r)
		defer cancel()
		board, err := engine.Execute(ctx, s.Engine, "leaderboard", func(ctx context.Context, st *store.Store) ([]models.User, error) {
			return st.GetLeaderboard(ctx)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, board)
	}
}
