package handlers

import (
	"context"
	"net/http"

	"hemp-commons/internal/engine"
	"hemp-commons/internal/models"
	"hemp-commons/internal/store"
)

type BallotRequest struct {
	UserID   string `json:"user_id"`
	OptionID string `json:"option_id"`
}

type CourseProgressRequest struct {
	UserID           string `json:"user_id"`
	ModulesCompleted int    `json:"modules_completed"`
}

type DonationRequest struct {
	Amount int `json:"amount"`
}

func (s *Server) HandleGetVotes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := s.requestContext(r)
		defer cancel()
		votes, err := engine.Execute(ctx, s.Engine, "get_votes", func(ctx context.Context, st *store.Store) ([]models.CommunityVote, error) {
			return st.GetVotes(ctx)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, votes)
	}
}

func (s *Server) HandleCastVote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		voteID := r.PathValue("id")
		var req BallotRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		ctx, cancel := s.requestContext(r)
		defer cancel()
		vote, err := engine.Execute(ctx, s.Engine, "cast_vote", func(ctx context.Context, st *store.Store) (*models.CommunityVote, error) {
			return st.CastVote(ctx, voteID, req.OptionID, req.UserID)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, vote)
	}
}

func (s *Server) HandleGetCourses() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := s.requestContext(r)
		defer cancel()
		courses, err := engine.Execute(ctx, s.Engine, "get_courses", func(ctx context.Context, st *store.Store) ([]models.Course, error) {
			return st.GetCourses(ctx)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, courses)
	}
}

func (s *Server) HandleCourseProgress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := r.PathValue("id")
		var req CourseProgressRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		ctx, cancel := s.requestContext(r)
		defer cancel()
		progress, err := engine.Execute(ctx, s.Engine, "course_progress", func(ctx context.Context, st *store.Store) (*models.LearningProgress, error) {
			return st.UpdateCourseProgress(ctx, req.UserID, courseID, req.ModulesCompleted)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, progress)
	}
}

func (s *Server) HandleLearningProgress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.PathValue("id")
		ctx, cancel := s.requestContext(r)
		defer cancel()
		progress, err := engine.Execute(ctx, s.Engine, "learning_progress", func(ctx context.Context, st *store.Store) ([]models.LearningProgress, error) {
			return st.GetLearningProgress(ctx, userID)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, progress)
	}
}

func (s *Server) HandleGetWelfareActivities() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := s.requestContext(r)
		defer cancel()
		activities, err := engine.Execute(ctx, s.Engine, "welfare_activities", func(ctx context.Context, st *store.Store) ([]models.WelfareActivity, error) {
			return st.GetWelfareActivities(ctx)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, activities)
	}
}

func (s *Server) HandleLogWelfareActivity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.WelfareActivityInput
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		ctx, cancel := s.requestContext(r)
		defer cancel()
		activity, err := engine.Execute(ctx, s.Engine, "log_welfare_activity", func(ctx context.Context, st *store.Store) (*models.WelfareActivity, error) {
			return st.LogWelfareActivity(ctx, req)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, activity)
	}
}

func (s *Server) HandleWelfareStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := s.requestContext(r)
		defer cancel()
		stats, err := engine.Execute(ctx, s.Engine, "welfare_stats", func(ctx context.Context, st *store.Store) (*models.WelfareStats, error) {
			return st.GetWelfareStats(ctx)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// HandleDonation spends the user's points on the welfare pool and returns the
// updated balance.
func (s *Server) HandleDonation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.PathValue("id")
		var req DonationRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		ctx, cancel := s.requestContext(r)
		defer cancel()
		user, err := engine.Execute(ctx, s.Engine, "donate_points", func(ctx context.Context, st *store.Store) (*models.User, error) {
			if err := st.DonatePoints(ctx, userID, req.Amount); err != nil {
				return nil, err
			}
			return st.GetUserByID(ctx, userID)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, publicUser(user))
	}
}
