package handlers

import (
	"context"
	"net/http"

	"hemp-commons/internal/engine"
	"hemp-commons/internal/models"
	"hemp-commons/internal/store"
	"hemp-commons/internal/utils"
)

// LoginRequest represents a request to log in a user
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PremiumRequest struct {
	Plan models.PremiumPlan `json:"plan"`
}

type FollowRequest struct {
	FollowerID string `json:"follower_id"`
}

type DailyLoginResponse struct {
	Awarded bool         `json:"awarded"`
	User    *models.User `json:"user"`
}

type PointsResponse struct {
	Balance int                   `json:"balance"`
	History []models.PointHistory `json:"history"`
}

func publicUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	public := u.Public()
	return &public
}

// HandleUserRegistration handles requests to register a new user
func (s *Server) HandleUserRegistration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.NewUserInput
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		ctx, cancel := s.requestContext(r)
		defer cancel()
		user, err := engine.Execute(ctx, s.Engine, "create_user", func(ctx context.Context, st *store.Store) (*models.User, error) {
			return st.CreateUser(ctx, req)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		log.WithField("user", user.ID).Info("User registered")
		writeJSON(w, http.StatusCreated, publicUser(user))
	}
}

// HandleUserLogin checks the demo credentials and applies the daily bonus.
func (s *Server) HandleUserLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		ctx, cancel := s.requestContext(r)
		defer cancel()
		result, err := engine.Execute(ctx, s.Engine, "login", func(ctx context.Context, st *store.Store) (*store.LoginResult, error) {
			return st.Login(ctx, req.Email, req.Password)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		result.User = result.User.Public()
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) HandleGetUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		ctx, cancel := s.requestContext(r)
		defer cancel()
		user, err := engine.Execute(ctx, s.Engine, "get_user", func(ctx context.Context, st *store.Store) (*models.User, error) {
			return st.GetUserByID(ctx, id)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		if user == nil {
			writeError(w, utils.NewNotFoundError("user", id))
			return
		}
		writeJSON(w, http.StatusOK, publicUser(user))
	}
}

func (s *Server) HandleUpdateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		var update models.UserUpdate
		if err := decodeJSON(r, &update); err != nil {
			writeError(w, err)
			return
		}

		ctx, cancel := s.requestContext(r)
		defer cancel()
		user, err := engine.Execute(ctx, s.Engine, "update_user", func(ctx context.Context, st *store.Store) (*models.User, error) {
			return st.UpdateUser(ctx, id, update)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, publicUser(user))
	}
}

func (s *Server) HandleUserStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		ctx, cancel := s.requestContext(r)
		defer cancel()
		stats, err := engine.Execute(ctx, s.Engine, "user_stats", func(ctx context.Context, st *store.Store) (*models.UserStats, error) {
			return st.GetUserStats(ctx, id)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) HandleUpgradePremium() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		var req PremiumRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		ctx, cancel := s.requestContext(r)
		defer cancel()
		user, err := engine.Execute(ctx, s.Engine, "upgrade_premium", func(ctx context.Context, st *store.Store) (*models.User, error) {
			return st.UpgradeToPremium(ctx, id, req.Plan)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, publicUser(user))
	}
}

func (s *Server) HandleDailyLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		ctx, cancel := s.requestContext(r)
		defer cancel()
		resp, err := engine.Execute(ctx, s.Engine, "daily_login", func(ctx context.Context, st *store.Store) (*DailyLoginResponse, error) {
			awarded, err := st.RecordDailyLogin(ctx, id)
			if err != nil {
				return nil, err
			}
			user, err := st.GetUserByID(ctx, id)
			if err != nil {
				return nil, err
			}
			return &DailyLoginResponse{Awarded: awarded, User: publicUser(user)}, nil
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) HandlePointHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		ctx, cancel := s.requestContext(r)
		defer cancel()
		resp, err := engine.Execute(ctx, s.Engine, "point_history", func(ctx context.Context, st *store.Store) (*PointsResponse, error) {
			history, err := st.GetPointHistory(ctx, id)
			if err != nil {
				return nil, err
			}
			balance := 0
			for _, row := range history {
				balance += row.Points
			}
			return &PointsResponse{Balance: balance, History: history}, nil
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) HandleGetNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		ctx, cancel := s.requestContext(r)
		defer cancel()
		notes, err := engine.Execute(ctx, s.Engine, "get_notifications", func(ctx context.Context, st *store.Store) ([]models.Notification, error) {
			return st.GetNotifications(ctx, id)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, notes)
	}
}

func (s *Server) HandleMarkNotificationsRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		ctx, cancel := s.requestContext(r)
		defer cancel()
		changed, err := engine.Execute(ctx, s.Engine, "mark_notifications_read", func(ctx context.Context, st *store.Store) (int, error) {
			return st.MarkNotificationsRead(ctx, id)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"updated": changed})
	}
}

// HandleFollow makes follower_id follow the user in the path.
func (s *Server) HandleFollow() http.HandlerFunc {
	return s.followEdge("follow", func(ctx context.Context, st *store.Store, follower, following string) error {
		return st.FollowUser(ctx, follower, following)
	})
}

func (s *Server) HandleUnfollow() http.HandlerFunc {
	return s.followEdge("unfollow", func(ctx context.Context, st *store.Store, follower, following string) error {
		return st.UnfollowUser(ctx, follower, following)
	})
}

func (s *Server) followEdge(op string, apply func(ctx context.Context, st *store.Store, follower, following string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		following := r.PathValue("id")
		var req FollowRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		ctx, cancel := s.requestContext(r)
		defer cancel()
		_, err := engine.Execute(ctx, s.Engine, op, func(ctx context.Context, st *store.Store) (bool, error) {
			return true, apply(ctx, st, req.FollowerID, following)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) HandleIsFollowing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		follower, following := r.PathValue("id"), r.PathValue("target")
		ctx, cancel := s.requestContext(r)
		defer cancel()
		ok, err := engine.Execute(ctx, s.Engine, "is_following", func(ctx context.Context, st *store.Store) (bool, error) {
			return st.IsFollowing(ctx, follower, following)
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"following": ok})
	}
}
