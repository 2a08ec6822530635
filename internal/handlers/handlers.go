package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"hemp-commons/internal/engine"
	"hemp-commons/internal/utils"
	"hemp-commons/internal/websocket"
)

var log = logrus.WithField("component", "http")

const maxBodyBytes = 1 << 20

// Server holds the HTTP dependencies. All store access goes through Engine.
type Server struct {
	Engine         *engine.Engine
	Metrics        *utils.MetricsCollector
	Hub            *websocket.Hub
	RequestTimeout time.Duration

	// Both are read by Routes.
	AllowedOrigins []string
	ExposeMetrics  bool
}

func NewServer(
	eng *engine.Engine,
	metrics *utils.MetricsCollector,
	hub *websocket.Hub,
	requestTimeout time.Duration,
) *Server {
	if requestTimeout <= 0 {
		requestTimeout = engine.DefaultTimeout
	}
	return &Server{
		Engine:         eng,
		Metrics:        metrics,
		Hub:            hub,
		RequestTimeout: requestTimeout,
		ExposeMetrics:  true,
	}
}

// Routes registers every endpoint on a new mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.HandleHealth())
	if s.ExposeMetrics {
		mux.Handle("GET /metrics", s.Metrics.Handler())
	}
	mux.HandleFunc("GET /metrics/business", s.HandleBusinessMetrics())
	mux.HandleFunc("GET /leaderboard", s.HandleLeaderboard())

	mux.HandleFunc("POST /users", s.HandleUserRegistration())
	mux.HandleFunc("POST /login", s.HandleUserLogin())
	mux.HandleFunc("GET /users/{id}", s.HandleGetUser())
	mux.HandleFunc("PATCH /users/{id}", s.HandleUpdateUser())
	mux.HandleFunc("GET /users/{id}/stats", s.HandleUserStats())
	mux.HandleFunc("POST /users/{id}/premium", s.HandleUpgradePremium())
	mux.HandleFunc("POST /users/{id}/daily-login", s.HandleDailyLogin())
	mux.HandleFunc("GET /users/{id}/points", s.HandlePointHistory())
	mux.HandleFunc("GET /users/{id}/notifications", s.HandleGetNotifications())
	mux.HandleFunc("POST /users/{id}/notifications/read", s.HandleMarkNotificationsRead())
	mux.HandleFunc("POST /users/{id}/follow", s.HandleFollow())
	mux.HandleFunc("DELETE /users/{id}/follow", s.HandleUnfollow())
	mux.HandleFunc("GET /users/{id}/following/{target}", s.HandleIsFollowing())
	mux.HandleFunc("GET /users/{id}/wallet", s.HandleGetWallet())
	mux.HandleFunc("PUT /users/{id}/wallet", s.HandleSaveWallet())
	mux.HandleFunc("GET /users/{id}/token-conversions", s.HandleGetTokenConversions())
	mux.HandleFunc("POST /users/{id}/token-conversions", s.HandleTokenConversion())
	mux.HandleFunc("GET /users/{id}/progress", s.HandleLearningProgress())
	mux.HandleFunc("POST /users/{id}/donations", s.HandleDonation())

	mux.HandleFunc("GET /posts", s.HandleGetPosts())
	mux.HandleFunc("POST /posts", s.HandleCreatePost())
	mux.HandleFunc("POST /posts/sponsored", s.HandleCreateSponsoredPost())
	mux.HandleFunc("GET /posts/{id}", s.HandleGetPost())
	mux.HandleFunc("POST /posts/{id}/like", s.HandleToggleLike())
	mux.HandleFunc("GET /posts/{id}/comments", s.HandleGetComments())
	mux.HandleFunc("POST /posts/{id}/comments", s.HandleAddComment())

	mux.HandleFunc("GET /products", s.HandleGetProducts())
	mux.HandleFunc("POST /products/{id}/click", s.HandleAffiliateClick())

	mux.HandleFunc("GET /votes", s.HandleGetVotes())
	mux.HandleFunc("POST /votes/{id}/ballots", s.HandleCastVote())
	mux.HandleFunc("GET /courses", s.HandleGetCourses())
	mux.HandleFunc("POST /courses/{id}/progress", s.HandleCourseProgress())
	mux.HandleFunc("GET /welfare/activities", s.HandleGetWelfareActivities())
	mux.HandleFunc("POST /welfare/activities", s.HandleLogWelfareActivity())
	mux.HandleFunc("GET /welfare/stats", s.HandleWelfareStats())

	mux.HandleFunc("GET /ws", s.HandleWebSocket())
	return mux
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("Failed to encode response")
	}
}

// writeError maps AppError codes to statuses; anything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	var appErr *utils.AppError
	if !errors.As(err, &appErr) {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			writeJSON(w, http.StatusGatewayTimeout, ErrorResponse{Error: err.Error(), Code: utils.ErrActorTimeout})
			return
		}
		log.WithError(err).Error("Unhandled error")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: utils.ErrInternal})
		return
	}

	status := utils.AppErrorToHTTPStatus(appErr.Code)
	if status >= http.StatusInternalServerError {
		log.WithError(err).WithField("code", appErr.Code).Error("Request failed")
	}
	writeJSON(w, status, ErrorResponse{Error: appErr.Message, Code: appErr.Code})
}

// requestContext bounds a request's store work by RequestTimeout.
func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.RequestTimeout)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return utils.NewInvalidInputError("request body is required")
		}
		return utils.NewAppError(utils.ErrInvalidInput, "invalid request body", err)
	}
	return nil
}
