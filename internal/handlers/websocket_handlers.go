package handlers

import (
	"net/http"

	ws "github.com/gorilla/websocket"

	"hemp-commons/internal/middleware"
	"hemp-commons/internal/utils"
	"hemp-commons/internal/websocket"
)

func (s *Server) upgrader() *ws.Upgrader {
	cors := middleware.DefaultCORSConfig(s.AllowedOrigins)
	return &ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || cors.OriginAllowed(origin)
		},
	}
}

// HandleWebSocket subscribes a connection to the notifications of ?userId=.
// Identity is taken on trust; there is no authentication.
func (s *Server) HandleWebSocket() http.HandlerFunc {
	upgrader := s.upgrader()
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("userId")
		if userID == "" {
			writeError(w, utils.NewInvalidInputError("userId query parameter is required"))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.WithError(err).WithField("user", userID).Warn("WebSocket upgrade failed")
			return
		}

		client := websocket.NewClient(s.Hub, userID, conn)
		if !s.Hub.RegisterClient(client) {
			log.WithField("user", userID).Warn("WebSocket hub stopped, closing connection")
			conn.Close()
			return
		}
		log.WithField("user", userID).Info("WebSocket client connected")

		go client.WritePump()
		go client.ReadPump()
	}
}
