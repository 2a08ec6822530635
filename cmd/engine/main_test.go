package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hemp-commons/internal/config"
	"hemp-commons/internal/database"
	"hemp-commons/internal/middleware"
	"hemp-commons/internal/models"
)

func testConfig() *config.Config {
	store := config.DefaultStoreConfig()
	store.SimulatedLatency = 0
	store.AffiliateRevenue = "none"
	return &config.Config{
		Server:         config.DefaultConfig(),
		Storage:        config.DefaultStorageConfig(),
		Store:          store,
		AllowedOrigins: []string{"http://localhost:3000"},
		LogLevel:       "error",
	}
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestIntegrationFlow(t *testing.T) {
	app := NewApp(testConfig(), database.NewMemoryKV())
	srv := httptest.NewServer(app.Handler)
	t.Cleanup(func() {
		srv.Close()
		app.Close()
	})

	// Step 1: register a member
	resp := postJSON(t, srv.URL+"/users", models.NewUserInput{
		Username: "LumbiniWeaver",
		Email:    "weaver@example.com",
		Password: "loom",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
	var member models.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&member))

	// Step 2: the member opens a notification socket
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?userId=" + member.ID
	header := http.Header{"Origin": []string{"http://localhost:3000"}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return app.Hub.ConnectionCount(member.ID) == 1 }, 2*time.Second, 10*time.Millisecond)

	// Step 3: the member posts and a seeded account likes it
	resp = postJSON(t, srv.URL+"/posts", models.NewPostInput{
		UserID:   member.ID,
		Title:    "Allo nettle and hemp blends",
		Content:  "Samples from our cooperative",
		Category: models.CategoryProducts,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))

	resp = postJSON(t, srv.URL+"/posts/"+post.ID+"/like", map[string]string{"user_id": "u2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Step 4: the like arrives over the socket
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var frame struct {
		Type string              `json:"type"`
		Data models.Notification `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &frame))
	assert.Equal(t, "notification", frame.Type)
	assert.Equal(t, models.NotificationLike, frame.Data.Type)
	assert.Equal(t, "KathmanduVibes", frame.Data.ActorName)

	// Step 5: balances reflect registration, post and like
	resp, err = http.Get(srv.URL + "/users/" + member.ID)
	require.NoError(t, err)
	defer resp.Body.Close()
	var updated models.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.Equal(t, 25+10+2, updated.HempPoints)
}

func TestCORSPreflightThroughApp(t *testing.T) {
	app := NewApp(testConfig(), database.NewMemoryKV())
	t.Cleanup(app.Close)

	req := httptest.NewRequest(http.MethodOptions, "/posts", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsCanBeDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Server.MetricsEnabled = false
	app := NewApp(cfg, database.NewMemoryKV())
	t.Cleanup(app.Close)

	rec := httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, err := app.Engine.Counts(context.Background())
	require.NoError(t, err)
}
