package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/sirupsen/logrus"

	"hemp-commons/internal/config"
	"hemp-commons/internal/database"
	"hemp-commons/internal/engine"
	"hemp-commons/internal/handlers"
	"hemp-commons/internal/middleware"
	"hemp-commons/internal/store"
	"hemp-commons/internal/utils"
	"hemp-commons/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

// App is the wired service: store actor, notification hub and HTTP handler.
type App struct {
	Engine  *engine.Engine
	Hub     *websocket.Hub
	Metrics *utils.MetricsCollector
	Handler http.Handler

	stopHub context.CancelFunc
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	configureLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logrus.WithError(err).Fatal("Server stopped with error")
	}
}

func configureLogging(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithField("level", cfg.LogLevel).Warn("Unknown LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if cfg.Debug {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

func storeOptions(cfg *config.Config, hub *websocket.Hub) []store.Option {
	var revenue store.RevenuePolicy = store.NoRevenuePolicy{}
	if cfg.Store.AffiliateRevenue == "random" {
		revenue = store.NewRandomRevenuePolicy(cfg.Store.AffiliateProbability, time.Now().UnixNano())
	}
	return []store.Option{
		store.WithLatency(cfg.Store.SimulatedLatency),
		store.WithNotificationCap(cfg.Store.NotificationCap),
		store.WithSeedData(cfg.Store.SeedDemoData),
		store.WithRevenuePolicy(revenue),
		store.WithPublisher(hub),
	}
}

// NewApp wires the service over kv. The caller owns kv.
func NewApp(cfg *config.Config, kv database.KVStore) *App {
	metrics := utils.NewMetricsCollector()
	hub := websocket.NewHub()
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	system := actor.NewActorSystem()
	st := store.New(kv, storeOptions(cfg, hub)...)
	eng := engine.NewEngine(system, st, metrics, cfg.Server.RequestTimeout)

	server := handlers.NewServer(eng, metrics, hub, cfg.Server.RequestTimeout)
	server.AllowedOrigins = cfg.AllowedOrigins
	server.ExposeMetrics = cfg.Server.MetricsEnabled

	var handler http.Handler = server.Routes()
	handler = middleware.CORSMiddleware(middleware.DefaultCORSConfig(cfg.AllowedOrigins))(handler)
	handler = middleware.RequestLogger(logrus.StandardLogger())(handler)

	return &App{
		Engine:  eng,
		Hub:     hub,
		Metrics: metrics,
		Handler: handler,
		stopHub: stopHub,
	}
}

// Close drains the store actor and disconnects websocket clients.
func (a *App) Close() {
	a.Engine.Stop()
	a.stopHub()
}

func run(ctx context.Context, cfg *config.Config) error {
	kv, err := database.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := kv.Close(context.Background()); err != nil {
			logrus.WithError(err).Warn("Failed to close storage")
		}
	}()

	app := NewApp(cfg, kv)
	defer app.Close()

	counts, err := app.Engine.Counts(ctx)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"users":   counts.Users,
		"posts":   counts.Posts,
		"backend": cfg.Storage.Backend,
	}).Info("Store ready")

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", srv.Addr).Info("Starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
