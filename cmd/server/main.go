package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "taskboard/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"taskboard/internal/config"
	"taskboard/internal/handler"
	"taskboard/internal/logger"
	"taskboard/internal/realtime"
	"taskboard/internal/router"
	"taskboard/internal/service"
	"taskboard/internal/store"
)

const (
	shutdownTimeout = 10 * time.Second
	eventQueueSize  = 256
)

// @title Task Management API
// @version 1.0
// @description Task board API with live task events over WebSocket at /ws.
// @host localhost:5000
// @BasePath /
// @schemes http
func main() {
	if err := run(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			log.Warn("store close failed", "error", err)
		}
	}()
	log.Info("store connected", "driver", cfg.StoreDriver)

	hub := realtime.NewHub(log, cfg.AllowedOrigins)
	defer hub.Close()

	var broadcaster service.Broadcaster = hub
	if cfg.RedisAddr != "" {
		client := realtime.NewRedisClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer client.Close()
		relay := realtime.NewRedisRelay(client, cfg.RedisChannel, hub, log)
		if err := relay.Start(ctx); err != nil {
			log.Warn("redis relay unavailable, broadcasting to local subscribers only", "error", err)
		} else {
			defer relay.Close()
			broadcaster = relay
		}
	}

	events := service.NewEventQueue(broadcaster, log, eventQueueSize)
	defer events.Close()

	// Initialize services
	taskService := service.NewTaskService(st.Tasks, events, log)
	userService := service.NewUserService(st.Users, log)

	e := echo.New()
	e.HideBanner = true
	router.Register(
		e,
		cfg,
		log,
		handler.NewTaskHandler(taskService),
		handler.NewUserHandler(userService),
		hub,
	)

	log.Info("swagger documentation available", "url", swaggerURL(cfg))

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.ServerPort
		log.Info("server is running", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	hub.Close()
	return e.Shutdown(shutdownCtx)
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
