package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caremesh/chat-service/config"
	"github.com/caremesh/chat-service/internal/events"
	"github.com/caremesh/chat-service/internal/pg"
	pgrepo "github.com/caremesh/chat-service/internal/repository/postgres"
	"github.com/caremesh/chat-service/internal/service"
	httpx "github.com/caremesh/chat-service/internal/transport/http"
	"github.com/caremesh/chat-service/internal/transport/ws"
	"github.com/caremesh/chat-service/pkg/logger"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting chat-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- postgres ---
	ctx := context.Background()
	pool, err := pg.NewPool(ctx, pg.Config{
		DSN:             cfg.Postgres.DSN,
		MaxConns:        cfg.Postgres.MaxConns,
		MinConns:        cfg.Postgres.MinConns,
		ApplicationName: cfg.Logging.Service,
	})
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// --- repos ---
	patientLookup := pgrepo.NewPatientLookup(pool)
	clinicianLookup := pgrepo.NewClinicianLookup(pool)
	roomRepo := pgrepo.NewRoomRepoFromPool(pool)
	msgRepo := pgrepo.NewMessageRepoFromPool(pool)
	listRepo := pgrepo.NewChatListRepoFromPool(pool)
	txManager := pgrepo.NewTxManager(pool)

	// --- services ---
	resolver := service.NewResolverService(patientLookup, clinicianLookup)
	roomSvc := service.NewRoomService(roomRepo)
	chatSvc := service.NewChatService(resolver, roomSvc, txManager, msgRepo, listRepo, nil)

	// --- WS Hub & Server ---
	hub := ws.NewHub()
	wsServer := ws.NewServer(hub, chatSvc)
	chatSvc.AddNotifier(wsServer)

	// --- Kafka (опционально) ---
	if cfg.Kafka.Enabled {
		producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		chatSvc.AddNotifier(producer)
		slog.Info("kafka producer enabled", "topic", cfg.Kafka.Topic)
	}

	// --- HTTP ---
	handler := httpx.NewHandler(chatSvc)
	router := httpx.NewRouter(handler, wsServer)
	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(ctxShutdown)
	slog.Info("stopped")
}
