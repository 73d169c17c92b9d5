package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Tyrowin/goquiz/internal/config"
	"github.com/Tyrowin/goquiz/internal/observability"
	"github.com/Tyrowin/goquiz/internal/quiz"
	"github.com/Tyrowin/goquiz/internal/server"
)

func main() {
	// Optional .env for local development; real deployments set QUIZ_* vars.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	store := quiz.NewStore()
	handler := server.NewHandler(store, logger, cfg.WebSocket)
	mux := server.SetupRoutes(handler, cfg.Static.Dir)

	httpServer := server.CreateServer(
		cfg.Server.Addr(),
		mux,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		cfg.Server.IdleTimeout,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.StartServer(httpServer, logger)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		if err := server.ShutdownServer(httpServer, cfg.Server.ShutdownTimeout, logger); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
			os.Exit(1)
		}
	case err := <-errCh:
		if err != nil {
			logger.Fatal("server failed", zap.Error(err))
		}
	}
}
