package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"automacorp-client/internal/adapters/input/rest"
	"automacorp-client/internal/adapters/output/mock"
	"automacorp-client/internal/config"
	"automacorp-client/internal/logger"
)

// mockserver serves the in-memory room store over the room API's HTTP
// surface, so clients can run without the real backend.
func main() {
	seed := flag.Int64("seed", time.Now().UnixNano(), "seed for the generated data set")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot load configuration:", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "mockserver")
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot build logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	store := mock.NewStore(cfg.Mock.Rooms, *seed)
	server := rest.NewServer(store, cfg.API.Username, cfg.API.Password, log)

	httpServer := &http.Server{
		Addr:    cfg.Mock.Listen,
		Handler: server,
	}

	go func() {
		log.Info("mock room API listening",
			zap.String("addr", cfg.Mock.Listen),
			zap.Int("rooms", cfg.Mock.Rooms),
			zap.Int64("seed", *seed))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}
