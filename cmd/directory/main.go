// cmd/directory/main.go
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

	"projectmembers/internal/chaos"
	"projectmembers/internal/clients"
	"projectmembers/internal/config"
	"projectmembers/internal/directory"
	"projectmembers/internal/logger"
	"projectmembers/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger.Initialize(cfg.LogLevel)

	shutdownTracing, err := telemetry.Setup(context.Background(), "directory", cfg.OTLPEndpoint)
	if err != nil {
		logger.Error("init tracing: %v", err)
		os.Exit(1)
	}

	httpClient := &http.Client{Timeout: cfg.FetchTimeout}
	var faults *chaos.Transport
	if cfg.ChaosEnabled() {
		logger.Warn("fault injection enabled: failure_rate=%.2f latency=%s jitter=%s",
			cfg.ChaosFailureRate, cfg.ChaosLatency, cfg.ChaosJitter)
		faults = chaos.NewTransport(nil, chaos.Config{
			FailureRate: cfg.ChaosFailureRate,
			Latency:     cfg.ChaosLatency,
			Jitter:      cfg.ChaosJitter,
		})
		httpClient.Transport = faults
	}

	usersClient := clients.NewUsersClient(cfg.UsersURL, cfg.FetchTimeout, httpClient)
	svc := directory.NewService(usersClient, directory.Options{
		CacheTTL:         cfg.CacheTTL,
		RefreshPerMinute: cfg.RefreshPerMinute,
	})
	handler := directory.NewHandler(svc)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		fmt.Printf("🚀 Starting Directory Service on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown: %v", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Error("tracing shutdown: %v", err)
	}
	if faults != nil {
		delayed, failed := faults.Stats()
		logger.Info("fault injection: delayed=%d failed=%d", delayed, failed)
	}
	logger.Info("server stopped")
}
