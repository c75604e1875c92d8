// cmd/intake-server/main.go
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

	"go.uber.org/zap"

	"certification-intake/internal/common/camunda"
	"certification-intake/internal/common/config"
	"certification-intake/internal/common/database"
	httpclient "certification-intake/internal/common/http"
	"certification-intake/internal/common/logger"
	"certification-intake/internal/common/observability"
	"certification-intake/internal/i18n"
	"certification-intake/internal/relay"
	"certification-intake/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "console")
		boot.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting certification intake server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("destination", cfg.Relay.Destination),
	)
	if cfg.Relay.Destination == config.DestinationWebhook && cfg.Relay.WebhookURL == "" {
		zapLog.Warn("webhook URL is not configured; submissions will fail until " + config.WebhookURLEnv + " is set")
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()
	var readiness []server.ReadinessCheck

	// --- Application ID issuer ---
	local := relay.NewLocalIssuer(cfg.Relay.IDPrefix)
	var issuer relay.IDIssuer = local

	if cfg.Database.Redis.Enabled() {
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 5, time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Warn("redis unavailable, issuing ids in-process only", zap.Error(err))
		} else {
			defer redis.Close()
			issuer = relay.NewSharedIssuer(local, redis, config.GetDuration(cfg.Relay.ReservationTTL), log)
			readiness = append(readiness, server.ReadinessCheck{Name: "redis", Check: redis.Ping})
			zapLog.Info("Redis connected successfully, ids are reserved across replicas")
		}
	}

	// --- Destination ---
	var destination relay.Destination
	switch cfg.Relay.Destination {
	case config.DestinationZeebe:
		var zeebe *camunda.Client
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: cfg.Camunda.Plaintext,
				ConnectionTimeout:      10 * time.Second,
				RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
			})
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		defer zeebe.Close()
		zapLog.Info("Zeebe client connected successfully")

		destination = relay.NewZeebeDestination(zeebe, cfg.Camunda.ProcessID)
		readiness = append(readiness, server.ReadinessCheck{Name: "zeebe", Check: zeebe.HealthCheck})
	default:
		client := httpclient.NewClient(config.GetDuration(cfg.Relay.Timeout))
		destination = relay.NewWebhookDestination(client, cfg.Relay.WebhookURL)
	}

	catalog, err := i18n.Load()
	if err != nil {
		zapLog.Fatal("locale load failed", zap.Error(err))
	}
	for lang, keys := range catalog.Missing() {
		zapLog.Warn("locale keys missing", zap.String("language", string(lang)), zap.Strings("keys", keys))
	}

	router, err := server.NewRouter(server.Deps{
		Config:      cfg,
		Logger:      log,
		Obs:         obs,
		Catalog:     catalog,
		Issuer:      issuer,
		Destination: destination,
		Readiness:   readiness,
	})
	if err != nil {
		zapLog.Fatal("router setup failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error during HTTP server shutdown", zap.Error(err))
	}

	zapLog.Info("Certification intake server stopped")
}
