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

	"laundry/cmd"
	"laundry/internal/adapters/out/postgres"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	logger := cmd.NewLogger(configs.LogLevel)

	gormDB, err := postgres.Open(configs.DSN(), cmd.NewGormLogger(logger))
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err := postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	var redisClient redis.UniversalClient
	if configs.RedisAddr != "" {
		redisClient = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{configs.RedisAddr},
			Password: configs.RedisPassword,
			DB:       configs.RedisDB,
		})
		defer redisClient.Close()
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, redisClient, logger)
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.WithError(err).Error("Closing resources failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if configs.JobsEnabled {
		jobManager, err := app.CreateJobManager()
		if err != nil {
			log.Fatalf("Error creating jobs: %v", err)
		}
		if err := jobManager.StartAll(); err != nil {
			log.Fatalf("Error starting jobs: %v", err)
		}
		defer jobManager.StopAll()
	}

	e, err := app.CreateHTTPServer(ctx)
	if err != nil {
		log.Fatalf("Error creating http server: %v", err)
	}
	startWebServer(ctx, e, configs.HTTPPort)
}

func startWebServer(ctx context.Context, e *echo.Echo, port string) {
	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Error(err)
	}
}
