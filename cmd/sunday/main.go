package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	httpapi "github.com/imolchanov/sunday/internal/api/http"
	"github.com/imolchanov/sunday/internal/config"
	"github.com/imolchanov/sunday/internal/imagecache"
	"github.com/imolchanov/sunday/internal/pinstore"
	"github.com/imolchanov/sunday/internal/scheduler"
	"github.com/imolchanov/sunday/internal/weather"
	"github.com/imolchanov/sunday/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zl.Sync()

	// Shared HTTP client for outbound provider calls; its timeout bounds
	// every external request.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Durable state: image cache directory and pin file, resolved once.
	images := imagecache.New(cfg.ImageCacheDir(), httpClient)
	pins := pinstore.New(cfg.PinFilePath())

	// Provider clients.
	geoip := providers.NewGeoIPClient(httpClient)
	geocoder := providers.NewGeocodingClient(httpClient)
	forecast := providers.NewOpenMeteoClient(httpClient, images)
	conditions := providers.NewOpenWeatherClient(httpClient, cfg.OpenWeatherAPIKey, cfg.Language)

	// Core service orchestrating clients and stores.
	service := weather.NewService(geoip, geocoder, forecast, conditions, pins, zl)

	// Scheduler that keeps pinned-city forecasts warm.
	sched := scheduler.New(service, cfg.RefreshInterval, zl)
	if err := sched.Start(); err != nil {
		zl.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "sunday",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "sunday",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			zl.Error("fiber server stopped", zap.Error(err))
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zl.Error("error during shutdown", zap.Error(err))
	}
}
