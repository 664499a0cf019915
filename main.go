// main.go - hadithhub progress service
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hadithhub/config"
	"hadithhub/database"
	"hadithhub/handlers"
	"hadithhub/handlers/admin"
	applog "hadithhub/logger"
	"hadithhub/metrics"
	"hadithhub/middleware"
	"hadithhub/progress"
	"hadithhub/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const (
	loginPerMinute = 5
	loginBurst     = 5
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := applog.New(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("FATAL: invalid configuration", "error", err)
	}
	if cfg.IsProduction() && (cfg.CORSOrigins == "" || cfg.CORSOrigins == "http://localhost:3000") {
		log.Warn("CORS_ORIGINS not properly configured for production")
	}

	if err := database.InitDB(cfg.Database); err != nil {
		log.Fatal("database initialization failed", "error", err)
	}
	defer database.CloseDB()
	db := database.GetDB()

	hub := services.NewUnlockHub()
	engine := progress.NewEngine(db, log, progress.Options{
		FetchTimeout:      cfg.Progress.FetchTimeout,
		EvaluationTimeout: cfg.Progress.EvaluationTimeout,
		Notifier:          hub,
	})
	handlers.InitProgressHandlers(db, engine, log)
	admin.Init(db, engine, cfg.JWTSecret, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var trackLimiter, loginLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		trackLimiter = middleware.NewRateLimiter(cfg.RateLimit.TrackPerMinute, cfg.RateLimit.TrackBurst)
		loginLimiter = middleware.NewRateLimiter(loginPerMinute, loginBurst)
		go trackLimiter.RunCleanup(ctx, 10*time.Minute, 30*time.Minute)
		go loginLimiter.RunCleanup(ctx, 10*time.Minute, 30*time.Minute)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler(cfg.IsProduction()),
		BodyLimit:    1 * 1024 * 1024,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	handlers.RegisterProgressRoutes(app, cfg.JWTSecret, trackLimiter, hub)
	admin.RegisterRoutes(app, loginLimiter)

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		code := fiber.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status":    status,
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("shutdown failed", "error", err)
		}
	}()

	log.Info("HTTP server starting", "port", cfg.Port, "env", cfg.AppEnv, "db", cfg.Database.Driver)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start HTTP server", "error", err)
	}
}

func customErrorHandler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		// Don't expose internal errors in production
		if production && code == fiber.StatusInternalServerError {
			message = "An error occurred. Please try again later."
		}

		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   message,
		})
	}
}
