// Package main wires the HTTP server for the issue tracker service.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/jaykukadiya/Issue-tracker/config"
	"github.com/jaykukadiya/Issue-tracker/internal/ai"
	"github.com/jaykukadiya/Issue-tracker/internal/auth"
	"github.com/jaykukadiya/Issue-tracker/internal/notify"
	"github.com/jaykukadiya/Issue-tracker/internal/repository"
	"github.com/jaykukadiya/Issue-tracker/internal/transport/http/middleware"
	handlers_fiber "github.com/jaykukadiya/Issue-tracker/internal/transport/http/server/handlers-fiber"
	"github.com/jaykukadiya/Issue-tracker/internal/usecase"
	"github.com/jaykukadiya/Issue-tracker/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}

	repo, err := repository.New(ctx, "mongo", log, cfg)
	if err != nil {
		log.Errorw("repository initialization error", "error", err)
		return
	}
	if err := repo.OnStart(ctx); err != nil {
		log.Errorw("repository start error", "error", err)
		return
	}
	defer func() {
		_ = repo.OnStop(context.Background())
	}()

	registry := notify.NewRegistry(log)
	dispatcher := notify.NewDispatcher(log, repo, registry)
	tokens := auth.NewTokenManager(cfg.JWT)
	aiClient := ai.NewClient(log, cfg.AI)

	uc := usecase.New(log, ctx, repo, dispatcher, tokens, cfg.HTTP.RequestTimeout)

	serv := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTP.RequestTimeout,
		WriteTimeout: cfg.HTTP.RequestTimeout,
	})
	serv.Use(recover.New())
	serv.Use(requestid.New())
	serv.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	serv.Use(middleware.RequestLogger(log))

	serv.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	h := handlers_fiber.NewHandler(log, uc, registry, aiClient)
	registerRoutes(serv, h, log, uc)

	go func() {
		if err := serv.Listen(cfg.ServerAddr()); err != nil {
			log.Errorw("failed to start server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = serv.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warnw("server shutdown timeout", "timeout", cfg.Server.ShutdownTimeout)
	}
}
