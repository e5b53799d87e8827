package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/joho/godotenv"

	_ "github.com/SatyaPujith/Spotlight/docs"
	"github.com/SatyaPujith/Spotlight/internal/config"
	"github.com/SatyaPujith/Spotlight/internal/database"
	"github.com/SatyaPujith/Spotlight/internal/handlers"
	"github.com/SatyaPujith/Spotlight/internal/logger"
	"github.com/SatyaPujith/Spotlight/internal/middleware"
	"github.com/SatyaPujith/Spotlight/internal/services"
	"github.com/SatyaPujith/Spotlight/internal/telemetry"
)

// @title Spotlight API
// @version 1.0.0
// @description Conversational local discovery backed by a generative model and the Yelp directory
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// .env is optional; deployments pass real env vars
	envErr := godotenv.Load()

	cfg := config.Load()

	if err := logger.Init(cfg.ServerEnv); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.GetLogger("main")
	if envErr != nil {
		log.Info("No .env file found, using environment variables")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	otelShutdown, err := telemetry.Setup(ctx, telemetry.ServiceName, cfg.SigNozEndpoint)
	if err != nil {
		log.Warnw("Failed to initialize OpenTelemetry", "error", err)
		otelShutdown = func(context.Context) error { return nil }
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			log.Warnw("Error shutting down OpenTelemetry", "error", err)
		}
	}()

	// 데이터베이스 없이도 chat은 동작해야 함
	db := connectDatabase(ctx, cfg)

	stack, err := services.NewChatStack(ctx, cfg)
	if err != nil {
		log.Fatalw("Failed to build chat pipeline", "error", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "Spotlight API",
		ErrorHandler: handlers.ErrorHandler,
		ReadTimeout:  10 * time.Second,
		// a chat turn may chain several upstream calls
		WriteTimeout: 4*cfg.UpstreamTimeout() + 10*time.Second,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     `{"time":"${time}","status":${status},"latency":"${latency}","ip":"${ip}","method":"${method}","path":"${path}","user_agent":"${ua}","error":"${error}"}` + "\n",
		TimeFormat: time.RFC3339,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/healthz")
		},
	}))
	app.Use(middleware.PrometheusMiddleware())
	app.Use(telemetry.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET, POST, PUT, DELETE, OPTIONS",
		AllowHeaders:  "Accept, Authorization, Content-Type, Origin, X-Requested-With",
		ExposeHeaders: "Content-Length, Content-Type, X-Request-ID, X-Spotlight-Path",
		MaxAge:        86400,
	}))

	setupRoutes(app, db, cfg, stack)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info("Shutting down server...")
		cancel()
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Warnw("Error shutting down server", "error", err)
		}
	}()

	log.Infow("Server starting", "port", cfg.ServerPort, "env", cfg.ServerEnv)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatalw("Failed to start server", "error", err)
	}
}

// connectDatabase returns nil when Postgres is unreachable or migrations fail
func connectDatabase(ctx context.Context, cfg *config.Config) *database.DB {
	log := logger.GetLogger("main")

	db, err := database.Connect(cfg)
	if err != nil {
		log.Warnw("Database unavailable, account routes disabled", "error", err)
		return nil
	}
	if err := database.Migrate(db); err != nil {
		log.Warnw("Migration failed, account routes disabled", "error", err)
		return nil
	}

	go database.StartConnectionPoolMetricsCollector(ctx, db.DB, 15*time.Second)
	log.Info("Database connected")
	return db
}

func setupRoutes(app *fiber.App, db *database.DB, cfg *config.Config, stack *services.ChatStack) {
	app.Get("/api/docs/*", swagger.HandlerDefault)

	// k8s probes
	app.Get("/healthz", handlers.HealthCheck)
	app.Get("/healthz/live", handlers.LivenessCheck)
	app.Get("/healthz/ready", handlers.ReadinessCheck(db, stack.Chat.Configured()))

	if cfg.ServerEnv == "production" {
		app.Get("/metrics", middleware.InternalOnly(), middleware.PrometheusHandler())
	} else {
		app.Get("/metrics", middleware.PrometheusHandler())
	}

	api := app.Group("/api")
	handlers.SetupChatRoutes(api, stack.Chat)
	handlers.SetupAccountRoutes(api, db, cfg)
}
