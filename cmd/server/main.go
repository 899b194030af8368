package main

import (
	"time"

	"accounts/pkg/cache"
	"accounts/pkg/config"
	"accounts/pkg/database"
	"accounts/pkg/handlers"
	"accounts/pkg/hasher"
	"accounts/pkg/logger"
	"accounts/pkg/middleware"
	"accounts/pkg/repository"
	"accounts/pkg/server"
	"accounts/pkg/services"
	"accounts/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.LogLevel)

	db, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err.Error())
	}
	defer db.Close()

	// Serverless PG: keep pool small, connections short-lived
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetConnMaxIdleTime(30 * time.Second)

	if err := database.Migrate(db); err != nil {
		log.Fatal("failed to migrate database", "error", err.Error())
	}
	log.Info("database ready")

	var redis *cache.Redis
	if cfg.Redis.URL != "" {
		redis, err = cache.New(cfg.Redis.URL)
		if err != nil {
			log.Fatal("failed to connect to redis", "error", err.Error())
		}
		defer redis.Close()
		log.Info("redis connected")
	}

	repo := repository.NewUserRepository(db)
	passwords := hasher.New(cfg.Hash.BcryptCost)
	tokens := token.New(cfg.JWT.Secret, cfg.JWT.Lifetime)
	service := services.NewAuthService(repo, passwords, tokens, redis, log)

	auth := handlers.NewAuth(service, log)
	users := handlers.NewUsers(service, log)
	requireAuth := middleware.NewAuth(tokens, log)

	app := server.NewApp("accounts", log)

	app.Post("/users", limiter.New(limiter.Config{
		Max:        cfg.Limits.RegisterPerMin,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), auth.Register)

	app.Post("/login", limiter.New(limiter.Config{
		Max:        cfg.Limits.LoginPerMin,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), auth.Login)

	app.Get("/users", requireAuth, users.List)
	app.Get("/profile", requireAuth, users.Profile)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	})

	log.Info("server starting", "addr", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal("failed to start server", "error", err.Error())
	}
}
