package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	config "github.com/lumenfeed/console/configs"
	"github.com/lumenfeed/console/internal/api/handlers"
	"github.com/lumenfeed/console/internal/api/middleware"
	job "github.com/lumenfeed/console/internal/jobs"
	"github.com/lumenfeed/console/internal/repository"
	"github.com/lumenfeed/console/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	cacheRepo := repository.NewCacheRepository(openKV(cfg.RedisURI))
	postCollection := repository.NewPostCollection(cacheRepo)

	contentService := service.NewContentService(*cfg)
	publishService := service.NewPublishService(*cfg)
	lifecycleService := service.NewLifecycleService(postCollection, cacheRepo, contentService, publishService)

	if lifecycleService.RestoreSession(context.Background()) {
		log.Println("Session restored from local cache")
	}

	authMiddleware := middleware.NewAuthMiddleware(*cfg, lifecycleService)

	auth := handlers.NewAuthHandler(*cfg, lifecycleService)
	app.Get("/auth/callback", auth.Callback)
	app.Post("/auth/logout", auth.Logout)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())
	api.Get("/session", auth.Me)

	post := handlers.NewPostHandler(lifecycleService)
	api.Post("/posts/load", post.Bootstrap)
	api.Get("/posts", post.ListPosts)
	api.Get("/posts/:slot", post.PostInfo)
	api.Post("/posts", post.AddPost)
	api.Post("/posts/:slot/regenerate", post.Regenerate)
	api.Get("/pending", post.GetPending)
	api.Post("/pending/apply", post.ApplyPending)
	api.Post("/pending/discard", post.DiscardPending)
	api.Patch("/posts/:slot/content", post.EditContent)
	api.Post("/posts/:slot/approve", post.ToggleApproval)
	api.Post("/posts/:slot/reject", post.Reject)

	publish := handlers.NewPublishHandler(lifecycleService)
	api.Post("/posts/:slot/publish", publish.PublishNow)
	api.Post("/posts/:slot/schedule", publish.SchedulePost)
	api.Get("/jobs", publish.ListJobs)
	api.Delete("/jobs/:jobId", publish.CancelJob)

	// cron jobs
	refreshJob := job.NewScheduleRefreshJob(lifecycleService)

	c := cron.New()
	c.AddFunc(cfg.JobRefreshSpec, refreshJob.RefreshJobs)
	c.Start()

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on %s", cfg.ListenAddr)

	gracefulShutdown(app, c)
}

// openKV dials Redis for the local fallback cache. Without a reachable host
// the cache degrades to a no-op and the remote store carries everything.
func openKV(redisURI string) repository.KV {
	if redisURI == "" {
		log.Println("No REDIS_URI set, running without a persistent local cache")
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: redisURI})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis is unreachable, running without a persistent local cache: %v", err)
		return nil
	}

	return repository.NewRedisKV(client)
}

func gracefulShutdown(app *fiber.App, c *cron.Cron) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	c.Stop()
	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	log.Println("Server shutdown complete.")
}
