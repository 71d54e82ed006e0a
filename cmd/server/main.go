package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	config "github.com/maheshrc27/brandpost/configs"
	"github.com/maheshrc27/brandpost/internal/api/handlers"
	"github.com/maheshrc27/brandpost/internal/api/middleware"
	"github.com/maheshrc27/brandpost/internal/database"
	job "github.com/maheshrc27/brandpost/internal/jobs"
	"github.com/maheshrc27/brandpost/internal/models"
	"github.com/maheshrc27/brandpost/internal/queue"
	"github.com/maheshrc27/brandpost/internal/repository"
	"github.com/maheshrc27/brandpost/internal/service"
	"github.com/maheshrc27/brandpost/pkg/utils"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	ctx := context.Background()

	db, err := database.Open(cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Printf("Database schema at version %d (dirty=%v)", version, dirty)

	cipher, err := utils.NewCipher(cfg.SecretKey)
	if err != nil {
		log.Fatalf("Failed to set up token encryption: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Cron-Secret",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	socialAccountRepo := repository.NewSocialAccountRepository(db)
	assetRepo := repository.NewBrandAssetRepository(db)
	brandRepo := repository.NewBrandRepository(db)

	storageService, err := service.NewStorageService(ctx, cfg.Wasabi)
	if err != nil {
		log.Fatalf("Failed to set up object storage: %v", err)
	}
	aiService, err := service.NewAIService(ctx, cfg.Gemini, storageService)
	if err != nil {
		log.Fatalf("Failed to set up generative AI: %v", err)
	}

	publisher := service.NewGraphPublisher(service.PublishConfig{
		GraphAPIURL: cfg.Instagram.GraphAPIURL,
		BusinessID:  cfg.Instagram.BusinessID,
		AccessToken: cfg.Instagram.SystemUserToken,
		Timeout:     cfg.Instagram.PublishTimeout,
	})

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo, assetRepo)
	statsService := service.NewStatsService(userRepo, postRepo, brandRepo)
	postService := service.NewPostService(postRepo)
	sweepService := service.NewSweepService(postRepo, map[string]service.Publisher{
		models.PlatformInstagram: publisher,
	}, cfg.Instagram.PublishConcurrency)
	platformService := service.NewPlatformService(*cfg, socialAccountRepo)
	instagramService := service.NewInstagramService(*cfg, socialAccountRepo, cipher)
	assetService := service.NewAssetService(assetRepo, storageService)
	generationService := service.NewGenerationService(cfg.ExpanderURL, cfg.Gemini.UseImages,
		userRepo, assetRepo, brandRepo, storageService, aiService, queue.NewEnqueuer(client))

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)
	app.Post("/api/auth/register", auth.Register)
	app.Post("/api/auth/login", auth.LoginWithPassword)
	app.Post("/api/auth/logout", auth.Logout)

	post := handlers.NewPostHandler(postService, sweepService, cfg.CronSecret)
	app.Get("/api/run-cron", post.RunCron)
	app.Post("/api/run-cron", post.RunCron)

	platform := handlers.NewPlatformHandler(platformService, instagramService, *cfg)
	app.Get("/api/accounts/instagram/callback", platform.CallbackHandler)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)
	api.Post("/onboarding/choice", user.SetOnboardingChoice)
	api.Get("/onboarding/choice", user.GetOnboardingChoice)
	api.Get("/onboarding/status", user.OnboardingStatus)

	api.Post("/schedule-post", post.SchedulePost)
	api.Get("/history", post.History)
	api.Get("/suggest-time", post.SuggestTime)

	api.Get("/accounts/status", platform.Status)
	api.Get("/accounts/instagram/start", platform.InstagramStart)
	api.Get("/accounts/:platform/connect", platform.AddSocialAccount)
	api.Post("/accounts/:platform/unlink", platform.Unlink)

	assets := handlers.NewAssetHandler(assetService, aiService, userService)
	api.Post("/assets/upload-images", assets.UploadImages)
	api.Post("/assets/upload-temp", assets.UploadTemp)
	api.Post("/assets/save-captions", assets.SaveCaptions)
	api.Post("/assets/captions/generate", assets.GenerateCaptions)
	api.Post("/assets/hashtags/generate", assets.GenerateHashtags)

	generation := handlers.NewGenerationHandler(generationService)
	api.Post("/generate", generation.Generate)
	api.Post("/brand/profile/queue", generation.QueueProfile)
	api.Post("/fine-tune/queue", generation.QueueProfile)

	admin := handlers.NewAdminHandler(userService, statsService)
	adminAPI := api.Group("/admin", authMiddleware.AdminOnly())
	adminAPI.Get("/stats", admin.Stats)
	adminAPI.Get("/users", admin.ListUsers)
	adminAPI.Post("/users", admin.CreateUser)
	adminAPI.Put("/users", admin.UpdateUser)
	adminAPI.Delete("/users", admin.DeleteUser)

	// cron jobs
	refreshTokenJob := job.NewTokenRefreshJob(socialAccountRepo, instagramService)
	sweepTriggerJob := job.NewSweepTriggerJob(cfg.AppURL, cfg.CronSecret, 5*time.Minute)

	c := cron.New()
	c.AddFunc("@every 00h10m00s", refreshTokenJob.RefreshTokens)
	if cfg.CronEnabled {
		if err := c.AddFunc(cfg.CronSchedule, sweepTriggerJob.Trigger); err != nil {
			log.Fatalf("Invalid CRON_SCHEDULE %q: %v", cfg.CronSchedule, err)
		}
	}
	c.Start()
	defer c.Stop()

	//queue
	queueW := queue.NewQueue(generationService)
	server := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: 10,
	})

	mux := asynq.NewServeMux()
	queueW.Register(mux)

	log.Println("Starting the Asynq server...")
	if err := server.Start(mux); err != nil {
		log.Fatalf("Could not start Asynq server: %v", err)
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

	gracefulShutdown(app, server, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, server *asynq.Server, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(time.Minute); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}
	server.Shutdown()

	closeDB(db)
	log.Println("Server shutdown complete.")
}
