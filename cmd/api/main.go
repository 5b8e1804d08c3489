package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quizgram/internal/adapter"
	"quizgram/internal/adapter/quizgen"
	"quizgram/internal/cache"
	"quizgram/internal/config"
	"quizgram/internal/handler"
	"quizgram/internal/ingest"
	"quizgram/internal/logger"
	"quizgram/internal/middleware"
	"quizgram/internal/service"
	"quizgram/internal/telegram"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to Redis (quiz store between generate and deliver)
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
	quizStore := adapter.NewCacheQuizStore(cacheAdapter, cfg.Quiz.StoreTTL)

	// Initialize the LLM quiz generator
	generator, err := quizgen.NewOpenAIQuizGenerator(cfg.LLM, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create quiz generator", zap.Error(err))
	}

	// Initialize the Telegram bot, dispatcher and admin notifier
	bot, err := telegram.NewBot(cfg.Telegram)
	if err != nil {
		appLogger.Fatal("Failed to create Telegram bot", zap.Error(err))
	}
	dispatcher := telegram.NewSender(bot, appLogger)
	notifier := telegram.NewNotifier(bot, cfg.Telegram.AdminChatID, appLogger)
	resolver := telegram.NewResolver(appLogger)

	// Initialize services
	builder := service.NewRequestBuilder(cfg.Quiz.MaxQuestions, cfg.Upload.MaxTextChars)
	quizService := service.NewQuizService(ingest.NewIngestor(), builder, generator, quizStore, appLogger)
	deliveryService := service.NewDeliveryService(quizStore, dispatcher, appLogger)

	// Initialize handlers
	quizHandler := handler.NewQuizHandler(quizService, cfg.Upload)
	telegramHandler := handler.NewTelegramHandler(deliveryService, resolver, notifier)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		// Headroom past the file cap for multipart framing and form
		// fields, so oversized files reach the handler's size check
		// instead of being cut off at the transport layer.
		BodyLimit:    int(cfg.Upload.MaxFileSize) + 1<<20,
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := cacheAdapter.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	apiGroup := app.Group("/api")
	apiGroup.Post("/quiz/generate", quizHandler.GenerateQuiz)
	apiGroup.Get("/quiz/:id", quizHandler.GetQuiz)
	apiGroup.Post("/quiz/:id/send", telegramHandler.SendQuiz)
	apiGroup.Post("/identity", telegramHandler.ResolveIdentity)
	apiGroup.Post("/notify-admin", telegramHandler.NotifyAdmin)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
