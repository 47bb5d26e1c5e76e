package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-upper-limit-tracker/internal/entity"
	"golang-upper-limit-tracker/internal/tracker/config"
	delivery "golang-upper-limit-tracker/internal/tracker/delivery/http"
	_ "golang-upper-limit-tracker/internal/tracker/docs"
	"golang-upper-limit-tracker/internal/tracker/repository"
	"golang-upper-limit-tracker/internal/tracker/service"
	"golang-upper-limit-tracker/pkg/decoder"
	"golang-upper-limit-tracker/pkg/logger"
	"golang-upper-limit-tracker/pkg/postgres"
	"golang-upper-limit-tracker/pkg/redis"
	"golang-upper-limit-tracker/pkg/telegram"
	"golang-upper-limit-tracker/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the upper-limit stock tracker",
	Run:   runServe,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seeds the database with sample upper-limit stocks",
	Run:   runSeed,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Upper-Limit Stock Tracker", logger.Field("name", cfg.App.Name))

	db, err := postgres.NewDB(postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	redisClient, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	snapshotRepo := repository.NewStockSnapshotRepository(db.DB)
	newsRepo := repository.NewNewsArticleRepository(db.DB)
	runRepo := repository.NewIngestionRunRepository(db.DB)
	moversRepo := repository.NewNaverMoversRepository(cfg, appLogger, decoder.NewEUCKRDecoder())
	searchRepo := repository.NewNaverNewsSearchRepository(cfg, appLogger)

	var genAiClient *genai.Client
	if cfg.AI.Provider == "gemini" {
		genAiClient, err = genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI client", logger.ErrorField(err))
		}
	}
	aiRepo, err := repository.NewAIRepository(cfg, appLogger, genAiClient)
	if err != nil {
		appLogger.Fatal("Failed to initialize AI repository", logger.ErrorField(err))
	}

	var telegramNotifier telegram.Notifier
	if cfg.Telegram.BotToken != "" {
		telegramNotifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize services
	stockSvc := service.NewStockService(snapshotRepo, newsRepo, searchRepo, aiRepo, appLogger)
	ingestionSvc := service.NewIngestionService(cfg, moversRepo, snapshotRepo, newsRepo, searchRepo, aiRepo, runRepo, redisClient, telegramNotifier, appLogger)

	if cfg.Scheduler.Enabled {
		schedulerSvc, err := service.NewSchedulerService(cfg, ingestionSvc, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize scheduler", logger.ErrorField(err))
		}
		if err := schedulerSvc.Start(ctx); err != nil {
			appLogger.Fatal("Failed to start scheduler", logger.ErrorField(err))
		}
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	stockHandler := delivery.NewStockHandler(stockSvc, ingestionSvc, appLogger)
	apiGroup := e.Group("/api")
	stockHandler.RegisterRoutes(apiGroup)

	e.GET("/swagger/*", swagger.WrapHandler)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func runSeed(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	db, err := postgres.NewDB(postgres.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		TimeZone: cfg.Database.TimeZone,
		LogLevel: cfg.Database.LogLevel,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}

	snapshotRepo := repository.NewStockSnapshotRepository(db.DB)
	newsRepo := repository.NewNewsArticleRepository(db.DB)

	existing, err := snapshotRepo.List(ctx, "")
	if err != nil {
		appLogger.Fatal("Failed to check existing snapshots", logger.ErrorField(err))
	}
	if len(existing) > 0 {
		appLogger.Info("Database already seeded, skipping", logger.IntField("count", len(existing)))
		return
	}

	today := utils.TodayKST()
	seeds := []struct {
		snapshot entity.StockSnapshot
		news     []entity.NewsArticle
	}{
		{
			snapshot: entity.StockSnapshot{
				Date: today, Symbol: "006400", Name: "삼성SDI",
				Price: 385000, ChangeRate: 29.85,
				Sector: "Batteries", MarketType: entity.MarketTypeKOSPI,
			},
			news: []entity.NewsArticle{
				{Title: "Samsung SDI announces next-gen solid state battery production", URL: "#seed-006400-1", Publisher: "Korea Economic Daily"},
				{Title: "EV sector rally drives battery stocks up", URL: "#seed-006400-2", Publisher: "Yonhap News"},
			},
		},
		{
			snapshot: entity.StockSnapshot{
				Date: today, Symbol: "068270", Name: "셀트리온",
				Price: 185000, ChangeRate: 30.00,
				Sector: "Biotech", MarketType: entity.MarketTypeKOSPI,
			},
			news: []entity.NewsArticle{
				{Title: "FDA approves new biosimilar drug", URL: "#seed-068270-1", Publisher: "Maeil Business"},
				{Title: "Celltrion earnings surprise in Q4", URL: "#seed-068270-2", Publisher: "Hankyung"},
			},
		},
		{
			snapshot: entity.StockSnapshot{
				Date: today, Symbol: "042700", Name: "한미반도체",
				Price: 62000, ChangeRate: 29.90,
				Sector: "Semiconductor", MarketType: entity.MarketTypeKOSDAQ,
			},
			news: []entity.NewsArticle{
				{Title: "HBM equipment supply deal with NVIDIA rumored", URL: "#seed-042700-1", Publisher: "Electronic Times"},
			},
		},
	}

	for _, seed := range seeds {
		snapshot := seed.snapshot
		if err := snapshotRepo.Create(ctx, &snapshot); err != nil {
			appLogger.Fatal("Failed to seed snapshot", logger.ErrorField(err), logger.StringField("name", snapshot.Name))
		}
		for _, article := range seed.news {
			article.StockID = snapshot.ID
			if _, err := newsRepo.CreateIgnoreConflict(ctx, &article); err != nil {
				appLogger.Fatal("Failed to seed news", logger.ErrorField(err), logger.StringField("title", article.Title))
			}
		}
		appLogger.Info("Seeded snapshot", logger.StringField("name", snapshot.Name))
	}
}

func main() {
	rootCmd := &cobra.Command{Use: "upper-limit-tracker"}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd, seedCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing upper-limit-tracker CLI: %s\n", err)
		os.Exit(1)
	}
}
