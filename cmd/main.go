package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orbita/internal/clients"
	"orbita/internal/config"
	"orbita/internal/handlers"
	"orbita/internal/lock"
	"orbita/internal/middleware"
	"orbita/internal/repository"
	"orbita/internal/service"
	"orbita/internal/worker"
	"orbita/pkg/database"
	"orbita/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

func main() {
	// Загрузка .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	log.Println("=== Orbita Space Data Backend Starting ===")

	cfg := config.Load()

	// Подключение к PostgreSQL
	db, err := database.Connect(cfg.DB.URL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	// Подключение к Redis
	redisClient, err := redis.Connect(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	// Автомиграция моделей
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Репозитории
	issRepo := repository.NewISSRepository(db)
	osdrRepo := repository.NewOSDRRepository(db)
	spaceCacheRepo := repository.NewSpaceCacheRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	// Клиент внешних источников
	spaceClient := clients.NewSpaceClient(clients.Config{
		ISSURL:     cfg.Upstream.ISSURL,
		OSDRURL:    cfg.Upstream.OSDRURL,
		APODURL:    cfg.Upstream.APODURL,
		NEOURL:     cfg.Upstream.NEOURL,
		DONKIURL:   cfg.Upstream.DONKIURL,
		SpaceXURL:  cfg.Upstream.SpaceXURL,
		APIKey:     cfg.Upstream.APIKey,
		Timeout:    cfg.Fetch.Timeout,
		MaxRetries: cfg.Fetch.MaxRetries,
		RetryDelay: cfg.Fetch.RetryDelay,
	})

	// Сервисы
	issService := service.NewISSService(issRepo, cacheRepo, spaceClient, cfg.Upstream.ISSURL)
	osdrService := service.NewOSDRService(osdrRepo, cacheRepo, spaceClient)
	spaceService := service.NewSpaceService(spaceCacheRepo, issRepo, osdrRepo, cacheRepo, spaceClient)

	// Фоновые задачи: шесть независимых циклов, каждый под своей
	// advisory-блокировкой
	mutex := lock.NewMutex(lock.NewPostgresBackend(db))
	scheduler := worker.NewScheduler()

	scheduler.AddWorker(worker.NewJob("iss", cfg.Intervals.ISS, mutex, func(ctx context.Context) error {
		return issService.FetchAndStore(ctx)
	}))
	scheduler.AddWorker(worker.NewJob("osdr", cfg.Intervals.OSDR, mutex, func(ctx context.Context) error {
		return osdrService.Sync(ctx)
	}))
	scheduler.AddWorker(worker.NewJob("apod", cfg.Intervals.APOD, mutex, func(ctx context.Context) error {
		return spaceService.Fetch(ctx, service.SourceAPOD)
	}))
	scheduler.AddWorker(worker.NewJob("neo", cfg.Intervals.NEO, mutex, func(ctx context.Context) error {
		return spaceService.Fetch(ctx, service.SourceNEO)
	}))
	// Обе ленты DONKI идут одной задачей под одной блокировкой;
	// ошибка FLR отменяет шаг CME
	scheduler.AddWorker(worker.NewJob("donki", cfg.Intervals.DONKI, mutex, func(ctx context.Context) error {
		if err := spaceService.Fetch(ctx, service.SourceFLR); err != nil {
			return err
		}
		return spaceService.Fetch(ctx, service.SourceCME)
	}))
	scheduler.AddWorker(worker.NewJob("spacex", cfg.Intervals.SpaceX, mutex, func(ctx context.Context) error {
		return spaceService.Fetch(ctx, service.SourceSpaceX)
	}))

	go scheduler.Start()
	defer scheduler.Stop()

	// Инициализация Gin
	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("Running in DEBUG mode")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", cfg.App.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if !cfg.App.Debug {
		limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
		r.Use(middleware.RateLimitMiddleware(limiter))
		log.Printf("Rate limiting enabled: %d req/sec, burst: %d",
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	issHandler := handlers.NewISSHandler(issService)
	osdrHandler := handlers.NewOSDRHandler(osdrService)
	spaceHandler := handlers.NewSpaceHandler(spaceService)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	api.GET("/iss/last", issHandler.GetLast)
	api.GET("/iss/trend", issHandler.GetTrend)
	api.POST("/iss/trigger", issHandler.TriggerFetch)

	api.POST("/osdr/sync", osdrHandler.Sync)
	api.GET("/osdr/list", osdrHandler.List)

	api.GET("/space/latest/:source", spaceHandler.GetLatest)
	api.POST("/space/refresh", spaceHandler.Refresh)
	api.GET("/space/summary", spaceHandler.Summary)

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ok":     true,
			"status": "ok",
			"now":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	api.GET("/system/stats", func(c *gin.Context) {
		ctx := c.Request.Context()

		redisStats, _ := redis.GetStats(redisClient)
		issCount, _ := issService.Count(ctx)
		osdrCount, _ := osdrService.Count(ctx)

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"iss_logs":   issCount,
				"osdr_items": osdrCount,
			},
			"redis": redisStats,
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%s", cfg.App.Port)
		log.Printf("API available at http://localhost:%s/api/v1", cfg.App.Port)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start:", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited properly")
}
