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

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"taxdesk-backend/internal/accounts"
	"taxdesk-backend/internal/cache"
	"taxdesk-backend/internal/config"
	"taxdesk-backend/internal/cron"
	"taxdesk-backend/internal/database"
	"taxdesk-backend/internal/handlers"
	"taxdesk-backend/internal/history"
	"taxdesk-backend/internal/middleware"
	"taxdesk-backend/internal/storage"
)

func main() {
	// 1. Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Users and calculation history: PostgreSQL when configured, memory otherwise
	var (
		db           database.Service
		userStore    accounts.Store
		historyStore history.Store
	)
	if cfg.DB.URL != "" {
		db, err = database.New(ctx, &cfg.DB)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		userStore = accounts.NewPostgresStore(db.GetPool())
		historyStore = history.NewPostgresStore(db.GetPool())
	} else {
		log.Println("DATABASE_URL not set, keeping users and history in memory")
		userStore = accounts.NewMemoryStore()
		historyStore = history.NewMemoryStore()
	}

	// 3. Result cache: Redis when configured, memory otherwise
	var resultCache cache.Cache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer rc.Close()
		resultCache = rc
	} else {
		resultCache = cache.NewMemoryCache(cfg.Redis.TTL)
	}

	// 4. Report storage: R2 when configured, local filesystem otherwise
	var (
		fileStore storage.Store
		localDir  string
	)
	if cfg.R2.Enabled() {
		fileStore, err = storage.NewR2Store(ctx, cfg.R2.AccountID, cfg.R2.AccessKey, cfg.R2.SecretKey, cfg.R2.Bucket, cfg.R2.PublicURL)
		if err != nil {
			log.Fatalf("Failed to initialize R2 storage: %v", err)
		}
	} else {
		local, err := storage.NewLocalStore(cfg.Upload.Dir, cfg.Upload.BaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize file storage: %v", err)
		}
		fileStore, localDir = local, local.Root()
	}

	// 5. Set up router with global middleware
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 6. Initialize handlers with their dependencies
	authHandler := handlers.NewAuthHandler(userStore, cfg.JWTSecret)
	calcHandler := handlers.NewCalculatorHandler(resultCache, historyStore)
	reportHandler := handlers.NewReportHandler(calcHandler, fileStore)
	historyHandler := handlers.NewHistoryHandler(historyStore)
	fileHandler := handlers.NewFileHandler(fileStore, localDir)

	// Start background cron jobs
	cron.StartPruner(ctx, historyStore, fileStore, cfg.HistoryRetention)

	// 7. Public routes
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("TaxDesk Penalty Calculator API"))
	})
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "up", "history": "memory"}
		if db != nil {
			status = db.Health()
			status["history"] = "postgres"
		}
		handlers.JSON(w, http.StatusOK, status)
	})
	r.Get("/api/rules/{domain}", calcHandler.Rules)
	r.Get("/api/files/*", fileHandler.ServeFile)

	// Auth routes are public (login and register need no token)
	limiter := middleware.RateLimit(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	r.Group(func(r chi.Router) {
		r.Use(limiter)

		r.Post("/api/auth/register", authHandler.Register)
		r.Post("/api/auth/login", authHandler.Login)
	})

	// Calculators are public; a valid token additionally saves the result.
	r.Group(func(r chi.Router) {
		r.Use(limiter)
		r.Use(middleware.OptionalAuth(cfg.JWTSecret))

		r.Post("/api/gst/penalty", calcHandler.GSTPenalty)
		r.Post("/api/tds/penalty", calcHandler.TDSPenalty)
		r.Post("/api/gst/penalty/report", reportHandler.GSTReport)
		r.Post("/api/tds/penalty/report", reportHandler.TDSReport)
	})

	// 8. Protected routes (require valid JWT)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))

		r.Get("/api/auth/me", authHandler.GetMe)
		r.Get("/api/calculations", historyHandler.List)
		r.Get("/api/calculations/{id}", historyHandler.GetByID)
	})

	// 9. Start server with graceful shutdown
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server started on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Server stopped")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited properly")
}
