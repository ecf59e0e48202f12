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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/pysugar/gato-admin/internal/admin/handlers"
	"github.com/pysugar/gato-admin/internal/admin/middleware"
	"github.com/pysugar/gato-admin/internal/admin/monitor"
	"github.com/pysugar/gato-admin/internal/catalog"
	"github.com/pysugar/gato-admin/internal/config"
	"github.com/pysugar/gato-admin/internal/db"
	"github.com/pysugar/gato-admin/internal/form"
	"github.com/pysugar/gato-admin/internal/lock"
	"github.com/pysugar/gato-admin/internal/logging"
	"github.com/pysugar/gato-admin/internal/secret"
	"github.com/pysugar/gato-admin/internal/version"
)

func main() {
	// .env is optional
	if err := godotenv.Load(); err == nil {
		log.Printf("📄 Loaded .env")
	}
	cfg := config.Load()

	if err := catalog.InitFromEnvAndConfig(); err != nil {
		log.Printf("⚠️ Model catalog: %v (using defaults)", err)
	}
	log.Printf("📚 Models: %v", catalog.ModelIDs())

	database, err := db.InitDB(db.Options{Path: cfg.Database.Path, DSN: cfg.Database.URL, Debug: cfg.Debug})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	cipher, err := secret.New(cfg.EncryptionKey)
	if err != nil {
		log.Fatalf("Failed to initialize encryption: %v", err)
	}
	if cipher.Enabled() {
		log.Printf("🔒 API keys are encrypted at rest")
	} else {
		log.Printf("⚠️ GATO_ENCRYPTION_KEY not set, API keys are stored in plaintext")
	}

	var locker lock.Locker
	if cfg.Redis.Address != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis at %s: %v", cfg.Redis.Address, err)
		}
		cancel()
		defer rdb.Close()
		locker = lock.NewRedis(rdb, cfg.Redis.LockTTL)
		log.Printf("🔐 Using Redis write locks at %s", cfg.Redis.Address)
	}

	store := db.NewStore(database, cipher, locker)
	validator := form.NewValidator()
	activity := monitor.NewActivityMonitor(database)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(logging.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Handler)

	// ============================================
	// Public Routes (No Auth Required)
	// ============================================
	r.Get("/healthz", handlers.HealthHandler())
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	if cfg.AdminPassword == "" {
		log.Printf("⚠️ GATO_ADMIN_PASSWORD not set, dashboard and API are unauthenticated")
	}
	adminAuth := middleware.AdminAuth(cfg.AdminPassword)

	// Dashboard (protected if GATO_ADMIN_PASSWORD is set)
	r.Group(func(r chi.Router) {
		r.Use(adminAuth)
		handlers.RegisterDashboard(r, handlers.NewDashboard(store, validator))
	})

	// API routes (protected if GATO_ADMIN_PASSWORD is set)
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CORS(cfg.AllowedOrigins))
		r.Use(adminAuth)
		handlers.RegisterAPI(r, store, validator, activity)
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("🚀 Gato Admin %s starting on http://%s", version.String(), cfg.Addr())
	log.Printf("📊 Dashboard: http://%s", cfg.DisplayURL())
	log.Printf("🔌 REST API: http://%s/api/models", cfg.DisplayURL())

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Printf("🛑 Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	activity.Wait()
}
