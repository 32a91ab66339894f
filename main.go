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

	"snapgram/config"
	"snapgram/database"
	"snapgram/middleware"
	"snapgram/repository"
	"snapgram/routes"
	"snapgram/service"
	"snapgram/storage"
	"snapgram/websocket"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func main() {
	log.Println("🚀 Starting Snapgram Backend Server...")

	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal("❌ Failed to load config:", err)
	}

	switch cfg.Server.Mode {
	case gin.ReleaseMode:
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	log.Printf("⚙️ Running in %s mode", gin.Mode())

	// ===== MONGODB =====
	log.Println("🔌 Connecting to MongoDB...")
	client, db, err := database.Connect(cfg.Mongo)
	if err != nil {
		log.Fatal("❌ Failed to connect to MongoDB:", err)
	}
	defer func() {
		if err := database.Disconnect(client); err != nil {
			log.Println("❌ MongoDB disconnect:", err)
		}
	}()

	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureIndexes(indexCtx, db); err != nil {
		indexCancel()
		log.Fatal("❌ Failed to create indexes:", err)
	}
	indexCancel()

	// ===== STORAGE =====
	store, serveUploads, err := newFileStore(cfg)
	if err != nil {
		log.Fatal("❌ Failed to initialise storage:", err)
	}

	// ===== SERVICES =====
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	users := service.NewUserService(userRepo)
	auth := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWTExpiration())
	images := service.NewImageService(repository.NewImageRepository(db), store)
	posts := service.NewPostService(postRepo, commentRepo, users, images)
	notifications := service.NewNotificationService(repository.NewPushSubscriptionRepository(db), postRepo, cfg.Push)
	if !notifications.Enabled() {
		log.Println("⚠️  VAPID keys not set, push notifications disabled (run cmd/vapidkeys)")
	}

	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	hub := websocket.NewHub()
	go hub.Run(appCtx)

	comments := service.NewCommentService(commentRepo, users)
	comments.SetEvents(hub)
	comments.SetNotifier(notifications)

	// ===== RATE LIMIT =====
	rateLimit, closeRedis := newRateLimit(cfg)
	defer closeRedis()

	router := routes.SetupRouter(routes.Dependencies{
		Config:        cfg,
		Auth:          auth,
		Users:         users,
		Posts:         posts,
		Comments:      comments,
		Images:        images,
		Notifications: notifications,
		Hub:           hub,
		RateLimit:     rateLimit,
		ServeUploads:  serveUploads,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("🌐 Server running on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("❌ Server error:", err)
		}
	}()

	log.Println("✅ Server is ready and accepting connections")

	// ===== GRACEFUL SHUTDOWN =====
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("❌ Forced shutdown:", err)
	}
	stopApp()

	log.Println("👋 Server stopped gracefully")
}

// newFileStore picks the storage driver. The bool reports whether uploads are
// on local disk and should be served by this process.
func newFileStore(cfg *config.Config) (storage.FileStore, bool, error) {
	switch cfg.Storage.Driver {
	case "cloudinary":
		store, err := storage.NewCloudinaryStore(cfg.Storage.CloudinaryURL, cfg.Storage.Folder, cfg.Upload.AllowedExts)
		if err != nil {
			return nil, false, err
		}
		log.Println("☁️  Storing uploads on Cloudinary")
		return store, false, nil
	default:
		if err := os.MkdirAll(cfg.Upload.Path, 0o755); err != nil {
			return nil, false, err
		}
		log.Printf("📁 Storing uploads in %s", cfg.Upload.Path)
		return storage.NewLocalStore(cfg.Upload.Path, cfg.Upload.AllowedExts), true, nil
	}
}

func newRateLimit(cfg *config.Config) (gin.HandlerFunc, func()) {
	local := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	if !cfg.Redis.Enabled {
		return middleware.RateLimit(local, nil), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  Redis not reachable (%v), rate limiting falls back to memory", err)
	} else {
		log.Println("✅ Redis connected for rate limiting")
	}

	window := time.Minute
	if cfg.RateLimit.RPS > 0 {
		window = time.Duration(float64(cfg.RateLimit.Burst) / cfg.RateLimit.RPS * float64(time.Second))
	}
	shared := middleware.NewRedisLimiter(client, cfg.Redis.Prefix, cfg.RateLimit.Burst, window)
	return middleware.RateLimit(local, shared), func() { _ = client.Close() }
}
