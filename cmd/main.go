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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/senecapartners/seneca-cms-backend/config"
	"github.com/senecapartners/seneca-cms-backend/database"
	"github.com/senecapartners/seneca-cms-backend/internal/filestore"
	"github.com/senecapartners/seneca-cms-backend/internal/notification"
	"github.com/senecapartners/seneca-cms-backend/internal/site"
	"github.com/senecapartners/seneca-cms-backend/routes"
)

// @title Seneca CMS API
// @version 1.0
// @description Inventory, media, leads and commercial proposals for the Seneca Partners sales office.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	if cfg.JWTAccessSecret == "" {
		log.Fatal("❌ JWT_ACCESS_SECRET is required")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ %v", err)
	}

	ctx := context.Background()
	sites, err := site.NewService(ctx, site.NewRepository(db), cfg.DefaultSiteDomain, cfg.DefaultSiteName)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	files, err := filestore.NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
	if err != nil {
		log.Fatalf("❌ Failed to prepare media root: %v", err)
	}

	// Init Redis (optional, rate limiter store)
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("⚠️ Redis unavailable at %s, using in-memory rate limits: %v", cfg.RedisAddr, err)
			rdb.Close()
			rdb = nil
		} else {
			log.Printf("✅ Redis connected at %s", cfg.RedisAddr)
		}
	}

	// Notification channels
	var channels []notification.Channel
	if email := notification.NewEmailSender(cfg); email.Configured() {
		channels = append(channels, email)
	} else {
		log.Println("ℹ️ SMTP not configured, lead emails disabled")
	}
	var kafkaPub *notification.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPub = notification.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaLeadsTopic)
		channels = append(channels, kafkaPub)
		log.Printf("✅ Publishing lead events to %s", cfg.KafkaLeadsTopic)
	}
	notifier := notification.NewService(notification.NewRepository(db), channels...)

	// Setup Gin router
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Fatalf("❌ Invalid TRUSTED_PROXIES: %v", err)
	}
	router.TrustedPlatform = cfg.TrustedPlatform
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(routes.CORS(cfg))
	router.LoadHTMLGlob("templates/*.html")

	routes.Setup(router, cfg, routes.Deps{
		DB:       db,
		Redis:    rdb,
		Files:    files,
		Sites:    sites,
		Notifier: notifier,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server running on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	stop, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-stop.Done()

	log.Println("🛑 Shutting down...")
	shutdownCtx, cancelShutdown := context.WithTimeout(ctx, 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Server shutdown: %v", err)
	}

	notifier.Wait()
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			log.Printf("⚠️ Kafka writer close: %v", err)
		}
	}
	if rdb != nil {
		rdb.Close()
	}
	log.Println("✅ Stopped")
}
