package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/cache"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/events"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/httpapi"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/repository"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/service"
	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/storage"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDatabase   string
	RedisAddr       string
	RedisPassword   string
	KafkaBrokers    []string
	UploadDir       string
	UploadBaseURL   string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		MongoURI:        getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGODB_DATABASE", "craftora"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		UploadDir:       getEnv("UPLOAD_DIR", "./uploads"),
		UploadBaseURL:   getEnv("UPLOAD_BASE_URL", "http://localhost:8080/uploads"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, 15*time.Second)
	db, err := repository.ConnectMongoDB(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
	connectCancel()
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			log.Printf("failed to disconnect from MongoDB: %v", err)
		}
	}()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("redis unavailable, catalog cache degraded: %v", err)
	}
	defer redisClient.Close()

	carts := repository.NewMongoCartRepository(db)
	products := repository.NewMongoProductRepository(db)
	categories := repository.NewMongoCategoryRepository(db)
	orders := repository.NewMongoOrderRepository(db)
	reviews := repository.NewMongoReviewRepository(db)
	sellers := repository.NewMongoSellerRepository(db)
	users := repository.NewMongoUserRepository(db)
	checkout := repository.NewMongoCheckoutRepository(db)
	outbox := repository.NewMongoOutboxRepository(db)

	indexCtx, indexCancel := context.WithTimeout(ctx, 30*time.Second)
	err = repository.EnsureIndexes(indexCtx,
		carts, products, orders, reviews, sellers, checkout, outbox)
	indexCancel()
	if err != nil {
		log.Fatalf("failed to create indexes: %v", err)
	}

	fsStorage, err := storage.NewFilesystemStorage(cfg.UploadDir, cfg.UploadBaseURL)
	if err != nil {
		log.Fatalf("failed to init upload storage: %v", err)
	}
	blobs := storage.NewBreakerStorage(fsStorage)

	productCache := cache.NewRedisCache(redisClient)

	cartService := service.NewCartService(carts, products)
	checkoutService := service.NewCheckoutService(carts, products, orders, checkout, outbox)
	orderService := service.NewOrderService(orders, sellers, outbox)
	reviewService := service.NewReviewService(orders, reviews, products, sellers, outbox)
	catalogService := service.NewCatalogService(products, categories, sellers, productCache)
	sellerService := service.NewSellerService(sellers, users, outbox)

	poller := events.NewOutboxPoller(outbox, checkout, cfg.KafkaBrokers...)
	go poller.Run(ctx)

	router := httpapi.NewRouter(httpapi.Handlers{
		Carts:    httpapi.NewCartHandler(cartService),
		Checkout: httpapi.NewCheckoutHandler(checkoutService),
		Orders:   httpapi.NewOrderHandler(orderService),
		Reviews:  httpapi.NewReviewHandler(reviewService),
		Catalog:  httpapi.NewCatalogHandler(catalogService),
		Sellers:  httpapi.NewSellerHandler(sellerService),
		Uploads:  httpapi.NewUploadHandler(blobs),
		Users:    users,
	}, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("marketplace starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	cancel() // stops the outbox poller

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
