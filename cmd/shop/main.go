package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abraxas0001/E-Com-Cart/internal/cache"
	"github.com/abraxas0001/E-Com-Cart/internal/catalog"
	"github.com/abraxas0001/E-Com-Cart/internal/config"
	"github.com/abraxas0001/E-Com-Cart/internal/events"
	h "github.com/abraxas0001/E-Com-Cart/internal/http"
	"github.com/abraxas0001/E-Com-Cart/internal/logger"
	"github.com/abraxas0001/E-Com-Cart/internal/repository"
	"github.com/abraxas0001/E-Com-Cart/internal/service"
	"github.com/abraxas0001/E-Com-Cart/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	l, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer l.Sync()

	shutdownTracing := telemetry.Setup()
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			l.Warn("tracer provider shutdown failed", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := repository.Open(ctx, cfg.DBDriver, cfg.DSN())
	if err != nil {
		l.Fatal("failed to open database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	defer db.Close()

	if err := repository.RunMigrations(db, cfg.DBDriver); err != nil {
		l.Fatal("failed to run migrations", zap.Error(err))
	}
	l.Info("database ready", zap.String("driver", cfg.DBDriver))

	sqlRepo := repository.NewSQLRepository(db)

	productCache, closeCache := newProductCache(ctx, cfg, l)
	defer closeCache()

	products := catalog.NewService(sqlRepo, productCache, l)

	cartRepo, closeCartStore := newCartRepository(ctx, cfg, sqlRepo, l)
	defer closeCartStore()

	publisher := newPublisher(cfg, l)
	defer publisher.Close()

	cart := service.NewCartService(cartRepo, products, l)
	checkout := service.NewCheckoutService(cart, publisher, l)

	router := h.NewRouter(
		h.RouterConfig{
			RequestTimeout:     cfg.RequestTimeout,
			MaxRequestBodySize: cfg.MaxRequestBodySize,
			CORSAllowOrigins:   cfg.CORSAllowOrigins,
		},
		h.NewProductHandler(products, l),
		h.NewCartHandler(cart, l),
		h.NewCheckoutHandler(checkout, l),
		l,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		l.Info("server starting", zap.String("port", cfg.HTTPPort), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("shutting down server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("server forced to shutdown", zap.Error(err))
	}

	l.Info("server exited")
}

func newProductCache(ctx context.Context, cfg *config.Config, l *zap.Logger) (cache.ProductCache, func()) {
	if cfg.RedisAddr == "" {
		l.Info("product cache disabled")
		return cache.Noop{}, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		l.Warn("redis not reachable, catalog reads fall back to the database", zap.Error(err))
	}

	redisCache := cache.NewRedisCache(client, cfg.CatalogCacheTTL)
	return cache.NewBreakerCache(redisCache, cache.DefaultBreakerSettings(), l), func() {
		_ = client.Close()
	}
}

func newCartRepository(ctx context.Context, cfg *config.Config, sqlRepo *repository.SQLRepository, l *zap.Logger) (repository.CartRepository, func()) {
	if cfg.CartStore != config.CartStoreMongo {
		return sqlRepo, func() {}
	}

	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		l.Fatal("failed to connect to MongoDB", zap.Error(err))
	}

	mongoRepo := repository.NewMongoCartRepository(mongoDB, sqlRepo)
	if err := mongoRepo.CreateIndexes(ctx); err != nil {
		l.Fatal("failed to create MongoDB indexes", zap.Error(err))
	}
	l.Info("cart store ready", zap.String("store", "mongo"), zap.String("database", cfg.MongoDBName))

	return mongoRepo, func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoDB.Client().Disconnect(disconnectCtx)
	}
}

type eventPublisher interface {
	service.Publisher
	io.Closer
}

func newPublisher(cfg *config.Config, l *zap.Logger) eventPublisher {
	if len(cfg.KafkaBrokers) == 0 {
		l.Info("checkout events disabled")
		return events.Noop{}
	}

	l.Info("publishing checkout events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaTopic, cfg.KafkaBrokers...)
	return events.NewAsyncPublisher(kafkaPublisher, events.DefaultAsyncSettings(), l)
}
