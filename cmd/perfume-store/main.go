package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/abdougarali/Perfume-Order-Store/internal/admin"
	"github.com/abdougarali/Perfume-Order-Store/internal/cart"
	"github.com/abdougarali/Perfume-Order-Store/internal/catalog"
	"github.com/abdougarali/Perfume-Order-Store/internal/config"
	"github.com/abdougarali/Perfume-Order-Store/internal/db"
	"github.com/abdougarali/Perfume-Order-Store/internal/order"
	"github.com/abdougarali/Perfume-Order-Store/internal/transport"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "perfume-store").Logger()

	log.Info().Msg("Perfume store starting...")

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load product catalog")
	}

	ctx := context.Background()

	dbConn, err := db.New(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbConn.Close()

	var (
		cartStorage  cart.Storage
		sessionStore admin.SessionStore
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, carts and sessions will be kept in memory")
		cartStorage = cart.NewMemoryStorage()
		sessionStore = admin.NewMemorySessionStore()
	} else {
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")
		cartStorage = cart.NewRedisStorage(redisClient, "cart", 30*24*time.Hour)
		sessionStore = admin.NewRedisSessionStore(redisClient, "admin_session")
		defer redisClient.Close()
	}

	orderRepo := order.NewRepository(dbConn.Pool)
	orderSvc := order.NewService(orderRepo)
	auth := admin.NewAuth(cfg.Admin.Password, cfg.Admin.PasswordHash, cfg.Admin.SessionTTL, sessionStore)

	router := transport.NewRouter(cat, cartStorage, orderSvc, auth)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}
	log.Info().Msg("Server stopped")
}
