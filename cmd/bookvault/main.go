package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/bookvault/bookvault/adapters/events"
	"github.com/bookvault/bookvault/adapters/hasher"
	"github.com/bookvault/bookvault/adapters/store"
	"github.com/bookvault/bookvault/adapters/tokenizer"
	"github.com/bookvault/bookvault/internal/config"
	"github.com/bookvault/bookvault/internal/config/env"
	"github.com/bookvault/bookvault/ports"
	"github.com/bookvault/bookvault/service"
	transport "github.com/bookvault/bookvault/transport/http"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Load(".env"); err != nil {
		logger.Info("no .env file loaded, using process environment")
	}

	httpCfg, err := env.NewHTTPConfig()
	if err != nil {
		fatal(logger, "failed to load http config", err)
	}
	jwtCfg, err := env.NewJWTConfig()
	if err != nil {
		fatal(logger, "failed to load jwt config", err)
	}
	pgCfg, err := env.NewPGConfig()
	if err != nil {
		fatal(logger, "failed to load postgres config", err)
	}
	redisCfg, err := env.NewRedisConfig()
	if err != nil {
		fatal(logger, "failed to load redis config", err)
	}
	hashCfg, err := env.NewHashConfig()
	if err != nil {
		fatal(logger, "failed to load hash config", err)
	}

	ctx := context.Background()

	var userStore ports.UserStore
	var bookStore ports.BookStore
	if dsn := pgCfg.DSN(); dsn != "" {
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			fatal(logger, "failed to create postgres pool", err)
		}
		defer pool.Close()

		pg := store.NewPostgresStore(pool)
		userStore, bookStore = pg, pg
		logger.Info("using postgres store")
	} else {
		mem := store.NewMemoryStore()
		userStore, bookStore = mem, mem
		logger.Warn("no PG_DSN configured, using in-memory store")
	}

	var eventPub ports.EventPublisher
	if url := redisCfg.URL(); url != "" {
		opts, err := redis.ParseURL(url)
		if err != nil {
			fatal(logger, "failed to parse redis URL", err)
		}

		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: redis.NewClient(opts)},
			watermill.NewSlogLogger(logger),
		)
		if err != nil {
			fatal(logger, "failed to create redis publisher", err)
		}

		eventPub = events.NewWatermillPublisher(publisher)
		logger.Info("publishing security events to redis")
	} else {
		eventPub = events.NewNopPublisher()
		logger.Warn("no REDIS_URL configured, security events are discarded")
	}

	codec := tokenizer.NewJWTTokenizer(tokenizer.Config{
		AccessSecret:  jwtCfg.AccessTokenSecret(),
		RefreshSecret: jwtCfg.RefreshTokenSecret(),
		AccessTTL:     jwtCfg.AccessTokenDuration(),
		RefreshTTL:    jwtCfg.RefreshTokenDuration(),
	})

	sessions := service.NewSessionService(codec, userStore,
		hasher.NewBcryptHasher(hashCfg.BcryptCost()), eventPub, logger)
	books := service.NewBookService(bookStore)

	authHandlers := transport.NewAuthHandlers(sessions,
		int(jwtCfg.RefreshTokenDuration().Seconds()), httpCfg.SecureCookies())
	bookHandlers := transport.NewBookHandlers(books)

	router := transport.SetupRouter(authHandlers, bookHandlers, codec, logger)

	logger.Info("starting server", "address", httpCfg.Address())
	if err := router.Run(httpCfg.Address()); err != nil {
		fatal(logger, "server stopped", err)
	}
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
