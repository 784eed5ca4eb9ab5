// quotad is the authoritative quota service. It serves the check/increment
// API over HTTP, keeps daily counters in Redis, and runs the database
// migrations for the snapshot and security-event tables on startup.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mentorly/entitlement/migrations"
	"github.com/mentorly/entitlement/pkg/clientip"
	"github.com/mentorly/entitlement/pkg/config"
	"github.com/mentorly/entitlement/pkg/httpserver"
	"github.com/mentorly/entitlement/pkg/logger"
	"github.com/mentorly/entitlement/pkg/pg"
	"github.com/mentorly/entitlement/pkg/redis"
	"github.com/mentorly/entitlement/svc/quota"
)

type appConfig struct {
	Addr     string `env:"HTTP_ADDR" envDefault:":8080"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	APIKey   string `env:"QUOTA_API_KEY"`
	Redis    redis.Config
	Postgres pg.Config
}

func main() {
	ctx := context.Background()

	var cfg appConfig
	config.MustLoad(&cfg)

	var log *slog.Logger
	if cfg.Env == "production" {
		log = logger.New(logger.WithProduction("quotad"))
	} else {
		log = logger.New(logger.WithDevelopment("quotad"))
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error("quotad exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	pool, err := pg.Connect(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, migrations.FS, cfg.Postgres, log); err != nil {
		return err
	}

	counter := quota.NewRedisCounter(redisClient)
	handler := quota.NewHandler(quota.NewService(counter),
		quota.WithAPIKey(cfg.APIKey),
		quota.WithHandlerLogger(log),
	)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(clientip.Middleware)
	r.Get("/health", httpserver.HealthCheckHandler(log,
		redis.Healthcheck(redisClient),
		pg.Healthcheck(pool),
	))
	r.Mount("/v1/quota", handler.Routes())

	srv := httpserver.New(
		httpserver.WithAddr(cfg.Addr),
		httpserver.WithLogger(log),
	)
	return srv.Run(ctx, r)
}
