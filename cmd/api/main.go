// @title           CRM Console API
// @version         1.0
// @description     Console backend for the CRM: sessions, permissions, customers and analytics.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/crmsystem/console-api/internal/api"
	"github.com/crmsystem/console-api/internal/core/ports"
	"github.com/crmsystem/console-api/internal/core/service"
	"github.com/crmsystem/console-api/internal/infrastructure/crmapi"
	"github.com/crmsystem/console-api/internal/infrastructure/db/memory"
	"github.com/crmsystem/console-api/internal/infrastructure/db/mongo"
	"github.com/crmsystem/console-api/internal/infrastructure/db/redis"
	"github.com/crmsystem/console-api/internal/infrastructure/http/handlers"
	"github.com/crmsystem/console-api/internal/infrastructure/queue"
	"github.com/crmsystem/console-api/internal/pkg/config"
	"github.com/crmsystem/console-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "crm-console",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	crm := crmapi.NewClient(cfg.CRM.BaseURL, cfg.CRM.Timeout, logger.Component(log, "crmapi"))
	readiness := []handlers.Check{{Name: "crm_api", Ping: crm.Ping}}

	var (
		store   ports.SessionStore
		signals ports.RefreshSignal
		closers []func()
	)

	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis connection failed")
		}
		closers = append(closers, closeRedis(client, log))
		store = redis.NewSessionStore(client, logger.Component(log, "sessions"))
		signals = redis.NewRefreshSignal(client, logger.Component(log, "refresh_signal"))
		readiness = append(readiness, handlers.Check{Name: "redis", Ping: redis.Ping(client)})

	case config.SessionBackendMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connection failed")
		}
		closers = append(closers, func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		})
		sessions := mongo.NewSessionStore(db, logger.Component(log, "sessions"))
		if err := sessions.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("mongo session indexes")
		}
		store = sessions
		signals = service.NewLocalRefreshSignal()
		readiness = append(readiness, handlers.Check{Name: "mongo", Ping: mongo.Ping(client)})

	default:
		sessions := memory.NewSessionStore(logger.Component(log, "sessions"))
		store = sessions
		signals = service.NewLocalRefreshSignal()
		readiness = append(readiness, handlers.Check{Name: "sessions", Ping: sessions.Ping})
	}

	evaluator := service.NewEvaluator(store)
	sessions := service.NewSessionService(crm, store, cfg.JWTSecret, cfg.Session.TTL, logger.Component(log, "sessions"))
	customers := service.NewCustomerService(crm, crm, signals, cfg.CRM.PageSize, logger.Component(log, "customers"))
	analytics := service.NewAnalyticsService(crm, cfg.Aggregation.Concurrency, logger.Component(log, "analytics"))

	refresher := queue.NewRefresher(signals, analytics, logger.Component(log, "refresher"))
	refresher.Start(ctx)

	e := api.NewRouter(api.Deps{
		Sessions:   sessions,
		Authorizer: evaluator,
		Customers:  customers,
		Analytics:  analytics,
		Refresh:    signals,
		Readiness:  readiness,
		SessionTTL: cfg.Session.TTL,
		Log:        logger.Component(log, "http"),
	})

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("session_backend", cfg.Session.Backend).
			Str("crm_api", cfg.CRM.BaseURL).
			Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	refresher.Wait()
	for _, closeFn := range closers {
		closeFn()
	}

	log.Info().Msg("shutdown complete")
}

func closeRedis(client *goredis.Client, log zerolog.Logger) func() {
	return func() {
		if err := client.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close")
		}
	}
}
