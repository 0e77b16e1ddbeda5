package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"gesclient/internal/audit"
	auditlogHandler "gesclient/internal/auditlog/handler"
	auditlogService "gesclient/internal/auditlog/service"
	auditlogStore "gesclient/internal/auditlog/store"
	clientHandler "gesclient/internal/client/handler"
	clientService "gesclient/internal/client/service"
	clientStore "gesclient/internal/client/store"
	demandeHandler "gesclient/internal/demande/handler"
	demandeService "gesclient/internal/demande/service"
	demandeStore "gesclient/internal/demande/store"
	httpapi "gesclient/internal/http"
	numeroHandler "gesclient/internal/numero/handler"
	numeroService "gesclient/internal/numero/service"
	numeroStore "gesclient/internal/numero/store"
	"gesclient/internal/platform/config"
	"gesclient/internal/platform/httpserver"
	"gesclient/internal/platform/kafka"
	"gesclient/internal/platform/logger"
	"gesclient/internal/platform/metrics"
	platformmongo "gesclient/internal/platform/mongo"
	"gesclient/internal/platform/redis"
	rateLimitMetrics "gesclient/internal/ratelimit/metrics"
	rateLimitMW "gesclient/internal/ratelimit/middleware"
	"gesclient/internal/ratelimit/store/bucket"
	id "gesclient/pkg/domain"
	"gesclient/pkg/platform/httputil"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Server.Environment)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	id.SetCNILength(cfg.CNILength)
	httputil.ExposeInternalErrors(cfg.Server.IsDevelopment())

	mongoClient, err := platformmongo.Connect(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Close(context.Background()); err != nil {
			log.Warn("mongo disconnect failed", "error", err)
		}
	}()
	db := mongoClient.Database()
	if err := platformmongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	log.Info("connected to mongo", "database", cfg.Mongo.Database)

	appMetrics := metrics.New()

	clients := clientStore.NewMongo(db)
	numeros := numeroStore.NewMongo(db)
	demandes := demandeStore.NewMongo(db)
	logs := auditlogStore.NewMongo(db)

	publisherOpts := []audit.Option{
		audit.WithBufferSize(cfg.Audit.BufferSize),
		audit.WithWriteTimeout(cfg.Audit.WriteTimeout),
		audit.WithCircuitBreaker(cfg.Audit.FailureThreshold, cfg.Audit.Cooldown),
		audit.WithLogger(log),
		audit.WithMetrics(audit.NewMetrics(prometheus.DefaultRegisterer)),
	}
	producer, err := kafka.NewProducer(ctx, cfg.Kafka, log)
	if err != nil {
		return err
	}
	if producer != nil {
		if err := producer.EnsureTopic(ctx); err != nil {
			log.Warn("audit topic bootstrap failed", "topic", cfg.Kafka.Topic, "error", err)
		}
		publisherOpts = append(publisherOpts, audit.WithMirror(producer))
		log.Info("audit mirror enabled", "topic", cfg.Kafka.Topic)
	}
	publisher := audit.NewPublisher(logs, publisherOpts...)

	limiter, closeLimiter, err := buildRateLimiter(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLimiter()

	router := httpapi.NewRouter(
		httpapi.Config{Version: cfg.Server.Version, CORSOrigins: cfg.Server.CORSOrigins},
		httpapi.Deps{
			Logger:         log,
			Health:         mongoClient,
			Observer:       audit.NewObserver(publisher, httpapi.HealthPath, httpapi.MetricsPath),
			RateLimit:      limiter.Handler,
			Metrics:        appMetrics,
			MetricsHandler: promhttp.Handler(),
			Handlers: []httpapi.Registrar{
				clientHandler.New(clientService.New(clients, numeros,
					clientService.WithLogger(log), clientService.WithMetrics(appMetrics)), log),
				numeroHandler.New(numeroService.New(numeros, clients,
					numeroService.WithLogger(log), numeroService.WithMetrics(appMetrics)), log),
				demandeHandler.New(demandeService.New(demandes, logs,
					demandeService.WithLogger(log), demandeService.WithMetrics(appMetrics)), log),
				auditlogHandler.New(auditlogService.New(logs,
					auditlogService.WithLogger(log), auditlogService.WithMetrics(appMetrics)), log),
			},
		},
	)

	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting gesclient",
			"addr", cfg.Server.Addr,
			"env", cfg.Server.Environment,
			"version", cfg.Server.Version,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if err := publisher.Close(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if producer != nil {
			if err := producer.Close(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

// buildRateLimiter prefers the shared Redis window and keeps an in-process
// window as fallback. Without Redis the in-process window is the only one.
func buildRateLimiter(ctx context.Context, cfg config.Config, log *slog.Logger) (*rateLimitMW.Middleware, func(), error) {
	opts := []rateLimitMW.Option{
		rateLimitMW.WithDisabled(!cfg.RateLimit.Enabled),
		rateLimitMW.WithMetrics(rateLimitMetrics.New(prometheus.DefaultRegisterer)),
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if redisClient == nil {
		log.Info("rate limiting with in-process window")
		mw := rateLimitMW.New(bucket.NewInMemory(), cfg.RateLimit.Requests, cfg.RateLimit.Window, log, opts...)
		return mw, func() {}, nil
	}

	log.Info("rate limiting with redis window")
	opts = append(opts, rateLimitMW.WithFallback(bucket.NewInMemory()))
	mw := rateLimitMW.New(bucket.NewRedis(redisClient.Client), cfg.RateLimit.Requests, cfg.RateLimit.Window, log, opts...)
	return mw, func() {
		if err := redisClient.Close(); err != nil {
			log.Warn("redis close failed", "error", err)
		}
	}, nil
}
