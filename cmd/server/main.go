// main wires the contexts together: one domain bus per context with its
// promotion handler, a shared integration dispatcher with every subscriber,
// and the transport selected by configuration. Business logic lives in the
// internal context packages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"kitahub/internal/audit"
	"kitahub/internal/enrollment"
	enrollmenthandler "kitahub/internal/enrollment/handler"
	"kitahub/internal/events"
	"kitahub/internal/events/publish"
	"kitahub/internal/events/publish/kafka"
	"kitahub/internal/events/publish/local"
	"kitahub/internal/events/publish/redispubsub"
	"kitahub/internal/events/subscribe"
	"kitahub/internal/family"
	familyhandler "kitahub/internal/family/handler"
	familymetrics "kitahub/internal/family/metrics"
	"kitahub/internal/identity"
	identityhandler "kitahub/internal/identity/handler"
	"kitahub/internal/platform/config"
	"kitahub/internal/platform/httpserver"
	"kitahub/internal/platform/logger"
	platformpg "kitahub/internal/platform/postgres"
	platformredis "kitahub/internal/platform/redis"
	"kitahub/internal/programcatalog"
	programhandler "kitahub/internal/programcatalog/handler"
	"kitahub/internal/server"
	"kitahub/internal/tenant"
	tenanthandler "kitahub/internal/tenant/handler"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := platformpg.NewPool(ctx, cfg.Postgres)
	if err != nil {
		log.Error("postgres setup failed", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		defer pool.Close()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis setup failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Subscribers register on the dispatcher below; the publisher feeds it
	// either directly (local) or through the configured broker.
	dispatcher := subscribe.NewDispatcher(log)

	var (
		publisher   publish.Publisher
		redisRunner *redispubsub.Runner
	)
	switch cfg.Publisher {
	case config.PublisherRedis:
		if redisClient == nil {
			log.Error("publisher is redis but KITAHUB_REDIS_URL is not set")
			os.Exit(1)
		}
		publisher = redispubsub.NewPublisher(redisClient.Client)
		redisRunner = redispubsub.NewRunner(redisClient.Client, dispatcher, log)
	case config.PublisherKafka:
		kafkaPublisher, err := kafka.NewPublisher(cfg.Kafka.Brokers)
		if err != nil {
			log.Error("kafka setup failed", "error", err)
			os.Exit(1)
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	default:
		publisher = local.New(dispatcher)
	}
	publishing := publish.New(publisher, log, publish.NewMetrics())

	// Stores: postgres where implemented and configured, memory otherwise.
	var familyStore family.Store = family.NewInMemoryStore()
	var auditStore audit.Store = audit.NewInMemoryStore()
	if pool != nil {
		familyStore = family.NewPostgresStore(pool)
		auditStore = audit.NewPostgresStore(pool)
	}

	// One bus per context, each with its promotion handler.
	familyBus := events.NewBus(events.ContextFamily)
	familyBus.Register(family.NewPromotionHandler(publishing), family.PromotionPriority)

	identityBus := events.NewBus(events.ContextIdentity)
	identityBus.Register(identity.NewPromotionHandler(publishing), identity.PromotionPriority)

	catalogBus := events.NewBus(events.ContextProgramCatalog)
	catalogBus.Register(programcatalog.NewPromotionHandler(publishing), programcatalog.PromotionPriority)

	enrollmentBus := events.NewBus(events.ContextEnrollment)
	enrollmentBus.Register(enrollment.NewPromotionHandler(publishing), enrollment.PromotionPriority)

	tenantService := tenant.NewService(tenant.NewInMemoryStore(), log)
	familyService := family.NewService(familyStore, familyBus, log, familymetrics.New())
	identityService := identity.NewService(identity.NewInMemoryStore(), identityBus, log)
	catalogService := programcatalog.NewService(programcatalog.NewInMemoryStore(), catalogBus, log)
	enrollmentService := enrollment.NewService(enrollment.NewInMemoryStore(), enrollmentBus, log)

	dispatcher.Register(programcatalog.NewIntegrationSubscriber(catalogService, log))
	dispatcher.Register(enrollment.NewIntegrationSubscriber(enrollmentService, log))
	dispatcher.Register(audit.NewSubscriber(auditStore, log))

	router := server.NewRouter(server.Handlers{
		Tenant:     tenanthandler.New(tenantService, log),
		Family:     familyhandler.New(familyService, log),
		Identity:   identityhandler.New(identityService, log),
		Catalog:    programhandler.New(catalogService, log),
		Enrollment: enrollmenthandler.New(enrollmentService, log),
	}, log)

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting kitahub", "addr", cfg.Addr, "publisher", string(cfg.Publisher))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if redisRunner != nil {
		g.Go(func() error {
			err := redisRunner.Run(gctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
