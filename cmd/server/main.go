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

	"aikifed/internal/association"
	"aikifed/internal/audit"
	"aikifed/internal/club"
	"aikifed/internal/insurance"
	"aikifed/internal/license"
	"aikifed/internal/member"
	"aikifed/internal/payment"
	"aikifed/internal/platform/config"
	"aikifed/internal/platform/httpserver"
	"aikifed/internal/platform/logger"
	"aikifed/internal/platform/metrics"
	"aikifed/internal/platform/middleware"
	"aikifed/internal/platform/postgres"
	"aikifed/internal/platform/redis"
	"aikifed/internal/seminar"
	transport "aikifed/internal/transport/http"
)

type stores struct {
	associations association.Store
	clubs        club.Store
	members      member.Store
	licenses     license.Store
	seminars     seminar.Store
	payments     payment.Store
	insurances   insurance.Store
}

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := buildStores(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize storage", "error", err.Error())
		os.Exit(1)
	}

	cache, err := redis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err.Error())
		os.Exit(1)
	}

	m := metrics.New()

	g, ctx := errgroup.WithContext(ctx)

	var auditor audit.Publisher
	if cfg.KafkaBrokers != "" {
		kafka, err := audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("failed to connect to kafka", "error", err.Error())
			os.Exit(1)
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := kafka.Close(flushCtx); err != nil {
				log.Error("failed to flush audit events", "error", err.Error())
			}
		}()
		auditor = kafka
	} else {
		channel := audit.NewChannelPublisher(1024)
		worker := audit.NewWorker(audit.NewInMemoryStore(), channel.Inbox(), log)
		g.Go(func() error {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		auditor = channel
	}

	assocSvc := association.NewService(st.associations,
		association.WithLogger(log), association.WithAuditPublisher(auditor), association.WithMetrics(m))
	clubSvc := club.NewService(st.clubs, st.associations,
		club.WithLogger(log), club.WithAuditPublisher(auditor), club.WithMetrics(m))
	memberSvc := member.NewService(st.members, st.clubs,
		member.WithLogger(log), member.WithAuditPublisher(auditor), member.WithMetrics(m))
	licenseSvc := license.NewService(st.licenses, st.members, st.clubs,
		license.WithLogger(log), license.WithAuditPublisher(auditor), license.WithMetrics(m),
		license.WithExpiryCache(cache, cfg.ExpiryCacheTTL))
	seminarSvc := seminar.NewService(st.seminars, st.clubs,
		seminar.WithLogger(log), seminar.WithAuditPublisher(auditor), seminar.WithMetrics(m))
	paymentSvc := payment.NewService(st.payments, payment.NewRedsysGateway(cfg.RedsysMerchantCode), st.members,
		payment.WithLogger(log), payment.WithAuditPublisher(auditor), payment.WithMetrics(m))
	insuranceSvc := insurance.NewService(st.insurances, st.members,
		insurance.WithLogger(log), insurance.WithAuditPublisher(auditor), insurance.WithMetrics(m),
		insurance.WithExpiryCache(cache, cfg.ExpiryCacheTTL))

	var validator middleware.JWTValidator
	if cfg.JWTSigningKey != "" {
		validator = middleware.NewHMACValidator(cfg.JWTSigningKey)
	} else {
		log.Warn("no JWT signing key configured, API authentication disabled")
	}

	router := transport.NewRouter(transport.Deps{
		Logger:       log,
		Metrics:      m,
		Validator:    validator,
		Associations: association.NewHandler(assocSvc),
		Clubs:        club.NewHandler(clubSvc),
		Members:      member.NewHandler(memberSvc),
		Licenses:     license.NewHandler(licenseSvc),
		Seminars:     seminar.NewHandler(seminarSvc),
		Payments:     payment.NewHandler(paymentSvc),
		Insurances:   insurance.NewHandler(insuranceSvc),
	})

	server := httpserver.New(cfg.Addr, router)

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return httpserver.Shutdown(server, 10*time.Second)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited with error", "error", err.Error())
		os.Exit(1)
	}
	log.Info("server stopped")
}

// buildStores selects Postgres-backed stores when a database URL is
// configured and in-memory stores otherwise.
func buildStores(ctx context.Context, cfg config.Config) (*stores, error) {
	if cfg.PostgresURL == "" {
		return &stores{
			associations: association.NewInMemory(),
			clubs:        club.NewInMemory(),
			members:      member.NewInMemory(),
			licenses:     license.NewInMemory(),
			seminars:     seminar.NewInMemory(),
			payments:     payment.NewInMemory(),
			insurances:   insurance.NewInMemory(),
		}, nil
	}
	db, err := postgres.Open(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, err
	}
	return &stores{
		associations: association.NewPostgres(db),
		clubs:        club.NewPostgres(db),
		members:      member.NewPostgres(db),
		licenses:     license.NewPostgres(db),
		seminars:     seminar.NewPostgres(db),
		payments:     payment.NewPostgres(db),
		insurances:   insurance.NewPostgres(db),
	}, nil
}
