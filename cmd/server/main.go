// Command server runs the attesto verification service: it exchanges party
// credentials for access tokens, verifies zero-knowledge claim proofs and
// records consumed nullifiers so a proof can be redeemed once.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attesto/internal/audit"
	"attesto/internal/claims"
	jwttoken "attesto/internal/jwt_token"
	"attesto/internal/ledger"
	"attesto/internal/party"
	partyhandler "attesto/internal/party/handler"
	"attesto/internal/platform/config"
	"attesto/internal/platform/httpserver"
	"attesto/internal/platform/logger"
	platformmetrics "attesto/internal/platform/metrics"
	platformpg "attesto/internal/platform/postgres"
	platformredis "attesto/internal/platform/redis"
	"attesto/internal/ratelimit"
	httptransport "attesto/internal/transport/http"
	"attesto/internal/verifier"
	verifierhandler "attesto/internal/verifier/handler"
	verifiermetrics "attesto/internal/verifier/metrics"
	"attesto/internal/verifier/ports"
	"attesto/internal/zk"
	"attesto/pkg/domain"
	"attesto/pkg/platform/circuit"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run wires the dependencies and serves until the context is cancelled.
// Deferred closers run in reverse wiring order, so the audit publisher
// drains before its sink disconnects.
func run(ctx context.Context) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	registry, err := claims.Default()
	if err != nil {
		return err
	}
	specs := registry.List()
	ids := make([]domain.ClaimID, 0, len(specs))
	for _, spec := range specs {
		ids = append(ids, spec.ID)
	}
	engine, err := zk.NewEngine(log, cfg.KeyDir, ids...)
	if err != nil {
		return err
	}

	var (
		nullifiers   ports.NullifierLedger
		ready        []httptransport.ReadyCheck
		limiterStore ratelimit.Store = ratelimit.NewMemory()
	)
	switch cfg.LedgerBackend {
	case config.LedgerPostgres:
		db, err := platformpg.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()

		pg := ledger.NewPostgres(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			return err
		}
		nullifiers = pg
		ready = append(ready, db.PingContext)
	case config.LedgerRedis:
		client, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()

		nullifiers = ledger.NewRedis(client.Client)
		// Share the connection so the whole fleet also shares rate buckets.
		limiterStore = ratelimit.NewRedis(client.Client)
		ready = append(ready, client.Health)
	default:
		log.Warn("using in-memory nullifier ledger; replay protection will not survive a restart")
		nullifiers = ledger.NewMemory()
	}

	var sink audit.Sink
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(ctx, cfg.KafkaBrokers, cfg.AuditTopic, log)
		if err != nil {
			return err
		}
		defer kafkaSink.Close()
		sink = kafkaSink
	} else {
		log.Warn("no kafka brokers configured; audit events stay in process memory")
		sink = audit.NewMemorySink()
	}
	publisher := audit.NewPublisher(sink,
		audit.WithLogger(log),
		audit.WithAsyncBuffer(cfg.AuditBuffer),
		audit.WithBreaker(circuit.New("audit-sink"), 0),
	)
	defer publisher.Close()

	parties := party.NewMemoryStore()
	if len(cfg.Parties) > 0 {
		creds := make([]party.Credential, 0, len(cfg.Parties))
		for _, c := range cfg.Parties {
			creds = append(creds, party.Credential{ID: c.ID, SecretHash: c.SecretHash})
		}
		n, err := party.Seed(ctx, parties, creds, time.Now().UTC())
		if err != nil {
			return err
		}
		log.Info("seeded party credentials", "count", n)
	} else {
		if _, err := party.SeedDev(ctx, parties, time.Now().UTC()); err != nil {
			return err
		}
		log.Warn("no parties configured; seeded development credentials", "party_id", party.DevPartyID)
	}

	tokens := jwttoken.NewService(cfg.JWTSigningKey, "attesto", "attesto-api")
	partySvc := party.NewService(parties, tokens,
		party.WithLogger(log),
		party.WithTokenTTL(cfg.TokenTTL),
	)

	verifySvc := verifier.NewService(registry, engine, nullifiers,
		verifier.WithLogger(log),
		verifier.WithMetrics(verifiermetrics.New()),
		verifier.WithAudit(publisher),
		verifier.WithDateTolerance(cfg.DateToleranceDays),
	)

	var limiter *ratelimit.Middleware
	if cfg.RateLimit.Disabled {
		log.Warn("rate limiting disabled")
	} else {
		limiter = ratelimit.NewMiddleware(limiterStore, ratelimit.Limits{
			ratelimit.ScopeToken:  ratelimit.PerMinute(cfg.RateLimit.TokenPerMinute),
			ratelimit.ScopeVerify: ratelimit.PerMinute(cfg.RateLimit.VerifyPerMinute),
		}, ratelimit.WithLogger(log))
	}

	router := httptransport.NewRouter(httptransport.Config{
		Logger:         log,
		TokenValidator: jwttoken.NewMiddlewareAdapter(tokens),
		RequestTimeout: cfg.RequestTimeout,
		HTTPMetrics:    platformmetrics.NewHTTP(),
		RateLimiter:    limiter,
		ReadyChecks:    ready,
	},
		verifierhandler.New(verifySvc, log),
		partyhandler.New(partySvc, log),
	)

	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("attesto listening", "addr", cfg.Addr, "ledger", cfg.LedgerBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
