package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	router "github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/adapters/http"
	wssignal "github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/adapters/signal"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/app"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/app/orch"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/auth"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/config"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/logging"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/metrics"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Console logging until the configured logger is installed.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logCloser, err := logging.Setup(logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up logging")
	}

	err = run(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("server stopped with error")
	} else {
		log.Info().Msg("Server exited gracefully")
	}
	_ = logCloser.Close()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	st, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	var (
		lookups     store.Store = st
		revocations *auth.RedisRevocations
		rdb         *redis.Client
	)
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		lookups = store.NewCached(st, rdb, cfg.Redis.CacheTTL)
		revocations = auth.NewRedisRevocations(rdb)
		log.Info().Str("module", "main").Str("addr", cfg.Redis.Addr).Msg("redis cache and revocations enabled")
	}

	verifierOpts := []auth.VerifierOption{auth.WithLeeway(cfg.Auth.Leeway)}
	var revoker router.Revoker
	if revocations != nil {
		verifierOpts = append(verifierOpts, auth.WithRevocations(revocations))
		revoker = revocations
	}
	verifier := auth.NewVerifier(cfg.Auth.Secret, lookups, verifierOpts...)

	m := metrics.New()
	o := &orch.Orchestrator{
		Registry: app.NewRegistry(),
		Rooms:    app.NewBroadcaster(),
		Oracle:   &auth.Oracle{Owners: lookups, Timeout: cfg.Auth.LookupTimeout},
		Policy:   app.PolicyFor(cfg.WS.KickSlow),
		Metrics:  m,
	}
	ctl := wssignal.NewSignalWSController(o, verifier,
		wssignal.NewJoinRateLimiter(cfg.Auth.JoinLimit, cfg.Auth.JoinWindow), m,
		wssignal.Options{
			ReadLimit:     cfg.WS.ReadLimit,
			PingPeriod:    cfg.WS.PingPeriod,
			PongWait:      cfg.WS.PongWait,
			WriteWait:     cfg.WS.WriteWait,
			SendBuffer:    cfg.WS.SendBuffer,
			AllowedOrigin: cfg.Server.ClientURL,
		})

	r := router.SetupRouter(ctx, router.Deps{
		Config:   cfg,
		Orch:     o,
		Signal:   ctl,
		Verifier: verifier,
		Store:    lookups,
		Revoker:  revoker,
		Metrics:  m,
	})
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("Debug collaboration server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (store.Store, error) {
	switch cfg.Driver {
	case "memory":
		log.Warn().Str("module", "main").Msg("using in-memory session store")
		m := store.NewMemory()
		if cfg.Seed != "" {
			if err := store.LoadSeed(m, cfg.Seed); err != nil {
				return nil, err
			}
		}
		return m, nil
	default:
		return store.OpenPostgres(ctx, store.PostgresOptions{
			DSN:             cfg.URL,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		})
	}
}
