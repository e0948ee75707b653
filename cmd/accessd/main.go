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

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/accessd/internal/access"
	"github.com/dropDatabas3/accessd/internal/access/providers"
	"github.com/dropDatabas3/accessd/internal/analytics"
	"github.com/dropDatabas3/accessd/internal/cache"
	"github.com/dropDatabas3/accessd/internal/config"
	httpx "github.com/dropDatabas3/accessd/internal/http"
	accessctrl "github.com/dropDatabas3/accessd/internal/http/controllers/access"
	reservctrl "github.com/dropDatabas3/accessd/internal/http/controllers/reservation"
	"github.com/dropDatabas3/accessd/internal/lock"
	"github.com/dropDatabas3/accessd/internal/metrics"
	"github.com/dropDatabas3/accessd/internal/observability/logger"
	"github.com/dropDatabas3/accessd/internal/reservation"
	"github.com/dropDatabas3/accessd/internal/store/core"
	"github.com/dropDatabas3/accessd/internal/store/memory"
	"github.com/dropDatabas3/accessd/internal/store/pg"
)

var version = "dev"

func main() {
	var cfgPath string

	root := &cobra.Command{
		Use:   "accessd",
		Short: "Servicio de códigos de acceso (recalculación y cache)",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "ruta del config YAML")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfgPath)
		},
	})
	var retainDays int
	var retainCode string
	retentionCmd := &cobra.Command{
		Use:   "retention",
		Short: "Borra eventos de analítica anteriores al corte",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRetention(cfgPath, retainDays, retainCode)
		},
	}
	retentionCmd.Flags().IntVar(&retainDays, "days", 90, "antigüedad mínima en días de lo que se borra")
	retentionCmd.Flags().StringVar(&retainCode, "code", "", "limitar el borrado a un código de evento")
	root.AddCommand(retentionCmd)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Imprime la versión",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// repos junta las implementaciones concretas que usa el wiring.
type repos struct {
	access      core.AccessRepository
	checks      core.CheckRepository
	options     core.OptionRepository
	directory   core.DirectoryRepository
	reservation core.ReservationRepository
	analytics   core.AnalyticsRepository
	close       func()
}

func serve(cfgPath string) error {
	// .env opcional; las env pisan el YAML
	if err := godotenv.Load(); err != nil {
		logger.L().Debug("no .env file loaded")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "accessd",
		Version:     version,
	})
	defer func() { _ = logger.Sync() }()
	log := logger.Named("main")

	ctx := context.Background()

	store, err := buildRepos(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.close()

	cacheClient, err := cache.New(cache.Config{
		Driver:   cfg.Cache.Kind,
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer func() { _ = cacheClient.Close() }()

	locks, err := lock.New(lock.Config{
		Kind:     cfg.Lock.Kind,
		Addr:     cfg.Lock.Redis.Addr,
		Password: cfg.Lock.Redis.Password,
		DB:       cfg.Lock.Redis.DB,
		TTL:      cfg.LockTTL(),
	})
	if err != nil {
		return fmt.Errorf("lock: %w", err)
	}
	defer func() { _ = locks.Close() }()

	if err := metrics.Register(nil); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	registry := access.NewRegistry()
	registry.Register(providers.Builtin(store.directory, store.access))

	checks := access.NewCheckCache(store.checks, cacheClient, cfg.Cache.Enabled, cfg.CacheDefaultTTL())
	svc := access.NewService(access.Deps{
		Registry:     registry,
		Access:       store.access,
		Checks:       checks,
		Options:      store.options,
		Store:        cacheClient,
		Locks:        locks,
		CacheEnabled: cfg.Cache.Enabled,
		CacheTTL:     cfg.CacheDefaultTTL(),
	})

	reservations := reservation.NewService(store.reservation, reservation.NewNoopHistory())

	handler := httpx.NewRouter(
		accessctrl.NewController(svc),
		reservctrl.NewController(reservations),
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", logger.Any("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func runRetention(cfgPath string, days int, code string) error {
	if err := godotenv.Load(); err != nil {
		logger.L().Debug("no .env file loaded")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "accessd",
		Version:     version,
	})
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	store, err := buildRepos(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.close()

	upto := time.Now().AddDate(0, 0, -days)
	svc := analytics.NewService(store.analytics)

	var deleted int64
	if code != "" {
		deleted, err = svc.DeleteByCodeAndDate(ctx, code, upto)
	} else {
		deleted, err = svc.DeleteByDate(ctx, upto)
	}
	if err != nil {
		return fmt.Errorf("retention: %w", err)
	}
	fmt.Printf("deleted %d events older than %s\n", deleted, upto.Format("2006-01-02"))
	return nil
}

func buildRepos(ctx context.Context, cfg *config.Config) (*repos, error) {
	switch cfg.Storage.Driver {
	case "memory":
		m := memory.New()
		return &repos{
			access:      m,
			checks:      m,
			options:     m,
			directory:   m,
			reservation: m,
			analytics:   m,
			close:       func() {},
		}, nil
	case "pg", "":
		s, err := pg.New(ctx, cfg.Storage.DSN, pg.Tuning{
			MaxOpenConns:    cfg.Storage.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Storage.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		return &repos{
			access:      s,
			checks:      s,
			options:     s,
			directory:   s,
			reservation: s,
			analytics:   s,
			close:       s.Close,
		}, nil
	default:
		return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Storage.Driver)
	}
}
