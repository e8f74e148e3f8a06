// Command marketd runs the marketplace client core behind a local HTTP API
// that a view layer talks to.
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

	"github.com/rs/zerolog"

	"github.com/futuremakers/market-client/internal/api"
	"github.com/futuremakers/market-client/internal/api/handler"
	"github.com/futuremakers/market-client/internal/api/metrics"
	"github.com/futuremakers/market-client/internal/core/ports"
	"github.com/futuremakers/market-client/internal/core/service"
	"github.com/futuremakers/market-client/internal/infrastructure/config"
	"github.com/futuremakers/market-client/internal/infrastructure/db/memory"
	mongostore "github.com/futuremakers/market-client/internal/infrastructure/db/mongo"
	redisstore "github.com/futuremakers/market-client/internal/infrastructure/db/redis"
	"github.com/futuremakers/market-client/internal/infrastructure/db/sqlite"
	"github.com/futuremakers/market-client/internal/infrastructure/gateway"
	"github.com/futuremakers/market-client/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// durableStore is a KV backend that can also report its reachability.
type durableStore interface {
	ports.KVStore
	handler.Pinger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "marketd:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "marketd",
	})

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	log.Info().Str("driver", cfg.Store.Driver).Msg("durable store ready")

	gw := gateway.New(gateway.Config{
		BaseURL: cfg.Gateway.BaseURL,
		Timeout: cfg.Gateway.Timeout,
	}, logger.For("gateway"), gateway.WithObserver(metrics.ObserveGateway))

	session := service.NewSessionService(gw, store, logger.For("session"))
	gw.UseCredentials(session)
	session.Subscribe(func(s ports.SessionSnapshot) {
		metrics.SessionTransitionsTotal.WithLabelValues(string(s.State)).Inc()
	})

	cart := service.NewCartService(ctx, store, gw, logger.For("cart"))
	metrics.CartItems.Set(float64(cart.Snapshot().ItemCount))

	lifecycle := service.NewLifecycleService(gw, logger.For("lifecycle"))
	catalog := service.NewCatalogService(gw, cfg.Search.CacheSize, cfg.Search.CacheTTL, logger.For("catalog"))
	seller := service.NewSellerService(gw, logger.For("seller"))
	admin := service.NewAdminService(gw)

	restored := session.Restore(ctx)
	log.Info().Str("state", string(restored.State)).Msg("session restored")

	e := api.NewRouter(api.Dependencies{
		Session:   session,
		Cart:      cart,
		Lifecycle: lifecycle,
		Catalog:   catalog,
		Seller:    seller,
		Admin:     admin,
		Checks:    map[string]handler.Pinger{"store": store},
		Log:       logger.For("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openStore connects the configured durable store backend. The returned close
// function is always safe to call.
func openStore(ctx context.Context, cfg *config.Config) (durableStore, func(), error) {
	log := logger.For("store")

	switch cfg.Store.Driver {
	case config.StoreSQLite:
		db, err := sqlite.OpenDB(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewKVStore(db), func() { closeLogged(log, "sqlite", db.Close) }, nil

	case config.StoreRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewKVStore(client, cfg.Redis.Prefix), func() { closeLogged(log, "redis", client.Close) }, nil

	case config.StoreMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, nil, err
		}
		disconnect := func() error {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return client.Disconnect(dctx)
		}
		return mongostore.NewKVStore(db), func() { closeLogged(log, "mongo", disconnect) }, nil

	default:
		log.Warn().Msg("memory store selected: session and cart are lost on exit")
		return memory.NewKVStore(), func() {}, nil
	}
}

func closeLogged(log zerolog.Logger, name string, fn func() error) {
	if err := fn(); err != nil {
		log.Warn().Err(err).Str("backend", name).Msg("close failed")
	}
}
