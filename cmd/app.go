package main

import (
	"context"
	"fmt"
	"time"

	"storefront/cart"
	"storefront/config"
	"storefront/controllers"
	"storefront/database"
	"storefront/messaging"
	"storefront/services"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// app holds the long-lived dependencies built from the configuration.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	store database.Store
	carts cart.Storage
	redis *redis.Client
	ctl   *controllers.Controller
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (database.Store, error) {
	switch cfg.Store.Backend {
	case "memory":
		log.Warn("using in-memory document store, data is lost on exit")
		return database.NewMemoryStore(), nil
	case "mongo", "":
		if cfg.Mongo.URI == "" {
			return nil, fmt.Errorf("mongo.uri is required for the mongo store")
		}
		return database.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database, log)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func openCarts(ctx context.Context, cfg *config.Config) (cart.Storage, *redis.Client, error) {
	switch cfg.Cart.Backend {
	case "memory":
		return cart.NewMemoryStorage(), nil, nil
	case "file":
		s, err := cart.NewFileStorage(afero.NewOsFs(), cfg.Cart.Dir)
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	case "redis", "":
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid redis.url: %w", err)
		}
		client := redis.NewClient(opts)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return cart.NewRedisStorage(client, "cart:", cfg.Cart.TTL), client, nil
	default:
		return nil, nil, fmt.Errorf("unknown cart backend %q", cfg.Cart.Backend)
	}
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	carts, rdb, err := openCarts(ctx, cfg)
	if err != nil {
		store.Close(ctx)
		return nil, err
	}

	loc, err := cfg.Shop.Location()
	if err != nil {
		log.Warn("unknown shop timezone, using UTC", zap.String("timezone", cfg.Shop.Timezone), zap.Error(err))
		loc = time.UTC
	}
	formatter := messaging.NewFormatter(messaging.Settings{
		ShopName:        cfg.Shop.Name,
		BaseURL:         cfg.Shop.BaseURL,
		Location:        loc,
		PaymentContacts: cfg.Shop.PaymentContacts,
	})

	auth, err := services.NewAdminAuth(store, cfg.Admin.PasswordHash, cfg.Admin.JWTSecret, cfg.Admin.SessionTTL, log)
	if err != nil {
		store.Close(ctx)
		if rdb != nil {
			rdb.Close()
		}
		return nil, err
	}

	siteConfig := services.NewSiteConfigService(store, log, cfg.Shop.DefaultBusinessPhone, cfg.Shop.CountryPrefix)
	ctl := &controllers.Controller{
		Catalog:    services.NewCatalogService(store, log),
		SiteConfig: siteConfig,
		Checkout:   services.NewCheckoutService(store, siteConfig, formatter, cfg.Shop.CountryPrefix, log),
		Orders:     services.NewOrderBoard(store, formatter, cfg.Shop.CountryPrefix, log),
		Auth:       auth,
		Carts:      carts,
		Store:      store,
		Log:        log,
	}

	return &app{cfg: cfg, log: log, store: store, carts: carts, redis: rdb, ctl: ctl}, nil
}

func (a *app) Close(ctx context.Context) {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("redis close failed", zap.Error(err))
		}
	}
	if err := a.store.Close(ctx); err != nil {
		a.log.Warn("store close failed", zap.Error(err))
	}
}
