// Package app wires the storefront: stores, side channels and the HTTP and
// gRPC front ends, all owned by one App value.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/freshcart/gateway"
	"github.com/example/freshcart/pkg/auth"
	"github.com/example/freshcart/pkg/cart"
	"github.com/example/freshcart/pkg/catalog"
	"github.com/example/freshcart/pkg/checkout"
	"github.com/example/freshcart/pkg/config"
	grpcsvc "github.com/example/freshcart/pkg/grpc"
	"github.com/example/freshcart/pkg/metrics"
	"github.com/example/freshcart/pkg/models"
	"github.com/example/freshcart/pkg/notify"
	"github.com/example/freshcart/pkg/order"
	"github.com/example/freshcart/pkg/repository"
	"github.com/keighl/postmark"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const auditService = "storefront"

type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	System   *actor.ActorSystem
	Catalog  *catalog.Catalog
	Cart     *cart.Cart
	Orders   *order.Store
	Auth     *auth.Store
	Checkout *checkout.Service
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
	Notifier *notify.Notifier
	Gateway  *gateway.Gateway
	Tracking *grpcsvc.TrackingServer

	redis  *repository.RedisRepository
	mongo  *repository.MongoRepository
	closeDB func() error
	cancel context.CancelFunc
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}
	ctx, a.cancel = context.WithCancel(ctx)

	data := a.loadCatalog(ctx)
	a.Catalog = catalog.New(data)
	a.Cart = cart.New()

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Metrics = metrics.New(a.Registry)

	a.System = actor.NewActorSystem()

	var seed []models.Order
	if cfg.Simulation.SeedOrders {
		seed = data.Orders
	}
	orders, err := order.NewStore(a.System, logger.Named("orders"), order.Options{
		PlaceDelay:       cfg.Simulation.PlaceOrderDelay,
		TrackingInterval: cfg.Simulation.TrackingInterval,
		RequestTimeout:   cfg.Simulation.RequestTimeout,
		Seed:             seed,
	})
	if err != nil {
		a.cancel()
		return nil, err
	}
	a.Orders = orders

	if cfg.Redis.Enabled {
		a.redis = repository.NewRedisRepository(&cfg.Redis)
		if err := a.redis.Ping(ctx); err != nil {
			logger.Warn("Redis connection failed", zap.Error(err))
		} else {
			logger.Info("Redis connected successfully")
		}
	}

	if cfg.MongoDB.Enabled {
		mongoRepo, err := repository.NewMongoRepository(ctx, &cfg.MongoDB)
		if err != nil {
			logger.Warn("MongoDB unavailable, audit log disabled", zap.Error(err))
		} else {
			a.mongo = mongoRepo
			if err := mongoRepo.Ping(ctx); err != nil {
				logger.Warn("MongoDB ping failed", zap.Error(err))
			}
		}
	}

	authOpts := auth.Options{
		LoginDelay:     cfg.Simulation.LoginDelay,
		AutoLoginDelay: cfg.Simulation.AutoLoginDelay,
	}
	if a.mongo != nil {
		authOpts.Audit = a.mongo
	}
	if a.redis != nil {
		authOpts.Sessions = a.redis
	}
	a.Auth = auth.New(data.Users, auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), logger.Named("auth"), authOpts)

	a.Checkout = checkout.NewService(a.Cart, a.Catalog, a.Orders, a.Auth, checkout.SimulatedPayments{}, logger.Named("checkout"))

	a.Notifier, err = notify.Start(a.System, a.Orders, logger.Named("notifier"), a.sinks()...)
	if err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}

	deps := gateway.Deps{
		Catalog:  a.Catalog,
		Cart:     a.Cart,
		Orders:   a.Orders,
		Auth:     a.Auth,
		Checkout: a.Checkout,
		Metrics:  a.Metrics,
		Gatherer: a.Registry,
	}
	if a.mongo != nil {
		deps.Audit = a.mongo
	}
	a.Gateway = gateway.NewGateway(cfg, logger.Named("gateway"), deps)
	a.Tracking = grpcsvc.NewTrackingServer(a.Orders, logger.Named("tracking"))

	if cfg.Auth.AutoLogin {
		go func() {
			if _, err := a.Auth.AutoLogin(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("Auto login failed", zap.Error(err))
			}
		}()
	}

	return a, nil
}

// loadCatalog returns the built-in seed, with shops, products and banners
// replaced from MySQL when it is enabled and reachable.
func (a *App) loadCatalog(ctx context.Context) catalog.Data {
	data := catalog.Seed()
	cfg := a.Config.MySQL
	if !cfg.Enabled {
		return data
	}

	db, err := catalog.OpenMySQL(&cfg)
	if err != nil {
		a.Logger.Warn("MySQL unavailable, using built-in catalog", zap.Error(err))
		return data
	}
	if sqlDB, err := db.DB(); err == nil {
		a.closeDB = sqlDB.Close
	}

	src := catalog.NewGormSource(db)
	if err := src.Migrate(ctx); err != nil {
		a.Logger.Warn("Catalog migration failed, using built-in catalog", zap.Error(err))
		return data
	}
	if cfg.SeedIfEmpty {
		if err := src.SeedIfEmpty(ctx, data); err != nil {
			a.Logger.Warn("Catalog seeding failed", zap.Error(err))
		}
	}

	loaded, err := src.Load(ctx, data)
	if err != nil {
		a.Logger.Warn("Catalog load failed, using built-in catalog", zap.Error(err))
		return data
	}
	a.Logger.Info("Catalog loaded from MySQL",
		zap.Int("shops", len(loaded.Shops)),
		zap.Int("products", len(loaded.Products)))
	return loaded
}

func (a *App) sinks() []notify.Sink {
	cfg := a.Config
	sinks := []notify.Sink{
		notify.NewLogSink(a.Logger.Named("events")),
		notify.NewMetricsSink(a.Metrics),
	}
	if a.redis != nil {
		sinks = append(sinks, notify.NewRedisSink(a.redis))
	}
	if a.mongo != nil {
		sinks = append(sinks, notify.NewAuditSink(auditService, a.mongo))
	}
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		sinks = append(sinks, notify.NewKafkaSink(notify.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)))
	}
	if cfg.Email.Enabled && cfg.Email.ServerToken != "" {
		client := postmark.NewClient(cfg.Email.ServerToken, cfg.Email.AccountToken)
		sinks = append(sinks, notify.NewEmailSink(client, cfg.Email.Sender, a.Catalog.UserEmail))
	}
	return sinks
}

// Close releases everything New acquired. Servers are stopped by the caller.
func (a *App) Close(ctx context.Context) error {
	a.cancel()

	var errs []error
	if a.Notifier != nil {
		if err := a.Notifier.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.Orders != nil {
		if err := a.Orders.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close error: %w", err))
		}
	}
	if a.mongo != nil {
		cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := a.mongo.Close(cctx); err != nil {
			errs = append(errs, fmt.Errorf("mongodb close error: %w", err))
		}
	}
	if a.closeDB != nil {
		if err := a.closeDB(); err != nil {
			errs = append(errs, fmt.Errorf("mysql close error: %w", err))
		}
	}
	return errors.Join(errs...)
}
