package app

import (
	"context"
	"errors"
	"fmt"

	natsAdapter "github.com/Abdurahmanit/GroupProject/catalog-service/internal/adapter/messaging/nats"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/adapter/identity"
	mongoProvider "github.com/Abdurahmanit/GroupProject/catalog-service/internal/adapter/provider/mongodb"
	s3Provider "github.com/Abdurahmanit/GroupProject/catalog-service/internal/adapter/provider/s3"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/adapter/provider/seedfile"
	fileStorage "github.com/Abdurahmanit/GroupProject/catalog-service/internal/adapter/storage/file"
	memoryStorage "github.com/Abdurahmanit/GroupProject/catalog-service/internal/adapter/storage/memory"
	redisStorage "github.com/Abdurahmanit/GroupProject/catalog-service/internal/adapter/storage/redis"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/domain"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/usecase"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/platform/tracer"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// App owns a Store and every connection it was built from.
type App struct {
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *metrics.MetricsManager
	Store   *usecase.Store

	closers []func(context.Context) error
	mongo   *mongo.Client
}

// New builds the store described by cfg and restores the stored session.
// On error everything opened so far is closed again.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (a *App, err error) {
	a = &App{
		Config:  cfg,
		Logger:  log,
		Metrics: metrics.NewMetricsManager(cfg.Metrics.Namespace),
	}
	defer func() {
		if err != nil {
			a.Close(context.Background())
			a = nil
		}
	}()

	tp := tracer.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.OTLPEndpoint, log)
	a.closers = append(a.closers, tp.Shutdown)

	storage, err := a.newStorage()
	if err != nil {
		return a, err
	}

	catalog, err := a.loadCatalog(ctx)
	if err != nil {
		return a, err
	}

	resolver, err := a.newResolver(ctx, catalog)
	if err != nil {
		return a, err
	}

	opts := []usecase.Option{
		usecase.WithLogger(log),
		usecase.WithMetrics(a.Metrics),
	}
	if cfg.NATS.URL != "" {
		pub, err := natsAdapter.NewPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix, cfg.NATS.ConnectTimeout, log, cfg.Tracing.ServiceName)
		if err != nil {
			return a, err
		}
		a.closers = append(a.closers, func(context.Context) error { pub.Close(); return nil })
		opts = append(opts, usecase.WithPublisher(pub))
	}

	a.Store = usecase.NewStore(catalog, storage, resolver, opts...)
	a.Store.Session.RestoreSession(ctx)

	log.Info("catalog store ready",
		zap.String("storage", cfg.Storage.Driver),
		zap.String("catalog_source", cfg.Catalog.Source),
		zap.String("identity_source", cfg.Identity.Source),
		zap.Int("listings", len(catalog.Listings)),
		zap.Bool("authenticated", a.Store.Session.IsAuthenticated()),
	)
	return a, nil
}

func (a *App) newStorage() (domain.KeyValueStorage, error) {
	cfg := a.Config.Storage
	switch cfg.Driver {
	case "memory":
		return memoryStorage.NewStorage(), nil
	case "file":
		return fileStorage.NewStorage(cfg.Path, a.Logger), nil
	case "redis":
		client, err := redisStorage.NewRedisClient(cfg.Redis, a.Logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		return redisStorage.NewStorage(client, cfg.KeyPrefix, a.Logger), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func (a *App) loadCatalog(ctx context.Context) (*domain.Catalog, error) {
	var provider domain.CatalogProvider
	cfg := a.Config.Catalog
	switch cfg.Source {
	case "file":
		provider = seedfile.NewProvider(cfg.Path, a.Logger)
	case "s3":
		p, err := s3Provider.NewProvider(ctx, cfg.S3, a.Logger)
		if err != nil {
			return nil, err
		}
		provider = p
	case "mongo":
		db, err := a.mongoDatabase(ctx)
		if err != nil {
			return nil, err
		}
		provider = mongoProvider.NewProvider(db, a.Logger)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}

	catalog, err := provider.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return catalog, nil
}

func (a *App) newResolver(ctx context.Context, catalog *domain.Catalog) (domain.CredentialResolver, error) {
	switch a.Config.Identity.Source {
	case "catalog":
		return identity.NewCredentialTableFromCatalog(catalog), nil
	case "mongo":
		db, err := a.mongoDatabase(ctx)
		if err != nil {
			return nil, err
		}
		return mongoProvider.NewCredentialRepository(db, a.Logger), nil
	default:
		return nil, fmt.Errorf("unknown identity source %q", a.Config.Identity.Source)
	}
}

// mongoDatabase connects once; catalog and identity share the client.
func (a *App) mongoDatabase(ctx context.Context) (*mongo.Database, error) {
	if a.mongo == nil {
		client, err := mongoProvider.NewClient(ctx, a.Config.Catalog.Mongo, a.Logger)
		if err != nil {
			return nil, err
		}
		a.mongo = client
		a.closers = append(a.closers, client.Disconnect)
	}
	return a.mongo.Database(a.Config.Catalog.Mongo.Database), nil
}

// Close releases connections in reverse order of creation.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if err := errors.Join(errs...); err != nil {
		a.Logger.Warn("errors while closing app", zap.Error(err))
		return err
	}
	return nil
}
