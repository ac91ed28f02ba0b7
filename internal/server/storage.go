package server

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/georgemunganga/storefront-backend/internal/config"
	"github.com/georgemunganga/storefront-backend/internal/modules/catalog"
	"github.com/georgemunganga/storefront-backend/internal/modules/order"
	"github.com/georgemunganga/storefront-backend/internal/modules/user"
	"github.com/georgemunganga/storefront-backend/internal/storage"
)

// OpenRepositories connects the configured storage driver. The returned
// close function releases the connection.
func OpenRepositories(ctx context.Context, cfg *config.Config, log logr.Logger) (Repositories, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		db, err := storage.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return Repositories{}, nil, err
		}
		log.Info("connected to postgres")
		return Repositories{
			Users:    user.NewPostgresRepository(db),
			Products: catalog.NewPostgresRepository(db),
			Orders:   order.NewPostgresRepository(db),
		}, func() { _ = db.Close() }, nil

	case config.DriverMongo:
		client, db, err := storage.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return Repositories{}, nil, err
		}
		log.Info("connected to mongodb", "database", cfg.MongoDatabase)
		return Repositories{
			Users:    user.NewMongoRepository(db),
			Products: catalog.NewMongoRepository(db),
			Orders:   order.NewMongoRepository(db),
		}, func() { _ = client.Disconnect(context.Background()) }, nil

	case config.DriverMemory:
		log.Info("using in-memory storage; data is lost on exit")
		return Repositories{
			Users:    user.NewMemoryRepository(),
			Products: catalog.NewMemoryRepository(),
			Orders:   order.NewMemoryRepository(),
		}, func() {}, nil

	default:
		return Repositories{}, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
