// Package store opens the configured backend and hands out its
// repositories.
package store

import (
	"context"
	"fmt"

	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/repository"
)

// Store bundles the repositories of one backend with its connection.
type Store struct {
	Tasks repository.TaskRepository
	Users repository.UserRepository
	close func(context.Context) error
}

// Open connects to the backend named by cfg.StoreDriver and prepares its
// schema or indexes.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		mdb, err := db.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := repository.EnsureMongoIndexes(ctx, mdb); err != nil {
			_ = mdb.Client().Disconnect(ctx)
			return nil, err
		}
		return &Store{
			Tasks: repository.NewMongoTaskRepository(mdb),
			Users: repository.NewMongoUserRepository(mdb),
			close: mdb.Client().Disconnect,
		}, nil

	case config.DriverMySQL:
		gormDB, err := db.NewMySQL(cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		if err := repository.AutoMigrate(gormDB); err != nil {
			return nil, fmt.Errorf("auto-migrate: %w", err)
		}
		return &Store{
			Tasks: repository.NewTaskRepository(gormDB),
			Users: repository.NewUserRepository(gormDB),
			close: func(context.Context) error {
				sqlDB, err := gormDB.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		}, nil

	case config.DriverMemory:
		return NewMemory(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// NewMemory returns an empty in-process store.
func NewMemory() *Store {
	return &Store{
		Tasks: repository.NewMemoryTaskRepository(),
		Users: repository.NewMemoryUserRepository(),
	}
}

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
