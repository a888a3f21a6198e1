package main

import (
	"context"

	"github.com/samber/oops"
	"go.uber.org/zap"

	"github.com/spec-kit/vetclinic-service/internal/api/http/handlers"
	"github.com/spec-kit/vetclinic-service/internal/config"
	"github.com/spec-kit/vetclinic-service/internal/observability"
	"github.com/spec-kit/vetclinic-service/internal/persistence"
	"github.com/spec-kit/vetclinic-service/internal/repository"
	"github.com/spec-kit/vetclinic-service/internal/repository/mongodb"
)

// stores holds the repositories for the configured storage driver.
type stores struct {
	vets      repository.VetRepository
	sessions  repository.RefreshTokenRepository
	clients   repository.ClientRepository
	pets      repository.PetRepository
	anamneses repository.AnamneseRepository

	pingers map[string]handlers.Pinger
	closers []func()
}

func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// loadRuntime reads config and builds the logger every subcommand shares.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, oops.Code("CONFIG_INVALID").With("operation", "load config").Wrap(err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.IsDevelopment())
	if err != nil {
		return nil, nil, oops.Code("LOGGER_INIT_FAILED").Wrap(err)
	}
	return cfg, logger, nil
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	if cfg.Storage.Driver == config.DriverMongo {
		return openMongo(ctx, cfg, logger)
	}
	return openPostgres(ctx, cfg, logger)
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}

	if cfg.Postgres.RunMigrations {
		if err := migrateUp(cfg.Postgres.DSN, logger); err != nil {
			pg.Close()
			return nil, err
		}
	}

	pool := pg.PoolHandle()
	return &stores{
		vets:      repository.NewVetRepository(pool),
		sessions:  repository.NewRefreshTokenRepository(pool),
		clients:   repository.NewClientRepository(pool),
		pets:      repository.NewPetRepository(pool),
		anamneses: repository.NewAnamneseRepository(pool),
		pingers:   map[string]handlers.Pinger{"postgres": pg},
		closers:   []func(){pg.Close},
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	m, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}
	if err := m.EnsureIndexes(ctx, logger); err != nil {
		m.Close(context.Background())
		return nil, oops.Code("DB_INDEX_FAILED").Wrap(err)
	}

	db := m.Database
	return &stores{
		vets:      mongodb.NewVetRepository(db),
		sessions:  mongodb.NewRefreshTokenRepository(db),
		clients:   mongodb.NewClientRepository(db),
		pets:      mongodb.NewPetRepository(db),
		anamneses: mongodb.NewAnamneseRepository(db),
		pingers:   map[string]handlers.Pinger{"mongo": m},
		closers:   []func(){func() { m.Close(context.Background()) }},
	}, nil
}

func migrateUp(dsn string, logger *zap.Logger) error {
	m, err := persistence.NewMigrator(dsn, logger)
	if err != nil {
		return err
	}
	defer m.Close() //nolint:errcheck
	return m.Up()
}
