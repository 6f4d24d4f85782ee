// Package storage opens the configured document store and exposes its
// repositories.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hal-directory/backend/internal/adapters/database"
	"github.com/hal-directory/backend/internal/adapters/memory"
	"github.com/hal-directory/backend/internal/domain/repositories"
	"github.com/hal-directory/backend/internal/infrastructure/clients/postgres"
	"github.com/hal-directory/backend/pkg/config"
)

// Repositories is the set of repositories backed by one store
type Repositories struct {
	Companies repositories.CompanyRepository
	Users     repositories.UserRepository
	Reviews   repositories.ReviewRepository
	Blog      repositories.BlogRepository
	Contacts  repositories.ContactRepository

	// Postgres is nil for the in-memory store
	Postgres *postgres.Client
}

// Close releases the store connection
func (r *Repositories) Close() error {
	if r.Postgres == nil {
		return nil
	}
	return r.Postgres.Close()
}

// Open connects to the store selected by cfg.Store.Driver. The PostgreSQL
// schema is applied when migrate is true.
func Open(ctx context.Context, cfg *config.Config, migrate bool) (*Repositories, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn().Msg("Using in-memory store; data is lost on restart")
		store := memory.NewStore()
		return &Repositories{
			Companies: store.Companies(),
			Users:     store.Users(),
			Reviews:   store.Reviews(),
			Blog:      store.Blog(),
			Contacts:  store.Contacts(),
		}, nil

	case config.StoreDriverPostgres:
		client, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := database.Migrate(ctx, client); err != nil {
				_ = client.Close()
				return nil, err
			}
			log.Info().Msg("Database schema applied")
		}
		return &Repositories{
			Companies: database.NewCompanyAdapter(client),
			Users:     database.NewUserAdapter(client),
			Reviews:   database.NewReviewAdapter(client),
			Blog:      database.NewBlogAdapter(client),
			Contacts:  database.NewContactAdapter(client),
			Postgres:  client,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
