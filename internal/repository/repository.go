package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yourusername/sales-forecast/internal/config"
	"github.com/yourusername/sales-forecast/internal/database"
)

// Repositories holds the model registry implementations
type Repositories struct {
	Model     ModelRepository
	Candidate CandidateRepository

	closer func() error
}

// NewRepositories creates PostgreSQL-backed repositories
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Model:     NewPostgresModelRepository(db),
		Candidate: NewPostgresCandidateRepository(db),
		closer:    db.Close,
	}, nil
}

// NewSQLiteRepositories creates SQLite-backed repositories
func NewSQLiteRepositories(db *sql.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Model:     NewSQLiteModelRepository(db),
		Candidate: NewSQLiteCandidateRepository(db),
		closer:    db.Close,
	}, nil
}

// Open connects the registry named by cfg.Driver. It returns nil
// repositories when the registry is disabled.
func Open(ctx context.Context, cfg *config.RegistryConfig) (*Repositories, error) {
	switch cfg.Driver {
	case "", "none":
		return nil, nil
	case "sqlite":
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return NewSQLiteRepositories(db)
	case "postgres":
		db, err := database.NewDB(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return NewRepositories(db)
	default:
		return nil, fmt.Errorf("unsupported registry driver %q", cfg.Driver)
	}
}

// Close releases the underlying connection
func (r *Repositories) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	return r.closer()
}
