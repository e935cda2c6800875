package roster

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Registry owns the mapping from bucket names to lazily-created tables. It is
// the only component allowed to issue DDL: every repository resolves its
// bucket through the registry before touching rows. The ensured-set cache
// makes repeat resolution a map lookup.
type Registry struct {
	db     *gorm.DB
	logger zerolog.Logger

	mu      sync.Mutex
	ensured map[string]struct{}
}

// NewRegistry constructs a bucket registry over the given database handle.
func NewRegistry(db *gorm.DB, logger zerolog.Logger) *Registry {
	return &Registry{
		db:      db,
		logger:  logger.With().Str("component", "roster_registry").Logger(),
		ensured: make(map[string]struct{}),
	}
}

// Ensure creates the bucket's table on first use. Creation is idempotent and
// always runs against the root handle, never inside a caller's transaction,
// so a rolled-back run does not leave the cache out of sync with the schema.
func (r *Registry) Ensure(ctx context.Context, name string, model interface{}) error {
	if name == "" {
		return fmt.Errorf("bucket name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ensured[name]; ok {
		return nil
	}

	if err := r.db.WithContext(ctx).Table(name).AutoMigrate(model); err != nil {
		return fmt.Errorf("create bucket %s: %w", name, err)
	}

	r.ensured[name] = struct{}{}
	r.logger.Info().Str("bucket", name).Msg("roster bucket created")
	return nil
}

// Ensured reports whether the bucket has already been resolved. Exposed for
// tests and health reporting.
func (r *Registry) Ensured(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.ensured[name]
	return ok
}

// DB returns the root database handle backing the registry.
func (r *Registry) DB() *gorm.DB {
	return r.db
}

// WithinTx runs fn inside a single database transaction. Every bucket
// mutation performed through the handle passed to fn commits or rolls back
// together.
func (r *Registry) WithinTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
