package pool

import (
	"context"

	"gorm.io/gorm"
)

// Pool hands out gorm connections for the translation store, preferring
// read replicas for read-only work when any are configured.
type Pool interface {
	DB(ctx context.Context, readOnly bool) *gorm.DB

	AddConnection(ctx context.Context, dsn string, readOnly bool, opts ...Option) error

	// Migrate ensures the supplied models have backing tables.
	Migrate(ctx context.Context, models ...any) error

	Close(ctx context.Context)
}
