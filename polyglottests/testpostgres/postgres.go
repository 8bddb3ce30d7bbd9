// Package testpostgres spins up throwaway PostgreSQL containers for
// integration tests.
package testpostgres

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// Image is the PostgreSQL image integration tests run against.
	Image = "postgres:latest"

	// DBUser is the username for the test database.
	DBUser = "polyglot"
	// DBPassword is the password for the test database.
	DBPassword = "p0lygl0t"
	// DBName is the name of the test database.
	DBName = "polyglot_test"

	readyLogOccurrence = 2
	startupTimeout     = 60 * time.Second
)

// Run starts a PostgreSQL container and returns its connection URI together
// with a cleanup function that terminates the container. The caller owns the
// cleanup and must invoke it when the test run finishes.
func Run(ctx context.Context) (string, func(context.Context), error) {
	container, err := tcPostgres.Run(ctx, Image,
		tcPostgres.WithDatabase(DBName),
		tcPostgres.WithUsername(DBUser),
		tcPostgres.WithPassword(DBPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(readyLogOccurrence).
				WithStartupTimeout(startupTimeout)),
	)
	if err != nil {
		return "", nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connectionURI, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return "", nil, fmt.Errorf("failed to resolve postgres connection string: %w", err)
	}

	return connectionURI, func(cleanupCtx context.Context) {
		_ = container.Terminate(cleanupCtx)
	}, nil
}
