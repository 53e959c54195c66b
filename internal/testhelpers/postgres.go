package testhelpers

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/x4b1/mqbackup/broker"
)

const (
	postgresDatabase = "mqbackup"
	postgresUser     = "mqbackup"
	postgresPassword = "mqbackup"

	postgresStartupTimeout = 30 * time.Second
)

// PostgresContainer is a postgres instance with the settings to reach it, both as
// connection string and as broker configuration.
type PostgresContainer struct {
	*postgres.PostgresContainer

	ConnectionString string
	Broker           broker.Config
}

// CreatePostgresContainer starts postgres and returns its instance.
func CreatePostgresContainer(ctx context.Context) (*PostgresContainer, error) {
	pgContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16.1-alpine"),
		postgres.WithDatabase(postgresDatabase),
		postgres.WithUsername(postgresUser),
		postgres.WithPassword(postgresPassword),
		// the server restarts once after the init scripts.
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(postgresStartupTimeout)),
	)
	if err != nil {
		return nil, fmt.Errorf("starting postgres: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, err
	}
	host, err := pgContainer.Host(ctx)
	if err != nil {
		return nil, err
	}
	port, err := pgContainer.MappedPort(ctx, nat.Port("5432/tcp"))
	if err != nil {
		return nil, err
	}

	return &PostgresContainer{
		PostgresContainer: pgContainer,
		ConnectionString:  connStr,
		Broker: broker.Config{
			Driver:   broker.DriverPostgres,
			Host:     host,
			Port:     port.Int(),
			User:     postgresUser,
			Password: postgresPassword,
			VHost:    postgresDatabase,
		},
	}, nil
}
