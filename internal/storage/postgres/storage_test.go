package postgres

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tictactoe-go/internal/storage"
	"github.com/mcoot/tictactoe-go/internal/storage/storagetest"
)

const (
	postgresImage = "postgres"
	postgresTag   = "16-alpine"
	postgresPort  = "5432/tcp"

	expireSeconds = 180
	maxWait       = 120 * time.Second
)

// startPostgres runs a throwaway container and returns its DSN.
// The test is skipped when docker is not reachable.
func startPostgres(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: postgresImage,
		Tag:        postgresTag,
		Env: []string{
			"POSTGRES_USER=ttt",
			"POSTGRES_PASSWORD=ttt",
			"POSTGRES_DB=ttt",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start postgres: %v", err)
	}
	_ = resource.Expire(expireSeconds)

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("could not purge postgres: %v", err)
		}
	})

	dsn := fmt.Sprintf("host=localhost port=%s user=ttt password=ttt dbname=ttt sslmode=disable",
		resource.GetPort(postgresPort))

	pool.MaxWait = maxWait
	if err := pool.Retry(func() error {
		s, err := New(dsn, quietLogger())
		if err != nil {
			return err
		}
		return s.Close()
	}); err != nil {
		t.Fatalf("could not connect to postgres: %v", err)
	}

	return dsn
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConformanceSuite(t *testing.T) {
	dsn := startPostgres(t)

	suite.Run(t, &storagetest.Suite{
		NewStorage: func(t *testing.T) storage.Storage {
			s, err := New(dsn, quietLogger())
			require.NoError(t, err)
			require.NoError(t, s.db.WithContext(context.Background()).Exec(
				"TRUNCATE players, registered_players, games, moves, invitations").Error)
			return s
		},
	})
}
