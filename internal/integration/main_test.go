//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/app"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

var (
	db          *pgxpool.Pool
	redisClient *redis.Client
)

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	ctx := context.Background()

	pg, dsn, err := startPostgres(ctx)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to start Postgres container")
		return 1
	}
	defer func() { _ = pg.Terminate(ctx) }()

	db, err = app.NewDBPool(ctx, dsn)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to connect to Postgres container")
		return 1
	}
	defer db.Close()

	if err := app.Migrate(ctx, db); err != nil {
		utils.Logger.WithError(err).Error("Failed to migrate")
		return 1
	}

	rc, addr, err := startRedis(ctx)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to start Redis container")
		return 1
	}
	defer func() { _ = rc.Terminate(ctx) }()
	redisClient = redis.NewClient(&redis.Options{Addr: addr})
	defer redisClient.Close()

	return m.Run()
}

func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "acc",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", err
	}

	host, err := container.Host(ctx)
	if err != nil {
		return container, "", err
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return container, "", err
	}
	dsn := fmt.Sprintf("postgres://test:test@%s:%s/acc?sslmode=disable", host, port.Port())
	return container, dsn, nil
}

func startRedis(ctx context.Context) (testcontainers.Container, string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", err
	}

	host, err := container.Host(ctx)
	if err != nil {
		return container, "", err
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		return container, "", err
	}
	return container, host + ":" + port.Port(), nil
}

// reset empties every table so each test starts clean.
func reset(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	_, err := db.Exec(ctx, `TRUNCATE generate_templates, files, figure_records, character_config_seeds, character_configs`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return ctx
}
