package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/config"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

const (
	connectAttempts  = 5
	connectTimeout   = 5 * time.Second
	initialBackoff   = 500 * time.Millisecond
	migrationTimeout = 30 * time.Second
)

// App holds the process-wide handles. It is built once in main and passed
// to whatever needs storage.
type App struct {
	Config *config.Config
	DB     *pgxpool.Pool
	// Redis is nil when REDIS_URL is unset.
	Redis *redis.Client
}

func NewApp(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	err := withBackoff("postgres", func(ctx context.Context) error {
		pool, err := NewDBPool(ctx, cfg.DBUrl)
		if err != nil {
			return err
		}
		app.DB = pool
		return nil
	})
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
		defer cancel()
		if err := Migrate(ctx, app.DB); err != nil {
			app.Close()
			return nil, err
		}
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		app.Redis = redis.NewClient(opts)
		if err := withBackoff("redis", func(ctx context.Context) error {
			return app.Redis.Ping(ctx).Err()
		}); err != nil {
			app.Close()
			return nil, err
		}
	}
	return app, nil
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			utils.Logger.WithError(err).Warn("Failed to close Redis client")
		}
	}
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Info("DB pool closed")
	}
}

// withBackoff retries connect with a fresh timeout per attempt, doubling
// the pause between attempts.
func withBackoff(name string, connect func(ctx context.Context) error) error {
	backoff := initialBackoff
	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		err := connect(ctx)
		cancel()
		if err == nil {
			utils.Logger.WithField("attempt", attempt).Infof("Connected to %s", name)
			return nil
		}
		if attempt == connectAttempts {
			return fmt.Errorf("connect %s after %d attempts: %w", name, connectAttempts, err)
		}
		utils.Logger.WithError(err).WithFields(map[string]any{
			"attempt": attempt,
			"backoff": backoff,
		}).Warnf("Connecting to %s failed, retrying", name)
		time.Sleep(backoff)
		backoff *= 2
	}
}

func NewDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	return pgxpool.ConnectConfig(ctx, cfg)
}
