package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/weather-outfit/internal/domain/location"
	"github.com/yanqian/weather-outfit/internal/infra/config"
	"github.com/yanqian/weather-outfit/internal/infra/locationrepo"
)

// NewLocationRepository selects the store named by locations.driver. Network
// stores that cannot be reached degrade to memory so the API stays up.
func NewLocationRepository(cfg *config.Config, logger *slog.Logger) (location.Repository, func(), error) {
	log := logger.With("component", "bootstrap.storage")
	noop := func() {}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch cfg.Locations.Driver {
	case config.DriverMemory:
		log.Info("location store: memory")
		return locationrepo.NewMemoryRepository(), noop, nil
	case config.DriverFile:
		log.Info("location store: file", "path", cfg.Locations.File.Path)
		return locationrepo.NewFileRepository(cfg.Locations.File.Path), noop, nil
	case config.DriverSQLite:
		repo, err := locationrepo.OpenSQLite(ctx, cfg.Locations.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite location store: %w", err)
		}
		log.Info("location store: sqlite", "path", cfg.Locations.SQLite.Path)
		return repo, func() { _ = repo.Close() }, nil
	case config.DriverValkey:
		repo, cleanup, err := openValkey(ctx, cfg.Locations.Redis)
		if err != nil {
			log.Error("valkey unavailable, using memory location store", "error", err)
			return locationrepo.NewMemoryRepository(), noop, nil
		}
		log.Info("location store: valkey", "addr", cfg.Locations.Redis.Addr)
		return repo, cleanup, nil
	case config.DriverPostgres:
		repo, cleanup, err := openPostgres(ctx, cfg.Locations.Postgres)
		if err != nil {
			log.Error("postgres unavailable, using memory location store", "error", err)
			return locationrepo.NewMemoryRepository(), noop, nil
		}
		log.Info("location store: postgres")
		return repo, cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unsupported location driver %q", cfg.Locations.Driver)
	}
}

func openValkey(ctx context.Context, cfg config.RedisConfig) (*locationrepo.ValkeyRepository, func(), error) {
	opt, err := valkeyOptions(cfg.Addr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid valkey configuration: %w", err)
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, nil, fmt.Errorf("create valkey client: %w", err)
	}
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("valkey ping: %w", err)
	}
	return locationrepo.NewValkeyRepository(client, cfg.KeyPrefix), client.Close, nil
}

func valkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func openPostgres(ctx context.Context, cfg config.PostgresConfig) (*locationrepo.PostgresRepository, func(), error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.DSN))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres ping: %w", err)
	}
	repo := locationrepo.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return repo, pool.Close, nil
}
