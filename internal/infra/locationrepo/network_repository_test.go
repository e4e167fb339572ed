package locationrepo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"
)

// These run against real servers and are skipped unless one is configured.

func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("LOCATIONS_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("LOCATIONS_POSTGRES_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pool.Ping(ctx))

	repo := NewPostgresRepository(pool)
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx), "schema setup is repeatable")

	_, err = pool.Exec(ctx, `DELETE FROM saved_locations; DELETE FROM location_registry;`)
	require.NoError(t, err)

	exerciseRepository(t, repo)
}

func TestValkeyRepository(t *testing.T) {
	addr := os.Getenv("LOCATIONS_REDIS_ADDR")
	if addr == "" {
		t.Skip("LOCATIONS_REDIS_ADDR not set")
	}
	client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	repo := NewValkeyRepository(client, "weather-outfit-test-"+uuid.NewString())
	t.Cleanup(func() {
		_ = client.Do(context.Background(), client.B().Del().Key(repo.key()).Build()).Error()
	})

	exerciseRepository(t, repo)
}

func TestValkeyRepositoryDefaultPrefix(t *testing.T) {
	repo := NewValkeyRepository(nil, "")
	require.Equal(t, "weather-outfit:locations", repo.key())
}
