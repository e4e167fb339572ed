package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/weather-outfit/internal/domain/location"
	"github.com/yanqian/weather-outfit/internal/infra/config"
)

type countingLocations struct {
	location.Service
	calls int
}

func (c *countingLocations) List(context.Context) ([]location.Location, error) {
	c.calls++
	return []location.Location{{ID: "a"}}, nil
}

func TestAppRunShutsDownOnCancel(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	cfg := &config.Config{HTTP: config.HTTPConfig{Address: addr}}
	server := &http.Server{Addr: addr, Handler: http.NotFoundHandler()}
	locs := &countingLocations{}
	app := NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), server, locs)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop")
	}
	require.Equal(t, 1, locs.calls)
}
