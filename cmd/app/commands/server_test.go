package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer blocks in Start until Shutdown, like http.Server.
type fakeServer struct {
	startErr    error
	shutdownErr error
	stopped     chan struct{}
	deadline    time.Time
}

func newFakeServer() *fakeServer {
	return &fakeServer{stopped: make(chan struct{})}
}

func (f *fakeServer) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	<-f.stopped
	return nil
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	f.deadline, _ = ctx.Deadline()
	select {
	case <-f.stopped:
	default:
		close(f.stopped)
	}
	return f.shutdownErr
}

func TestRunServers(t *testing.T) {
	t.Run("cancel shuts every server down within the timeout", func(t *testing.T) {
		api, metricsSrv := newFakeServer(), newFakeServer()
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			done <- runServers(ctx, discardLogger(), time.Minute,
				namedServer{name: "api", server: api},
				namedServer{name: "metrics", server: metricsSrv},
			)
		}()

		before := time.Now()
		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("servers did not stop")
		}
		assert.WithinDuration(t, before.Add(time.Minute), api.deadline, 5*time.Second)
		assert.WithinDuration(t, before.Add(time.Minute), metricsSrv.deadline, 5*time.Second)
	})

	t.Run("a failing server stops the others", func(t *testing.T) {
		api := newFakeServer()
		broken := newFakeServer()
		broken.startErr = errors.New("address already in use")

		err := runServers(context.Background(), discardLogger(), time.Second,
			namedServer{name: "api", server: api},
			namedServer{name: "metrics", server: broken},
		)
		assert.ErrorContains(t, err, "metrics server error: address already in use")

		select {
		case <-api.stopped:
		default:
			t.Fatal("api server was not shut down")
		}
	})

	t.Run("shutdown errors are reported", func(t *testing.T) {
		api := newFakeServer()
		api.shutdownErr = errors.New("context deadline exceeded")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := runServers(ctx, discardLogger(), time.Second, namedServer{name: "api", server: api})
		assert.ErrorContains(t, err, "api server shutdown: context deadline exceeded")
	})
}
