package safefetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestRegistryRegisterDeregister(t *testing.T) {
	reg := newAbortRegistry()

	ctrl := reg.register()
	assert.Equal(t, 1, reg.size())
	assert.NoError(t, ctrl.ctx.Err())

	reg.deregister(ctrl)
	assert.Equal(t, 0, reg.size())
}

func TestRegistryAbortAllCancelsWithGroupCause(t *testing.T) {
	reg := newAbortRegistry()
	a := reg.register()
	b := reg.register()

	n := reg.abortAll()

	assert.Equal(t, 2, n)
	assert.Equal(t, 0, reg.size())
	require.Error(t, a.ctx.Err())
	require.Error(t, b.ctx.Err())
	assert.ErrorIs(t, context.Cause(a.ctx), ErrAborted)
	assert.ErrorIs(t, context.Cause(b.ctx), ErrAborted)
}

func TestRegistryAbortAllIdempotentAndEmptySafe(t *testing.T) {
	reg := newAbortRegistry()

	assert.Equal(t, 0, reg.abortAll())

	ctrl := reg.register()
	assert.Equal(t, 1, reg.abortAll())
	assert.Equal(t, 0, reg.abortAll())
	assert.ErrorIs(t, context.Cause(ctrl.ctx), ErrAborted)
}

func TestRegistryDeregisterAfterAbortAllSafe(t *testing.T) {
	reg := newAbortRegistry()
	ctrl := reg.register()

	reg.abortAll()
	reg.deregister(ctrl)

	assert.Equal(t, 0, reg.size())
	// The abort cause set first must win over deregistration cleanup.
	assert.ErrorIs(t, context.Cause(ctrl.ctx), ErrAborted)
}

func TestAbortAllCancelsInFlightCalls(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := New()

	var g errgroup.Group
	for i := 0; i < 2; i++ {
		g.Go(func() error {
			_, err := client.Get(context.Background(), server.URL, nil)
			return err
		})
	}

	require.Eventually(t, func() bool {
		return client.InFlight() == 2
	}, time.Second, 5*time.Millisecond, "both calls should register before the abort")

	client.AbortAll()

	err := g.Wait()
	require.Error(t, err)

	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, ErrorTypeAborted, clientErr.Type)
	assert.ErrorIs(t, clientErr, ErrAborted)

	assert.Equal(t, 0, client.InFlight(), "registry must be empty after aborted calls return")
}
