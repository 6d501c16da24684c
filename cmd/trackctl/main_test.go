package main

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/freshcart/pkg/catalog"
	"github.com/example/freshcart/pkg/config"
	grpcsvc "github.com/example/freshcart/pkg/grpc"
	"github.com/example/freshcart/pkg/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func newClient(t *testing.T) *grpcsvc.TrackingClient {
	t.Helper()

	store, err := order.NewStore(actor.NewActorSystem(), zap.NewNop(), order.Options{
		TrackingInterval: time.Hour,
		Seed:             catalog.Seed().Orders,
	})
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	srv := grpcsvc.NewTrackingServer(store, zap.NewNop())
	go func() { _ = srv.Serve(lis) }()

	manager := grpcsvc.NewClientManager(&config.Config{}, zap.NewNop(), nil)
	err = manager.Dial("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = manager.Close()
		srv.Stop()
		_ = store.Close()
	})
	return manager.TrackingClient()
}

func TestRunPrintsOrder(t *testing.T) {
	client := newClient(t)
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), client, "ORD002", false, &out))
	assert.Contains(t, out.String(), "ORD002")
	assert.Contains(t, out.String(), "out_for_delivery")
	assert.Contains(t, out.String(), "eta 12 minutes")
}

func TestRunWatchEndsOnDelivered(t *testing.T) {
	client := newClient(t)
	var out bytes.Buffer

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, run(ctx, client, "ORD001", true, &out))
	assert.Contains(t, out.String(), "delivered")
}

func TestRunUnknownOrder(t *testing.T) {
	client := newClient(t)

	err := run(context.Background(), client, "ORD999", false, &bytes.Buffer{})
	assert.Equal(t, codes.NotFound, status.Code(err))
}
