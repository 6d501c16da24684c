package grpc

import (
	"context"
	"fmt"
	"time"

	"github.com/example/freshcart/pkg/config"
	"github.com/example/freshcart/pkg/discovery"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ClientManager manages the client connection to the tracking service
type ClientManager struct {
	config    *config.Config
	discovery *discovery.ServiceDiscovery
	logger    *zap.Logger

	trackingClient *TrackingClient
	trackingConn   *grpc.ClientConn
}

func NewClientManager(cfg *config.Config, logger *zap.Logger, disc *discovery.ServiceDiscovery) *ClientManager {
	return &ClientManager{
		config:    cfg,
		discovery: disc,
		logger:    logger,
	}
}

// Connect resolves the tracking service through etcd when available and
// falls back to the configured server address.
func (m *ClientManager) Connect(ctx context.Context) error {
	target := fmt.Sprintf("localhost:%d", m.config.Server.Port)

	if m.discovery != nil {
		dctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		instances, err := m.discovery.Discover(dctx, m.config.Server.Name)
		if err == nil && len(instances) > 0 {
			target = instances[0].Addr()
			m.logger.Info("Discovered tracking service", zap.String("address", target))
		} else {
			m.logger.Info("Using default address for tracking service", zap.String("address", target))
		}
	}

	return m.Dial(target)
}

func (m *ClientManager) Dial(target string, opts ...grpc.DialOption) error {
	m.logger.Info("Connecting to tracking service", zap.String("target", target))

	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to tracking service: %w", err)
	}

	m.trackingConn = conn
	m.trackingClient = NewTrackingClient(conn)
	return nil
}

func (m *ClientManager) TrackingClient() *TrackingClient {
	return m.trackingClient
}

func (m *ClientManager) Close() error {
	if m.trackingConn != nil {
		if err := m.trackingConn.Close(); err != nil {
			return fmt.Errorf("tracking connection close error: %w", err)
		}
	}
	return nil
}
