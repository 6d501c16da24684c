package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/example/freshcart/pkg/models"
	"github.com/example/freshcart/pkg/order"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// OrderSource is satisfied by *order.Store.
type OrderSource interface {
	GetByID(ctx context.Context, orderID string) (models.Order, bool)
	Subscribe(fn func(order.Event)) func()
}

type TrackingServer struct {
	orders OrderSource
	logger *zap.Logger
	server *grpc.Server
	health *health.Server
}

func NewTrackingServer(orders OrderSource, logger *zap.Logger) *TrackingServer {
	s := &TrackingServer{
		orders: orders,
		logger: logger,
		health: health.NewServer(),
	}
	s.server = grpc.NewServer(
		grpc.ChainUnaryInterceptor(unaryLogger(logger)),
		grpc.ChainStreamInterceptor(streamLogger(logger)),
	)
	s.server.RegisterService(&OrderTrackingServiceDesc, s)
	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)

	s.health.SetServingStatus(TrackingServiceName, healthpb.HealthCheckResponse_SERVING)
	return s
}

func (s *TrackingServer) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.logger.Info("Tracking service started", zap.String("address", addr))
	return s.Serve(lis)
}

func (s *TrackingServer) Serve(lis net.Listener) error {
	return s.server.Serve(lis)
}

// Stop marks the service as not serving and waits for open streams to end.
func (s *TrackingServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}

func (s *TrackingServer) GetOrder(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "order id is required")
	}
	o, ok := s.orders.GetByID(ctx, req.GetValue())
	if !ok {
		return nil, toStatus(fmt.Errorf("%w: %s", order.ErrOrderNotFound, req.GetValue()))
	}
	return orderToStruct(o)
}

// WatchOrder sends the current order, then a fresh snapshot after every
// change, and returns once the order is delivered or cancelled. Bursts of
// changes may be coalesced into one snapshot.
func (s *TrackingServer) WatchOrder(req *wrapperspb.StringValue, stream WatchOrderStream) error {
	ctx := stream.Context()
	orderID := req.GetValue()
	if orderID == "" {
		return status.Error(codes.InvalidArgument, "order id is required")
	}

	changed := make(chan struct{}, 1)
	unsubscribe := s.orders.Subscribe(func(e order.Event) {
		if e.Snapshot().ID != orderID {
			return
		}
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	var last *models.Order
	for {
		o, ok := s.orders.GetByID(ctx, orderID)
		if !ok {
			return toStatus(fmt.Errorf("%w: %s", order.ErrOrderNotFound, orderID))
		}

		if last == nil || last.Status != o.Status {
			msg, err := orderToStruct(o)
			if err != nil {
				return toStatus(err)
			}
			if err := stream.Send(msg); err != nil {
				return err
			}
			last = &o
		}
		if o.Status.Terminal() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
}

func unaryLogger(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("gRPC request",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)))
		return resp, err
	}
}

func streamLogger(logger *zap.Logger) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		logger.Info("gRPC stream",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)))
		return err
	}
}
