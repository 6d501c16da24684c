package grpc

import (
	"context"

	"github.com/example/freshcart/pkg/models"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The tracking service speaks well-known protobuf types only: the request is
// an order id in a StringValue and every reply is the order as a Struct.
const (
	TrackingServiceName = "freshcart.tracking.v1.OrderTracking"
	getOrderMethod      = "/" + TrackingServiceName + "/GetOrder"
	watchOrderMethod    = "/" + TrackingServiceName + "/WatchOrder"
)

type OrderTrackingServer interface {
	GetOrder(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	WatchOrder(*wrapperspb.StringValue, WatchOrderStream) error
}

type WatchOrderStream interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type watchOrderStream struct {
	grpc.ServerStream
}

func (x *watchOrderStream) Send(m *structpb.Struct) error {
	return x.ServerStream.SendMsg(m)
}

func getOrderHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderTrackingServer).GetOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getOrderMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(OrderTrackingServer).GetOrder(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func watchOrderHandler(srv interface{}, stream grpc.ServerStream) error {
	in := new(wrapperspb.StringValue)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(OrderTrackingServer).WatchOrder(in, &watchOrderStream{stream})
}

var OrderTrackingServiceDesc = grpc.ServiceDesc{
	ServiceName: TrackingServiceName,
	HandlerType: (*OrderTrackingServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetOrder", Handler: getOrderHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "WatchOrder", Handler: watchOrderHandler, ServerStreams: true},
	},
	Metadata: "freshcart/tracking/v1/tracking.proto",
}

// TrackingClient calls the tracking service and decodes replies into orders.
type TrackingClient struct {
	cc grpc.ClientConnInterface
}

func NewTrackingClient(cc grpc.ClientConnInterface) *TrackingClient {
	return &TrackingClient{cc: cc}
}

func (c *TrackingClient) GetOrder(ctx context.Context, orderID string, opts ...grpc.CallOption) (models.Order, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getOrderMethod, wrapperspb.String(orderID), out, opts...); err != nil {
		return models.Order{}, err
	}
	return structToOrder(out)
}

// WatchOrder streams the order's state, starting with the current snapshot.
// The stream ends after a delivered or cancelled update.
func (c *TrackingClient) WatchOrder(ctx context.Context, orderID string, opts ...grpc.CallOption) (*OrderWatcher, error) {
	stream, err := c.cc.NewStream(ctx, &OrderTrackingServiceDesc.Streams[0], watchOrderMethod, opts...)
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(wrapperspb.String(orderID)); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &OrderWatcher{stream: stream}, nil
}

type OrderWatcher struct {
	stream grpc.ClientStream
}

// Recv returns io.EOF once the server has finished the stream.
func (w *OrderWatcher) Recv() (models.Order, error) {
	m := new(structpb.Struct)
	if err := w.stream.RecvMsg(m); err != nil {
		return models.Order{}, err
	}
	return structToOrder(m)
}
