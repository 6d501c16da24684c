package grpc

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/freshcart/pkg/models"
	"github.com/example/freshcart/pkg/order"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// orderToStruct goes through the order's JSON form so the Struct carries the
// same field names as the HTTP API.
func orderToStruct(o models.Order) (*structpb.Struct, error) {
	data, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to encode order: %w", err)
	}
	return structpb.NewStruct(m)
}

func structToOrder(s *structpb.Struct) (models.Order, error) {
	data, err := json.Marshal(s.AsMap())
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to decode order: %w", err)
	}
	var o models.Order
	if err := json.Unmarshal(data, &o); err != nil {
		return models.Order{}, fmt.Errorf("failed to decode order: %w", err)
	}
	return o, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, order.ErrInvalidStatus):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
