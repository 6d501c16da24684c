package order

import (
	"context"
	"fmt"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/scheduler"
	"github.com/example/freshcart/pkg/catalog"
	"github.com/example/freshcart/pkg/models"
	"github.com/example/freshcart/pkg/simulate"
	"go.uber.org/zap"
)

const (
	defaultTrackingInterval = 10 * time.Second
	defaultRequestTimeout   = 5 * time.Second
)

type Options struct {
	// PlaceDelay simulates the backend round trip before an order exists.
	PlaceDelay       time.Duration
	TrackingInterval time.Duration
	RequestTimeout   time.Duration
	Seed             []models.Order
	Now              func() time.Time
}

// Store is the order history of the session. It is safe for concurrent use;
// every call is serialized through a single actor.
type Store struct {
	system     *actor.ActorSystem
	pid        *actor.PID
	logger     *zap.Logger
	placeDelay time.Duration
	timeout    time.Duration
}

func NewStore(system *actor.ActorSystem, logger *zap.Logger, opts Options) (*Store, error) {
	if opts.TrackingInterval <= 0 {
		opts.TrackingInterval = defaultTrackingInterval
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	sched := scheduler.NewTimerScheduler(system.Root)
	props := actor.PropsFromProducer(func() actor.Actor {
		return newOrderActor(logger, system.EventStream, sched, opts.TrackingInterval, opts.Now, opts.Seed)
	})

	pid, err := system.Root.SpawnNamed(props, "order-store")
	if err != nil {
		return nil, fmt.Errorf("failed to spawn order actor: %w", err)
	}

	return &Store{
		system:     system,
		pid:        pid,
		logger:     logger,
		placeDelay: opts.PlaceDelay,
		timeout:    opts.RequestTimeout,
	}, nil
}

func (s *Store) request(msg interface{}) (interface{}, error) {
	res, err := s.system.Root.RequestFuture(s.pid, msg, s.timeout).Result()
	if err != nil {
		return nil, fmt.Errorf("order actor request failed: %w", err)
	}
	return res, nil
}

// PlaceOrder waits out the simulated round trip, then creates a confirmed
// order and makes it the current one. A missing user or address falls back
// to the demo defaults.
func (s *Store) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (models.Order, error) {
	if !req.PaymentMethod.Valid() {
		return models.Order{}, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, req.PaymentMethod)
	}
	if req.UserID == "" {
		req.UserID = DefaultUserID
	}
	if req.Address == nil {
		addr := catalog.DemoAddress()
		req.Address = &addr
	}
	req.Items = append(req.Items[:0:0], req.Items...)

	if err := simulate.Delay(ctx, s.placeDelay); err != nil {
		return models.Order{}, err
	}

	res, err := s.request(&placeOrder{req: req})
	if err != nil {
		return models.Order{}, err
	}
	placed, ok := res.(*placeResult)
	if !ok {
		return models.Order{}, fmt.Errorf("unexpected response type %T", res)
	}

	o, found := s.GetByID(ctx, placed.orderID)
	if !found {
		return models.Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, placed.orderID)
	}
	return o, nil
}

func (s *Store) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	res, err := s.request(&updateStatus{orderID: orderID, status: status})
	if err != nil {
		return err
	}
	r, ok := res.(*statusResult)
	if !ok {
		return fmt.Errorf("unexpected response type %T", res)
	}
	return r.err
}

// StartTracking makes orderID current and advances it one status per
// tracking interval until delivered. It reports whether a new tracker was
// started; calling it for an already tracked or finished order is a no-op.
func (s *Store) StartTracking(ctx context.Context, orderID string) (bool, error) {
	res, err := s.request(&startTracking{orderID: orderID})
	if err != nil {
		return false, err
	}
	r, ok := res.(*trackingResult)
	if !ok {
		return false, fmt.Errorf("unexpected response type %T", res)
	}
	return r.changed, r.err
}

func (s *Store) StopTracking(ctx context.Context, orderID string) (bool, error) {
	res, err := s.request(&stopTracking{orderID: orderID})
	if err != nil {
		return false, err
	}
	r, ok := res.(*trackingResult)
	if !ok {
		return false, fmt.Errorf("unexpected response type %T", res)
	}
	return r.changed, nil
}

func (s *Store) GetByID(ctx context.Context, orderID string) (models.Order, bool) {
	return s.lookup(&getOrder{orderID: orderID})
}

// Current returns the most recently placed or tracked order.
func (s *Store) Current(ctx context.Context) (models.Order, bool) {
	return s.lookup(&currentOrder{})
}

func (s *Store) lookup(msg interface{}) (models.Order, bool) {
	res, err := s.request(msg)
	if err != nil {
		s.logger.Error("Order lookup failed", zap.Error(err))
		return models.Order{}, false
	}
	r, ok := res.(*orderResult)
	if !ok || !r.found {
		return models.Order{}, false
	}
	return r.order, true
}

// List returns every order, newest first.
func (s *Store) List(ctx context.Context) ([]models.Order, error) {
	res, err := s.request(&listOrders{})
	if err != nil {
		return nil, err
	}
	r, ok := res.(*ordersResult)
	if !ok {
		return nil, fmt.Errorf("unexpected response type %T", res)
	}
	return r.orders, nil
}

// Subscribe registers fn for order events. fn runs on the order actor's
// goroutine and must not block. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(Event)) func() {
	sub := s.system.EventStream.Subscribe(func(evt interface{}) {
		if e, ok := evt.(Event); ok {
			fn(e)
		}
	})
	return func() { s.system.EventStream.Unsubscribe(sub) }
}

// Close stops the actor and cancels every running tracker.
func (s *Store) Close() error {
	if err := s.system.Root.StopFuture(s.pid).Wait(); err != nil {
		return fmt.Errorf("failed to stop order actor: %w", err)
	}
	return nil
}
