package order

import (
	"fmt"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"github.com/example/freshcart/pkg/cart"
	"github.com/example/freshcart/pkg/models"
	"github.com/example/freshcart/pkg/pricing"
	"go.uber.org/zap"
)

// Messages
type placeOrder struct {
	req PlaceOrderRequest
}

type placeResult struct {
	orderID string
}

type updateStatus struct {
	orderID string
	status  models.OrderStatus
}

type statusResult struct {
	err error
}

type startTracking struct {
	orderID string
}

type stopTracking struct {
	orderID string
}

type trackingResult struct {
	changed bool
	err     error
}

type trackTick struct {
	orderID string
	gen     uint64
}

type getOrder struct {
	orderID string
}

type currentOrder struct{}

type orderResult struct {
	order models.Order
	found bool
}

type listOrders struct{}

type ordersResult struct {
	orders []models.Order
}

type tracker struct {
	cancel scheduler.CancelFunc
	gen    uint64
}

// orderActor owns every order of the session. All reads and writes go
// through its mailbox, so the state needs no locking.
type orderActor struct {
	logger    *zap.Logger
	events    *eventstream.EventStream
	scheduler *scheduler.TimerScheduler
	interval  time.Duration
	now       func() time.Time

	orders    []*models.Order // newest first
	byID      map[string]*models.Order
	routes    map[string]route
	seq       int
	currentID string
	trackers  map[string]tracker
	gen       uint64
}

func newOrderActor(logger *zap.Logger, events *eventstream.EventStream, sched *scheduler.TimerScheduler,
	interval time.Duration, now func() time.Time, seed []models.Order) *orderActor {
	a := &orderActor{
		logger:    logger,
		events:    events,
		scheduler: sched,
		interval:  interval,
		now:       now,
		byID:      make(map[string]*models.Order),
		routes:    make(map[string]route),
		trackers:  make(map[string]tracker),
	}
	for _, o := range seed {
		o := o.Clone()
		a.orders = append(a.orders, &o)
		a.byID[o.ID] = &o
	}
	a.seq = len(a.orders)
	return a
}

func (a *orderActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		a.logger.Info("Order actor started", zap.Int("seeded_orders", len(a.orders)))

	case *placeOrder:
		ctx.Respond(a.place(msg.req))

	case *updateStatus:
		ctx.Respond(&statusResult{err: a.updateStatus(msg.orderID, msg.status)})

	case *startTracking:
		ctx.Respond(a.startTracking(ctx.Self(), msg.orderID))

	case *stopTracking:
		ctx.Respond(&trackingResult{changed: a.stopTracker(msg.orderID)})

	case *trackTick:
		a.advance(msg)

	case *getOrder:
		o, ok := a.byID[msg.orderID]
		if !ok {
			ctx.Respond(&orderResult{})
			return
		}
		ctx.Respond(&orderResult{order: o.Clone(), found: true})

	case *currentOrder:
		o, ok := a.byID[a.currentID]
		if !ok {
			ctx.Respond(&orderResult{})
			return
		}
		ctx.Respond(&orderResult{order: o.Clone(), found: true})

	case *listOrders:
		orders := make([]models.Order, len(a.orders))
		for i, o := range a.orders {
			orders[i] = o.Clone()
		}
		ctx.Respond(&ordersResult{orders: orders})

	case *actor.Stopping:
		for id := range a.trackers {
			a.stopTracker(id)
		}
		a.logger.Info("Order actor stopping")

	case *actor.Stopped:
		a.logger.Info("Order actor stopped")
	}
}

// nextID hands out ORD001, ORD002, ... skipping ids already taken by seeded
// orders.
func (a *orderActor) nextID() string {
	for {
		a.seq++
		id := fmt.Sprintf("ORD%03d", a.seq)
		if _, taken := a.byID[id]; !taken {
			return id
		}
	}
}

func (a *orderActor) place(req PlaceOrderRequest) *placeResult {
	bill := pricing.ComputeLines(cart.Lines(req.Items)...)

	items := make([]models.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = models.OrderItem{
			ProductID:    item.Product.ID,
			ProductName:  item.Product.Name,
			ProductImage: item.Product.Image,
			Quantity:     item.Quantity,
			Price:        item.Product.Price,
			Unit:         item.Product.Unit,
		}
	}

	o := &models.Order{
		ID:              a.nextID(),
		UserID:          req.UserID,
		ShopID:          req.Shop.ID,
		ShopName:        req.Shop.Name,
		Items:           items,
		Subtotal:        bill.Subtotal,
		DeliveryFee:     bill.DeliveryFee,
		Tax:             bill.Tax,
		Total:           bill.Total,
		Status:          models.OrderStatusConfirmed,
		PaymentMethod:   req.PaymentMethod,
		CreatedAt:       a.now(),
		DeliveryAddress: *req.Address,
		DeliveryTime:    DefaultDeliveryTime,
	}

	a.orders = append([]*models.Order{o}, a.orders...)
	a.byID[o.ID] = o
	if o.DeliveryAddress.Location != nil {
		a.routes[o.ID] = route{origin: req.Shop.Location, dest: *o.DeliveryAddress.Location}
	}
	a.currentID = o.ID

	a.logger.Info("Order placed",
		zap.String("order_id", o.ID),
		zap.String("user_id", o.UserID),
		zap.String("shop_id", o.ShopID),
		zap.Int("item_count", len(o.Items)),
		zap.Float64("total", o.Total))

	a.events.Publish(&Placed{Order: o.Clone(), At: o.CreatedAt})
	return &placeResult{orderID: o.ID}
}

func (a *orderActor) updateStatus(orderID string, status models.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	o, ok := a.byID[orderID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}

	a.applyStatus(o, status)
	if status.Terminal() {
		a.stopTracker(orderID)
	}
	return nil
}

func (a *orderActor) applyStatus(o *models.Order, to models.OrderStatus) {
	from := o.Status
	o.Status = to

	switch to {
	case models.OrderStatusOutForDelivery:
		if r, ok := a.routes[o.ID]; ok {
			o.Tracking = courierTracking(r)
		}
	case models.OrderStatusDelivered:
		o.Tracking = nil
	}

	if from == to {
		return
	}

	a.logger.Info("Order status changed",
		zap.String("order_id", o.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)))

	a.events.Publish(&StatusChanged{Order: o.Clone(), From: from, To: to, At: a.now()})
}

func (a *orderActor) startTracking(self *actor.PID, orderID string) *trackingResult {
	o, ok := a.byID[orderID]
	if !ok {
		return &trackingResult{err: fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)}
	}
	a.currentID = orderID

	if o.Status.Terminal() {
		return &trackingResult{}
	}
	if _, running := a.trackers[orderID]; running {
		return &trackingResult{}
	}

	a.gen++
	tick := &trackTick{orderID: orderID, gen: a.gen}
	a.trackers[orderID] = tracker{
		cancel: a.scheduler.SendRepeatedly(a.interval, a.interval, self, tick),
		gen:    a.gen,
	}

	a.logger.Info("Order tracking started",
		zap.String("order_id", orderID),
		zap.String("status", string(o.Status)),
		zap.Duration("interval", a.interval))
	return &trackingResult{changed: true}
}

func (a *orderActor) stopTracker(orderID string) bool {
	t, ok := a.trackers[orderID]
	if !ok {
		return false
	}
	t.cancel()
	delete(a.trackers, orderID)

	a.logger.Info("Order tracking stopped", zap.String("order_id", orderID))
	return true
}

// advance moves a tracked order one step along the progression. Ticks from
// a cancelled timer that were already queued are dropped.
func (a *orderActor) advance(tick *trackTick) {
	t, ok := a.trackers[tick.orderID]
	if !ok || t.gen != tick.gen {
		return
	}

	o, ok := a.byID[tick.orderID]
	if !ok {
		a.stopTracker(tick.orderID)
		return
	}

	next, ok := NextStatus(o.Status)
	if !ok {
		a.stopTracker(tick.orderID)
		return
	}

	a.applyStatus(o, next)
	if next.Terminal() {
		a.stopTracker(tick.orderID)
	}
}
