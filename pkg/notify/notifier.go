// Package notify fans order events out to logs, Redis, the audit log, Kafka,
// email and metrics. Delivery is best effort: a failing sink is logged and
// never affects the order that triggered it.
package notify

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/freshcart/pkg/order"
	"go.uber.org/zap"
)

const sendTimeout = 5 * time.Second

type deliver struct {
	n Notification
}

// notificationActor delivers notifications in the order they were published.
type notificationActor struct {
	logger *zap.Logger
	sinks  []Sink
}

func (a *notificationActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *deliver:
		for _, sink := range a.sinks {
			sendCtx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			err := sink.Send(sendCtx, msg.n)
			cancel()
			if err != nil {
				a.logger.Warn("Failed to deliver notification",
					zap.String("sink", sink.Name()),
					zap.String("kind", msg.n.Kind),
					zap.String("order_id", msg.n.OrderID),
					zap.Error(err))
			}
		}

	case *actor.Started:
		names := make([]string, len(a.sinks))
		for i, s := range a.sinks {
			names[i] = s.Name()
		}
		a.logger.Info("Notification actor started", zap.Strings("sinks", names))
	}
}

// EventSource is satisfied by *order.Store.
type EventSource interface {
	Subscribe(fn func(order.Event)) func()
}

type Notifier struct {
	system      *actor.ActorSystem
	pid         *actor.PID
	unsubscribe func()
	sinks       []Sink
}

func Start(system *actor.ActorSystem, source EventSource, logger *zap.Logger, sinks ...Sink) (*Notifier, error) {
	props := actor.PropsFromProducer(func() actor.Actor {
		return &notificationActor{logger: logger, sinks: sinks}
	})
	pid, err := system.Root.SpawnNamed(props, "notifier")
	if err != nil {
		return nil, fmt.Errorf("failed to spawn notification actor: %w", err)
	}

	n := &Notifier{system: system, pid: pid, sinks: sinks}
	n.unsubscribe = source.Subscribe(func(e order.Event) {
		system.Root.Send(pid, &deliver{n: FromEvent(e)})
	})
	return n, nil
}

// Close stops listening, drains notifications already queued and closes sinks
// that hold connections.
func (n *Notifier) Close() error {
	n.unsubscribe()
	err := n.system.Root.PoisonFuture(n.pid).Wait()
	for _, s := range n.sinks {
		if c, ok := s.(io.Closer); ok {
			_ = c.Close()
		}
	}
	if err != nil {
		return fmt.Errorf("failed to stop notification actor: %w", err)
	}
	return nil
}
