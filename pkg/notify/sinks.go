package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/example/freshcart/pkg/metrics"
	"github.com/example/freshcart/pkg/repository"
	"github.com/keighl/postmark"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Sink delivers notifications to one destination.
type Sink interface {
	Name() string
	Send(ctx context.Context, n Notification) error
}

type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Send(_ context.Context, n Notification) error {
	s.logger.Info("Order notification",
		zap.String("kind", n.Kind),
		zap.String("order_id", n.OrderID),
		zap.String("status", string(n.Status)),
		zap.String("previous_status", string(n.PreviousState)))
	return nil
}

type Publisher interface {
	Publish(ctx context.Context, payload interface{}) error
}

// RedisSink publishes notifications on the Redis event channel.
type RedisSink struct {
	pub Publisher
}

func NewRedisSink(pub Publisher) *RedisSink {
	return &RedisSink{pub: pub}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Send(ctx context.Context, n Notification) error {
	return s.pub.Publish(ctx, n)
}

type AuditWriter interface {
	CreateAuditLog(ctx context.Context, log *repository.AuditLog) error
}

// AuditSink appends every notification to the audit log.
type AuditSink struct {
	service string
	writer  AuditWriter
}

func NewAuditSink(service string, writer AuditWriter) *AuditSink {
	return &AuditSink{service: service, writer: writer}
}

func (s *AuditSink) Name() string { return "audit" }

func (s *AuditSink) Send(ctx context.Context, n Notification) error {
	data := bson.M{
		"user_id":        n.UserID,
		"shop_id":        n.ShopID,
		"status":         string(n.Status),
		"payment_method": string(n.PaymentMethod),
		"total":          n.Total,
	}
	if n.PreviousState != "" {
		data["previous_status"] = string(n.PreviousState)
	}
	return s.writer.CreateAuditLog(ctx, repository.NewAuditLog(s.service, n.Kind, n.OrderID, data))
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaSink writes notifications keyed by order id, so one order's events
// stay on one partition.
type KafkaSink struct {
	writer MessageWriter
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

func NewKafkaSink(writer MessageWriter) *KafkaSink {
	return &KafkaSink{writer: writer}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Close() error {
	if c, ok := s.writer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *KafkaSink) Send(ctx context.Context, n Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return s.writer.WriteMessages(ctx, kafka.Message{Key: []byte(n.OrderID), Value: data, Time: time.Now().UTC()})
}

type Mailer interface {
	SendEmail(email postmark.Email) (postmark.EmailResponse, error)
}

// EmailSink sends an order confirmation when an order is placed. Other
// notifications are ignored.
type EmailSink struct {
	mailer Mailer
	sender string
	lookup func(userID string) (string, bool)
}

func NewEmailSink(mailer Mailer, sender string, lookup func(userID string) (string, bool)) *EmailSink {
	return &EmailSink{mailer: mailer, sender: sender, lookup: lookup}
}

func (s *EmailSink) Name() string { return "email" }

func (s *EmailSink) Send(_ context.Context, n Notification) error {
	if n.Kind != KindOrderPlaced {
		return nil
	}
	to, ok := s.lookup(n.UserID)
	if !ok || to == "" {
		return nil
	}

	body := fmt.Sprintf(
		"<strong>Thank you for your order!</strong><br><br>Order <strong>%s</strong> from %s has been confirmed.<br>Total: <strong>₹%.2f</strong><br>Payment: <strong>%s</strong>",
		n.OrderID, n.ShopName, n.Total, n.PaymentMethod)

	_, err := s.mailer.SendEmail(postmark.Email{
		From:     s.sender,
		To:       to,
		Subject:  fmt.Sprintf("Order %s confirmed", n.OrderID),
		HtmlBody: body,
		Tag:      "order-confirmation",
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type MetricsSink struct {
	m *metrics.Metrics
}

func NewMetricsSink(m *metrics.Metrics) *MetricsSink {
	return &MetricsSink{m: m}
}

func (s *MetricsSink) Name() string { return "metrics" }

func (s *MetricsSink) Send(_ context.Context, n Notification) error {
	switch n.Kind {
	case KindOrderPlaced:
		s.m.OrdersPlaced.WithLabelValues(string(n.PaymentMethod)).Inc()
		s.m.OrderValue.Observe(n.Total)
	case KindOrderStatusChanged:
		s.m.StatusTransitions.WithLabelValues(string(n.Status)).Inc()
	}
	return nil
}
