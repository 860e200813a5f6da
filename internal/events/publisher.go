// Package events publishes order lifecycle events for downstream consumers
// (fulfillment, notifications). Publishing is strictly best-effort: a broker
// outage never affects the shopper-facing flow.
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

const orderTopic = "storefront-orders"

// OrderConfirmed is emitted when the payment platform redirects back with a
// succeeded status.
type OrderConfirmed struct {
	PaymentRef  string    `json:"payment_ref"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// Publisher is the event boundary. NopPublisher is used when no brokers are
// configured.
type Publisher interface {
	OrderConfirmed(ctx context.Context, paymentRef string)
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) OrderConfirmed(context.Context, string) {}
func (NopPublisher) Close() error                           { return nil }

// KafkaPublisher writes order events to Kafka.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  orderTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) OrderConfirmed(ctx context.Context, paymentRef string) {
	event := OrderConfirmed{PaymentRef: paymentRef, ConfirmedAt: time.Now().UTC()}
	value, err := json.Marshal(event)
	if err != nil {
		log.Printf("marshal order event: %v", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(paymentRef),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Printf("publish order event for %s: %v", paymentRef, err)
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
