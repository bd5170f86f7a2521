package forward

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/huangsam/heatwatch/internal/contract"
	"github.com/huangsam/heatwatch/schema"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPForwarder publishes each payload to a topic exchange.
type AMQPForwarder struct {
	mu         sync.Mutex
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
}

var _ contract.Forwarder = &AMQPForwarder{} // Compile-time check

// NewAMQPForwarder dials the broker and declares a durable topic exchange.
func NewAMQPForwarder(url, exchange, routingKey string) (*AMQPForwarder, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &AMQPForwarder{conn: conn, channel: ch, exchange: exchange, routingKey: routingKey}, nil
}

// Forward publishes the payload as a JSON message.
func (f *AMQPForwarder) Forward(ctx context.Context, payload schema.DataPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.channel.PublishWithContext(ctx,
		f.exchange,
		f.routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// Close closes the channel and the connection.
func (f *AMQPForwarder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_ = f.channel.Close()
	return f.conn.Close()
}
