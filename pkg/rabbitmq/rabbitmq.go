package rabbitmq

import (
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Defaults used when Config leaves them empty.
const (
	DefaultExchange   = "flowershop.events"
	DefaultOrderQueue = "order_queue"
	orderBinding      = "order.*"
)

// ErrChannelClosed is returned when the client has no usable channel.
var ErrChannelClosed = errors.New("RabbitMQ channel is not available")

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
	log      *zap.Logger
	// amqp channels are not safe for concurrent publishes
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL        string
	Exchange   string
	OrderQueue string
}

// NewClient connects to RabbitMQ, declares the topic exchange events are
// published to and binds the order queue to order events.
func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Exchange == "" {
		cfg.Exchange = DefaultExchange
	}
	if cfg.OrderQueue == "" {
		cfg.OrderQueue = DefaultOrderQueue
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declare(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Info("RabbitMQ client connected",
		zap.String("exchange", cfg.Exchange),
		zap.String("queue", cfg.OrderQueue))

	return &Client{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
		queue:    cfg.OrderQueue,
		log:      log,
	}, nil
}

func declare(ch *amqp.Channel, cfg Config) error {
	if err := ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	if _, err := ch.QueueDeclare(
		cfg.OrderQueue, // name
		true,           // durable
		false,          // delete when unused
		false,          // exclusive
		false,          // no-wait
		nil,            // arguments
	); err != nil {
		return fmt.Errorf("failed to declare %s: %w", cfg.OrderQueue, err)
	}

	if err := ch.QueueBind(cfg.OrderQueue, orderBinding, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind %s: %w", cfg.OrderQueue, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Publish sends a persistent JSON message to the exchange under routingKey.
func (c *Client) Publish(routingKey string, body []byte) error {
	if c == nil || c.channel == nil {
		return ErrChannelClosed
	}

	c.mu.Lock()
	err := c.channel.Publish(
		c.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}

	c.log.Debug("event published", zap.String("routing_key", routingKey), zap.Int("bytes", len(body)))
	return nil
}

// ConsumeOrderEvents starts a goroutine that hands every message on the order
// queue to handler. Messages are acked on success and requeued once on failure.
func (c *Client) ConsumeOrderEvents(handler func(msg amqp.Delivery) error) error {
	if c == nil || c.channel == nil {
		return ErrChannelClosed
	}

	msgs, err := c.channel.Consume(
		c.queue, // queue
		"",      // consumer tag
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.log.Info("waiting for order events", zap.String("queue", c.queue))

	go func() {
		for msg := range msgs {
			c.settle(msg, handler(msg))
		}
		c.log.Info("order event consumer stopped")
	}()

	return nil
}

// settle acks a handled delivery and nacks a failed one. Acks share the
// channel with Publish, so they take the same lock.
func (c *Client) settle(msg amqp.Delivery, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.log.Warn("order event handling failed",
			zap.Uint64("delivery_tag", msg.DeliveryTag),
			zap.Bool("redelivered", msg.Redelivered),
			zap.Error(err))
		// a message that already failed once is dropped
		if nackErr := msg.Nack(false, !msg.Redelivered); nackErr != nil {
			c.log.Error("failed to nack message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(nackErr))
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		c.log.Error("failed to ack message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(ackErr))
	}
}

// LogOrderEvent returns a handler that records order events in the log.
func LogOrderEvent(log *zap.Logger) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		if len(msg.Body) == 0 {
			return errors.New("empty order event")
		}
		log.Info("order event received",
			zap.String("routing_key", msg.RoutingKey),
			zap.ByteString("body", msg.Body))
		return nil
	}
}
