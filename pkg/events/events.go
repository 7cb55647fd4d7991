// Package events publishes order lifecycle events over RabbitMQ so a
// kitchen display or notification worker can react to checkouts.
package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/kenzyo3030/cafe/internal/models"

	amqp "github.com/streadway/amqp"
)

const orderQueue = "orders"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel, and declares the
// durable orders queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close() // Close connection if channel creation fails
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		orderQueue, // name
		true,       // durable (persists messages across broker restarts)
		false,      // delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s queue: %w", orderQueue, err)
	}

	log.Printf("RabbitMQ client connected and %s queue declared.", orderQueue)

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
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
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishOrderPlaced publishes an order-placed event to the orders
// queue as JSON.
func (c *Client) PublishOrderPlaced(order models.Order) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(map[string]interface{}{
		"event":         "order.placed",
		"order_id":      order.ID,
		"customer_name": order.CustomerName,
		"address":       order.Address,
		"total":         order.Total,
		"items":         order.Items,
		"placed_at":     order.PlacedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal order event to JSON: %w", err)
	}

	err = c.channel.Publish(
		"",         // exchange: default exchange
		orderQueue, // routing key: the queue name
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	log.Printf(" [x] Sent order event: %s", body)
	return nil
}

// orderEvent mirrors the payload published by PublishOrderPlaced.
type orderEvent struct {
	Event        string `json:"event"`
	OrderID      int64  `json:"order_id"`
	CustomerName string `json:"customer_name"`
	Total        int64  `json:"total"`
}

// LogOrderEvent is the default orders-queue handler: it logs each
// checkout so a kitchen terminal tailing the service log sees new
// orders come in. Malformed payloads are dropped, not requeued.
func LogOrderEvent(msg amqp.Delivery) error {
	var ev orderEvent
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		log.Printf("Dropping malformed order event (Tag: %d): %v", msg.DeliveryTag, err)
		return nil
	}
	log.Printf("Received %s event: order %d from %s, total %d", ev.Event, ev.OrderID, ev.CustomerName, ev.Total)
	return nil
}

// ConsumeOrderEvents listens for messages on the orders queue and
// hands each to messageHandler, acking on nil and nacking (requeue)
// on error.
func (c *Client) ConsumeOrderEvents(messageHandler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := c.channel.QueueDeclare(
		orderQueue, // name
		true,       // durable
		false,      // delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue for consuming: %w", err)
	}

	msgs, err := c.channel.Consume(
		queue.Name, // queue
		"",         // consumer tag
		false,      // auto-ack: manual acknowledgement
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			if err := messageHandler(msg); err != nil {
				log.Printf("Error processing message %d: %v", msg.DeliveryTag, err)
				if nackErr := msg.Nack(false, true); nackErr != nil {
					log.Printf("Failed to nack message %d: %v", msg.DeliveryTag, nackErr)
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				log.Printf("Failed to ack message %d: %v", msg.DeliveryTag, ackErr)
			}
		}
	}()

	return nil
}
