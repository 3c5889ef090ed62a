package queue

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// AmqpQueue publishes jobs to a durable RabbitMQ queue. Consumption happens
// out of process in cmd/worker, so Subscribe is not supported here.
type AmqpQueue struct {
	URL string
}

func NewAmqpQueue(url string) *AmqpQueue {
	return &AmqpQueue{URL: url}
}

// Job is the wire shape of one queued notification.
type Job struct {
	NotificationID int `json:"notification_id"`
}

func (q *AmqpQueue) Publish(topic string, payload any) error {
	id, ok := payload.(int)
	if !ok {
		return fmt.Errorf("expected int payload, got %T", payload)
	}

	conn, err := amqp.Dial(q.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to queue: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open queue channel: %w", err)
	}
	defer ch.Close()

	declared, err := ch.QueueDeclare(
		topic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(Job{NotificationID: id})
	if err != nil {
		return err
	}

	return ch.Publish(
		"",
		declared.Name,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (q *AmqpQueue) Subscribe(topic string, handler func(payload any) error) error {
	return fmt.Errorf("amqp subscription runs in cmd/worker, not in process")
}

var _ Queue = (*AmqpQueue)(nil)
