package mq

import (
	"context"
	"encoding/json"
	"log"

	"github.com/rabbitmq/amqp091-go"
)

const exchangeName = "support.events"

// Publisher pushes ticket events to the support-desk exchange. A nil
// Publisher is valid and drops events with a log line, mirroring how
// the rest of the service treats an absent Redis.
type Publisher struct {
	conn *amqp091.Connection
	ch   *amqp091.Channel
}

var dialFn = amqp091.Dial

// Connect returns nil without error when url is empty.
func Connect(url string) (*Publisher, error) {
	if url == "" {
		return nil, nil
	}

	conn, err := dialFn(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, ch: ch}, nil
}

func (p *Publisher) Publish(ctx context.Context, routingKey string, payload any) error {
	if p == nil || p.ch == nil {
		log.Printf("mq disabled, dropping %s event", routingKey)
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.ch.PublishWithContext(ctx, exchangeName, routingKey, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Body:         body,
	})
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
