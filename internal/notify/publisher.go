// Copyright (c) 2026 Tipon. All rights reserved.
// Author: dev@tipon.events

// Package notify carries confirmation delivery: committed submissions are
// published to a durable queue and a background worker emails the contact
// person. Delivery is best-effort end to end; nothing here can fail a
// submission that already committed.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/tipon-events/tipon/internal/core/registration"
)

// Publisher pushes confirmations onto a durable RabbitMQ queue. It
// implements [registration.Notifier].
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
	logger   *slog.Logger
}

// NewPublisher dials the broker and declares the exchange, queue, and
// binding so either side can start first.
func NewPublisher(url, exchange, queue string, logger *slog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}

	if err := channel.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %q: %w", queue, err)
	}
	if err := channel.QueueBind(queue, routingKeyConfirmation, exchange, false, nil); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("bind queue %q: %w", queue, err)
	}

	logger.Info("notification publisher ready",
		slog.String("exchange", exchange),
		slog.String("queue", queue),
	)
	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		queue:    queue,
		logger:   logger,
	}, nil
}

const routingKeyConfirmation = "registration.confirmed"

// Send implements [registration.Notifier] with a persistent JSON publish.
func (publisher *Publisher) Send(ctx context.Context, confirmation registration.Confirmation) error {
	body, err := json.Marshal(confirmation)
	if err != nil {
		return fmt.Errorf("encode confirmation: %w", err)
	}

	err = publisher.channel.PublishWithContext(ctx,
		publisher.exchange,
		routingKeyConfirmation,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish confirmation for %s: %w", confirmation.TransID, err)
	}

	publisher.logger.DebugContext(ctx, "confirmation published",
		slog.String("trans_id", confirmation.TransID),
		slog.String("scope", confirmation.Scope),
	)
	return nil
}

// Connection exposes the broker connection so the worker can open its own
// channel on it.
func (publisher *Publisher) Connection() *amqp.Connection {
	return publisher.conn
}

// Healthy reports whether the broker connection is still open. Used by the
// readiness probe.
func (publisher *Publisher) Healthy() error {
	if publisher.conn.IsClosed() {
		return fmt.Errorf("amqp connection to exchange %q is closed", publisher.exchange)
	}
	return nil
}

// Close releases the channel and the connection.
func (publisher *Publisher) Close() {
	if publisher.channel != nil {
		_ = publisher.channel.Close()
	}
	if publisher.conn != nil {
		_ = publisher.conn.Close()
	}
}

// NopNotifier is the stand-in used when the broker is disabled. It logs the
// confirmation and reports success.
type NopNotifier struct {
	Logger *slog.Logger
}

// Send implements [registration.Notifier].
func (notifier NopNotifier) Send(ctx context.Context, confirmation registration.Confirmation) error {
	notifier.Logger.InfoContext(ctx, "confirmation delivery disabled, dropping",
		slog.String("trans_id", confirmation.TransID),
		slog.String("scope", confirmation.Scope),
	)
	return nil
}
