// Copyright (c) 2026 Tipon. All rights reserved.
// Author: dev@tipon.events

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/tipon-events/tipon/internal/core/registration"
)

// Sender is the delivery backend the worker drains confirmations into.
type Sender interface {
	SendConfirmation(confirmation registration.Confirmation) error
}

// Worker consumes confirmations from the queue and hands each one to the
// sender. A failed delivery is requeued once; a poison message (bad JSON)
// is dropped.
type Worker struct {
	channel *amqp.Channel
	queue   string
	sender  Sender
	logger  *slog.Logger
}

// NewWorker opens its own channel on the shared connection so the consumer
// and the publisher never contend.
func NewWorker(conn *amqp.Connection, queue string, sender Sender, logger *slog.Logger) (*Worker, error) {
	channel, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open worker channel: %w", err)
	}
	if err := channel.Qos(1, 0, false); err != nil {
		_ = channel.Close()
		return nil, fmt.Errorf("set worker prefetch: %w", err)
	}
	return &Worker{
		channel: channel,
		queue:   queue,
		sender:  sender,
		logger:  logger,
	}, nil
}

// Run consumes until the context is canceled or the channel closes.
func (worker *Worker) Run(ctx context.Context) error {
	deliveries, err := worker.channel.Consume(worker.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %q: %w", worker.queue, err)
	}

	worker.logger.Info("notification worker started", slog.String("queue", worker.queue))

	for {
		select {
		case <-ctx.Done():
			_ = worker.channel.Close()
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel for %q closed", worker.queue)
			}
			worker.handle(delivery)
		}
	}
}

func (worker *Worker) handle(delivery amqp.Delivery) {
	var confirmation registration.Confirmation
	if err := json.Unmarshal(delivery.Body, &confirmation); err != nil {
		worker.logger.Error("dropping undecodable confirmation",
			slog.String("error", err.Error()),
		)
		_ = delivery.Nack(false, false)
		return
	}

	if err := worker.sender.SendConfirmation(confirmation); err != nil {
		requeue := !delivery.Redelivered
		worker.logger.Warn("confirmation delivery failed",
			slog.String("trans_id", confirmation.TransID),
			slog.Bool("requeue", requeue),
			slog.String("error", err.Error()),
		)
		_ = delivery.Nack(false, requeue)
		return
	}
	_ = delivery.Ack(false)
}
