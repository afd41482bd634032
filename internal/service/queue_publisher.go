// Package service holds adapters between the domain and outside systems.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/aerial-tour-booking/internal/logger"
	"github.com/iliyamo/aerial-tour-booking/internal/queue"
)

// AMQPPublisher publishes booking events to RabbitMQ.  Each publish opens
// and closes its own connection, so a broker outage never leaves state
// behind in the process.  Errors are logged and returned for the caller to
// decide whether to ignore them.
type AMQPPublisher struct {
	url string
	log logger.Logger
}

func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url, log: logger.Named("publisher")}
}

// PublishBookingCreated sends ev to the durable booking.created queue as a
// persistent message.
func (p *AMQPPublisher) PublishBookingCreated(ctx context.Context, ev queue.BookingCreatedEvent) error {
	timeout := 5 * time.Second
	if dl, ok := ctx.Deadline(); ok {
		timeout = time.Until(dl)
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		p.log.Warn(ctx, "rabbitmq dial failed", logger.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn(ctx, "rabbitmq channel open failed", logger.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queue.BookingCreatedQueue, // name
		true,                      // durable
		false,                     // autoDelete
		false,                     // exclusive
		false,                     // noWait
		nil,                       // args
	); err != nil {
		p.log.Warn(ctx, "rabbitmq queue declare failed", logger.Error(err))
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    ev.BookingID,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.BookingCreatedQueue, false, false, pub); err != nil {
		p.log.Warn(ctx, "rabbitmq publish failed", logger.Error(err), logger.String("booking_id", ev.BookingID))
		return err
	}
	return nil
}
