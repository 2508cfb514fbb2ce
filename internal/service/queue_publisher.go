package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/space-travel-booking/internal/queue"
	"github.com/iliyamo/space-travel-booking/internal/retry"
)

// ErrPublisherBusy is returned when the outgoing event buffer is full.
var ErrPublisherBusy = errors.New("event publisher busy")

// Publisher delivers booking.confirmed events.
type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, event queue.BookingConfirmedEvent) error
}

// NopPublisher drops every event.  It is used when the queue is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishBookingConfirmed(context.Context, queue.BookingConfirmedEvent) error {
	return nil
}

// AMQPPublisher buffers events and publishes them to RabbitMQ from a
// background loop, so a slow or absent broker never delays a booking
// request.  Each event is retried a few times before it is dropped.
type AMQPPublisher struct {
	url      string
	log      *zap.Logger
	events   chan queue.BookingConfirmedEvent
	attempts int
	delay    time.Duration
	grace    time.Duration // budget for flushing the buffer on shutdown
	send     func(ctx context.Context, event queue.BookingConfirmedEvent) error
}

// NewAMQPPublisher returns a publisher for the broker at url.  Run must be
// started for events to leave the buffer.
func NewAMQPPublisher(url string, buffer int, log *zap.Logger) *AMQPPublisher {
	if buffer < 1 {
		buffer = 64
	}
	if log == nil {
		log = zap.NewNop()
	}
	p := &AMQPPublisher{
		url:      url,
		log:      log,
		events:   make(chan queue.BookingConfirmedEvent, buffer),
		attempts: 3,
		delay:    500 * time.Millisecond,
		grace:    5 * time.Second,
	}
	p.send = p.publish
	return p
}

// PublishBookingConfirmed enqueues the event without blocking.
func (p *AMQPPublisher) PublishBookingConfirmed(_ context.Context, event queue.BookingConfirmedEvent) error {
	select {
	case p.events <- event:
		return nil
	default:
		return ErrPublisherBusy
	}
}

// Run publishes buffered events until ctx is cancelled, then makes one
// last attempt per event still buffered within the grace period.
func (p *AMQPPublisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			p.drain()
			return nil
		case ev := <-p.events:
			err := retry.Do(ctx, p.log, p.attempts, p.delay, func(ctx context.Context) error {
				return p.send(ctx, ev)
			})
			if err == nil {
				continue
			}
			if ctx.Err() != nil {
				p.drain(ev)
				return nil
			}
			p.log.Error("rabbitmq: dropping booking event", zap.String("booking_id", ev.BookingID), zap.Error(err))
		}
	}
}

// drain sends pending and whatever is left in the buffer, one attempt each,
// and logs how many events could not be delivered.
func (p *AMQPPublisher) drain(pending ...queue.BookingConfirmedEvent) {
	if len(pending) == 0 && len(p.events) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.grace)
	defer cancel()

	var sent, dropped int
	flush := func(ev queue.BookingConfirmedEvent) {
		if ctx.Err() == nil && p.send(ctx, ev) == nil {
			sent++
			return
		}
		dropped++
	}
	for _, ev := range pending {
		flush(ev)
	}
	for {
		select {
		case ev := <-p.events:
			flush(ev)
		default:
			if dropped > 0 {
				p.log.Warn("rabbitmq: undelivered booking events dropped at shutdown", zap.Int("dropped", dropped), zap.Int("sent", sent))
			} else {
				p.log.Info("rabbitmq: flushed booking events at shutdown", zap.Int("sent", sent))
			}
			return
		}
	}
}

// publish sends one event to the durable booking.confirmed queue as a
// persistent message.
func (p *AMQPPublisher) publish(ctx context.Context, event queue.BookingConfirmedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return retry.Unretryable(err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		queue.BookingQueueName, // name
		true,                   // durable
		false,                  // autoDelete
		false,                  // exclusive
		false,                  // noWait
		nil,                    // args
	); err != nil {
		return err
	}

	return ch.PublishWithContext(ctx,
		"",                     // default exchange
		queue.BookingQueueName, // routing key = queue name
		false,                  // mandatory
		false,                  // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			MessageId:    event.BookingID,
			Body:         body,
		},
	)
}
