package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/space-travel-booking/internal/tracing"
)

// Consumer listens to the booking.confirmed queue and appends one line per
// event to <LogDir>/booking.log.
type Consumer struct {
	URL    string
	LogDir string
	Log    *zap.Logger
}

// Run dials the broker and consumes until ctx is cancelled, reconnecting
// with exponential backoff (capped at 30s) whenever the connection or the
// delivery channel drops.  It returns nil once ctx is done.
func (c *Consumer) Run(ctx context.Context) error {
	if c.Log == nil {
		c.Log = zap.NewNop()
	}
	log := c.Log
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return nil
		}
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			log.Warn("booking consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return nil
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		log.Warn("booking consumer: consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return nil
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Log.Warn("booking consumer: set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(BookingQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, BookingQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.Handle(d.Body); err != nil {
				c.Log.Warn("booking consumer: handle message failed", zap.Error(err))
				_ = d.Nack(false, false) // drop; requeueing a bad message would loop
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle decodes one event and appends it to the booking log.
func (c *Consumer) Handle(body []byte) error {
	var ev BookingConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.BookingID == "" {
		return errors.New("event without booking_id")
	}
	ctx := tracing.ExtractFromMap(context.Background(), ev.TraceContext)
	_, span := tracing.Tracer("queue").Start(ctx, "booking.log append")
	defer span.End()
	dir := c.LogDir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "booking.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders the booking.log line for ev.
func FormatLine(ev BookingConfirmedEvent) string {
	return fmt.Sprintf("[%s] Booking confirmed | booking_id=%s | session_id=%s | number=%d | destination=%q | seat_class=%q | departure=%s | days=%d | total=$%d\n",
		ev.ConfirmedAt, ev.BookingID, ev.SessionID, ev.Number, ev.Destination, ev.SeatClass, ev.DepartureDate, ev.TripDuration, ev.TotalPrice)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
