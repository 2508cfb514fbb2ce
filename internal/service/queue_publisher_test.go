package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/space-travel-booking/internal/queue"
)

func TestAMQPPublisherBuffersWithoutBlocking(t *testing.T) {
	p := NewAMQPPublisher("amqp://unused", 1, nil)
	ctx := context.Background()

	require.NoError(t, p.PublishBookingConfirmed(ctx, queue.BookingConfirmedEvent{BookingID: "a"}))
	assert.ErrorIs(t, p.PublishBookingConfirmed(ctx, queue.BookingConfirmedEvent{BookingID: "b"}), ErrPublisherBusy)
}

func TestAMQPPublisherRunRetriesAndStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := NewAMQPPublisher("amqp://unused", 4, nil)
	p.delay = time.Millisecond
	var calls, delivered atomic.Int32
	p.send = func(_ context.Context, ev queue.BookingConfirmedEvent) error {
		if calls.Add(1) == 1 {
			return errors.New("transient")
		}
		delivered.Add(1)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.NoError(t, p.PublishBookingConfirmed(ctx, queue.BookingConfirmedEvent{BookingID: "a"}))
	assert.Eventually(t, func() bool { return delivered.Load() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, int32(2), calls.Load())

	cancel()
	assert.NoError(t, <-done)
}

func TestAMQPPublisherFlushesBufferOnShutdown(t *testing.T) {
	p := NewAMQPPublisher("amqp://unused", 4, nil)
	var delivered []string
	p.send = func(_ context.Context, ev queue.BookingConfirmedEvent) error {
		delivered = append(delivered, ev.BookingID)
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, p.PublishBookingConfirmed(ctx, queue.BookingConfirmedEvent{BookingID: "a"}))
	require.NoError(t, p.PublishBookingConfirmed(ctx, queue.BookingConfirmedEvent{BookingID: "b"}))
	cancel()

	// Either branch of Run's select may fire first; both end with an empty buffer.
	require.NoError(t, p.Run(ctx))
	assert.ElementsMatch(t, []string{"a", "b"}, delivered)
	assert.Zero(t, len(p.events))
}

func TestAMQPPublisherLogsDroppedEventsOnShutdown(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	p := NewAMQPPublisher("amqp://unused", 4, zap.New(core))
	p.attempts = 1
	p.send = func(context.Context, queue.BookingConfirmedEvent) error {
		return errors.New("broker down")
	}
	ctx, cancel := context.WithCancel(context.Background())
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, p.PublishBookingConfirmed(ctx, queue.BookingConfirmedEvent{BookingID: id}))
	}
	cancel()

	require.NoError(t, p.Run(ctx))
	assert.Zero(t, len(p.events))

	shutdown := logs.FilterMessage("rabbitmq: undelivered booking events dropped at shutdown").All()
	require.Len(t, shutdown, 1)
	assert.Equal(t, int64(3), shutdown[0].ContextMap()["dropped"])
	assert.Equal(t, int64(0), shutdown[0].ContextMap()["sent"])
}
