package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	// dialTimeout bounds how long the sender waits on an unreachable broker.
	dialTimeout = 3 * time.Second
	sendTimeout = 10 * time.Second
	bufferSize  = 256
)

// ErrPublishBufferFull is returned when events arrive faster than the broker
// accepts them.  The event is dropped.
var ErrPublishBufferFull = errors.New("rabbitmq: publish buffer full")

// Publisher sends payment events to the payment.status queue.  Callers only
// enqueue; Run delivers in the background, opening a connection per event.
// Events still buffered when Run stops are lost.
type Publisher struct {
	url    string
	log    *zap.Logger
	events chan PaymentStatusChangedEvent
	send   func(context.Context, PaymentStatusChangedEvent) error
}

func NewPublisher(url string, logger *zap.Logger) *Publisher {
	p := newPublisher(logger, bufferSize, nil)
	p.url = url
	p.send = p.dialAndPublish
	return p
}

func newPublisher(logger *zap.Logger, size int, send func(context.Context, PaymentStatusChangedEvent) error) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{log: logger, events: make(chan PaymentStatusChangedEvent, size), send: send}
}

// PublishPaymentStatus queues ev without waiting on the broker.
func (p *Publisher) PublishPaymentStatus(_ context.Context, ev PaymentStatusChangedEvent) error {
	if ev.OccurredAt == "" {
		ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}
	select {
	case p.events <- ev:
		return nil
	default:
		p.log.Warn("rabbitmq: event dropped", zap.Error(ErrPublishBufferFull), zap.String("tx_ref", ev.TransactionID))
		return ErrPublishBufferFull
	}
}

// Run delivers queued events one at a time until ctx is cancelled.  A failed
// delivery is logged and not retried.
func (p *Publisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-p.events:
			sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
			if err := p.send(sendCtx, ev); err != nil {
				p.log.Warn("rabbitmq: publish failed", zap.Error(err), zap.String("tx_ref", ev.TransactionID))
			}
			cancel()
		}
	}
}

func (p *Publisher) dialAndPublish(ctx context.Context, ev PaymentStatusChangedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout),
	})
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(PaymentStatusQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    ev.PaymentID + ":" + ev.Status,
		Body:         body,
	}
	return ch.PublishWithContext(ctx, "", PaymentStatusQueue, false, false, pub)
}
