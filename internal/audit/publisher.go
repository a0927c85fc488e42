package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"attesto/pkg/domain"
	"attesto/pkg/platform/circuit"
)

// ErrBufferFull is returned by Emit when the async inbox cannot accept the
// event. The event is logged before being dropped, so the record survives in
// the log stream even when the sink is backed up.
var ErrBufferFull = errors.New("audit buffer full")

// ErrSinkOpen is the drop cause recorded while the sink's circuit breaker is
// open and delivery attempts are paused.
var ErrSinkOpen = errors.New("audit sink circuit open")

// Sink delivers events to a destination: Kafka in deployments, memory in
// tests and single-process dev runs.
type Sink interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Publisher captures verification events. Synchronous by default; with
// WithAsyncBuffer it decouples event delivery from request latency through a
// bounded inbox that Close drains completely.
type Publisher struct {
	sink   Sink
	logger *slog.Logger

	breaker       *circuit.Breaker
	probeInterval time.Duration
	probeAt       time.Time // owned by the run goroutine

	inbox     chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to asynchronous delivery through a
// bounded inbox of the given size.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size <= 0 {
			size = 256
		}
		p.inbox = make(chan Event, size)
	}
}

// WithLogger sets the logger used for delivery failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithBreaker guards async delivery with a circuit breaker. After repeated
// sink failures the worker stops calling the sink and drops events to the
// log, probing one event per interval until the sink recovers. Synchronous
// publishers ignore it: their callers see sink errors directly.
func WithBreaker(b *circuit.Breaker, probeInterval time.Duration) Option {
	return func(p *Publisher) {
		if b == nil {
			return
		}
		if probeInterval <= 0 {
			probeInterval = 15 * time.Second
		}
		p.breaker = b
		p.probeInterval = probeInterval
	}
}

// NewPublisher creates a publisher over the given sink. In async mode the
// delivery worker starts immediately.
func NewPublisher(sink Sink, opts ...Option) *Publisher {
	p := &Publisher{
		sink:   sink,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.done = make(chan struct{})
		go p.run()
	}
	return p
}

// Emit records a terminal verification outcome. Zero Timestamp and EventID
// fields are filled in. In async mode a full inbox drops the event after
// logging it and returns ErrBufferFull; delivery failure never fails the
// verification that produced the event.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.EventID == (domain.EventID{}) {
		event.EventID = domain.NewEventID()
	}

	if p.inbox == nil {
		if err := p.sink.Publish(ctx, event); err != nil {
			observePublish(outcomeFailed)
			return err
		}
		observePublish(outcomeDelivered)
		return nil
	}

	select {
	case p.inbox <- event:
		return nil
	case <-ctx.Done():
		p.logDropped(ctx, event, ctx.Err())
		return ctx.Err()
	default:
		p.logDropped(ctx, event, ErrBufferFull)
		return ErrBufferFull
	}
}

// Close drains the inbox, delivers everything still buffered, then closes the
// sink. Safe to call more than once.
func (p *Publisher) Close() error {
	var err error
	p.closeOnce.Do(func() {
		if p.inbox != nil {
			close(p.inbox)
			<-p.done
		}
		err = p.sink.Close()
	})
	return err
}

// run is the async delivery loop. It uses a background context: the
// originating request is long gone by the time delivery happens, and the
// event already carries its correlation id.
func (p *Publisher) run() {
	defer close(p.done)
	for event := range p.inbox {
		p.deliver(event)
	}
}

// deliver publishes one event, feeding the breaker when one is configured.
// An open circuit drops events to the log instead of calling the sink, except
// for a single probe once per interval. The probe schedule needs no lock: it
// is touched only here.
func (p *Publisher) deliver(event Event) {
	if p.breaker != nil && p.breaker.IsOpen() {
		now := time.Now()
		if now.Before(p.probeAt) {
			p.logDropped(context.Background(), event, ErrSinkOpen)
			return
		}
		p.probeAt = now.Add(p.probeInterval)
	}

	if err := p.sink.Publish(context.Background(), event); err != nil {
		observePublish(outcomeFailed)
		p.logger.Error("audit event delivery failed",
			"event_id", event.EventID,
			"claim_id", event.ClaimID,
			"nullifier", event.Nullifier,
			"accepted", event.Accepted,
			"error", err,
		)
		if p.breaker != nil {
			if _, change := p.breaker.RecordFailure(); change.Opened {
				p.probeAt = time.Now().Add(p.probeInterval)
				p.logger.Error("audit sink circuit opened", "breaker", p.breaker.Name())
			}
		}
		return
	}
	observePublish(outcomeDelivered)
	if p.breaker != nil {
		if _, change := p.breaker.RecordSuccess(); change.Closed {
			p.logger.Info("audit sink circuit closed", "breaker", p.breaker.Name())
		}
	}
}

// logDropped writes the full event to the log so the audit record is not
// silently lost when the inbox rejects it.
func (p *Publisher) logDropped(ctx context.Context, event Event, cause error) {
	observePublish(outcomeDropped)
	p.logger.ErrorContext(ctx, "audit event dropped",
		"event_id", event.EventID,
		"identity_ref", event.IdentityRef,
		"claim_id", event.ClaimID,
		"requirement_hash", event.RequirementHash,
		"nullifier", event.Nullifier,
		"accepted", event.Accepted,
		"reason", event.Reason,
		"cause", cause,
	)
}
