package events

import (
	"context"
	"log"
	"time"

	"github.com/MOHAMMED-0786/craftora-2nd-phase/internal/repository"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the slice of kafka.Writer the poller needs; tests swap in
// an in-memory writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type OutboxPoller struct {
	timeout      time.Duration
	eventTick    time.Duration
	recoveryTick time.Duration
	stuckAfter   time.Duration
	batchSize    int64
	repo         repository.OutboxRepository
	sessions     repository.CheckoutRepository
	writer       MessageWriter
}

func NewOutboxPoller(repo repository.OutboxRepository, sessions repository.CheckoutRepository, brokers ...string) *OutboxPoller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "marketplace-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OutboxPoller{
		timeout:      5 * time.Second,
		eventTick:    time.Second,
		recoveryTick: 30 * time.Second,
		stuckAfter:   5 * time.Minute,
		batchSize:    100,
		repo:         repo,
		sessions:     sessions,
		writer:       w,
	}
}

// NewOutboxPollerWithWriter is used by tests.
func NewOutboxPollerWithWriter(repo repository.OutboxRepository, sessions repository.CheckoutRepository, writer MessageWriter) *OutboxPoller {
	return &OutboxPoller{
		timeout:      5 * time.Second,
		eventTick:    time.Second,
		recoveryTick: 30 * time.Second,
		stuckAfter:   5 * time.Minute,
		batchSize:    100,
		repo:         repo,
		sessions:     sessions,
		writer:       writer,
	}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	eventTicker := time.NewTicker(p.eventTick)
	recoveryTicker := time.NewTicker(p.recoveryTick)
	defer eventTicker.Stop()
	defer recoveryTicker.Stop()
	for {
		select {
		case <-eventTicker.C:
			p.processUnpublishedEvents(ctx)
		case <-recoveryTicker.C:
			p.recoverStuckSessions(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// recoverStuckSessions fails checkout sessions abandoned in_progress, such
// as when the process died between creating the session and completing it.
// Failing them frees the token for a retry, which then reuses any per-seller
// orders that were already written under it.
func (p *OutboxPoller) recoverStuckSessions(ctx context.Context) {
	failed, err := p.sessions.FailStuckSessions(ctx, time.Now().Add(-p.stuckAfter))
	if err != nil {
		log.Printf("failed to recover stuck checkout sessions: %v", err)
		return
	}
	if failed > 0 {
		log.Printf("recovered %d stuck checkout sessions", failed)
	}
}

func (p *OutboxPoller) processUnpublishedEvents(ctx context.Context) {
	events, err := p.repo.ListUnprocessed(ctx, p.batchSize)
	if err != nil {
		log.Printf("failed to fetch events %v", err)
		return
	}

	for _, event := range events {
		errPublish := p.publish(ctx, event)
		if errPublish != nil {
			log.Printf("failed to publish event id = %v with error %v", event.ID, errPublish)
			continue
		}

		errMark := p.repo.MarkProcessed(ctx, event.ID)
		if errMark != nil {
			log.Printf("failed to mark event as processed id = %v with error %v", event.ID, errMark)
			continue
		}
	}
}

func (p *OutboxPoller) publish(ctx context.Context, event *repository.OutboxEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.AggregateID), // per-aggregate ordering
		Value: event.Payload,             // already JSON from the outbox
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.writer.WriteMessages(writeCtx, msg)
}
