// Package outbox drains media.outbox_events to Google Cloud Pub/Sub. The
// publisher task polls on a fixed tick, publishes due events, and records
// per-event success or failure back in the table.
package outbox

import (
	"context"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"

	"github.com/bionicotaku/lingo-services-media/internal/repositories"

	"github.com/go-kratos/kratos/v2/log"
)

const (
	defaultBatchSize      = 50
	defaultTickInterval   = 2 * time.Second
	defaultInitialBackoff = 2 * time.Second
	defaultMaxBackoff     = 5 * time.Minute
	defaultMaxAttempts    = int32(10)
	defaultPublishTimeout = 10 * time.Second
)

// Config tunes the publisher loop.
type Config struct {
	BatchSize      int
	TickInterval   time.Duration
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxAttempts    int32
	PublishTimeout time.Duration
}

func sanitizeConfig(cfg Config) Config {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaultTickInterval
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = defaultInitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = defaultMaxBackoff
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = defaultPublishTimeout
	}
	return cfg
}

// Publisher is the Pub/Sub surface the task needs; *pubsub.Topic satisfies
// it through topicPublisher.
type Publisher interface {
	Publish(ctx context.Context, event repositories.OutboxEvent) error
}

// topicPublisher adapts *pubsub.Topic to the Publisher interface.
type topicPublisher struct {
	topic *pubsub.Topic
}

func (p topicPublisher) Publish(ctx context.Context, event repositories.OutboxEvent) error {
	result := p.topic.Publish(ctx, &pubsub.Message{
		Data: event.Payload,
		Attributes: map[string]string{
			"event_id":       event.EventID.String(),
			"event_type":     event.EventType,
			"aggregate_type": event.AggregateType,
			"aggregate_id":   event.AggregateID.String(),
		},
	})
	_, err := result.Get(ctx)
	return err
}

// PublisherTask is a background transport.Server that drains the outbox.
type PublisherTask struct {
	repo  *repositories.OutboxRepository
	pub   Publisher
	cfg   Config
	log   *log.Helper
	clock func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPublisherTask constructs the publisher loop.
func NewPublisherTask(repo *repositories.OutboxRepository, pub Publisher, cfg Config, logger log.Logger) *PublisherTask {
	return &PublisherTask{
		repo:  repo,
		pub:   pub,
		cfg:   sanitizeConfig(cfg),
		log:   log.NewHelper(logger),
		clock: time.Now,
	}
}

// Start runs the polling loop until Stop cancels it.
func (t *PublisherTask) Start(ctx context.Context) error {
	t.mu.Lock()
	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	done := make(chan struct{})
	t.done = done
	t.mu.Unlock()

	defer close(done)
	t.log.Infof("outbox publisher started: tick=%v batch=%d", t.cfg.TickInterval, t.cfg.BatchSize)

	ticker := time.NewTicker(t.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-runCtx.Done():
			t.log.Info("outbox publisher stopped")
			return nil
		case <-ticker.C:
			t.drainOnce(runCtx)
		}
	}
}

// Stop cancels the loop and waits for the in-flight tick to finish.
func (t *PublisherTask) Stop(ctx context.Context) error {
	t.mu.Lock()
	cancel := t.cancel
	done := t.done
	t.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (t *PublisherTask) drainOnce(ctx context.Context) {
	now := t.clock().UTC()
	events, err := t.repo.ClaimPending(ctx, now, t.cfg.BatchSize)
	if err != nil {
		t.log.Errorf("claim pending outbox events: %v", err)
		return
	}
	for _, event := range events {
		if ctx.Err() != nil {
			return
		}
		t.publishOne(ctx, event)
	}
}

func (t *PublisherTask) publishOne(ctx context.Context, event repositories.OutboxEvent) {
	if event.DeliveryAttempts >= t.cfg.MaxAttempts {
		// Parked: leave the row for manual inspection instead of retrying
		// forever.
		t.log.Warnf("outbox event %s exceeded %d attempts, parking", event.EventID, t.cfg.MaxAttempts)
		far := t.clock().UTC().Add(24 * time.Hour)
		if err := t.repo.MarkFailed(ctx, event.EventID, "max delivery attempts exceeded", far); err != nil {
			t.log.Errorf("park outbox event %s: %v", event.EventID, err)
		}
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, t.cfg.PublishTimeout)
	err := t.pub.Publish(pubCtx, event)
	cancel()
	if err != nil {
		next := t.clock().UTC().Add(t.backoffDuration(event.DeliveryAttempts))
		t.log.Warnf("publish outbox event %s failed (attempt %d): %v", event.EventID, event.DeliveryAttempts+1, err)
		if merr := t.repo.MarkFailed(ctx, event.EventID, err.Error(), next); merr != nil {
			t.log.Errorf("mark outbox event %s failed: %v", event.EventID, merr)
		}
		return
	}

	if err := t.repo.MarkPublished(ctx, event.EventID, t.clock().UTC()); err != nil {
		t.log.Errorf("mark outbox event %s published: %v", event.EventID, err)
	}
}

// backoffDuration doubles per attempt from the initial backoff, capped.
func (t *PublisherTask) backoffDuration(attempts int32) time.Duration {
	backoff := t.cfg.InitialBackoff
	for i := int32(0); i < attempts; i++ {
		backoff *= 2
		if backoff >= t.cfg.MaxBackoff {
			return t.cfg.MaxBackoff
		}
	}
	return backoff
}
