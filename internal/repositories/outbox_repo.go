package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OutboxMessage is an event to enqueue inside the caller's transaction.
type OutboxMessage struct {
	EventID       uuid.UUID
	AggregateType string
	AggregateID   uuid.UUID
	EventType     string
	Payload       []byte
	OccurredAt    time.Time
	AvailableAt   time.Time
}

// OutboxEvent is a pending event read back for publishing.
type OutboxEvent struct {
	EventID          uuid.UUID
	AggregateType    string
	AggregateID      uuid.UUID
	EventType        string
	Payload          []byte
	OccurredAt       time.Time
	AvailableAt      time.Time
	DeliveryAttempts int32
}

// OutboxRepository writes and drains media.outbox_events.
type OutboxRepository struct {
	pool *pgxpool.Pool
	log  *log.Helper
}

// NewOutboxRepository constructs the repository.
func NewOutboxRepository(pool *pgxpool.Pool, logger log.Logger) *OutboxRepository {
	return &OutboxRepository{
		pool: pool,
		log:  log.NewHelper(logger),
	}
}

// Enqueue inserts an event, joining the session's transaction when present
// so the event commits atomically with the aggregate write.
func (r *OutboxRepository) Enqueue(ctx context.Context, sess txmanager.Session, msg OutboxMessage) error {
	occurredAt := msg.OccurredAt.UTC()
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	availableAt := msg.AvailableAt.UTC()
	if availableAt.IsZero() {
		availableAt = occurredAt
	}

	query := `
		INSERT INTO media.outbox_events (
			event_id, aggregate_type, aggregate_id, event_type, payload, occurred_at, available_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.querier(sess).Exec(ctx, query,
		msg.EventID, msg.AggregateType, msg.AggregateID, msg.EventType, msg.Payload,
		timestamptzFromTime(occurredAt), timestamptzFromTime(availableAt),
	); err != nil {
		r.log.WithContext(ctx).Errorf("insert outbox event failed: event_id=%s err=%v", msg.EventID, err)
		return fmt.Errorf("insert outbox event: %w", err)
	}

	r.log.WithContext(ctx).Debugf("outbox event enqueued: type=%s aggregate=%s", msg.EventType, msg.AggregateID)
	return nil
}

// ClaimPending returns a batch of unpublished events that are due. Delivery
// is at-least-once: a second publisher instance may pick up the same rows,
// and consumers deduplicate on event_id.
func (r *OutboxRepository) ClaimPending(ctx context.Context, availableBefore time.Time, limit int) ([]OutboxEvent, error) {
	query := `
		SELECT event_id, aggregate_type, aggregate_id, event_type, payload, occurred_at, available_at, delivery_attempts
		FROM media.outbox_events
		WHERE published_at IS NULL AND available_at <= $1
		ORDER BY available_at
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, timestamptzFromTime(availableBefore), limit)
	if err != nil {
		return nil, fmt.Errorf("claim pending outbox events: %w", err)
	}
	defer rows.Close()

	var events []OutboxEvent
	for rows.Next() {
		var ev OutboxEvent
		if err := rows.Scan(&ev.EventID, &ev.AggregateType, &ev.AggregateID, &ev.EventType,
			&ev.Payload, &ev.OccurredAt, &ev.AvailableAt, &ev.DeliveryAttempts); err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox events: %w", err)
	}
	return events, nil
}

// MarkPublished stamps a successfully delivered event.
func (r *OutboxRepository) MarkPublished(ctx context.Context, eventID uuid.UUID, publishedAt time.Time) error {
	query := `
		UPDATE media.outbox_events
		SET published_at = $2, delivery_attempts = delivery_attempts + 1, last_error = NULL
		WHERE event_id = $1
	`
	if _, err := r.pool.Exec(ctx, query, eventID, timestamptzFromTime(publishedAt.UTC())); err != nil {
		return fmt.Errorf("mark outbox event published: %w", err)
	}
	return nil
}

// MarkFailed records a delivery failure and defers the next attempt.
func (r *OutboxRepository) MarkFailed(ctx context.Context, eventID uuid.UUID, cause string, nextAvailable time.Time) error {
	query := `
		UPDATE media.outbox_events
		SET delivery_attempts = delivery_attempts + 1, last_error = $2, available_at = $3
		WHERE event_id = $1
	`
	if _, err := r.pool.Exec(ctx, query, eventID, cause, timestamptzFromTime(nextAvailable.UTC())); err != nil {
		return fmt.Errorf("mark outbox event failed: %w", err)
	}
	return nil
}

func (r *OutboxRepository) querier(sess txmanager.Session) querier {
	if sess != nil && sess.Tx() != nil {
		return sess.Tx()
	}
	return r.pool
}
