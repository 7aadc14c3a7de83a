package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/utils"
)

// ChangePublisher is what the service layer sees. Mutations publish
// best-effort: a dead broker degrades freshness, never correctness.
type ChangePublisher interface {
	PublishChange(ctx context.Context, table string, action ChangeAction, rowID string) error
}

type RabbitChangePublisher struct {
	conn *RabbitMQConnection
}

// NewRabbitChangePublisher creates a new change-feed publisher
func NewRabbitChangePublisher(conn *RabbitMQConnection) *RabbitChangePublisher {
	return &RabbitChangePublisher{conn: conn}
}

func (p *RabbitChangePublisher) PublishChange(ctx context.Context, table string, action ChangeAction, rowID string) error {
	// Ensure the queue exists
	_, err := p.conn.Channel.QueueDeclare(
		ChangeFeedQueue, // queue name
		true,            // durable
		false,           // delete when unused
		false,           // exclusive
		false,           // no-wait
		nil,             // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	evt := ChangeEvent{
		ID:         utils.GenerateRandomStringWithLength(6),
		Table:      table,
		Action:     action,
		RowID:      rowID,
		OccurredAt: time.Now(),
	}

	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	err = p.conn.Channel.PublishWithContext(
		ctx,
		"",              // exchange
		ChangeFeedQueue, // routing key (queue name)
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}

	slog.Info("Change event published",
		"queue", ChangeFeedQueue,
		"table", table,
		"action", action,
	)

	return nil
}

// NoopChangePublisher stands in when the broker is not configured; the
// subscription manager's polling fallback keeps readers fresh instead.
type NoopChangePublisher struct{}

func (NoopChangePublisher) PublishChange(context.Context, string, ChangeAction, string) error {
	return nil
}
