// Package notify bridges committed notification rows to the external
// delivery service over Redis pub/sub. Publishing happens after the
// routing transaction commits and is best-effort: the ledger row is the
// durable record, the event is a hint for live delivery.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"complaintflow/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// Notifier publishes one notification event for the delivery service.
type Notifier interface {
	Publish(ctx context.Context, n models.Notification) error
}

// Event is the wire payload published per notification row.
type Event struct {
	UserID      string    `json:"user_id"`
	ComplaintID string    `json:"complaint_id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChannelFor returns the per-user pub/sub channel name.
func ChannelFor(userID string) string {
	return "notify:" + userID
}

// EventFor builds the wire payload for a notification row.
func EventFor(n models.Notification) Event {
	return Event{
		UserID:      n.UserID,
		ComplaintID: n.ComplaintID,
		Description: n.Description,
		CreatedAt:   n.CreatedAt,
	}
}

// Publisher publishes notification events to Redis.
type Publisher struct {
	Redis *redis.Client
}

func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{Redis: rdb}
}

func (p *Publisher) Publish(ctx context.Context, n models.Notification) error {
	payload, err := json.Marshal(EventFor(n))
	if err != nil {
		return err
	}
	return p.Redis.Publish(ctx, ChannelFor(n.UserID), payload).Err()
}
