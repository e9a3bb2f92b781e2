package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const eventsChannel = "gabonshop:catalog:events"

// Event kinds published after a catalog mutation.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// Event tells other instances that the catalog changed.
type Event struct {
	Kind      string `json:"kind"`
	ProductID string `json:"product_id"`
	Origin    string `json:"origin"`
}

// Invalidation is a Redis Pub/Sub bus carrying catalog change events between
// instances. Each instance ignores events carrying its own origin.
type Invalidation struct {
	client *redis.Client
	origin string
}

func NewInvalidation(client *redis.Client, origin string) *Invalidation {
	return &Invalidation{client: client, origin: origin}
}

func (b *Invalidation) Publish(ctx context.Context, kind, productID string) error {
	data, err := json.Marshal(Event{Kind: kind, ProductID: productID, Origin: b.origin})
	if err != nil {
		return fmt.Errorf("failed to marshal catalog event: %w", err)
	}
	if err := b.client.Publish(ctx, eventsChannel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish catalog event: %w", err)
	}
	return nil
}

// Listen delivers events from other instances to handle until ctx is done.
// It returns once the subscription is confirmed; delivery runs in a goroutine.
func (b *Invalidation) Listen(ctx context.Context, handle func(Event)) error {
	sub := b.client.Subscribe(ctx, eventsChannel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return fmt.Errorf("failed to subscribe to catalog events: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					continue
				}
				if ev.Origin == b.origin {
					continue
				}
				handle(ev)
			}
		}
	}()
	return nil
}
