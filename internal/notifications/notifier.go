// Package notifications publishes swap and admin events over Redis pub/sub.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"skillswap/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const (
	channelPattern   = "notifications:*"
	broadcastChannel = "notifications:broadcast"
)

// Event types carried in Event.Type.
const (
	EventSwapRequested = "swap_requested"
	EventSwapUpdated   = "swap_updated"
	EventSwapDeleted   = "swap_deleted"
	EventFeedback      = "feedback_received"
	EventBroadcast     = "broadcast"
)

// Event is the JSON envelope published on notification channels.
type Event struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func UserChannel(userID uint) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

func BroadcastChannel() string {
	return broadcastChannel
}

// Notifier publishes into Redis channels. A Notifier without a client drops
// every publish silently so the API keeps working when Redis is down.
type Notifier struct {
	rdb *redis.Client
}

func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Enabled reports whether publishes reach Redis.
func (n *Notifier) Enabled() bool {
	return n != nil && n.rdb != nil
}

// PublishUser sends a raw payload to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if !n.Enabled() {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// PublishBroadcast sends a raw payload to every subscriber.
func (n *Notifier) PublishBroadcast(ctx context.Context, payload string) error {
	if !n.Enabled() {
		return nil
	}
	return n.rdb.Publish(ctx, broadcastChannel, payload).Err()
}

// NotifyUser wraps payload in an Event and publishes it to userID.
func (n *Notifier) NotifyUser(ctx context.Context, userID uint, eventType string, payload any) error {
	if !n.Enabled() {
		return nil
	}
	body, err := encode(eventType, payload)
	if err != nil {
		return err
	}
	return n.PublishUser(ctx, userID, body)
}

// NotifyAll wraps payload in an Event and publishes it on the broadcast channel.
func (n *Notifier) NotifyAll(ctx context.Context, eventType string, payload any) error {
	if !n.Enabled() {
		return nil
	}
	body, err := encode(eventType, payload)
	if err != nil {
		return err
	}
	return n.PublishBroadcast(ctx, body)
}

func encode(eventType string, payload any) (string, error) {
	raw, err := json.Marshal(Event{Type: eventType, Payload: payload, Timestamp: time.Now().UTC()})
	if err != nil {
		return "", fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	return string(raw), nil
}

// StartSubscriber listens on every user channel and the broadcast channel and
// calls onMessage for each message until ctx is cancelled. The subscription is
// confirmed before StartSubscriber returns.
func (n *Notifier) StartSubscriber(ctx context.Context, onMessage func(channel, payload string)) error {
	if !n.Enabled() {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, channelPattern)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", channelPattern, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in notification subscriber",
								slog.Any("panic", r),
								slog.String("stack", string(debug.Stack())),
							)
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}
