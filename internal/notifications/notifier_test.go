package notifications

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_NilRedisIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	assert.False(t, n.Enabled())
	assert.NoError(t, n.PublishUser(context.Background(), 1, "payload"))
	assert.NoError(t, n.NotifyAll(context.Background(), EventBroadcast, map[string]string{"m": "hi"}))
	assert.NoError(t, n.StartSubscriber(context.Background(), func(string, string) {}))

	var nilNotifier *Notifier
	assert.NoError(t, nilNotifier.NotifyUser(context.Background(), 1, EventSwapUpdated, nil))
}

func TestChannels(t *testing.T) {
	t.Parallel()
	tests := []struct {
		userID   uint
		expected string
	}{
		{1, "notifications:user:1"},
		{100, "notifications:user:100"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, UserChannel(tt.userID))
	}
	assert.Equal(t, "notifications:broadcast", BroadcastChannel())
}

type received struct {
	channel string
	event   Event
}

func TestNotifier_SubscriberReceivesUserAndBroadcast(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []received
	require.NoError(t, n.StartSubscriber(ctx, func(channel, payload string) {
		var ev Event
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			return
		}
		mu.Lock()
		got = append(got, received{channel: channel, event: ev})
		mu.Unlock()
	}))

	require.NoError(t, n.NotifyUser(context.Background(), 7, EventSwapRequested, map[string]uint{"swap_id": 3}))
	require.NoError(t, n.NotifyAll(context.Background(), EventBroadcast, map[string]string{"message": "maintenance"}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	byChannel := map[string]Event{}
	for _, r := range got {
		byChannel[r.channel] = r.event
	}
	assert.Equal(t, EventSwapRequested, byChannel[UserChannel(7)].Type)
	assert.Equal(t, EventBroadcast, byChannel[BroadcastChannel()].Type)
	assert.False(t, byChannel[BroadcastChannel()].Timestamp.IsZero())
}

func TestNotifier_SubscriberSurvivesPanic(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	payloads := make(chan string, 4)
	require.NoError(t, n.StartSubscriber(ctx, func(_ string, payload string) {
		if payload == "explode" {
			panic("boom")
		}
		payloads <- payload
	}))

	require.NoError(t, n.PublishUser(context.Background(), 1, "explode"))
	require.NoError(t, n.PublishUser(context.Background(), 1, "still-alive"))

	select {
	case p := <-payloads:
		assert.Equal(t, "still-alive", p)
	case <-time.After(time.Second):
		t.Fatal("subscriber stopped after panic")
	}
}
