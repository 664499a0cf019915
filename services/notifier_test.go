package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnlockHubDeliversToUserStreams(t *testing.T) {
	hub := NewUnlockHub()
	alice, bob := uuid.New(), uuid.New()

	a1 := hub.Subscribe(alice)
	a2 := hub.Subscribe(alice)
	b := hub.Subscribe(bob)
	assert.Equal(t, 2, hub.Connections(alice))

	hub.NotifyUnlocked(alice, []string{"first-steps"})

	for _, sub := range []*Subscription{a1, a2} {
		select {
		case evt := <-sub.C:
			assert.Equal(t, "achievements_unlocked", evt.Type)
			assert.Equal(t, []string{"first-steps"}, evt.Achievements)
		default:
			t.Fatal("expected an event")
		}
	}
	select {
	case <-b.C:
		t.Fatal("bob must not see alice's unlocks")
	default:
	}
}

func TestUnlockHubDropsWhenFull(t *testing.T) {
	hub := NewUnlockHub()
	user := uuid.New()
	sub := hub.Subscribe(user)

	for i := 0; i < subscriberBuffer+3; i++ {
		hub.NotifyUnlocked(user, []string{"x"})
	}
	assert.Len(t, sub.C, subscriberBuffer)
	assert.Equal(t, 3, hub.dropped)
}

func TestUnsubscribeClosesOnce(t *testing.T) {
	hub := NewUnlockHub()
	user := uuid.New()
	sub := hub.Subscribe(user)

	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)
	_, open := <-sub.C
	require.False(t, open)
	assert.Zero(t, hub.Connections(user))

	hub.NotifyUnlocked(user, []string{"late"})
}
