// services/notifier.go - Fan-out of achievement unlocks to connected clients
package services

import (
	"sync"
	"time"

	"hadithhub/metrics"

	"github.com/google/uuid"
)

const subscriberBuffer = 16

// UnlockEvent is pushed to every open stream of the user.
type UnlockEvent struct {
	Type         string    `json:"type"`
	Achievements []string  `json:"achievements"`
	At           time.Time `json:"at"`
}

type Subscription struct {
	C      <-chan UnlockEvent
	ch     chan UnlockEvent
	userID uuid.UUID
}

// UnlockHub implements progress.Notifier. Slow subscribers miss events
// instead of blocking the request that granted them.
type UnlockHub struct {
	mu      sync.RWMutex
	streams map[uuid.UUID]map[*Subscription]struct{}
	dropped int
}

func NewUnlockHub() *UnlockHub {
	return &UnlockHub{streams: make(map[uuid.UUID]map[*Subscription]struct{})}
}

func (h *UnlockHub) Subscribe(userID uuid.UUID) *Subscription {
	ch := make(chan UnlockEvent, subscriberBuffer)
	sub := &Subscription{C: ch, ch: ch, userID: userID}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.streams[userID] == nil {
		h.streams[userID] = make(map[*Subscription]struct{})
	}
	h.streams[userID][sub] = struct{}{}
	return sub
}

// Unsubscribe closes the subscription channel. It is safe to call twice.
func (h *UnlockHub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.streams[sub.userID]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	close(sub.ch)
	if len(subs) == 0 {
		delete(h.streams, sub.userID)
	}
}

func (h *UnlockHub) NotifyUnlocked(userID uuid.UUID, slugs []string) {
	if len(slugs) == 0 {
		return
	}
	evt := UnlockEvent{
		Type:         "achievements_unlocked",
		Achievements: append([]string(nil), slugs...),
		At:           time.Now().UTC(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.streams[userID] {
		select {
		case sub.ch <- evt:
		default:
			h.dropped++
			metrics.RecordUnlockEventDropped()
		}
	}
}

// Connections returns the number of open streams for the user.
func (h *UnlockHub) Connections(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.streams[userID])
}
