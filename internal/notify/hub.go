// Package notify implements the in-process fan-out of settlement events
// to per-group subscriber channels. Delivery is best-effort: a slow
// subscriber loses events instead of blocking the publisher.
package notify

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rcampano/vaquita/internal/metrics"
	"github.com/rcampano/vaquita/internal/settlement"
)

// subscriberBuffer is the per-subscriber channel depth. A subscriber that
// falls this far behind starts losing events.
const subscriberBuffer = 16

// Subscription is one live membership in a group channel. Events arrive
// on C until Leave is called; the channel is closed on Leave.
type Subscription struct {
	ID      string
	GroupID string
	C       <-chan settlement.Event

	ch chan settlement.Event
}

// Hub routes events to the subscribers of their group channel. It
// implements settlement.Notifier. The zero value is not usable; use New.
type Hub struct {
	log *slog.Logger

	mu   sync.RWMutex
	subs map[string]map[string]*Subscription // groupID → subscriptionID → sub
}

// New creates an empty hub.
func New(log *slog.Logger) *Hub {
	return &Hub{
		log:  log,
		subs: make(map[string]map[string]*Subscription),
	}
}

// Join subscribes to a group channel. The caller must Leave the
// subscription when done or the hub leaks it.
func (h *Hub) Join(groupID string) *Subscription {
	ch := make(chan settlement.Event, subscriberBuffer)
	sub := &Subscription{
		ID:      uuid.New().String(),
		GroupID: groupID,
		C:       ch,
		ch:      ch,
	}

	h.mu.Lock()
	group := h.subs[groupID]
	if group == nil {
		group = make(map[string]*Subscription)
		h.subs[groupID] = group
	}
	group[sub.ID] = sub
	h.mu.Unlock()

	metrics.Subscribers.Inc()
	h.log.Debug("subscriber joined", "group_id", groupID, "subscription_id", sub.ID)
	return sub
}

// Leave removes the subscription and closes its channel. Safe to call
// once per subscription.
func (h *Hub) Leave(sub *Subscription) {
	h.mu.Lock()
	group := h.subs[sub.GroupID]
	if _, ok := group[sub.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(group, sub.ID)
	if len(group) == 0 {
		delete(h.subs, sub.GroupID)
	}
	h.mu.Unlock()

	close(sub.ch)
	metrics.Subscribers.Dec()
	h.log.Debug("subscriber left", "group_id", sub.GroupID, "subscription_id", sub.ID)
}

// Publish delivers the event to every current subscriber of its group
// channel. It never blocks: a subscriber with a full buffer is skipped
// and the drop is counted.
func (h *Hub) Publish(event settlement.Event) {
	metrics.EventsPublished.Inc()

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs[event.Group()] {
		select {
		case sub.ch <- event:
		default:
			metrics.EventsDropped.Inc()
			h.log.Warn("dropped event on slow subscriber",
				"event", event.EventName(),
				"group_id", event.Group(),
				"subscription_id", sub.ID)
		}
	}
}
