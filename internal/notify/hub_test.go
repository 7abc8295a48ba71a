package notify

import (
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rcampano/vaquita/internal/settlement"
)

func newTestHub() *Hub {
	return New(slog.Default())
}

func TestHubFanOut(t *testing.T) {
	hub := newTestHub()

	a := hub.Join("g1")
	b := hub.Join("g1")
	other := hub.Join("g2")
	defer hub.Leave(other)

	event := settlement.PaymentRecorded{
		GroupID:  "g1",
		UserID:   "u1",
		UserName: "Alice",
		Amount:   decimal.NewFromInt(30),
	}
	hub.Publish(event)

	for i, sub := range []*Subscription{a, b} {
		select {
		case got := <-sub.C:
			if got.EventName() != "payment_recorded" || got.Group() != "g1" {
				t.Errorf("subscriber %d got %s for %s", i, got.EventName(), got.Group())
			}
		default:
			t.Errorf("subscriber %d received nothing", i)
		}
	}

	select {
	case got := <-other.C:
		t.Errorf("subscriber on g2 received %s", got.EventName())
	default:
	}

	hub.Leave(a)
	hub.Leave(b)
}

func TestHubLeaveClosesChannel(t *testing.T) {
	hub := newTestHub()

	sub := hub.Join("g1")
	hub.Leave(sub)

	if _, ok := <-sub.C; ok {
		t.Error("Expected channel to be closed after Leave")
	}

	// Leaving twice is a no-op.
	hub.Leave(sub)

	// Publishing after the last subscriber left must not panic.
	hub.Publish(settlement.ProofValidated{GroupID: "g1", UserID: "u1"})
}

func TestHubDropsOnFullBuffer(t *testing.T) {
	hub := newTestHub()

	sub := hub.Join("g1")
	defer hub.Leave(sub)

	// Fill the buffer without draining; the overflow must be dropped
	// rather than block the publisher.
	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish(settlement.PaymentRecorded{GroupID: "g1", UserID: "u1"})
	}

	var received int
	for {
		select {
		case <-sub.C:
			received++
			continue
		default:
		}
		break
	}
	if received != subscriberBuffer {
		t.Errorf("Received %d events, want %d", received, subscriberBuffer)
	}
}
