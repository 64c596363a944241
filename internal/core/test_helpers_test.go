package core

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()
	return mustEventWhere(t, ch, kind, func(*Event) bool { return true })
}

// mustEventWhere waits for an event of the given kind that satisfies match,
// skipping everything else (heartbeats included).
func mustEventWhere(t *testing.T, ch <-chan *Event, kind EventKind, match func(*Event) bool) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatalf("event stream closed while waiting for kind %v", kind)
			}
			if ev != nil && ev.Kind == kind && match(ev) {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// testStore builds a store on a mock clock whose grace expiries land in the
// returned channel.
func testStore(t *testing.T, cfg StoreConfig) (*SessionStore, *clock.Mock, chan GraceExpiry) {
	t.Helper()
	mock := clock.NewMock()
	expiries := make(chan GraceExpiry, 8)
	s := NewSessionStore(cfg, mock, func(x GraceExpiry) { expiries <- x })
	t.Cleanup(s.Close)
	return s, mock, expiries
}

func defaultStoreConfig() StoreConfig {
	return StoreConfig{AdminGrace: 10 * time.Second, ParticipantGrace: 10 * time.Second}
}

func nextExpiry(t *testing.T, ch <-chan GraceExpiry) GraceExpiry {
	t.Helper()
	select {
	case x := <-ch:
		return x
	case <-time.After(2 * time.Second):
		t.Fatal("grace timer did not fire")
		return GraceExpiry{}
	}
}

func admin(name string) IdentityKey { return IdentityKey{Role: RoleAdmin, Name: name} }
func user(name string) IdentityKey  { return IdentityKey{Role: RoleUser, Name: name} }

// eventsOfKind filters drained deliveries.
func eventsOfKind(ds []Delivery, kind EventKind) []Delivery {
	var out []Delivery
	for _, d := range ds {
		if d.Event.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// requireSingleFloor checks the floor invariants over a snapshot.
func requireSingleFloor(t *testing.T, snap Snapshot) {
	t.Helper()
	onAir := 0
	for _, p := range snap.Participants {
		require.False(t, p.HandRaised && p.OnAir, "participant %s both raised and on air", p.Name)
		if p.OnAir {
			onAir++
		}
	}
	require.LessOrEqual(t, onAir, 1, "more than one participant on air")
}

type testHub struct {
	*Hub
	clock *clock.Mock
}

func startTestHub(t *testing.T, opts Options) *testHub {
	t.Helper()
	mock := clock.NewMock()
	opts.Clock = mock
	if opts.BroadcastInterval == 0 {
		opts.BroadcastInterval = time.Hour
	}
	hub := NewHub(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return &testHub{Hub: hub, clock: mock}
}

func (h *testHub) connect(t *testing.T, id string) *Client {
	t.Helper()
	c := NewClient(id)
	h.RegisterClient(c)
	return c
}

func (h *testHub) eventually(t *testing.T, cond func(Snapshot) bool, msg string) {
	t.Helper()
	require.Eventually(t, func() bool {
		snap, err := h.Snapshot(context.Background())
		return err == nil && cond(snap)
	}, 2*time.Second, 10*time.Millisecond, msg)
}
