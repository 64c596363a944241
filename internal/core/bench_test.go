package core

import (
	"context"
	"fmt"
	"testing"
)

func benchmarkFloorBroadcast(b *testing.B, participants int) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(Options{})
	go hub.Run(ctx)

	ana := NewClient("admin")
	hub.RegisterClient(ana)
	ana.Commands <- &Command{Kind: CommandJoin, Identity: IdentityKey{Role: RoleAdmin, Name: "Ana"}, PeerID: "peer-ana"}
	go func() {
		for range ana.Events {
		}
	}()

	clients := make([]*Client, 0, participants)
	for i := range participants {
		c := NewClient(fmt.Sprintf("c%d", i))
		hub.RegisterClient(c)
		c.Commands <- &Command{Kind: CommandJoin, Identity: IdentityKey{Role: RoleUser, Name: fmt.Sprintf("user%d", i)}, PeerID: fmt.Sprintf("peer-%d", i)}
		clients = append(clients, c)
	}

	// Drain events for all but the first participant to avoid channel backpressure.
	target := clients[0]
	for _, c := range clients[1:] {
		go func(cl *Client) {
			for range cl.Events {
			}
		}(c)
	}
	for {
		snap, err := hub.Snapshot(ctx)
		if err != nil {
			b.Fatal(err)
		}
		if len(snap.Participants) == participants {
			break
		}
	}
	for len(target.Events) > 0 {
		<-target.Events
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		kind, want := CommandGrantFloor, EventMicGranted
		if i%2 == 1 {
			kind, want = CommandRevokeFloor, EventMicRevoked
		}
		ana.Commands <- &Command{Kind: kind, Target: Target{ConnID: target.ID}}
		for ev := range target.Events {
			if ev.Kind == want {
				break
			}
		}
	}
}

func BenchmarkFloorBroadcast_10(b *testing.B)  { benchmarkFloorBroadcast(b, 10) }
func BenchmarkFloorBroadcast_100(b *testing.B) { benchmarkFloorBroadcast(b, 100) }
func BenchmarkFloorBroadcast_500(b *testing.B) { benchmarkFloorBroadcast(b, 500) }
