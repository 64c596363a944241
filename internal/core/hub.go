package core

import (
	"context"
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
)

// DefaultBroadcastInterval is the heartbeat period used when none is configured.
const DefaultBroadcastInterval = 2 * time.Second

// Options configures a Hub.
type Options struct {
	AdminGrace        time.Duration
	ParticipantGrace  time.Duration
	BroadcastInterval time.Duration
	RequireApproval   bool
	Clock             clock.Clock
	Logger            *zerolog.Logger
}

type envelope struct {
	client     *Client
	cmd        *Command
	disconnect bool
}

// Hub is the single writer of the session state. Every command, disconnect,
// grace expiry and query is handled to completion on the Run goroutine.
type Hub struct {
	store    *SessionStore
	audience *audience
	clock    clock.Clock
	interval time.Duration
	log      *zerolog.Logger

	register chan *Client
	inbox    chan envelope
	expiries chan GraceExpiry
	queries  chan chan Snapshot
	done     chan struct{}
}

// NewHub creates a hub with an empty session.
func NewHub(opts Options) *Hub {
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	interval := opts.BroadcastInterval
	if interval <= 0 {
		interval = DefaultBroadcastInterval
	}

	h := &Hub{
		audience: newAudience(),
		clock:    clk,
		interval: interval,
		log:      logger,
		register: make(chan *Client),
		inbox:    make(chan envelope, 64),
		expiries: make(chan GraceExpiry, 8),
		queries:  make(chan chan Snapshot),
		done:     make(chan struct{}),
	}
	h.store = NewSessionStore(StoreConfig{
		AdminGrace:       opts.AdminGrace,
		ParticipantGrace: opts.ParticipantGrace,
		RequireApproval:  opts.RequireApproval,
	}, clk, h.notifyExpiry)
	return h
}

// Run processes events until ctx is canceled.
func (h *Hub) Run(ctx context.Context) {
	ticker := h.clock.Ticker(h.interval)
	defer ticker.Stop()
	defer close(h.done)
	defer h.store.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			if h.audience.add(c) {
				go h.forward(c)
				h.sendState(c.ID)
			}
		case env := <-h.inbox:
			if env.disconnect {
				h.handleDisconnect(env.client)
				continue
			}
			h.handleCommand(env.client.ID, env.cmd)
		case x := <-h.expiries:
			h.handleExpiry(x)
		case reply := <-h.queries:
			reply <- h.store.Snapshot()
		case <-ticker.C:
			h.broadcastState()
		}
	}
}

// RegisterClient adds a connection. Its Commands channel is consumed until
// UnregisterClient is called.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// UnregisterClient ends the connection's command stream. The hub handles it as a
// disconnect after any commands already sent, then closes c.Events.
func (h *Hub) UnregisterClient(c *Client) {
	c.closeCommands()
}

// Snapshot returns the current derived state.
func (h *Hub) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	select {
	case h.queries <- reply:
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case <-h.done:
		return Snapshot{}, errors.New("hub stopped")
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// forward moves one client's commands into the inbox in arrival order, then
// reports the disconnect.
func (h *Hub) forward(c *Client) {
	for cmd := range c.Commands {
		if cmd == nil {
			continue
		}
		select {
		case h.inbox <- envelope{client: c, cmd: cmd}:
		case <-h.done:
			return
		}
	}
	select {
	case h.inbox <- envelope{client: c, disconnect: true}:
	case <-h.done:
	}
}

func (h *Hub) notifyExpiry(x GraceExpiry) {
	select {
	case h.expiries <- x:
	case <-h.done:
	}
}

func (h *Hub) handleCommand(id ConnID, cmd *Command) {
	err := h.apply(id, cmd)
	h.flush()
	if err != nil {
		h.reject(id, cmd, err)
		return
	}
	h.log.Debug().Str("conn_id", string(id)).Str("command", cmd.Kind.String()).Msg("command applied")
	h.broadcastState()
}

func (h *Hub) apply(id ConnID, cmd *Command) error {
	s := h.store
	switch cmd.Kind {
	case CommandJoin:
		err := s.Join(id, cmd.Identity, cmd.PeerID, cmd.Claimed)
		if err == nil {
			h.log.Info().Str("conn_id", string(id)).Str("identity", cmd.Identity.String()).Msg("identity bound")
		}
		return err
	case CommandSetZone:
		return s.SetZone(id, cmd.Zone)
	case CommandClearZone:
		return s.ClearZone(id)
	case CommandEndSession:
		err := s.EndSession(id)
		if err == nil {
			h.log.Info().Str("conn_id", string(id)).Msg("session ended by admin")
		}
		return err
	case CommandRequestJoin:
		return s.RequestJoin(id, cmd.Identity, cmd.PeerID)
	case CommandApprove:
		return s.Approve(id, cmd.Target)
	case CommandReject:
		return s.Reject(id, cmd.Target)
	case CommandRaiseHand:
		return s.RaiseHand(id)
	case CommandGrantFloor:
		return s.GrantFloor(id, cmd.Target)
	case CommandRevokeFloor:
		return s.RevokeFloor(id, cmd.Target)
	case CommandMediaFailed:
		return s.MediaFailed(id)
	case CommandUpdateCoords:
		return s.UpdateCoords(id, cmd.Coords)
	case CommandLeave:
		return s.Leave(id)
	default:
		return ErrUnknownCommand
	}
}

// reject reports a refused command. Only a taken session is surfaced to the
// client; everything else is dropped silently.
func (h *Hub) reject(id ConnID, cmd *Command, err error) {
	h.log.Debug().Err(err).Str("conn_id", string(id)).Str("command", cmd.Kind.String()).Msg("command ignored")
	if errors.Is(err, ErrSessionTaken) {
		h.audience.send(id, &Event{
			Kind:  EventError,
			Error: coreError(ErrCodeSessionTaken, err.Error()),
		})
	}
}

func (h *Hub) handleDisconnect(c *Client) {
	err := h.store.Disconnect(c.ID)
	h.audience.remove(c)
	h.flush()
	if err != nil {
		return
	}
	h.log.Info().Str("conn_id", string(c.ID)).Msg("bound connection lost")
	h.broadcastState()
}

func (h *Hub) handleExpiry(x GraceExpiry) {
	if err := h.store.ExpireGrace(x); err != nil {
		return
	}
	h.log.Info().Str("identity", x.Key.String()).Msg("grace window expired")
	h.flush()
	h.broadcastState()
}

// flush delivers the store's queued notifications.
func (h *Hub) flush() {
	for _, d := range h.store.Drain() {
		if d.To == "" {
			h.audience.broadcast(d.Event)
			continue
		}
		h.audience.send(d.To, d.Event)
	}
}

// broadcastState pushes the full state to every connection and the pending
// list to the admin.
func (h *Hub) broadcastState() {
	snap := h.store.Snapshot()
	for _, ev := range stateEvents(snap) {
		h.audience.broadcast(ev)
	}
	if admin, ok := h.store.AdminConn(); ok {
		h.audience.send(admin, &Event{Kind: EventPendingRequests, Requests: snap.Requests})
	}
}

// sendState brings a single new connection up to date.
func (h *Hub) sendState(id ConnID) {
	for _, ev := range stateEvents(h.store.Snapshot()) {
		h.audience.send(id, ev)
	}
}
