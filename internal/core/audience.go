package core

// audience is the set of open connections the hub fans out to.
type audience struct {
	clients map[ConnID]*Client
}

func newAudience() *audience {
	return &audience{clients: make(map[ConnID]*Client)}
}

// add inserts a client. Returns true if newly added.
func (a *audience) add(c *Client) bool {
	if _, exists := a.clients[c.ID]; exists {
		return false
	}
	a.clients[c.ID] = c
	return true
}

// remove deletes a client and closes its event stream. Returns true if removed.
func (a *audience) remove(c *Client) bool {
	if cur, exists := a.clients[c.ID]; !exists || cur != c {
		return false
	}
	delete(a.clients, c.ID)
	close(c.Events)
	return true
}

// send delivers an event to one connection.
func (a *audience) send(id ConnID, ev *Event) bool {
	c, ok := a.clients[id]
	if !ok {
		return false
	}
	return trySend(c, ev)
}

// broadcast delivers an event to every connection.
func (a *audience) broadcast(ev *Event) {
	for _, c := range a.clients {
		trySend(c, ev)
	}
}

func (a *audience) len() int {
	return len(a.clients)
}

func trySend(c *Client, ev *Event) bool {
	select {
	case c.Events <- ev:
		return true
	default:
		// Drop if slow consumer; the next heartbeat carries the full state again.
		return false
	}
}
