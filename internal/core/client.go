package core

import "sync"

// ConnID addresses a single live transport connection.
type ConnID string

// Client is a connection as seen by the core layer. It carries no identity of its
// own: identities are bound by the join/request-join commands.
type Client struct {
	ID       ConnID
	Commands chan *Command
	Events   chan *Event

	closeOnce sync.Once
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       ConnID(id),
		Commands: make(chan *Command, 16),
		Events:   make(chan *Event, 64),
	}
}

// closeCommands ends the command stream; the hub turns it into a disconnect once
// every command sent before it has been handled.
func (c *Client) closeCommands() {
	c.closeOnce.Do(func() { close(c.Commands) })
}
