package websocket

import (
	"context"
	"encoding/json"
	"time"

	ws "github.com/coder/websocket"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second

	// Clients only listen; anything they send is read and dropped.
	maxInboundBytes = 512
)

// Client is one member's live connection, subscribed to its family's updates.
type Client struct {
	hub      *Hub
	conn     *ws.Conn
	familyID string
	memberID string
	send     chan []byte
}

func NewClient(hub *Hub, conn *ws.Conn, familyID, memberID string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		familyID: familyID,
		memberID: memberID,
		send:     make(chan []byte, sendBufferSize),
	}
}

// Run subscribes the client to its family and pumps messages until the peer
// goes away or ctx ends.
func (c *Client) Run(ctx context.Context) {
	c.conn.SetReadLimit(maxInboundBytes)
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.greet()
	go c.writePump(ctx)
	c.readPump(ctx)
}

// greet queues a session message so the client knows who it is connected as.
func (c *Client) greet() {
	data, err := json.Marshal(NewMessage("session", "connected", c.memberID, map[string]any{
		"family_id": c.familyID,
	}))
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) readPump(ctx context.Context) {
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return
		}
	}
}

func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				c.conn.Close(ws.StatusGoingAway, "unsubscribed")
				return
			}
			if err := c.conn.Write(ctx, ws.MessageText, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
