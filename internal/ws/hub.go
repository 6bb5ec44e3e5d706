package ws

import (
	"context"
	"sync"
	"time"

	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/constants"
	"github.com/AlexandrGusew/Elbrus-Arena-sub001/internal/logging"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const writeTimeout = 5 * time.Second

// Event is the envelope for every server-to-client message.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) send(ev Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	return wsjson.Write(ctx, c.conn, ev)
}

// Hub tracks one websocket connection per character and fans battle events
// out to them. It satisfies the Notifier interfaces of both session
// services.
type Hub struct {
	mu      sync.Mutex
	clients map[uint]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uint]*client)}
}

// Notify delivers an event to the character's connection, if any. Delivery
// is best-effort: a dead connection drops the event and is cleaned up by
// its read loop.
func (h *Hub) Notify(characterID uint, eventType string, payload interface{}) {
	h.mu.Lock()
	c := h.clients[characterID]
	h.mu.Unlock()
	if c == nil {
		return
	}
	if err := c.send(Event{Type: eventType, Payload: payload}); err != nil {
		logging.Error("failed to deliver event", err, logging.Fields{
			constants.LogFieldCharacterID: characterID,
			"event":                       eventType,
		})
	}
}

// register attaches a connection for a character, closing any previous one
// (a character has at most one live connection).
func (h *Hub) register(characterID uint, c *client) {
	h.mu.Lock()
	prev := h.clients[characterID]
	h.clients[characterID] = c
	h.mu.Unlock()
	if prev != nil {
		_ = prev.conn.Close(websocket.StatusPolicyViolation, "superseded by a newer connection")
	}
}

// unregister detaches the connection unless a newer one replaced it.
func (h *Hub) unregister(characterID uint, c *client) {
	h.mu.Lock()
	if h.clients[characterID] == c {
		delete(h.clients, characterID)
	}
	h.mu.Unlock()
}
