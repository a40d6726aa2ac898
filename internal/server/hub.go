// Package server streams the battle event feed to websocket spectators.
package server

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/duskhollow/battle-ui-go/internal/battle/events"
)

// Envelope is the wire form of one battle event.
type Envelope struct {
	Type         string    `json:"type"`
	EventID      string    `json:"event_id"`
	DispatchedAt time.Time `json:"dispatched_at"`
	Payload      any       `json:"payload"`
}

// Client is one connected spectator.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans the event feed out to connected spectator clients. It mirrors
// the event stream only; spectators cannot inject anything back into the
// battle.
type Hub struct {
	logger     *zap.Logger
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	handles    []int
}

// NewHub creates a hub. Call Attach to wire it to a bus and Run to start
// the fan-out loop.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger:     logger,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Attach subscribes the hub to every event kind on the bus. Marshaling and
// channel handoff happen inline on the publisher's goroutine; delivery to
// sockets happens on the hub's own loop so a slow spectator cannot stall
// the battle.
func (h *Hub) Attach(bus *events.Bus) {
	for _, kind := range events.AllTypes() {
		h.handles = append(h.handles, bus.Subscribe(kind, h.forward))
	}
}

// Detach removes the hub's bus subscriptions so no further events are
// forwarded. Frames already in the broadcast buffer still drain.
func (h *Hub) Detach(bus *events.Bus) {
	for _, handle := range h.handles {
		bus.Unsubscribe(handle)
	}
	h.handles = nil
}

func (h *Hub) forward(event events.Event) {
	data, err := json.Marshal(Envelope{
		Type:         string(event.Type),
		EventID:      event.ID,
		DispatchedAt: event.DispatchedAt,
		Payload:      event.Payload,
	})
	if err != nil {
		h.logger.Error("failed to marshal event for spectators",
			zap.String("event_type", string(event.Type)),
			zap.Error(err),
		)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		// Spectator feed is best-effort; drop rather than block combat.
		h.logger.Warn("spectator broadcast buffer full; dropping event",
			zap.String("event_type", string(event.Type)),
		)
	}
}

// Run pumps registrations and broadcasts until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Info("spectator connected", zap.Int("clients", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Info("spectator disconnected", zap.Int("clients", len(h.clients)))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}

		case <-h.done:
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		}
	}
}

// Stop shuts the fan-out loop down and disconnects every client.
func (h *Hub) Stop() {
	close(h.done)
}
