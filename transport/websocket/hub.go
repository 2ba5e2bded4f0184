package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wricardo/battleship-online/game/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Outbound messages buffered per client before it is dropped.
	sendBufferSize = 256
)

// Inbound event names
const (
	EventJoinGame  = "JoinGame"
	EventPlaceShip = "PlaceShip"
	EventMakeMove  = "MakeMove"

	// EventAutoPlaceFleet asks the server to place the remaining ships.
	EventAutoPlaceFleet = "AutoPlaceFleet"

	// EventConnected and EventError are produced by the hub itself.
	EventConnected = "Connected"
	EventError     = "Error"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

// errClientClosed is returned for frames read after the client was unregistered.
var errClientClosed = errors.New("client closed")

// Message is the JSON envelope exchanged in both directions
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type joinGameData struct {
	DisplayName string `json:"display_name"`
}

type makeMoveData struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type connectedData struct {
	ConnectionID string `json:"connection_id"`
}

type errorData struct {
	Message string `json:"message"`
}

// Client represents a WebSocket client
type Client struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc
}

// Hub owns every live connection. It feeds inbound actions to the game
// service and implements service.Gateway for the outbound side.
type Hub struct {
	service service.GameService

	// Registered clients by connection ID
	clients map[string]*Client
	mu      sync.RWMutex

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Attach sets the game service inbound actions are dispatched to. It must be
// called before Run.
func (h *Hub) Attach(svc service.GameService) {
	h.service = svc
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

// ServeWS handles WebSocket requests from clients
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := newClient(h, conn)
	client.hub.register <- client

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}

// Deliver queues an event for each connection without blocking. A client
// whose buffer is full is dropped.
func (h *Hub) Deliver(connIDs []string, event service.Event) {
	data, err := encode(event.Name, event.Data)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event.Name, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, id := range connIDs {
		client, ok := h.clients[id]
		if !ok {
			continue
		}
		select {
		case client.send <- data:
		default:
			log.Printf("Send buffer full for client %s, dropping connection", id)
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

// Count returns the number of registered clients
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func newClient(h *Hub, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		id:     uuid.NewString(),
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

// registerClient adds a client and greets it with its connection ID
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	total := len(h.clients)
	h.mu.Unlock()

	h.Deliver([]string{client.id}, service.Event{
		Name: EventConnected,
		Data: connectedData{ConnectionID: client.id},
	})

	log.Printf("Client %s registered (total clients: %d)", client.id, total)
}

// unregisterClient removes a client and tells the game service it left
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.id)
	close(client.send)
	remaining := len(h.clients)
	h.mu.Unlock()

	if client.cancel != nil {
		client.cancel()
	}
	if h.service != nil {
		h.service.Disconnect(context.Background(), client.id)
	}

	log.Printf("Client %s unregistered (remaining clients: %d)", client.id, remaining)
}

// dispatch routes one inbound message to the game service
func (h *Hub) dispatch(client *Client, msg Message) error {
	if h.service == nil {
		return fmt.Errorf("no game service attached")
	}
	// Frames already buffered by readPump can arrive after a slow-client drop.
	if client.ctx.Err() != nil {
		return errClientClosed
	}

	switch msg.Event {
	case EventJoinGame:
		var data joinGameData
		if err := decode(msg.Data, &data); err != nil {
			return err
		}
		if err := h.service.JoinGame(client.ctx, client.id, data.DisplayName); err != nil {
			return err
		}
		// Unregistered while joining: its Disconnect may have run before the
		// join landed, so leave again.
		if client.ctx.Err() != nil {
			h.service.Disconnect(context.Background(), client.id)
			return errClientClosed
		}
		return nil

	case EventPlaceShip:
		var req service.PlaceShipRequest
		if err := decode(msg.Data, &req); err != nil {
			return err
		}
		return h.service.PlaceShip(client.ctx, client.id, req)

	case EventAutoPlaceFleet:
		return h.service.AutoPlaceFleet(client.ctx, client.id)

	case EventMakeMove:
		var data makeMoveData
		if err := decode(msg.Data, &data); err != nil {
			return err
		}
		return h.service.MakeMove(client.ctx, client.id, data.Row, data.Col)

	default:
		return fmt.Errorf("unknown event %q", msg.Event)
	}
}

func encode(event string, payload any) ([]byte, error) {
	msg := Message{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		msg.Data = data
	}
	return json.Marshal(msg)
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing event data")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid event data: %w", err)
	}
	return nil
}

// readPump pumps messages from the WebSocket connection to the game service
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.reportError(fmt.Errorf("invalid message: %w", err))
			continue
		}

		if err := c.hub.dispatch(c, msg); err != nil {
			if errors.Is(err, errClientClosed) {
				break
			}
			c.reportError(err)
		}
	}
}

func (c *Client) reportError(err error) {
	log.Printf("Client %s: %v", c.id, err)
	c.hub.Deliver([]string{c.id}, service.Event{
		Name: EventError,
		Data: errorData{Message: err.Error()},
	})
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One event per frame so clients can decode each message as JSON.
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
