package brackets

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event types pushed to subscribed clients. The HTTP polling endpoints stay
// authoritative; the hub only tells clients that a re-fetch is worthwhile.
const (
	EventMatchUpdated        = "MATCH_UPDATED"
	EventBracketUpdated      = "BRACKET_UPDATED"
	EventTournamentStarted   = "TOURNAMENT_STARTED"
	EventTournamentCompleted = "TOURNAMENT_COMPLETED"
	EventRoomUpdated         = "ROOM_UPDATED"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

func TournamentTopic(id string) string { return "tournament_" + id }
func RoomTopic(code string) string     { return "room_" + code }

type Event struct {
	Type    string      `json:"type"`
	Topic   string      `json:"topic"`
	Payload interface{} `json:"payload,omitempty"`
}

type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	topic string

	mu     sync.Mutex
	closed bool
}

// Hub fans events out to websocket clients grouped by topic. Topics are
// "tournament_{id}" for bracket watchers and "room_{code}" for practice
// rooms.
type Hub struct {
	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	topics map[string]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		topics:     make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.topics[client.topic]; !ok {
				h.topics[client.topic] = make(map[*Client]bool)
			}
			h.topics[client.topic][client] = true
			log.Printf("ws client subscribed to %s (%d in topic)", client.topic, len(h.topics[client.topic]))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.topics[client.topic]; ok {
				if _, subscribed := clients[client]; subscribed {
					client.close()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.topics, client.topic)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// Subscribe attaches an upgraded connection to a topic and starts its pumps.
func (h *Hub) Subscribe(conn *websocket.Conn, topic string) {
	client := &Client{
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, 256),
		topic: topic,
	}
	h.register <- client
	go client.writePump()
	go client.readPump()
}

// Broadcast sends an event to every client subscribed to its topic.
// Slow clients are skipped rather than blocking the sender.
func (h *Hub) Broadcast(event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws marshal event for %s: %v", event.Topic, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.topics[event.Topic] {
		client.mu.Lock()
		if client.closed {
			client.mu.Unlock()
			continue
		}
		select {
		case client.send <- message:
		default:
			log.Printf("ws send buffer full for topic %s, dropping event", event.Topic)
		}
		client.mu.Unlock()
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.send)
		c.closed = true
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		// Inbound messages are ignored: the hub is push-only.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws read error on %s: %v", c.topic, err)
			}
			return
		}
	}
}

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
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
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
