package ws

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages per-room WebSocket connections and implements game.Broadcaster
type Hub struct {
	conns map[string]map[string]*Connection // roomCode -> playerID -> conn

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *broadcastMessage
}

// Connection represents one player's WebSocket connection
type Connection struct {
	RoomCode string
	PlayerID string
	Send     chan []byte
	Hub      *Hub
}

type broadcastMessage struct {
	RoomCode string
	ToPlayer string // empty means all players in the room
	Message  *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *broadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.RoomCode] == nil {
				h.conns[conn.RoomCode] = make(map[string]*Connection)
			}
			if old, ok := h.conns[conn.RoomCode][conn.PlayerID]; ok {
				close(old.Send)
			}
			h.conns[conn.RoomCode][conn.PlayerID] = conn
			h.mu.Unlock()
			logrus.WithFields(logrus.Fields{"room": conn.RoomCode, "player": conn.PlayerID}).
				Debug("ws connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if players, ok := h.conns[conn.RoomCode]; ok {
				if existing, ok := players[conn.PlayerID]; ok && existing == conn {
					delete(players, conn.PlayerID)
					close(conn.Send)
					if len(players) == 0 {
						delete(h.conns, conn.RoomCode)
					}
				}
			}
			h.mu.Unlock()
			logrus.WithFields(logrus.Fields{"room": conn.RoomCode, "player": conn.PlayerID}).
				Debug("ws disconnected")

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			if players, ok := h.conns[msg.RoomCode]; ok {
				if msg.ToPlayer != "" {
					if conn, ok := players[msg.ToPlayer]; ok {
						h.trySend(conn, data)
					}
				} else {
					for _, conn := range players {
						h.trySend(conn, data)
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// trySend drops the message when the connection's buffer is full; clients
// recover on their next state fetch
func (h *Hub) trySend(conn *Connection, data []byte) {
	select {
	case conn.Send <- data:
	default:
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToRoom sends a message to every player in a room (implements
// game.Broadcaster)
func (h *Hub) BroadcastToRoom(roomCode string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &broadcastMessage{
		RoomCode: roomCode,
		Message:  &Message{Type: msgType, Payload: data},
	}
}

// BroadcastToPlayer sends a message to a single player (implements
// game.Broadcaster)
func (h *Hub) BroadcastToPlayer(roomCode, playerID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &broadcastMessage{
		RoomCode: roomCode,
		ToPlayer: playerID,
		Message:  &Message{Type: msgType, Payload: data},
	}
}
