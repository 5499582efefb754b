package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/ExploryKod/Anoria/internal/domain/economy"
)

const broadcastBuffer = 256

type frame struct {
	payload []byte
	stats   bool
}

// Hub fans simulation output out to websocket clients. Publishing never
// blocks the caller: when the buffer is full the frame is dropped.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan frame
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	lastStats  []byte
	done       chan struct{}
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan frame, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run owns the client set until ctx is done. It must only be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("stream hub stopped")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			if h.lastStats != nil {
				client.send <- h.lastStats
			}
			h.mu.Unlock()
			h.logger.Debug("stream client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Debug("stream client disconnected")
			}
			h.mu.Unlock()
		case f := <-h.broadcast:
			h.mu.Lock()
			if f.stats {
				h.lastStats = f.payload
			}
			for client := range h.clients {
				select {
				case client.send <- f.payload:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Clients reports how many connections are registered.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) CreateVisual(id string, x, y int) {
	h.publish(Message{Type: TypeVisual, Visual: &Visual{Op: OpCreate, ID: id, X: x, Y: y}})
}

func (h *Hub) RemoveVisual(x, y int) {
	h.publish(Message{Type: TypeVisual, Visual: &Visual{Op: OpRemove, X: x, Y: y}})
}

// PublishStats also becomes the first frame new clients receive.
func (h *Hub) PublishStats(s economy.Stats) {
	h.publish(Message{Type: TypeStats, Stats: &s})
}

func (h *Hub) PublishGameOver(g economy.GameOver) {
	h.publish(Message{Type: TypeGameOver, GameOver: &g})
}

func (h *Hub) publish(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("encode stream message", "type", msg.Type, "err", err)
		return
	}
	select {
	case h.broadcast <- frame{payload: payload, stats: msg.Type == TypeStats}:
	default:
		h.logger.Warn("stream buffer full, dropping message", "type", msg.Type)
	}
}
