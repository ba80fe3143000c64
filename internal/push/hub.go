// Package push maintains realtime websocket connections to subscribers and
// delivers live-feed events and notifications to them.
package push

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"signal-pipeline/internal/observability"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingPeriod   = 45 * time.Second
)

// client is one websocket connection. Writes are serialized through send so
// a slow reader never blocks the dispatcher.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Options configures a Hub.
type Options struct {
	Logger  *log.Logger            // defaults to log.Default()
	Metrics *observability.Metrics // optional

	// CheckOrigin overrides the upgrader's origin check. Defaults to
	// accepting all origins, suitable for same-host deployments behind a
	// reverse proxy.
	CheckOrigin func(r *http.Request) bool
}

// Hub tracks connected clients per subscriber.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*client]struct{}

	upgrader websocket.Upgrader
	logger   *log.Logger
	metrics  *observability.Metrics
}

// NewHub creates an empty Hub.
func NewHub(opts Options) *Hub {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	checkOrigin := opts.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}

	return &Hub{
		clients: make(map[int64]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
		logger:  logger,
		metrics: opts.Metrics,
	}
}

// Serve upgrades the HTTP request to a websocket and attaches it to the
// subscriber until the connection drops.
func (h *Hub) Serve(subscriberID int64, w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("push: upgrade for subscriber %d: %v", subscriberID, err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 64)}
	h.attach(subscriberID, c)
	defer h.detach(subscriberID, c)

	go h.writeLoop(c)
	h.readLoop(c)
}

// SendToSubscriber queues payload to every connection of the subscriber.
// Connections whose buffer is full are skipped; a disconnected subscriber
// loses only realtime delivery, persisted notifications are unaffected.
func (h *Hub) SendToSubscriber(subscriberID int64, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[subscriberID] {
		select {
		case c.send <- data:
		default:
			if h.metrics != nil {
				h.metrics.PushSendFailures.Inc()
			}
		}
	}
	return nil
}

// Clients returns the number of open connections across all subscribers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, conns := range h.clients {
		n += len(conns)
	}
	return n
}

func (h *Hub) attach(subscriberID int64, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[subscriberID]
	if !ok {
		conns = make(map[*client]struct{})
		h.clients[subscriberID] = conns
	}
	conns[c] = struct{}{}
	if h.metrics != nil {
		h.metrics.PushClients.Inc()
	}
}

func (h *Hub) detach(subscriberID int64, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.clients[subscriberID]; ok {
		if _, present := conns[c]; present {
			delete(conns, c)
			if len(conns) == 0 {
				delete(h.clients, subscriberID)
			}
			close(c.send)
			if h.metrics != nil {
				h.metrics.PushClients.Dec()
			}
		}
	}
	c.conn.Close()
}

// readLoop drains and discards client frames, keeping pong handling alive.
// Returning means the connection is gone.
func (h *Hub) readLoop(c *client) {
	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer c.conn.Close()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
