package app

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	arbapp "github.com/arbstream/arbstream/business/arbitrage/app"
	"github.com/arbstream/arbstream/business/arbitrage/domain"
	"github.com/arbstream/arbstream/internal/apperror"
	"github.com/arbstream/arbstream/internal/logger"
)

// Frame types pushed to websocket clients.
const (
	frameOpportunity  = "opportunity"
	frameScanStarted  = "scan_started"
	frameScanFinished = "scan_finished"
)

// sendBuffer is the per-client outbound queue. A client that falls this far
// behind is dropped rather than allowed to stall the broadcast path.
const sendBuffer = 32

// writeTimeout bounds a single websocket write.
const writeTimeout = 5 * time.Second

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub broadcasts scan events to websocket subscribers. It implements the
// arbitrage Reporter port, so the scan loop pushes to it like any other
// reporter; Report and the Scan* hooks never block on a slow client.
type Hub struct {
	logger logger.LoggerInterface

	mu      sync.RWMutex
	clients map[string]*wsClient
	closed  bool
}

// NewHub creates a websocket hub.
func NewHub(log logger.LoggerInterface) *Hub {
	return &Hub{
		logger:  log,
		clients: make(map[string]*wsClient),
	}
}

// ServeWS upgrades the request to a websocket and subscribes the client to
// scan events until the connection drops.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// Cross-origin policy is enforced by the router's CORS middleware.
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.logger.Warn(r.Context(), "websocket accept failed", "error", err)
		return
	}

	client := &wsClient{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close(websocket.StatusGoingAway, "hub stopped")
		return
	}
	h.clients[client.id] = client
	h.mu.Unlock()

	h.logger.Info(r.Context(), "websocket client connected", "client_id", client.id)

	go h.writeLoop(client)
	h.readLoop(r.Context(), client)
}

// readLoop drains inbound frames until the peer disconnects. Clients have
// nothing to say; reading is only how we learn the connection is gone.
func (h *Hub) readLoop(ctx context.Context, client *wsClient) {
	defer h.drop(ctx, client, websocket.StatusNormalClosure, "")
	for {
		if _, _, err := client.conn.Read(ctx); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(client *wsClient) {
	for msg := range client.send {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := client.conn.Write(ctx, websocket.MessageText, msg)
		cancel()
		if err != nil {
			return
		}
	}
}

// drop unregisters a client and closes its connection.
func (h *Hub) drop(ctx context.Context, client *wsClient, code websocket.StatusCode, reason string) {
	h.mu.Lock()
	if _, ok := h.clients[client.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.id)
	close(client.send)
	h.mu.Unlock()

	client.conn.Close(code, reason)
	h.logger.Info(ctx, "websocket client disconnected", "client_id", client.id)
}

// broadcast serializes a frame and queues it for every client. A client whose
// queue is full is dropped.
func (h *Hub) broadcast(frameType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error(context.Background(), "websocket frame marshal failed",
			"type", frameType, "error", err)
		return
	}
	msg, err := json.Marshal(frame{Type: frameType, Data: data})
	if err != nil {
		return
	}

	h.mu.RLock()
	var slow []*wsClient
	for _, client := range h.clients {
		select {
		case client.send <- msg:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		err := apperror.New(apperror.CodeWebSocketSendError,
			apperror.WithContext("send buffer full, dropping client"))
		h.logger.Warn(context.Background(), "dropping slow websocket client",
			"client_id", client.id, "error", err)
		h.drop(context.Background(), client, websocket.StatusPolicyViolation, "too slow")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Start implements the Reporter port.
func (h *Hub) Start(ctx context.Context) error {
	h.mu.Lock()
	h.closed = false
	h.mu.Unlock()
	return nil
}

// Report pushes an opportunity to all subscribers.
func (h *Hub) Report(opp *domain.Opportunity) {
	h.broadcast(frameOpportunity, opp)
}

// ScanStarted pushes a scan-started notice to all subscribers.
func (h *Hub) ScanStarted(event string) {
	h.broadcast(frameScanStarted, map[string]string{"event": event})
}

// ScanFinished pushes the scan summary to all subscribers.
func (h *Hub) ScanFinished(result *arbapp.ScanResult) {
	if result == nil {
		return
	}
	h.broadcast(frameScanFinished, result)
}

// Stop disconnects all clients and refuses new ones.
func (h *Hub) Stop() error {
	h.mu.Lock()
	h.closed = true
	clients := make([]*wsClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[string]*wsClient)
	for _, c := range clients {
		close(c.send)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
	return nil
}
