package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"index-dashboard/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main Hub loop
func (s *DashboardServer) handleWebsockets() {
	for {
		select {
		case client := <-s.register:
			s.clients[client] = struct{}{}
			s.setConnections(len(s.clients))

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
				s.setConnections(len(s.clients))
			}

		case message := <-s.broadcast:
			for client := range s.clients {
				select {
				case client.send <- message:
				default:
					// Client too slow, disconnect to prevent Hub blocking.
					// Only unregister closes send; readPump may still reply.
					delete(s.clients, client)
					client.conn.Close()
				}
			}
			s.setConnections(len(s.clients))

		case <-s.done:
			for client := range s.clients {
				delete(s.clients, client)
				client.conn.Close()
			}
			s.setConnections(0)
			return
		}
	}
}

func (s *DashboardServer) setConnections(n int) {
	s.connMutex.Lock()
	s.connections = n
	s.connMutex.Unlock()
}

// -----------------------------------------------------------------------------
// Data Exchange Interface Implementation
// -----------------------------------------------------------------------------

// Broadcast queues a message for every connected client.
func (s *DashboardServer) Broadcast(message interface{}) {
	msg, ok := message.(*models.MWsMessage)
	if !ok {
		s.Logger.Warning("Broadcast expected *models.MWsMessage, got %T", message)
		return
	}
	select {
	case s.broadcast <- msg:
	case <-s.done:
	}
}

// -----------------------------------------------------------------------------

// NotifySessionReset tells connected clients that the reference table will be
// reloaded on their next interaction.
func (s *DashboardServer) NotifySessionReset(sessionID string) {
	s.Broadcast(&models.MWsMessage{
		Type:      "SESSION_RESET",
		SessionID: sessionID,
		Timestamp: time.Now().Unix(),
	})
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Warning("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		// Buffered channel to prevent blocking the Hub loop
		send: make(chan *models.MWsMessage, 256),
	}

	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	// Start goroutines for reading/writing
	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

// HandleClientMessage runs one full render pass for the selection the client
// sent and answers with the result.
func (s *DashboardServer) HandleClientMessage(client *Client, message []byte) {
	reply := &models.MWsMessage{Type: "RENDER"}

	var req selectionRequest
	sel, err := func() (models.MSelection, error) {
		if err := json.Unmarshal(message, &req); err != nil {
			return models.MSelection{}, err
		}
		return req.toSelection()
	}()

	if err == nil {
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			select {
			case <-s.done:
				cancel()
			case <-ctx.Done():
			}
		}()
		reply.Output, err = s.Shell.Render(ctx, sel)
		cancel()
	}

	if err != nil {
		s.Logger.Warning("Client interaction failed: %v", err)
		reply = &models.MWsMessage{Type: "ERROR", Error: err.Error()}
	} else {
		reply.SessionID = reply.Output.SessionID
	}
	reply.Timestamp = time.Now().Unix()

	// Use select to avoid blocking if client's send buffer is full
	select {
	case client.send <- reply:
	default:
		s.Logger.Warning("Client send buffer full, dropping render")
	}
}
