// Package ws serves the game over websockets. Any number of connections play
// the same engine; a Hub goroutine owns it.
package ws

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/verte-zerg/keyidle/internal/model"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	// DefaultActionsPerSecond limits inbound actions per connection.
	DefaultActionsPerSecond = 30
	// DefaultBurst is the token bucket size for inbound actions.
	DefaultBurst = 60
)

// Server upgrades HTTP requests and pumps frames between sockets and a Hub.
type Server struct {
	hub      *Hub
	log      *log.Logger
	limit    rate.Limit
	burst    int
	upgrader websocket.Upgrader
}

// NewServer builds a Server. Zero limits in cfg select the defaults.
func NewServer(h *Hub, cfg model.ServerConfig, logger *log.Logger) *Server {
	perSecond := cfg.ActionsPerSecond
	if perSecond <= 0 {
		perSecond = DefaultActionsPerSecond
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &Server{
		hub:   h,
		log:   logger,
		limit: rate.Limit(perSecond),
		burst: burst,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the websocket endpoint.
func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			s.log.Printf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		c := &client{send: make(chan []byte, sendQueue)}
		select {
		case s.hub.register <- c:
		case <-s.hub.done:
			return
		}

		go s.writePump(conn, c)
		s.readPump(conn, c)

		select {
		case s.hub.unregister <- c:
		case <-s.hub.done:
		}
	}
}

func (s *Server) readPump(conn *websocket.Conn, c *client) {
	limiter := rate.NewLimiter(s.limit, s.burst)
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Printf("read: %v", err)
			}
			return
		}
		act, err := DecodeAction(msg)
		if err != nil {
			act = Action{Type: "invalid"}
		}
		env := envelope{c: c, act: act, limited: !limiter.Allow()}
		select {
		case s.hub.inbox <- env:
		case <-s.hub.done:
			return
		}
	}
}

// writePump is the only writer on conn. It exits when the hub closes
// c.send or a write fails.
func (s *Server) writePump(conn *websocket.Conn, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case b, ok := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				_ = conn.Close()
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				_ = conn.Close()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}
