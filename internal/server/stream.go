package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/matchedge/internal/metrics"
	"github.com/yourusername/matchedge/internal/models"
)

const (
	streamSendBuf  = 16
	writeDeadline  = 5 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = 45 * time.Second
	maxMessageSize = 64 << 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// StreamMessage is sent by clients on /v1/stream. The first message must
// carry a request; later messages may carry only a fresh live context.
type StreamMessage struct {
	Request *models.MatchRequest `json:"request,omitempty"`
	Context *models.MatchContext `json:"context,omitempty"`
}

// StreamReply is sent back for every accepted message
type StreamReply struct {
	Type   string              `json:"type"`
	Report *models.MatchReport `json:"report,omitempty"`
	Error  string              `json:"error,omitempty"`
}

type streamClient struct {
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	limiter *rate.Limiter
	request *models.MatchRequest
	log     *logrus.Entry
}

// handleStream upgrades the connection and recalculates the report on
// every live update
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("Stream upgrade failed")
		return
	}

	c := &streamClient{
		conn:    conn,
		send:    make(chan []byte, streamSendBuf),
		done:    make(chan struct{}),
		limiter: s.newLimiter(),
		log:     s.logger.WithField("remote", r.RemoteAddr),
	}

	metrics.ActiveStreams.Inc()
	c.log.Info("Stream client connected")

	go s.writePump(c)
	go s.readPump(c)
}

// writePump drains the send channel and keeps the connection alive with
// pings. It owns closing the connection.
func (s *Server) writePump(c *streamClient) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		metrics.ActiveStreams.Dec()
		c.log.Info("Stream client disconnected")
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.WithError(err).Warn("Stream write error")
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump processes client messages in order. On exit it signals
// writePump via c.done and never closes c.send.
func (s *Server) readPump(c *streamClient) {
	defer close(c.done)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.WithError(err).Warn("Stream read error")
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		s.enqueue(c, s.handleStreamMessage(c, data))
	}
}

func (s *Server) handleStreamMessage(c *streamClient, data []byte) StreamReply {
	if !c.limiter.Allow() {
		metrics.RecordStreamUpdate("throttled")
		return StreamReply{Type: "error", Error: "rate limit exceeded"}
	}

	var msg StreamMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		metrics.RecordStreamUpdate("malformed")
		return StreamReply{Type: "error", Error: "invalid message: " + err.Error()}
	}

	switch {
	case msg.Request != nil:
		req := *msg.Request
		if msg.Context != nil {
			req.Context = msg.Context
		}
		c.request = &req
	case msg.Context != nil && c.request != nil:
		c.request.Context = msg.Context
	default:
		metrics.RecordStreamUpdate("rejected")
		return StreamReply{Type: "error", Error: "first message must include a match request"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RequestTimeout)
	defer cancel()

	report, err := s.cfg.Predictor.Predict(ctx, *c.request)
	if err != nil {
		metrics.RecordStreamUpdate("rejected")
		c.request = nil
		return StreamReply{Type: "error", Error: err.Error()}
	}

	metrics.RecordStreamUpdate("accepted")
	return StreamReply{Type: "report", Report: report}
}

// enqueue hands a reply to the write pump without blocking the reader
func (s *Server) enqueue(c *streamClient, reply StreamReply) {
	data, err := json.Marshal(reply)
	if err != nil {
		c.log.WithError(err).Warn("Stream marshal error")
		return
	}
	select {
	case c.send <- data:
	default:
		c.log.Warn("Dropping stream reply for slow client")
	}
}
