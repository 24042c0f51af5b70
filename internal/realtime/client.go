package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// wsClient adapts a websocket connection to Client. Outbound messages go through a
// bounded queue drained by writePump; a full queue closes the connection.
type wsClient struct {
	id       string
	identity Identity
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	once     sync.Once
	log      *zap.Logger
}

func newWSClient(conn *websocket.Conn, identity Identity, buffer int, log *zap.Logger) *wsClient {
	id := ulid.Make().String()
	return &wsClient{
		id:       id,
		identity: identity,
		conn:     conn,
		send:     make(chan []byte, buffer),
		done:     make(chan struct{}),
		log:      log.With(zap.String("conn_id", id), zap.String("user_id", identity.UserID.String())),
	}
}

func (c *wsClient) ID() string { return c.id }

func (c *wsClient) Identity() Identity { return c.identity }

func (c *wsClient) Send(msg []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- msg:
		return true
	case <-c.done:
		return false
	default:
		c.log.Warn("send queue full, closing slow connection")
		c.Close()
		return false
	}
}

func (c *wsClient) Close() {
	c.once.Do(func() { close(c.done) })
}

// readPump feeds inbound frames to the gateway one at a time until the connection fails.
func (c *wsClient) readPump(ctx context.Context, g *Gateway) {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				c.log.Debug("read", zap.Error(err))
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		g.HandleMessage(ctx, c, message)
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			c.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait),
			)
			return
		}
	}
}

// Serve runs one connection to completion: it registers with the gateway, pumps
// messages both ways and disconnects when either side stops.
func (g *Gateway) Serve(ctx context.Context, conn *websocket.Conn, identity Identity, buffer int) {
	c := newWSClient(conn, identity, buffer, g.log)
	g.Connect(c)
	c.log.Debug("connection opened")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.writePump()
	}()

	c.readPump(ctx, g)

	g.Disconnect(c)
	c.Close()
	wg.Wait()
	c.log.Debug("connection closed")
}
