package rtm

import (
	"log"
	"sync"
	"time"

	"github.com/dpetrov/go-messenger/internal/types"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client is one authenticated websocket connection. The server pushes
// messages only; anything the client sends besides control frames is
// discarded.
type Client struct {
	userId    int
	conn      *websocket.Conn
	hub       *Hub
	log       *log.Logger
	send      chan types.Message
	closeOnce sync.Once
}

func NewClient(userId int, conn *websocket.Conn, hub *Hub, l *log.Logger) *Client {
	return &Client{
		userId: userId,
		conn:   conn,
		hub:    hub,
		log:    l,
		send:   make(chan types.Message, 64),
	}
}

func (c *Client) Write() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}

			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway,
					websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
					c.log.Printf("rtm: write message: %v", err)
				}
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

func (c *Client) Read() {
	defer func() {
		c.conn.Close()
		c.hub.DeregisterClient(c)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(appData string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.log.Printf("rtm: read: %v", err)
			}
			break
		}
	}
}

func (c *Client) queueMessage(msg types.Message) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}
