package rtm

import (
	"context"
	"log"

	"github.com/dpetrov/go-messenger/internal/database"
	"github.com/dpetrov/go-messenger/internal/stats"
	"github.com/dpetrov/go-messenger/internal/types"
)

// Hub fans freshly posted messages out to connected websocket clients. It is
// delivery acceleration only: the message ledger remains authoritative, and
// the recipient set is resolved from the registries at delivery time so a
// membership change between post and delivery is honored.
type Hub struct {
	log        *log.Logger
	db         database.MessengerRepository
	stats      stats.StatsProvider
	register   chan *Client
	deregister chan *Client
	notify     chan notification
	clients    map[int]map[*Client]struct{}
	stop       chan struct{}
	done       chan struct{}
}

type notification struct {
	msg  types.Message
	conv types.Conversation
}

func NewHub(logger *log.Logger, db database.MessengerRepository, sp stats.StatsProvider) *Hub {
	return &Hub{
		log:        logger,
		db:         db,
		stats:      sp,
		register:   make(chan *Client),
		deregister: make(chan *Client),
		notify:     make(chan notification, 256),
		clients:    make(map[int]map[*Client]struct{}),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Run owns all hub state; every mutation goes through its channels.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.deregister:
			h.removeClient(client)
		case n := <-h.notify:
			h.broadcast(n)
		case <-h.stop:
			for _, conns := range h.clients {
				for client := range conns {
					client.close()
				}
			}
			return
		}
	}
}

func (h *Hub) Shutdown(ctx context.Context) error {
	close(h.stop)

	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

func (h *Hub) DeregisterClient(c *Client) {
	select {
	case h.deregister <- c:
	case <-h.done:
	}
}

// Notify queues a posted message for fan-out. Never blocks the posting
// request; if the hub is saturated the push is skipped and clients catch up
// by polling.
func (h *Hub) Notify(msg types.Message, conv types.Conversation) {
	select {
	case h.notify <- notification{msg: msg, conv: conv}:
	default:
		h.log.Println("rtm: notify queue full, dropping push")
	}
}

func (h *Hub) addClient(c *Client) {
	conns, ok := h.clients[c.userId]
	if !ok {
		conns = make(map[*Client]struct{})
		h.clients[c.userId] = conns
	}
	conns[c] = struct{}{}
	h.stats.Incr(stats.ActiveConnections)
}

func (h *Hub) removeClient(c *Client) {
	conns, ok := h.clients[c.userId]
	if !ok {
		return
	}
	if _, ok := conns[c]; !ok {
		return
	}

	delete(conns, c)
	if len(conns) == 0 {
		delete(h.clients, c.userId)
	}
	c.close()
	h.stats.Decr(stats.ActiveConnections)
}

func (h *Hub) broadcast(n notification) {
	for _, userId := range h.recipients(n) {
		conns, ok := h.clients[userId]
		if !ok {
			continue
		}

		msg := n.msg
		msg.IsOwn = userId == n.msg.SenderId
		for client := range conns {
			if !client.queueMessage(msg) {
				h.log.Printf("rtm: slow client for user %d, dropping connection", userId)
				h.removeClient(client)
			}
		}
	}
}

// recipients resolves who should see the message, fresh from the registries.
func (h *Hub) recipients(n notification) []int {
	switch n.conv.Kind {
	case types.KindDirect:
		if n.conv.Id == n.msg.SenderId {
			return []int{n.msg.SenderId}
		}
		return []int{n.msg.SenderId, n.conv.Id}
	case types.KindGroup:
		ids, err := h.db.GetGroupMemberIds(n.conv.Id)
		if err != nil {
			h.log.Println("rtm: group member ids:", err)
			return nil
		}
		return ids
	case types.KindChannel:
		ids, err := h.db.GetChannelSubscriberIds(n.conv.Id)
		if err != nil {
			h.log.Println("rtm: channel subscriber ids:", err)
			return nil
		}
		return ids
	default:
		return nil
	}
}
