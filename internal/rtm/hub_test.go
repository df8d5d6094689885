package rtm

import (
	"testing"

	"github.com/dpetrov/go-messenger/internal/database"
	"github.com/dpetrov/go-messenger/internal/stats"
	"github.com/dpetrov/go-messenger/internal/testutil"
	"github.com/dpetrov/go-messenger/internal/types"
	"github.com/stretchr/testify/assert"
)

func newTestHub(t *testing.T, db database.MessengerRepository) *Hub {
	mockStats := &stats.MockStatsUpdater{}
	mockStats.On("Incr", stats.ActiveConnections).Return().Maybe()
	mockStats.On("Decr", stats.ActiveConnections).Return().Maybe()
	return NewHub(testutil.TestLogger(t), db, mockStats)
}

func TestHubRecipients(t *testing.T) {
	tcases := []struct {
		name     string
		n        notification
		mock     func(m *database.MockMessengerRepository)
		expected []int
	}{
		{
			name: "direct message reaches both parties",
			n: notification{
				msg:  types.Message{SenderId: 1, Kind: types.KindDirect, ReceiverId: 2},
				conv: types.DirectWith(2),
			},
			expected: []int{1, 2},
		},
		{
			name: "self-message reaches the sender once",
			n: notification{
				msg:  types.Message{SenderId: 1, Kind: types.KindDirect, ReceiverId: 1},
				conv: types.DirectWith(1),
			},
			expected: []int{1},
		},
		{
			name: "group message reaches current members",
			n: notification{
				msg:  types.Message{SenderId: 1, Kind: types.KindGroup, GroupId: 20},
				conv: types.InGroup(20),
			},
			mock: func(m *database.MockMessengerRepository) {
				m.On("GetGroupMemberIds", 20).Return([]int{1, 2, 3}, nil).Once()
			},
			expected: []int{1, 2, 3},
		},
		{
			name: "channel message reaches current subscribers",
			n: notification{
				msg:  types.Message{SenderId: 1, Kind: types.KindChannel, ChannelId: 10},
				conv: types.InChannel(10),
			},
			mock: func(m *database.MockMessengerRepository) {
				m.On("GetChannelSubscriberIds", 10).Return([]int{1, 3}, nil).Once()
			},
			expected: []int{1, 3},
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockMessengerRepository{}
			defer mockRepo.AssertExpectations(t)
			if tc.mock != nil {
				tc.mock(mockRepo)
			}

			hub := newTestHub(t, mockRepo)
			assert.Equal(t, tc.expected, hub.recipients(tc.n))
		})
	}
}

func TestHubBroadcast(t *testing.T) {
	mockRepo := &database.MockMessengerRepository{}
	defer mockRepo.AssertExpectations(t)

	hub := newTestHub(t, mockRepo)

	sender := NewClient(1, nil, hub, testutil.TestLogger(t))
	receiver := NewClient(2, nil, hub, testutil.TestLogger(t))
	hub.addClient(sender)
	hub.addClient(receiver)

	msg := types.Message{Id: 5, SenderId: 1, Kind: types.KindDirect, ReceiverId: 2, Text: "hi"}
	hub.broadcast(notification{msg: msg, conv: types.DirectWith(2)})

	got := <-sender.send
	assert.True(t, got.IsOwn, "sender sees their own message flagged")

	got = <-receiver.send
	assert.False(t, got.IsOwn)
	assert.Equal(t, "hi", got.Text)
}

func TestHubBroadcast_SlowClientDropped(t *testing.T) {
	mockRepo := &database.MockMessengerRepository{}
	defer mockRepo.AssertExpectations(t)

	hub := newTestHub(t, mockRepo)

	receiver := NewClient(2, nil, hub, testutil.TestLogger(t))
	hub.addClient(receiver)

	// fill the send buffer so the next broadcast cannot queue
	for i := 0; i < cap(receiver.send); i++ {
		receiver.send <- types.Message{}
	}

	msg := types.Message{SenderId: 1, Kind: types.KindDirect, ReceiverId: 2}
	hub.broadcast(notification{msg: msg, conv: types.DirectWith(2)})

	_, ok := hub.clients[2]
	assert.False(t, ok, "expected slow client to be removed")
}

func TestHubRegisterDeregister(t *testing.T) {
	mockRepo := &database.MockMessengerRepository{}
	hub := newTestHub(t, mockRepo)

	client := NewClient(1, nil, hub, testutil.TestLogger(t))
	hub.addClient(client)
	assert.Len(t, hub.clients[1], 1)

	hub.removeClient(client)
	_, ok := hub.clients[1]
	assert.False(t, ok, "expected client map entry to be cleared")

	// removing again is a no-op
	hub.removeClient(client)
}
