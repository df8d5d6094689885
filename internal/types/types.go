package types

import (
	"time"
)

// ConversationKind discriminates the three message target kinds.
type ConversationKind string

const (
	KindDirect  ConversationKind = "private"
	KindGroup   ConversationKind = "group"
	KindChannel ConversationKind = "channel"
)

// Conversation is a tagged reference to a message target. For direct
// conversations Id is the peer's user id; for groups and channels it is
// the group or channel id.
type Conversation struct {
	Kind ConversationKind `json:"kind"`
	Id   int              `json:"id"`
}

func DirectWith(peerId int) Conversation {
	return Conversation{Kind: KindDirect, Id: peerId}
}

func InGroup(groupId int) Conversation {
	return Conversation{Kind: KindGroup, Id: groupId}
}

func InChannel(channelId int) Conversation {
	return Conversation{Kind: KindChannel, Id: channelId}
}

func (c Conversation) Valid() bool {
	switch c.Kind {
	case KindDirect, KindGroup, KindChannel:
		return c.Id > 0
	default:
		return false
	}
}

type User struct {
	Id        int       `json:"id"`
	Username  string    `json:"username"`
	Phone     string    `json:"phone,omitempty"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type GroupSummary struct {
	Id          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerId     int       `json:"owner_id"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

type ChannelSummary struct {
	Id              int       `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	OwnerId         int       `json:"owner_id"`
	IsPublic        bool      `json:"is_public"`
	SubscriberCount int       `json:"subscriber_count"`
	IsSubscribed    bool      `json:"is_subscribed"`
	IsAdmin         bool      `json:"is_admin"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}

type AdminEntry struct {
	UserId   int       `json:"user_id"`
	Username string    `json:"username"`
	AddedBy  int       `json:"added_by"`
	AddedAt  time.Time `json:"added_at"`
}

// Message is an immutable ledger entry. IsOwn is the only viewer-dependent
// field, set per request for the acting user.
type Message struct {
	Id         int              `json:"id"`
	SenderId   int              `json:"sender_id"`
	SenderName string           `json:"sender_name"`
	Kind       ConversationKind `json:"kind"`
	ReceiverId int              `json:"receiver_id,omitempty"`
	GroupId    int              `json:"group_id,omitempty"`
	ChannelId  int              `json:"channel_id,omitempty"`
	Text       string           `json:"message_text"`
	IsOwn      bool             `json:"is_own"`
	CreatedAt  time.Time        `json:"created_at"`
}
