package database

import "time"

type User struct {
	Id           int
	Username     string
	Phone        string
	PasswordHash string
	CreatedAt    time.Time
}

type Group struct {
	Id          int
	Name        string
	Description string
	OwnerId     int
	MemberCount int
	CreatedAt   time.Time
}

type Channel struct {
	Id              int
	Name            string
	Description     string
	OwnerId         int
	IsPublic        bool
	SubscriberCount int
	IsSubscribed    bool
	IsAdmin         bool
	CreatedAt       time.Time
}

type ChannelAdmin struct {
	ChannelId int
	UserId    int
	Username  string
	AddedBy   int
	AddedAt   time.Time
}

// Message mirrors the messages table: type names the conversation kind and
// exactly one of ReceiverId/GroupId/ChannelId is non-zero, per the CHECK
// constraint in the schema.
type Message struct {
	Id         int
	SenderId   int
	SenderName string
	Type       string
	ReceiverId int
	GroupId    int
	ChannelId  int
	Text       string
	IsRead     bool
	CreatedAt  time.Time
}

type CreateAccountParams struct {
	Username     string
	Phone        string
	PasswordHash string
}

type CreateGroupParams struct {
	Name        string
	Description string
	OwnerId     int
	MemberIds   []int
}

type CreateChannelParams struct {
	Name        string
	Description string
	OwnerId     int
	IsPublic    bool
}

type CreateMessageParams struct {
	SenderId int
	Kind     string
	TargetId int
	Text     string
}
