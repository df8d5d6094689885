package database

type MessengerRepository interface {
	Ping() error

	CreateAccount(params CreateAccountParams) (User, error)
	GetAccountById(id int) (User, error)
	GetAccountByUsername(username string) (User, error)
	ListAccounts(excludeId int) ([]User, error)

	CreateGroup(params CreateGroupParams) (Group, error)
	IsGroupMember(groupId, userId int) bool
	ListGroupsForAccount(userId int) ([]Group, error)
	GetGroupMemberIds(groupId int) ([]int, error)

	CreateChannel(params CreateChannelParams) (Channel, error)
	GetChannelById(channelId, viewerId int) (Channel, error)
	IsChannelSubscriber(channelId, userId int) bool
	CreateSubscription(channelId, userId int) error
	DeleteSubscription(channelId, userId int) error
	CountSubscribers(channelId int) (int, error)
	ListChannelsForAccount(userId int) ([]Channel, error)
	GetChannelSubscriberIds(channelId int) ([]int, error)

	ChannelAdminExists(channelId, userId int) bool
	CreateChannelAdmin(channelId, userId, addedBy int) error
	DeleteChannelAdmin(channelId, userId int) error
	ListChannelAdmins(channelId int) ([]ChannelAdmin, error)

	CreateMessage(params CreateMessageParams) (Message, error)
	GetDirectMessages(userId, peerId int) ([]Message, error)
	GetGroupMessages(groupId int) ([]Message, error)
	GetChannelMessages(channelId int) ([]Message, error)
}
