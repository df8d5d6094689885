package database

import (
	"github.com/stretchr/testify/mock"
)

type MockMessengerRepository struct {
	mock.Mock
}

func (m *MockMessengerRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockMessengerRepository) CreateAccount(params CreateAccountParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockMessengerRepository) GetAccountById(id int) (User, error) {
	args := m.Called(id)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockMessengerRepository) GetAccountByUsername(username string) (User, error) {
	args := m.Called(username)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockMessengerRepository) ListAccounts(excludeId int) ([]User, error) {
	args := m.Called(excludeId)
	return args.Get(0).([]User), args.Error(1)
}
func (m *MockMessengerRepository) CreateGroup(params CreateGroupParams) (Group, error) {
	args := m.Called(params)
	return args.Get(0).(Group), args.Error(1)
}
func (m *MockMessengerRepository) IsGroupMember(groupId, userId int) bool {
	args := m.Called(groupId, userId)
	return args.Bool(0)
}
func (m *MockMessengerRepository) ListGroupsForAccount(userId int) ([]Group, error) {
	args := m.Called(userId)
	return args.Get(0).([]Group), args.Error(1)
}
func (m *MockMessengerRepository) GetGroupMemberIds(groupId int) ([]int, error) {
	args := m.Called(groupId)
	return args.Get(0).([]int), args.Error(1)
}
func (m *MockMessengerRepository) CreateChannel(params CreateChannelParams) (Channel, error) {
	args := m.Called(params)
	return args.Get(0).(Channel), args.Error(1)
}
func (m *MockMessengerRepository) GetChannelById(channelId, viewerId int) (Channel, error) {
	args := m.Called(channelId, viewerId)
	return args.Get(0).(Channel), args.Error(1)
}
func (m *MockMessengerRepository) IsChannelSubscriber(channelId, userId int) bool {
	args := m.Called(channelId, userId)
	return args.Bool(0)
}
func (m *MockMessengerRepository) CreateSubscription(channelId, userId int) error {
	args := m.Called(channelId, userId)
	return args.Error(0)
}
func (m *MockMessengerRepository) DeleteSubscription(channelId, userId int) error {
	args := m.Called(channelId, userId)
	return args.Error(0)
}
func (m *MockMessengerRepository) CountSubscribers(channelId int) (int, error) {
	args := m.Called(channelId)
	return args.Int(0), args.Error(1)
}
func (m *MockMessengerRepository) ListChannelsForAccount(userId int) ([]Channel, error) {
	args := m.Called(userId)
	return args.Get(0).([]Channel), args.Error(1)
}
func (m *MockMessengerRepository) GetChannelSubscriberIds(channelId int) ([]int, error) {
	args := m.Called(channelId)
	return args.Get(0).([]int), args.Error(1)
}
func (m *MockMessengerRepository) ChannelAdminExists(channelId, userId int) bool {
	args := m.Called(channelId, userId)
	return args.Bool(0)
}
func (m *MockMessengerRepository) CreateChannelAdmin(channelId, userId, addedBy int) error {
	args := m.Called(channelId, userId, addedBy)
	return args.Error(0)
}
func (m *MockMessengerRepository) DeleteChannelAdmin(channelId, userId int) error {
	args := m.Called(channelId, userId)
	return args.Error(0)
}
func (m *MockMessengerRepository) ListChannelAdmins(channelId int) ([]ChannelAdmin, error) {
	args := m.Called(channelId)
	return args.Get(0).([]ChannelAdmin), args.Error(1)
}
func (m *MockMessengerRepository) CreateMessage(params CreateMessageParams) (Message, error) {
	args := m.Called(params)
	return args.Get(0).(Message), args.Error(1)
}
func (m *MockMessengerRepository) GetDirectMessages(userId, peerId int) ([]Message, error) {
	args := m.Called(userId, peerId)
	return args.Get(0).([]Message), args.Error(1)
}
func (m *MockMessengerRepository) GetGroupMessages(groupId int) ([]Message, error) {
	args := m.Called(groupId)
	return args.Get(0).([]Message), args.Error(1)
}
func (m *MockMessengerRepository) GetChannelMessages(channelId int) ([]Message, error) {
	args := m.Called(channelId)
	return args.Get(0).([]Message), args.Error(1)
}
