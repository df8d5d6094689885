package messenger

import (
	"testing"

	"github.com/dpetrov/go-messenger/internal/database"
	"github.com/dpetrov/go-messenger/internal/testutil"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestCreateGroup(t *testing.T) {
	t.Run("owner plus member list", func(t *testing.T) {
		mockRepo := &database.MockMessengerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("CreateGroup", database.CreateGroupParams{
			Name:      "G",
			OwnerId:   1,
			MemberIds: []int{2, 3},
		}).Return(database.Group{
			Id:          20,
			Name:        "G",
			OwnerId:     1,
			MemberCount: 3,
		}, nil).Once()

		svc := NewService(testutil.TestLogger(t), mockRepo)
		group, err := svc.CreateGroup(1, "G", "", []int{2, 3})

		assert.NoError(t, err)
		assert.Equal(t, 20, group.Id)
		assert.Equal(t, 3, group.MemberCount, "owner plus two members")
	})

	t.Run("missing name", func(t *testing.T) {
		svc := NewService(testutil.TestLogger(t), &database.MockMessengerRepository{})
		_, err := svc.CreateGroup(1, "   ", "", nil)

		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
		assert.Equal(t, MissingField, vErr.Reason)
	})

	t.Run("unknown member id", func(t *testing.T) {
		mockRepo := &database.MockMessengerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("CreateGroup", database.CreateGroupParams{
			Name:      "G",
			OwnerId:   1,
			MemberIds: []int{99},
		}).Return(database.Group{}, &pq.Error{Code: "23503"}).Once()

		svc := NewService(testutil.TestLogger(t), mockRepo)
		_, err := svc.CreateGroup(1, "G", "", []int{99})

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDirectory(t *testing.T) {
	t.Run("visible users exclude the caller", func(t *testing.T) {
		mockRepo := &database.MockMessengerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("ListAccounts", 1).Return([]database.User{
			{Id: 2, Username: "ivan"},
			{Id: 3, Username: "maria"},
		}, nil).Once()

		svc := NewService(testutil.TestLogger(t), mockRepo)
		users, err := svc.ListVisibleUsers(1)

		assert.NoError(t, err)
		assert.Len(t, users, 2)
		assert.Equal(t, "ivan", users[0].Username)
	})

	t.Run("my groups", func(t *testing.T) {
		mockRepo := &database.MockMessengerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("ListGroupsForAccount", 1).Return([]database.Group{
			{Id: 20, Name: "G", OwnerId: 1, MemberCount: 3},
		}, nil).Once()

		svc := NewService(testutil.TestLogger(t), mockRepo)
		groups, err := svc.ListMyGroups(1)

		assert.NoError(t, err)
		assert.Len(t, groups, 1)
		assert.Equal(t, 3, groups[0].MemberCount)
	})

	t.Run("visible channels carry viewer flags", func(t *testing.T) {
		mockRepo := &database.MockMessengerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("ListChannelsForAccount", 2).Return([]database.Channel{
			{Id: 10, Name: "announcements", OwnerId: 1, IsPublic: true, SubscriberCount: 5, IsSubscribed: true, IsAdmin: false},
		}, nil).Once()

		svc := NewService(testutil.TestLogger(t), mockRepo)
		channels, err := svc.ListVisibleChannels(2)

		assert.NoError(t, err)
		assert.Len(t, channels, 1)
		assert.True(t, channels[0].IsSubscribed)
		assert.False(t, channels[0].IsAdmin)
	})
}
