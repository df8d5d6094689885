package messenger

import (
	"database/sql"
	"testing"
	"time"

	"github.com/dpetrov/go-messenger/internal/database"
	"github.com/dpetrov/go-messenger/internal/testutil"
	"github.com/dpetrov/go-messenger/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPostMessage_Direct(t *testing.T) {
	t.Run("sender posts to an existing peer", func(t *testing.T) {
		mockRepo := &database.MockMessengerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetAccountById", 2).
			Return(database.User{Id: 2, Username: "maria"}, nil).Once()
		mockRepo.On("CreateMessage", database.CreateMessageParams{
			SenderId: 1,
			Kind:     "private",
			TargetId: 2,
			Text:     "hello",
		}).Return(database.Message{
			Id:         100,
			SenderId:   1,
			SenderName: "alex",
			Type:       "private",
			ReceiverId: 2,
			Text:       "hello",
			CreatedAt:  time.Now().UTC(),
		}, nil).Once()

		svc := NewService(testutil.TestLogger(t), mockRepo)
		msg, err := svc.PostMessage(1, types.DirectWith(2), "  hello  ")

		assert.NoError(t, err)
		assert.Equal(t, 100, msg.Id)
		assert.Equal(t, "hello", msg.Text, "text is trimmed before storage")
		assert.True(t, msg.IsOwn)
	})

	t.Run("unknown peer", func(t *testing.T) {
		mockRepo := &database.MockMessengerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetAccountById", 99).
			Return(database.User{}, sql.ErrNoRows).Once()

		svc := NewService(testutil.TestLogger(t), mockRepo)
		_, err := svc.PostMessage(1, types.DirectWith(99), "hello")

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty text after trim", func(t *testing.T) {
		svc := NewService(testutil.TestLogger(t), &database.MockMessengerRepository{})
		_, err := svc.PostMessage(1, types.DirectWith(2), "   ")

		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
		assert.Equal(t, EmptyText, vErr.Reason)
	})

	t.Run("missing target", func(t *testing.T) {
		svc := NewService(testutil.TestLogger(t), &database.MockMessengerRepository{})
		_, err := svc.PostMessage(1, types.Conversation{}, "hello")

		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
		assert.Equal(t, MissingTarget, vErr.Reason)
	})
}

func TestPostMessage_Group(t *testing.T) {
	tcases := []struct {
		name    string
		actorId int
		member  bool
		wantErr error
	}{
		{
			name:    "member posts",
			actorId: 1,
			member:  true,
		},
		{
			name:    "non-member is denied",
			actorId: 4,
			member:  false,
			wantErr: ErrForbidden,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockMessengerRepository{}
			defer mockRepo.AssertExpectations(t)

			mockRepo.On("IsGroupMember", 20, tc.actorId).Return(tc.member).Once()
			if tc.member {
				mockRepo.On("CreateMessage", database.CreateMessageParams{
					SenderId: tc.actorId,
					Kind:     "group",
					TargetId: 20,
					Text:     "hi all",
				}).Return(database.Message{
					Id:       101,
					SenderId: tc.actorId,
					Type:     "group",
					GroupId:  20,
					Text:     "hi all",
				}, nil).Once()
			}

			svc := NewService(testutil.TestLogger(t), mockRepo)
			msg, err := svc.PostMessage(tc.actorId, types.InGroup(20), "hi all")

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, 20, msg.GroupId)
		})
	}
}

func TestPostMessage_Channel(t *testing.T) {
	channel := database.Channel{Id: 10, OwnerId: 1, IsPublic: true}

	tcases := []struct {
		name       string
		actorId    int
		adminExist bool
		wantErr    error
	}{
		{
			name:    "owner always writes",
			actorId: 1,
		},
		{
			name:       "delegated admin writes",
			actorId:    2,
			adminExist: true,
		},
		{
			name:    "plain subscriber cannot write",
			actorId: 3,
			wantErr: ErrForbidden,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockMessengerRepository{}
			defer mockRepo.AssertExpectations(t)

			mockRepo.On("GetChannelById", 10, tc.actorId).Return(channel, nil).Once()
			if tc.actorId != channel.OwnerId {
				mockRepo.On("ChannelAdminExists", 10, tc.actorId).
					Return(tc.adminExist).Once()
			}
			if tc.wantErr == nil {
				mockRepo.On("CreateMessage", database.CreateMessageParams{
					SenderId: tc.actorId,
					Kind:     "channel",
					TargetId: 10,
					Text:     "announcement",
				}).Return(database.Message{
					Id:        102,
					SenderId:  tc.actorId,
					Type:      "channel",
					ChannelId: 10,
					Text:      "announcement",
				}, nil).Once()
			}

			svc := NewService(testutil.TestLogger(t), mockRepo)
			_, err := svc.PostMessage(tc.actorId, types.InChannel(10), "announcement")

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestListMessages_Direct(t *testing.T) {
	t.Run("either party reads, third parties see nothing", func(t *testing.T) {
		rows := []database.Message{
			{Id: 1, SenderId: 1, SenderName: "alex", Type: "private", ReceiverId: 2, Text: "hi"},
			{Id: 2, SenderId: 2, SenderName: "maria", Type: "private", ReceiverId: 1, Text: "hey"},
		}

		mockRepo := &database.MockMessengerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetAccountById", 2).
			Return(database.User{Id: 2}, nil).Once()
		mockRepo.On("GetDirectMessages", 1, 2).Return(rows, nil).Once()

		svc := NewService(testutil.TestLogger(t), mockRepo)
		messages, err := svc.ListMessages(1, types.DirectWith(2))

		assert.NoError(t, err)
		assert.Len(t, messages, 2)
		assert.True(t, messages[0].IsOwn, "viewer sent the first message")
		assert.False(t, messages[1].IsOwn, "peer sent the second message")
	})

	t.Run("unknown peer", func(t *testing.T) {
		mockRepo := &database.MockMessengerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetAccountById", 404).
			Return(database.User{}, sql.ErrNoRows).Once()

		svc := NewService(testutil.TestLogger(t), mockRepo)
		_, err := svc.ListMessages(1, types.DirectWith(404))

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListMessages_Group(t *testing.T) {
	t.Run("non-member denied regardless of history", func(t *testing.T) {
		mockRepo := &database.MockMessengerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("IsGroupMember", 20, 4).Return(false).Once()

		svc := NewService(testutil.TestLogger(t), mockRepo)
		_, err := svc.ListMessages(4, types.InGroup(20))

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("member reads in order", func(t *testing.T) {
		rows := []database.Message{
			{Id: 1, SenderId: 2, Type: "group", GroupId: 20, Text: "first"},
			{Id: 2, SenderId: 1, Type: "group", GroupId: 20, Text: "second"},
		}

		mockRepo := &database.MockMessengerRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("IsGroupMember", 20, 1).Return(true).Once()
		mockRepo.On("GetGroupMessages", 20).Return(rows, nil).Once()

		svc := NewService(testutil.TestLogger(t), mockRepo)
		messages, err := svc.ListMessages(1, types.InGroup(20))

		assert.NoError(t, err)
		assert.Equal(t, "first", messages[0].Text)
		assert.Equal(t, "second", messages[1].Text)
	})
}

func TestListMessages_Channel(t *testing.T) {
	tcases := []struct {
		name       string
		actorId    int
		channel    database.Channel
		channelErr error
		wantErr    error
	}{
		{
			name:    "public channel readable without subscription",
			actorId: 4,
			channel: database.Channel{Id: 10, OwnerId: 1, IsPublic: true},
		},
		{
			name:    "private channel readable by subscriber",
			actorId: 3,
			channel: database.Channel{Id: 10, OwnerId: 1, IsSubscribed: true},
		},
		{
			name:    "private channel denied to non-subscriber",
			actorId: 4,
			channel: database.Channel{Id: 10, OwnerId: 1},
			wantErr: ErrForbidden,
		},
		{
			name:       "missing channel reads as denial",
			actorId:    4,
			channelErr: sql.ErrNoRows,
			wantErr:    ErrForbidden,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockMessengerRepository{}
			defer mockRepo.AssertExpectations(t)

			mockRepo.On("GetChannelById", 10, tc.actorId).
				Return(tc.channel, tc.channelErr).Once()
			if tc.wantErr == nil {
				mockRepo.On("GetChannelMessages", 10).
					Return([]database.Message{}, nil).Once()
			}

			svc := NewService(testutil.TestLogger(t), mockRepo)
			_, err := svc.ListMessages(tc.actorId, types.InChannel(10))

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
