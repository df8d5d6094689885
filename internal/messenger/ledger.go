package messenger

import (
	"fmt"
	"strings"

	"github.com/dpetrov/go-messenger/internal/database"
	"github.com/dpetrov/go-messenger/internal/types"
)

// PostMessage appends a message to the conversation. Checks run cheapest
// first: text validation, then target resolution and the write-permission
// check, then the append. Exactly one row results; there is no fan-out here.
func (s *Service) PostMessage(actorId int, conv types.Conversation, text string) (types.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return types.Message{}, newValidationError(EmptyText)
	}
	if !conv.Valid() {
		return types.Message{}, newValidationError(MissingTarget)
	}

	if err := s.authorizeWrite(actorId, conv); err != nil {
		return types.Message{}, err
	}

	msg, err := s.db.CreateMessage(database.CreateMessageParams{
		SenderId: actorId,
		Kind:     string(conv.Kind),
		TargetId: conv.Id,
		Text:     text,
	})
	if err != nil {
		return types.Message{}, fmt.Errorf("create message: %w", err)
	}

	return toMessage(msg, actorId), nil
}

// ListMessages returns the conversation's messages in creation order,
// oldest first, after a fresh read-permission check.
func (s *Service) ListMessages(actorId int, conv types.Conversation) ([]types.Message, error) {
	if !conv.Valid() {
		return nil, newValidationError(MissingTarget)
	}

	if err := s.authorizeRead(actorId, conv); err != nil {
		return nil, err
	}

	var (
		rows []database.Message
		err  error
	)
	switch conv.Kind {
	case types.KindDirect:
		rows, err = s.db.GetDirectMessages(actorId, conv.Id)
	case types.KindGroup:
		rows, err = s.db.GetGroupMessages(conv.Id)
	case types.KindChannel:
		rows, err = s.db.GetChannelMessages(conv.Id)
	}
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}

	messages := make([]types.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, toMessage(row, actorId))
	}

	return messages, nil
}

func toMessage(m database.Message, viewerId int) types.Message {
	return types.Message{
		Id:         m.Id,
		SenderId:   m.SenderId,
		SenderName: m.SenderName,
		Kind:       types.ConversationKind(m.Type),
		ReceiverId: m.ReceiverId,
		GroupId:    m.GroupId,
		ChannelId:  m.ChannelId,
		Text:       m.Text,
		IsOwn:      m.SenderId == viewerId,
		CreatedAt:  m.CreatedAt,
	}
}
