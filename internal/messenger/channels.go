package messenger

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dpetrov/go-messenger/internal/database"
	"github.com/dpetrov/go-messenger/internal/types"
)

// CreateChannel creates a channel owned by ownerId and auto-subscribes the
// owner.
func (s *Service) CreateChannel(ownerId int, name, description string, isPublic bool) (types.ChannelSummary, error) {
	if strings.TrimSpace(name) == "" {
		return types.ChannelSummary{}, newValidationError(MissingField)
	}

	channel, err := s.db.CreateChannel(database.CreateChannelParams{
		Name:        strings.TrimSpace(name),
		Description: description,
		OwnerId:     ownerId,
		IsPublic:    isPublic,
	})
	if err != nil {
		return types.ChannelSummary{}, fmt.Errorf("create channel: %w", err)
	}

	return toChannelSummary(channel), nil
}

// SetSubscription subscribes or unsubscribes userId and returns the fresh
// subscriber count. Both directions are idempotent: a duplicate subscribe is
// ignored, an absent unsubscribe is a no-op. Subscribing requires the channel
// to be visible to the user (public or already subscribed).
func (s *Service) SetSubscription(channelId, userId int, subscribe bool) (int, error) {
	channel, err := s.getChannel(channelId, userId)
	if err != nil {
		return 0, err
	}

	if subscribe {
		if !channel.IsPublic && channel.OwnerId != userId && !channel.IsSubscribed {
			return 0, ErrForbidden
		}
		err = s.db.CreateSubscription(channelId, userId)
	} else {
		err = s.db.DeleteSubscription(channelId, userId)
	}
	if err != nil {
		return 0, fmt.Errorf("set subscription: %w", err)
	}

	count, err := s.db.CountSubscribers(channelId)
	if err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}

	return count, nil
}

// IsChannelAdmin reports whether userId may write to the channel: the owner,
// or a delegated admin. Ownership is checked first so owner rights can never
// be dropped through the admin table.
func (s *Service) IsChannelAdmin(channelId, userId int) bool {
	channel, err := s.db.GetChannelById(channelId, userId)
	if err != nil {
		return false
	}

	return channel.OwnerId == userId || s.db.ChannelAdminExists(channelId, userId)
}

// AddAdmin grants targetId delegated admin rights. Only the owner may grant;
// the owner itself is rejected; a duplicate grant is an explicit error, since
// admin grants are deliberate, auditable actions.
func (s *Service) AddAdmin(channelId, targetId, actingId int) error {
	channel, err := s.getChannel(channelId, actingId)
	if err != nil {
		return err
	}

	if channel.OwnerId != actingId {
		return ErrNotOwner
	}
	if targetId == channel.OwnerId {
		return ErrTargetIsOwner
	}

	if _, err := s.db.GetAccountById(targetId); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get account: %w", err)
	}

	if err := s.db.CreateChannelAdmin(channelId, targetId, actingId); err != nil {
		if database.IsDuplicate(err) {
			return ErrAlreadyAdmin
		}
		return fmt.Errorf("create channel admin: %w", err)
	}

	return nil
}

// RemoveAdmin revokes a delegated admin grant. Only the owner may revoke.
func (s *Service) RemoveAdmin(channelId, targetId, actingId int) error {
	channel, err := s.getChannel(channelId, actingId)
	if err != nil {
		return err
	}

	if channel.OwnerId != actingId {
		return ErrNotOwner
	}

	if err := s.db.DeleteChannelAdmin(channelId, targetId); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAdminNotFound
		}
		return fmt.Errorf("delete channel admin: %w", err)
	}

	return nil
}

// ListAdmins enumerates delegated admins with grant provenance. Owner only.
func (s *Service) ListAdmins(channelId, actingId int) ([]types.AdminEntry, error) {
	channel, err := s.getChannel(channelId, actingId)
	if err != nil {
		return nil, err
	}

	if channel.OwnerId != actingId {
		return nil, ErrNotOwner
	}

	admins, err := s.db.ListChannelAdmins(channelId)
	if err != nil {
		return nil, fmt.Errorf("list channel admins: %w", err)
	}

	entries := make([]types.AdminEntry, 0, len(admins))
	for _, a := range admins {
		entries = append(entries, types.AdminEntry{
			UserId:   a.UserId,
			Username: a.Username,
			AddedBy:  a.AddedBy,
			AddedAt:  a.AddedAt,
		})
	}

	return entries, nil
}

// getChannel resolves a channel for the viewer. A nonexistent channel
// surfaces as ErrForbidden: channel existence is not revealed beyond what the
// directory already exposes.
func (s *Service) getChannel(channelId, viewerId int) (database.Channel, error) {
	channel, err := s.db.GetChannelById(channelId, viewerId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return database.Channel{}, ErrForbidden
		}
		return database.Channel{}, fmt.Errorf("get channel: %w", err)
	}

	return channel, nil
}

func toChannelSummary(c database.Channel) types.ChannelSummary {
	return types.ChannelSummary{
		Id:              c.Id,
		Name:            c.Name,
		Description:     c.Description,
		OwnerId:         c.OwnerId,
		IsPublic:        c.IsPublic,
		SubscriberCount: c.SubscriberCount,
		IsSubscribed:    c.IsSubscribed,
		IsAdmin:         c.IsAdmin,
		CreatedAt:       c.CreatedAt,
	}
}
