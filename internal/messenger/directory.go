package messenger

import (
	"fmt"

	"github.com/dpetrov/go-messenger/internal/types"
)

// ListVisibleUsers returns every user except the caller, ordered by
// username.
func (s *Service) ListVisibleUsers(excludeId int) ([]types.User, error) {
	users, err := s.db.ListAccounts(excludeId)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	summaries := make([]types.User, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, toUser(u))
	}

	return summaries, nil
}

// ListMyGroups returns the groups the user is a member of, ordered by name.
func (s *Service) ListMyGroups(userId int) ([]types.GroupSummary, error) {
	groups, err := s.db.ListGroupsForAccount(userId)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	summaries := make([]types.GroupSummary, 0, len(groups))
	for _, g := range groups {
		summaries = append(summaries, toGroupSummary(g))
	}

	return summaries, nil
}

// ListVisibleChannels returns channels that are public or the user
// subscribes to, ordered by name, with per-viewer subscription and admin
// flags.
func (s *Service) ListVisibleChannels(userId int) ([]types.ChannelSummary, error) {
	channels, err := s.db.ListChannelsForAccount(userId)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}

	summaries := make([]types.ChannelSummary, 0, len(channels))
	for _, c := range channels {
		summaries = append(summaries, toChannelSummary(c))
	}

	return summaries, nil
}
