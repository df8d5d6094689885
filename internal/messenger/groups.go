package messenger

import (
	"fmt"
	"strings"

	"github.com/dpetrov/go-messenger/internal/database"
	"github.com/dpetrov/go-messenger/internal/types"
)

// CreateGroup creates a group owned by ownerId and enrolls the initial
// member list. The owner is always a member; duplicate ids in memberIds and
// the owner itself are silently skipped. The whole creation is one
// transaction, so a failed member insert leaves no partial group behind.
func (s *Service) CreateGroup(ownerId int, name, description string, memberIds []int) (types.GroupSummary, error) {
	if strings.TrimSpace(name) == "" {
		return types.GroupSummary{}, newValidationError(MissingField)
	}

	group, err := s.db.CreateGroup(database.CreateGroupParams{
		Name:        strings.TrimSpace(name),
		Description: description,
		OwnerId:     ownerId,
		MemberIds:   memberIds,
	})
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return types.GroupSummary{}, ErrNotFound
		}
		return types.GroupSummary{}, fmt.Errorf("create group: %w", err)
	}

	return toGroupSummary(group), nil
}

// IsGroupMember is the membership predicate gating all group reads and
// writes.
func (s *Service) IsGroupMember(groupId, userId int) bool {
	return s.db.IsGroupMember(groupId, userId)
}

func toGroupSummary(g database.Group) types.GroupSummary {
	return types.GroupSummary{
		Id:          g.Id,
		Name:        g.Name,
		Description: g.Description,
		OwnerId:     g.OwnerId,
		MemberCount: g.MemberCount,
		CreatedAt:   g.CreatedAt,
	}
}
