package civicrm

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/kcristiano/civicrm-wp-profile-sync/internal/tracing"
)

// GroupService manages group membership for contacts. Enrollment is
// additive and idempotent: adding a contact who is already a member is a
// no-op.
type GroupService struct {
	api    API
	logger ectologger.Logger
}

// NewGroupService creates a new GroupService
func NewGroupService(api API, logger ectologger.Logger) *GroupService {
	return &GroupService{api: api, logger: logger}
}

// ContactInGroup returns true when the contact is an added member of the
// group.
func (s *GroupService) ContactInGroup(ctx context.Context, contactID, groupID int) (bool, error) {
	values, err := s.api.Get(ctx, "GroupContact", map[string]any{
		"contact_id": contactID,
		"group_id":   groupID,
		"status":     "Added",
	})
	if err != nil {
		return false, err
	}
	return len(values) > 0, nil
}

// AddContact enrolls the contact in the group when not already a member.
// Returns true when an enrollment was written.
func (s *GroupService) AddContact(ctx context.Context, contactID, groupID int) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "civicrm.GroupService.AddContact")
	defer span.End()

	exists, err := s.ContactInGroup(ctx, contactID, groupID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	_, err = s.api.Create(ctx, "GroupContact", map[string]any{
		"contact_id": contactID,
		"group_id":   groupID,
		"status":     "Added",
	})
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"contact_id": contactID,
			"group_id":   groupID,
		}).Error("failed to add contact to group")
		return false, err
	}
	return true, nil
}

// AddContactDoubleOptIn enrolls the contact with Pending status so the
// store's own confirmation flow completes the enrollment.
func (s *GroupService) AddContactDoubleOptIn(ctx context.Context, contactID, groupID int) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "civicrm.GroupService.AddContactDoubleOptIn")
	defer span.End()

	exists, err := s.ContactInGroup(ctx, contactID, groupID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	_, err = s.api.Create(ctx, "GroupContact", map[string]any{
		"contact_id": contactID,
		"group_id":   groupID,
		"status":     "Pending",
	})
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"contact_id": contactID,
			"group_id":   groupID,
		}).Error("failed to add pending group enrollment")
		return false, err
	}
	return true, nil
}

// GetAll returns all groups visible to the API user.
func (s *GroupService) GetAll(ctx context.Context) ([]map[string]any, error) {
	return s.api.Get(ctx, "Group", map[string]any{"is_active": 1})
}
