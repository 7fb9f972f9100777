package civicrm

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/kcristiano/civicrm-wp-profile-sync/internal/tracing"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// MembershipService reads and writes Membership records. Only free
// membership types (no minimum fee) are writable through this module;
// paid signups belong to the store's own contribution flow.
type MembershipService struct {
	api    API
	logger ectologger.Logger
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(api API, logger ectologger.Logger) *MembershipService {
	return &MembershipService{api: api, logger: logger}
}

// GetByID returns a Membership record, or nil when it does not exist.
func (s *MembershipService) GetByID(ctx context.Context, id int) (*models.Membership, error) {
	values, err := s.api.Get(ctx, "Membership", map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return membershipFromMap(values[0]), nil
}

// HasCurrent returns true when the contact holds an active membership of
// the given type.
func (s *MembershipService) HasCurrent(ctx context.Context, contactID, membershipTypeID int) (bool, error) {
	values, err := s.api.Get(ctx, "Membership", map[string]any{
		"contact_id":         contactID,
		"membership_type_id": membershipTypeID,
		"active_only":        1,
	})
	if err != nil {
		return false, err
	}
	return len(values) > 0, nil
}

// Create signs the contact up for a membership type. Extra fields
// (campaign, custom fields, source) ride along in fields.
func (s *MembershipService) Create(ctx context.Context, contactID, membershipTypeID int, fields map[string]string) (*models.Membership, error) {
	ctx, span := tracing.StartSpan(ctx, "civicrm.MembershipService.Create")
	defer span.End()

	params := map[string]any{
		"contact_id":         contactID,
		"membership_type_id": membershipTypeID,
	}
	for k, v := range fields {
		params[k] = v
	}

	record, err := s.api.Create(ctx, "Membership", params)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"contact_id":         contactID,
			"membership_type_id": membershipTypeID,
		}).Error("failed to create Membership")
		return nil, err
	}

	saved := membershipFromMap(record)
	if saved.ContactID == 0 {
		saved.ContactID = contactID
	}
	if saved.MembershipTypeID == 0 {
		saved.MembershipTypeID = membershipTypeID
	}
	return saved, nil
}

// FreeTypes returns the membership types with no minimum fee.
func (s *MembershipService) FreeTypes(ctx context.Context) ([]models.MembershipType, error) {
	values, err := s.api.Get(ctx, "MembershipType", map[string]any{
		"is_active":   1,
		"minimum_fee": 0,
	})
	if err != nil {
		return nil, err
	}

	types := make([]models.MembershipType, 0, len(values))
	for _, v := range values {
		types = append(types, models.MembershipType{
			ID:         models.IntValue(v["id"]),
			Name:       models.StringValue(v["name"]),
			MinimumFee: models.FloatValue(v["minimum_fee"]),
		})
	}
	return types, nil
}

func membershipFromMap(m map[string]any) *models.Membership {
	membership := &models.Membership{
		ID:               models.IntValue(m["id"]),
		ContactID:        models.IntValue(m["contact_id"]),
		MembershipTypeID: models.IntValue(m["membership_type_id"]),
		Fields:           map[string]string{},
	}
	for k, v := range m {
		switch k {
		case "id", "contact_id", "membership_type_id":
			continue
		}
		membership.Fields[k] = models.StringValue(v)
	}
	return membership
}
