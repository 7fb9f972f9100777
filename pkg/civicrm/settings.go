package civicrm

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// SettingService reads store-level settings.
type SettingService struct {
	api    API
	logger ectologger.Logger
}

// NewSettingService creates a new SettingService
func NewSettingService(api API, logger ectologger.Logger) *SettingService {
	return &SettingService{api: api, logger: logger}
}

// DomainGroupID returns the configured domain group, or 0 when the store
// has none. Contacts written by this module are enrolled in it.
func (s *SettingService) DomainGroupID(ctx context.Context) (int, error) {
	values, err := s.api.Get(ctx, "Setting", map[string]any{
		"return": "domain_group_id",
	})
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, nil
	}
	return models.IntValue(values[0]["domain_group_id"]), nil
}
