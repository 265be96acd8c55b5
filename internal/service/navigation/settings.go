package navigation

import (
	"context"
	"sort"

	"github.com/kedaya2025/FastNav/internal/domain"
)

// ListSettings reads the given keys, or every allowed key when none are
// given. Settings live only in the durable tier, so its errors surface.
func (s *Service) ListSettings(ctx context.Context, keys []string) (map[string]string, error) {
	if len(keys) == 0 {
		keys = domain.SettingKeys()
	}
	if err := domain.ValidateSettingKeys(keys); err != nil {
		return nil, err
	}
	return s.stores.Settings.GetMultiple(ctx, keys)
}

// SaveSettings upserts the pairs in one transaction. Unknown keys are
// rejected before any storage call.
func (s *Service) SaveSettings(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return domain.NewValidationError("no settings provided")
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if err := domain.ValidateSettingKeys(keys); err != nil {
		return err
	}

	if err := s.stores.Settings.SetMultiple(ctx, values); err != nil {
		s.log.Warn().Err(err).Strs("keys", keys).Msg("settings save failed")
		return err
	}
	s.log.Info().Strs("keys", keys).Msg("settings saved")
	return nil
}
