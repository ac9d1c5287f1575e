package admin

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/WappTienda/frontend/internal/storefront/domain"
	"github.com/WappTienda/frontend/internal/storefront/query"
)

// SettingsClient is the subset of the REST client used for settings.
type SettingsClient interface {
	Settings(ctx context.Context) ([]domain.Setting, error)
	UpdateSettings(ctx context.Context, updates []domain.SettingUpdate) ([]domain.Setting, error)
}

// Settings manages store settings.
type Settings struct {
	client SettingsClient
	deps   Deps
}

// NewSettings constructs the settings service.
func NewSettings(client SettingsClient, deps Deps) (*Settings, error) {
	if client == nil {
		return nil, errors.New("admin: settings client is required")
	}
	deps, err := deps.withDefaults()
	if err != nil {
		return nil, err
	}
	return &Settings{client: client, deps: deps}, nil
}

// All returns every setting grouped into sections.
func (s *Settings) All(ctx context.Context) (domain.SettingGroups, error) {
	list, err := query.Fetch(ctx, s.deps.Cache, query.All(query.ResourceAdminSettings), s.client.Settings)
	return domain.GroupSettings(list), err
}

// Save writes values and reports the outcome as a toast. Keys are sent in
// sorted order.
func (s *Settings) Save(ctx context.Context, values map[string]string) ([]domain.Setting, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	updates := make([]domain.SettingUpdate, 0, len(keys))
	for _, k := range keys {
		updates = append(updates, domain.SettingUpdate{Key: k, Value: values[k]})
	}

	out, err := query.Mutate(ctx, s.deps.Cache, func(ctx context.Context) ([]domain.Setting, error) {
		return s.client.UpdateSettings(ctx, updates)
	}, query.SettingsKeys()...)
	if err != nil {
		s.deps.Logger.Warn("settings save failed", zap.Int("keys", len(updates)), zap.Error(err))
		s.deps.Toasts.Error(s.deps.Messages.T("settings.failed"))
		return nil, err
	}
	s.deps.Toasts.Success(s.deps.Messages.T("settings.saved"))
	return out, nil
}
