package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/clinicpad/clinicpad/internal/repository"
	"github.com/clinicpad/clinicpad/pkg/kvstore"
)

// SettingsService owns the config-prefixed keys: the demo-data toggle, the
// first-launch flag, and ad hoc UI preference flags. These keys survive a
// bulk data wipe.
type SettingsService struct {
	store kvstore.Store
	log   *zap.Logger
}

func NewSettingsService(store kvstore.Store, log *zap.Logger) *SettingsService {
	return &SettingsService{store: store, log: log}
}

func (s *SettingsService) ShowDummyData(ctx context.Context) (bool, error) {
	return s.flag(ctx, repository.KeyShowDummyData)
}

func (s *SettingsService) SetShowDummyData(ctx context.Context, on bool) error {
	return s.setFlag(ctx, repository.KeyShowDummyData, on)
}

func (s *SettingsService) FirstLaunchDone(ctx context.Context) (bool, error) {
	return s.flag(ctx, repository.KeyFirstLaunch)
}

func (s *SettingsService) MarkFirstLaunchDone(ctx context.Context) error {
	return s.setFlag(ctx, repository.KeyFirstLaunch, true)
}

// Preference reads an arbitrary UI preference flag by name. Unset flags
// read as false.
func (s *SettingsService) Preference(ctx context.Context, name string) (bool, error) {
	return s.flag(ctx, repository.ConfigKeyPrefix+name)
}

func (s *SettingsService) SetPreference(ctx context.Context, name string, on bool) error {
	return s.setFlag(ctx, repository.ConfigKeyPrefix+name, on)
}

func (s *SettingsService) flag(ctx context.Context, key string) (bool, error) {
	data, err := s.store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var on bool
	if err := json.Unmarshal(data, &on); err != nil {
		s.log.Warn("stored flag is not a boolean, treating as unset",
			zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return on, nil
}

func (s *SettingsService) setFlag(ctx context.Context, key string, on bool) error {
	data, err := json.Marshal(on)
	if err != nil {
		return fmt.Errorf("encoding flag %s: %w", key, err)
	}
	return s.store.Set(ctx, key, data)
}
