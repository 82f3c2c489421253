package service

import (
	"context"

	"github.com/personaforge/personaforge/internal/domain/settings"
	"github.com/personaforge/personaforge/internal/port/database"
)

// SettingsService reads and updates the global application settings.
type SettingsService struct {
	store database.Store
}

// NewSettingsService creates a settings service.
func NewSettingsService(store database.Store) *SettingsService {
	return &SettingsService{store: store}
}

// Get returns the effective settings, defaults overlaid with persisted
// values.
func (s *SettingsService) Get(ctx context.Context) (*settings.Settings, error) {
	return s.store.GetSettings(ctx)
}

// Update persists the provided fields and returns the new effective
// settings.
func (s *SettingsService) Update(ctx context.Context, req settings.UpdateRequest) (*settings.Settings, error) {
	return s.store.UpdateSettings(ctx, req)
}
