package services

import (
	"context"
	"fmt"

	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// PreferenceService handles the persisted presentation and behavior flags.
type PreferenceService struct {
	repo ports.PreferenceRepository
}

// NewPreferenceService creates a new preference service.
func NewPreferenceService(storage ports.Storage) *PreferenceService {
	return &PreferenceService{repo: storage.Preferences()}
}

// Get returns the current preferences.
func (s *PreferenceService) Get(ctx context.Context) (domain.Preferences, error) {
	prefs, err := s.repo.Load(ctx)
	if err != nil {
		return domain.DefaultPreferences(), fmt.Errorf("failed to load preferences: %w", err)
	}
	return prefs, nil
}

// Update loads the preferences, applies fn and stores the result.
func (s *PreferenceService) Update(ctx context.Context, fn func(*domain.Preferences)) (domain.Preferences, error) {
	prefs, err := s.Get(ctx)
	if err != nil {
		return prefs, err
	}
	fn(&prefs)
	if err := s.repo.Save(ctx, prefs); err != nil {
		return prefs, fmt.Errorf("failed to save preferences: %w", err)
	}
	return prefs, nil
}

// SetTheme stores the theme.
func (s *PreferenceService) SetTheme(ctx context.Context, theme domain.Theme) (domain.Preferences, error) {
	return s.Update(ctx, func(p *domain.Preferences) { p.Theme = theme })
}

// ToggleTheme switches between dark and light.
func (s *PreferenceService) ToggleTheme(ctx context.Context) (domain.Preferences, error) {
	return s.Update(ctx, func(p *domain.Preferences) { p.Theme = p.Theme.Toggle() })
}

// SetSound enables or disables the completion chime.
func (s *PreferenceService) SetSound(ctx context.Context, enabled bool) (domain.Preferences, error) {
	return s.Update(ctx, func(p *domain.Preferences) { p.SoundEnabled = enabled })
}

// SetAutoStart enables or disables starting the next mode after a completion.
func (s *PreferenceService) SetAutoStart(ctx context.Context, enabled bool) (domain.Preferences, error) {
	return s.Update(ctx, func(p *domain.Preferences) { p.AutoStart = enabled })
}

// SetNotifyPermission records the answer to the notification prompt.
func (s *PreferenceService) SetNotifyPermission(ctx context.Context, granted bool) (domain.Preferences, error) {
	return s.Update(ctx, func(p *domain.Preferences) {
		if granted {
			p.NotifyPermission = domain.PermissionGranted
		} else {
			p.NotifyPermission = domain.PermissionDenied
		}
	})
}
