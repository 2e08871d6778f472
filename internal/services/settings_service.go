package services

import (
	"context"
	"fmt"

	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// DurationApplier receives per-mode duration changes.
type DurationApplier interface {
	ApplyDurationChange(m domain.Mode, seconds int)
}

// SettingsService handles the per-mode durations.
type SettingsService struct {
	repo ports.SettingsRepository
}

// NewSettingsService creates a new settings service.
func NewSettingsService(storage ports.Storage) *SettingsService {
	return &SettingsService{repo: storage.Settings()}
}

// Load returns the stored settings, normalized. Missing values use the defaults.
func (s *SettingsService) Load(ctx context.Context) (domain.Settings, error) {
	stored, err := s.repo.Load(ctx)
	if err != nil {
		return domain.DefaultSettings(), fmt.Errorf("failed to load settings: %w", err)
	}
	return stored.Normalize(), nil
}

// Apply clamps and stores the settings, then pushes each duration to the
// engine. engine may be nil.
func (s *SettingsService) Apply(ctx context.Context, settings domain.Settings, engine DurationApplier) (domain.Settings, error) {
	settings = settings.Normalize()
	if err := s.repo.Save(ctx, settings); err != nil {
		return settings, fmt.Errorf("failed to save settings: %w", err)
	}
	if engine != nil {
		applyDurations(settings, engine)
	}
	return settings, nil
}

// Set changes one mode's minutes from user input. Input without a leading
// integer falls back to that mode's default.
func (s *SettingsService) Set(ctx context.Context, m domain.Mode, input string, engine DurationApplier) (domain.Settings, error) {
	if !m.Valid() {
		return domain.Settings{}, fmt.Errorf("%w %q", domain.ErrInvalidMode, m)
	}
	current, err := s.Load(ctx)
	if err != nil {
		return current, err
	}

	minutes, ok := leadingInt(input)
	if !ok {
		minutes = domain.DefaultSettings().Minutes(m)
	}
	switch m {
	case domain.ModeWork:
		current.WorkMinutes = minutes
	case domain.ModeShort:
		current.ShortMinutes = minutes
	case domain.ModeLong:
		current.LongMinutes = minutes
	}
	return s.Apply(ctx, clampSettings(current), engine)
}

// Attach loads the settings and applies them to the engine. Call it
// before the engine's Restore so a late completion uses these durations.
func (s *SettingsService) Attach(ctx context.Context, engine DurationApplier) (domain.Settings, error) {
	settings, err := s.Load(ctx)
	applyDurations(settings, engine)
	return settings, err
}

func applyDurations(settings domain.Settings, engine DurationApplier) {
	for _, m := range domain.Modes {
		engine.ApplyDurationChange(m, settings.Minutes(m)*60)
	}
}

// clampSettings bounds explicit values without replacing non-positive ones
// by their defaults.
func clampSettings(s domain.Settings) domain.Settings {
	bound := func(v, hi int) int {
		return min(max(v, domain.MinMinutes), hi)
	}
	return domain.Settings{
		WorkMinutes:  bound(s.WorkMinutes, domain.MaxWorkMinutes),
		ShortMinutes: bound(s.ShortMinutes, domain.MaxBreakMinutes),
		LongMinutes:  bound(s.LongMinutes, domain.MaxBreakMinutes),
	}
}
