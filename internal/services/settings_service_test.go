package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/pomo-cli/internal/domain"
)

type recordingApplier struct {
	calls map[domain.Mode]int
}

func (r *recordingApplier) ApplyDurationChange(m domain.Mode, seconds int) {
	if r.calls == nil {
		r.calls = make(map[domain.Mode]int)
	}
	r.calls[m] = seconds
}

func TestSettingsService_Load(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	service := NewSettingsService(store)
	ctx := context.Background()

	got, err := service.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), got)

	require.NoError(t, store.Settings().Save(ctx, domain.Settings{WorkMinutes: 500, ShortMinutes: 0, LongMinutes: -3}))
	got, err = service.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Settings{WorkMinutes: 120, ShortMinutes: 5, LongMinutes: 15}, got)
}

func TestSettingsService_Apply(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	service := NewSettingsService(store)
	ctx := context.Background()
	applier := &recordingApplier{}

	got, err := service.Apply(ctx, domain.Settings{WorkMinutes: 50, ShortMinutes: 90, LongMinutes: 20}, applier)
	require.NoError(t, err)
	assert.Equal(t, domain.Settings{WorkMinutes: 50, ShortMinutes: 60, LongMinutes: 20}, got)
	assert.Equal(t, map[domain.Mode]int{
		domain.ModeWork:  3000,
		domain.ModeShort: 3600,
		domain.ModeLong:  1200,
	}, applier.calls)

	stored, err := service.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

func TestSettingsService_Set(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	service := NewSettingsService(store)
	ctx := context.Background()

	tests := []struct {
		mode  domain.Mode
		input string
		want  int
	}{
		{domain.ModeWork, "45", 45},
		{domain.ModeWork, "0", 1},
		{domain.ModeWork, "abc", 25},
		{domain.ModeShort, "8m", 8},
		{domain.ModeLong, "61", 60},
	}

	for _, tt := range tests {
		got, err := service.Set(ctx, tt.mode, tt.input, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Minutes(tt.mode), "Set(%s, %q)", tt.mode, tt.input)
	}

	_, err := service.Set(ctx, domain.Mode("nap"), "5", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidMode)
}

func TestSettingsService_AttachUpdatesEngine(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.Settings().Save(ctx, domain.Settings{WorkMinutes: 40, ShortMinutes: 10, LongMinutes: 20}))

	engine := NewTimerEngine(newFakeClock(t0), store.Timer(), domain.DefaultModeTable())
	engine.Restore(ctx)
	defer engine.Close()

	_, err := NewSettingsService(store).Attach(ctx, engine)
	require.NoError(t, err)

	st := engine.Snapshot()
	assert.Equal(t, 2400, st.TimeLeft)
	assert.Equal(t, 2400, st.TotalTime)
	assert.Equal(t, 600, engine.Table().Seconds(domain.ModeShort))
}

func TestPreferenceService(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	service := NewPreferenceService(store)
	ctx := context.Background()

	prefs, err := service.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, prefs.Theme)

	_, err = service.SetSound(ctx, false)
	require.NoError(t, err)
	_, err = service.SetAutoStart(ctx, true)
	require.NoError(t, err)
	_, err = service.SetNotifyPermission(ctx, true)
	require.NoError(t, err)

	prefs, err = service.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Preferences{
		Theme:            domain.ThemeLight,
		SoundEnabled:     false,
		AutoStart:        true,
		NotifyPermission: domain.PermissionGranted,
	}, prefs)
}

func TestSettingsService_AttachBeforeRestore(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.Settings().Save(ctx, domain.Settings{WorkMinutes: 40, ShortMinutes: 10, LongMinutes: 20}))

	repo := &memTimerRepo{
		rec: &domain.TimerRecord{Mode: domain.ModeWork, TimeLeft: intPtr(1000), TotalTime: intPtr(2400)},
	}
	engine := NewTimerEngine(newFakeClock(t0), repo, domain.DefaultModeTable())
	defer engine.Close()
	log := &eventLog{}
	engine.Subscribe(log.record)

	_, err := NewSettingsService(store).Attach(ctx, engine)
	require.NoError(t, err)
	assert.Empty(t, repo.saves, "nothing is persisted before Restore")
	assert.Empty(t, log.events)

	engine.Restore(ctx)

	st := engine.Snapshot()
	assert.Equal(t, 1000, st.TimeLeft, "the paused countdown keeps its time")
	assert.Equal(t, 2400, st.TotalTime)
	assert.Equal(t, 1200, engine.Table().Seconds(domain.ModeLong))
}
