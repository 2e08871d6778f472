package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/pomo-cli/internal/domain"
)

type fakeNotifier struct {
	messages []string
	beeps    int
	err      error
}

func (n *fakeNotifier) Notify(title, message string) error {
	n.messages = append(n.messages, title+": "+message)
	return n.err
}

func (n *fakeNotifier) Beep() error {
	n.beeps++
	return nil
}

type fakeSound struct {
	chimes int
	err    error
	kind   domain.AmbientKind
	volume float64
}

func (s *fakeSound) Chime() error {
	s.chimes++
	return s.err
}

func (s *fakeSound) PlayAmbient(kind domain.AmbientKind) error {
	s.kind = kind
	return nil
}

func (s *fakeSound) Ambient() domain.AmbientKind { return s.kind }
func (s *fakeSound) SetVolume(v float64)         { s.volume = v }
func (s *fakeSound) Volume() float64             { return s.volume }
func (s *fakeSound) Close() error                { return nil }

func TestAlarmMessage(t *testing.T) {
	assert.Equal(t, "Focus session complete! Take a break.", AlarmMessage(domain.ModeWork, false))
	assert.Equal(t, "Break over! Time to focus. (while you were away)", AlarmMessage(domain.ModeShort, true))
}

func TestAlarmService_Fire(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults chime without notification", func(t *testing.T) {
		store, cleanup := setupTestStorage(t)
		defer cleanup()

		notifier, sound := &fakeNotifier{}, &fakeSound{}
		alarm := NewAlarmService(notifier, sound, NewPreferenceService(store))
		alarm.Fire(ctx, domain.ModeWork, false)

		assert.Equal(t, 1, sound.chimes)
		assert.Empty(t, notifier.messages)
	})

	t.Run("granted permission notifies", func(t *testing.T) {
		store, cleanup := setupTestStorage(t)
		defer cleanup()

		prefs := NewPreferenceService(store)
		_, err := prefs.SetNotifyPermission(ctx, true)
		require.NoError(t, err)

		notifier := &fakeNotifier{}
		alarm := NewAlarmService(notifier, &fakeSound{}, prefs)
		alarm.Fire(ctx, domain.ModeWork, true)

		require.Len(t, notifier.messages, 1)
		assert.Equal(t, "Pomodoro: Focus session complete! Take a break. (while you were away)", notifier.messages[0])

		alarm.SetNotificationsEnabled(false)
		alarm.Fire(ctx, domain.ModeWork, false)
		assert.Len(t, notifier.messages, 1)
	})

	t.Run("sound disabled stays silent", func(t *testing.T) {
		store, cleanup := setupTestStorage(t)
		defer cleanup()

		prefs := NewPreferenceService(store)
		_, err := prefs.SetSound(ctx, false)
		require.NoError(t, err)

		notifier, sound := &fakeNotifier{}, &fakeSound{}
		NewAlarmService(notifier, sound, prefs).Fire(ctx, domain.ModeShort, false)

		assert.Equal(t, 0, sound.chimes)
		assert.Equal(t, 0, notifier.beeps)
	})

	t.Run("audio failure falls back to bell", func(t *testing.T) {
		store, cleanup := setupTestStorage(t)
		defer cleanup()

		notifier := &fakeNotifier{err: errors.New("no display")}
		sound := &fakeSound{err: errors.New("no audio device")}
		NewAlarmService(notifier, sound, NewPreferenceService(store)).Fire(ctx, domain.ModeWork, false)

		assert.Equal(t, 1, sound.chimes)
		assert.Equal(t, 1, notifier.beeps)
	})
}

func TestAlarmService_FiresOncePerCompletion(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	clock := newFakeClock(t0)
	sound := &fakeSound{}
	alarm := NewAlarmService(&fakeNotifier{}, sound, NewPreferenceService(store))

	engine := NewTimerEngine(clock, store.Timer(), domain.DefaultModeTable())
	engine.Subscribe(alarm.Observe)
	engine.Restore(context.Background())
	defer engine.Close()

	engine.Start()
	clock.Advance(30 * time.Minute)

	assert.Equal(t, 1, sound.chimes)
}
