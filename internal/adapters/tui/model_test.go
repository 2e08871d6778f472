package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/pomo-cli/internal/adapters/clock"
	"github.com/xvierd/pomo-cli/internal/adapters/storage"
	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/services"
)

func key(s string) tea.Msg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// press sends each key in order and returns the resulting model.
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		result, _ := m.Update(key(k))
		m = result.(Model)
	}
	return m
}

type fakeSound struct {
	ambient domain.AmbientKind
	volume  float64
	err     error
}

func (f *fakeSound) Chime() error { return nil }

func (f *fakeSound) PlayAmbient(kind domain.AmbientKind) error {
	if f.err != nil {
		return f.err
	}
	f.ambient = kind
	return nil
}

func (f *fakeSound) Ambient() domain.AmbientKind {
	if f.ambient == "" {
		return domain.AmbientNone
	}
	return f.ambient
}

func (f *fakeSound) SetVolume(v float64) { f.volume = v }
func (f *fakeSound) Volume() float64     { return f.volume }
func (f *fakeSound) Close() error        { return nil }

func newTestServices(t *testing.T) Services {
	t.Helper()
	store, err := storage.NewMemory()
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	clk := clock.New()
	engine := services.NewTimerEngine(clk, store.Timer(), domain.DefaultModeTable())
	engine.Restore(context.Background())
	t.Cleanup(engine.Close)

	return Services{
		Engine:   engine,
		Tasks:    services.NewTaskService(store),
		Metrics:  services.NewMetricsService(store, clk, nil),
		Settings: services.NewSettingsService(store),
		Prefs:    services.NewPreferenceService(store),
		Sound:    &fakeSound{volume: domain.DefaultAmbientVolume},
	}
}

// newTestModel returns a sized model with the notification prompt answered.
func newTestModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(context.Background(), newTestServices(t), nil)
	m.width = 100
	m.height = 50
	return press(t, m, "n")
}

func TestModel_AsksForNotificationsOnce(t *testing.T) {
	svc := newTestServices(t)
	m := NewModel(context.Background(), svc, nil)
	m.width, m.height = 100, 50

	if !m.askNotify {
		t.Fatal("fresh preferences should ask for notification permission")
	}
	if !strings.Contains(m.View(), "Enable desktop notifications") {
		t.Error("view should show the notification prompt")
	}

	// Other keys are swallowed until the prompt is answered.
	m = press(t, m, " ")
	if svc.Engine.Snapshot().Running {
		t.Error("space should not start the timer while the prompt is open")
	}

	m = press(t, m, "y")
	if m.askNotify {
		t.Error("prompt should close after answering")
	}
	prefs, err := svc.Prefs.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if prefs.NotifyPermission != domain.PermissionGranted {
		t.Errorf("permission = %q, want granted", prefs.NotifyPermission)
	}

	again := NewModel(context.Background(), svc, nil)
	if again.askNotify {
		t.Error("answered prompt should not be shown again")
	}
}

func TestModel_ShowsCompletionFromWhileAway(t *testing.T) {
	store, err := storage.NewMemory()
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	end := time.Now().Add(-time.Minute)
	err = store.Timer().Save(ctx, domain.TimerState{
		Mode:      domain.ModeWork,
		TimeLeft:  60,
		TotalTime: 1500,
		Running:   true,
		EndTime:   &end,
		DateKey:   domain.DateKey(time.Now()),
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	svc := newTestServices(t)
	clk := clock.New()
	svc.Engine = services.NewTimerEngine(clk, store.Timer(), domain.DefaultModeTable())
	svc.Engine.Restore(ctx)
	t.Cleanup(svc.Engine.Close)

	m := NewModel(ctx, svc, nil)
	want := services.AlarmMessage(domain.ModeWork, true)
	if m.flash != want {
		t.Errorf("flash = %q, want %q", m.flash, want)
	}
	if !strings.HasSuffix(m.flash, "(while you were away)") {
		t.Errorf("flash %q should mention the time away", m.flash)
	}

	fresh := NewModel(ctx, newTestServices(t), nil)
	if fresh.flash != "" {
		t.Errorf("fresh start flash = %q, want empty", fresh.flash)
	}
}

func TestModel_TimerKeys(t *testing.T) {
	m := newTestModel(t)
	engine := m.svc.Engine

	m = press(t, m, " ")
	if !engine.Snapshot().Running {
		t.Fatal("space should start the timer")
	}
	if !m.timer.Running {
		t.Error("model should sync the running state")
	}

	m = press(t, m, " ")
	if engine.Snapshot().Running {
		t.Error("second space should pause")
	}

	m = press(t, m, "r")
	if st := engine.Snapshot(); st.TimeLeft != st.TotalTime {
		t.Errorf("reset TimeLeft = %d, want %d", st.TimeLeft, st.TotalTime)
	}

	tests := []struct {
		key  string
		want domain.Mode
	}{
		{"2", domain.ModeShort},
		{"3", domain.ModeLong},
		{"1", domain.ModeWork},
		{"n", domain.ModeShort},
	}
	for _, tt := range tests {
		m = press(t, m, tt.key)
		if got := engine.Snapshot().Mode; got != tt.want {
			t.Errorf("after %q mode = %q, want %q", tt.key, got, tt.want)
		}
		if m.timer.Mode != tt.want {
			t.Errorf("after %q model mode = %q, want %q", tt.key, m.timer.Mode, tt.want)
		}
	}

	// A skip never counts as a session.
	if got := engine.Snapshot().SessionsCompleted; got != 0 {
		t.Errorf("SessionsCompleted = %d, want 0", got)
	}
}

func TestModel_AddTaskFlow(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, "a")
	if !m.adding {
		t.Fatal("a should open the task input")
	}

	// Shortcut letters are typed into the input, not dispatched.
	m = press(t, m, "q", "s", " ")
	if !m.adding {
		t.Fatal("typing q should not leave the input")
	}
	if m.svc.Engine.Snapshot().Running {
		t.Error("space in the input should not start the timer")
	}
	if got := m.taskInput.Value(); got != "qs " {
		t.Errorf("input = %q, want %q", got, "qs ")
	}
	if strings.Contains(m.View(), "start/pause") {
		t.Error("help should be hidden while typing")
	}

	m = press(t, m, "backspace", "backspace", "backspace", "Write report", "enter")
	if m.adding {
		t.Error("enter should close the input")
	}
	if len(m.tasks) != 1 || m.tasks[0].Text != "Write report" {
		t.Fatalf("tasks = %v, want [Write report]", m.tasks)
	}
	if !strings.Contains(m.View(), "Write report") {
		t.Error("view should list the new task")
	}
}

func TestModel_AddTaskRejectsBlank(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "a", "   ", "enter")

	if len(m.tasks) != 0 {
		t.Errorf("blank task should not be added, got %d tasks", len(m.tasks))
	}
	if m.flash == "" {
		t.Error("blank task should flash an error")
	}
}

func TestModel_AddTaskEscCancels(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "a", "draft", "esc")

	if m.adding {
		t.Error("esc should close the input")
	}
	if len(m.tasks) != 0 {
		t.Errorf("esc should not add a task, got %d", len(m.tasks))
	}
	if m.taskInput.Value() != "" {
		t.Error("esc should clear the input")
	}
}

func TestModel_TaskKeys(t *testing.T) {
	m := newTestModel(t)
	for _, text := range []string{"one", "two", "three"} {
		m = press(t, m, "a", text, "enter")
	}
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2 after adding", m.cursor)
	}

	m = press(t, m, "k", "k", "x")
	if !m.tasks[0].Done {
		t.Error("x should toggle the task under the cursor")
	}

	m = press(t, m, "J")
	if m.tasks[1].Text != "one" || m.cursor != 1 {
		t.Errorf("J should move the task down, got %q at cursor %d", m.tasks[1].Text, m.cursor)
	}

	m = press(t, m, "K")
	if m.tasks[0].Text != "one" || m.cursor != 0 {
		t.Errorf("K should move the task back up, got %q at cursor %d", m.tasks[0].Text, m.cursor)
	}

	// Moving past the top is a no-op.
	m = press(t, m, "K")
	if m.tasks[0].Text != "one" {
		t.Error("K at the top should not move")
	}

	m = press(t, m, "j", "d")
	if len(m.tasks) != 2 || m.tasks[1].Text != "three" {
		t.Errorf("d should delete the cursor task, got %v", m.tasks)
	}
	if !strings.Contains(m.flash, "two") {
		t.Errorf("flash = %q, want deleted task text", m.flash)
	}

	m = press(t, m, "j", "j", "d", "d")
	if len(m.tasks) != 0 {
		t.Errorf("tasks = %d, want 0", len(m.tasks))
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0 on an empty list", m.cursor)
	}
	m = press(t, m, "x", "d")
	if !strings.Contains(m.View(), "No tasks yet") {
		t.Error("empty list should show the placeholder")
	}
}

func TestModel_FocusMode(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "a", "deep work", "enter")

	m = press(t, m, "f")
	if m.screen != screenFocus {
		t.Fatal("f should enter focus mode")
	}
	if !m.svc.Engine.Snapshot().Running {
		t.Error("entering focus should start an idle timer")
	}
	if m.quote.Text == "" {
		t.Error("focus mode should pick a quote")
	}
	view := m.View()
	if !strings.Contains(view, "deep work") || !strings.Contains(view, m.quote.Author) {
		t.Error("focus view should show the task and the quote")
	}

	// Only pause, exit and quit work here.
	m = press(t, m, "2", "a")
	if m.timer.Mode != domain.ModeWork || m.adding {
		t.Error("focus mode should ignore other shortcuts")
	}

	m = press(t, m, " ")
	if m.svc.Engine.Snapshot().Running {
		t.Error("space should pause in focus mode")
	}

	m = press(t, m, "esc")
	if m.screen != screenTimer {
		t.Error("esc should leave focus mode")
	}
}

func TestModel_FocusDoesNotRestartRunningTimer(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, " ")
	end := m.svc.Engine.Snapshot().EndTime

	m = press(t, m, "f")
	got := m.svc.Engine.Snapshot()
	if !got.Running {
		t.Fatal("timer should keep running")
	}
	if got.EndTime == nil || end == nil || !got.EndTime.Equal(*end) {
		t.Error("entering focus should keep the running end time")
	}
	m = press(t, m, "f")
	if m.screen != screenTimer {
		t.Error("f should also leave focus mode")
	}
}

func TestModel_ToggleTheme(t *testing.T) {
	m := newTestModel(t)
	if m.prefs.Theme != domain.ThemeDark {
		t.Fatalf("default theme = %q, want dark", m.prefs.Theme)
	}

	m = press(t, m, "t")
	if m.prefs.Theme != domain.ThemeLight {
		t.Errorf("theme = %q, want light", m.prefs.Theme)
	}
	if m.styles.palette != m.theme.Light {
		t.Error("styles should switch to the light palette")
	}

	prefs, err := m.svc.Prefs.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if prefs.Theme != domain.ThemeLight {
		t.Error("theme should be persisted")
	}
}

func TestModel_SettingsSave(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, "o")
	if m.screen != screenSettings {
		t.Fatal("o should open settings")
	}
	if got := m.form.value(fieldWork); got != "25" {
		t.Errorf("work field = %q, want 25", got)
	}
	if got := m.form.value(fieldGoal); got != "600" {
		t.Errorf("goal field = %q, want 600", got)
	}

	// Letters go to the field, not to the shortcuts.
	m = press(t, m, "backspace", "backspace", "30", "tab", "tab", "tab", "backspace", "backspace", "backspace", "900", "enter")
	if m.screen != screenTimer {
		t.Error("enter should close settings")
	}
	if m.flash != "Settings saved" {
		t.Errorf("flash = %q, want Settings saved", m.flash)
	}

	ctx := context.Background()
	settings, err := m.svc.Settings.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if settings.WorkMinutes != 30 || settings.ShortMinutes != 5 || settings.LongMinutes != 15 {
		t.Errorf("settings = %+v, want 30/5/15", settings)
	}
	if st := m.svc.Engine.Snapshot(); st.TotalTime != 1800 || st.TimeLeft != 1800 {
		t.Errorf("idle work timer = %d/%d, want 1800/1800", st.TimeLeft, st.TotalTime)
	}
	goal, err := m.svc.Metrics.WeeklyGoal(ctx)
	if err != nil {
		t.Fatalf("WeeklyGoal() error = %v", err)
	}
	if goal != 900 {
		t.Errorf("goal = %d, want 900", goal)
	}
}

func TestModel_SettingsEscDiscards(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "o", "backspace", "backspace", "45", "esc")

	if m.screen != screenTimer {
		t.Error("esc should close settings")
	}
	settings, err := m.svc.Settings.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if settings.WorkMinutes != domain.DefaultWorkMinutes {
		t.Errorf("WorkMinutes = %d, want unchanged default", settings.WorkMinutes)
	}
}

func TestModel_MetricsScreen(t *testing.T) {
	m := newTestModel(t)
	if err := m.svc.Metrics.RecordSession(context.Background(), 25); err != nil {
		t.Fatalf("RecordSession() error = %v", err)
	}

	m = press(t, m, "m")
	if m.screen != screenMetrics {
		t.Fatal("m should open metrics")
	}
	view := m.View()
	for _, want := range []string{"Focus Metrics", "25m", "Weekly goal"} {
		if !strings.Contains(view, want) {
			t.Errorf("metrics view missing %q", want)
		}
	}

	m = press(t, m, "m")
	if m.screen != screenTimer {
		t.Error("m again should go back")
	}
}

func TestModel_SoundKeys(t *testing.T) {
	m := newTestModel(t)
	sound := m.svc.Sound.(*fakeSound)

	m = press(t, m, "g")
	if sound.ambient != domain.AmbientWhite {
		t.Errorf("ambient = %q, want white", sound.ambient)
	}
	if !strings.Contains(m.View(), "30%") {
		t.Error("view should show the ambient volume")
	}

	m = press(t, m, "+", "+")
	if sound.volume != 0.5 {
		t.Errorf("volume = %v, want 0.5", sound.volume)
	}
	m = press(t, m, "-", "-", "-", "-", "-", "-")
	if sound.volume != 0 {
		t.Errorf("volume = %v, want clamped to 0", sound.volume)
	}

	sound.err = errors.New("no device")
	m = press(t, m, "g")
	if m.flash != "Audio unavailable" {
		t.Errorf("flash = %q, want Audio unavailable", m.flash)
	}
}

func TestModel_EventMessages(t *testing.T) {
	m := newTestModel(t)
	st := m.svc.Engine.Snapshot()
	st.Mode = domain.ModeShort
	st.SessionsToday = 1

	result, _ := m.Update(eventMsg(domain.TimerEvent{
		Kind:     domain.EventCompleted,
		State:    st,
		Finished: domain.ModeWork,
		Next:     domain.ModeShort,
		Late:     true,
	}))
	m = result.(Model)

	if m.timer.Mode != domain.ModeShort {
		t.Errorf("mode = %q, want short", m.timer.Mode)
	}
	if !strings.Contains(m.flash, "while you were away") {
		t.Errorf("flash = %q, want late completion message", m.flash)
	}
	if !strings.Contains(m.View(), "1 session completed today") {
		t.Error("view should count today's session")
	}
}

func TestModel_ViewBeforeResize(t *testing.T) {
	m := NewModel(context.Background(), newTestServices(t), nil)
	if got := m.View(); got != "Loading..." {
		t.Errorf("View() = %q, want Loading...", got)
	}

	result, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = result.(Model)
	if m.width != 120 || m.height != 40 {
		t.Errorf("size = %dx%d, want 120x40", m.width, m.height)
	}
}

func TestModel_QuitKeys(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m := newTestModel(t)
			var msg tea.Msg = key(k)
			if k == "ctrl+c" {
				msg = tea.KeyMsg{Type: tea.KeyCtrlC}
			}
			_, cmd := m.Update(msg)
			if cmd == nil {
				t.Fatal("quit key should return a command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("quit key should return tea.Quit")
			}
		})
	}
}

func TestSessionDots(t *testing.T) {
	tests := []struct {
		filled, interval int
		want             string
	}{
		{0, 4, "○○○○"},
		{2, 4, "●●○○"},
		{4, 4, "●●●●"},
		{5, 4, "●●●●●"},
	}
	for _, tt := range tests {
		if got := sessionDots(tt.filled, tt.interval); got != tt.want {
			t.Errorf("sessionDots(%d, %d) = %q, want %q", tt.filled, tt.interval, got, tt.want)
		}
	}
}

func TestRenderBigClock_NarrowFallsBack(t *testing.T) {
	if got := renderBigClock("25:00", "#FFFFFF", 30); strings.Count(got, "\n") != 0 {
		t.Errorf("narrow clock should be a single line, got %q", got)
	}
	if got := renderBigClock("25:00", "#FFFFFF", 100); strings.Count(got, "\n") == 0 {
		t.Error("wide clock should span several lines")
	}
}

func TestPicker_Keys(t *testing.T) {
	items := ModeItems(domain.DefaultModeTable())
	m := newPickerModel("Mode", items, "", 0, nil, domain.ThemeDark)

	result, _ := m.Update(key("j"))
	m = result.(pickerModel)
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}

	result, cmd := m.Update(key("3"))
	m = result.(pickerModel)
	if m.cursor != 2 || cmd == nil {
		t.Errorf("3 should pick the third item, cursor = %d", m.cursor)
	}

	result, _ = m.Update(key("esc"))
	if !result.(pickerModel).aborted {
		t.Error("esc should abort")
	}

	if !strings.Contains(m.View(), "05:00") {
		t.Error("picker should show mode durations")
	}
}

func TestRenderStatus(t *testing.T) {
	table := domain.DefaultModeTable()
	cur := &domain.CurrentState{
		Timer:        domain.DefaultTimerState(table),
		Interval:     table.Interval(),
		TodayMinutes: 50,
		ActiveTask:   &domain.Task{Text: "Ship it"},
		PendingTasks: 2,
	}
	out := RenderStatus(cur, nil, domain.ThemeDark, 80)
	for _, want := range []string{"25:00", "50m", "Ship it", "2 open"} {
		if !strings.Contains(out, want) {
			t.Errorf("status missing %q:\n%s", want, out)
		}
	}
}
