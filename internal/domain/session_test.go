package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var today = time.Date(2026, 3, 12, 15, 30, 0, 0, time.Local) // a Thursday

func day(offset int) string {
	return ShiftDateKey(today, offset)
}

func TestSessionLog_Streaks(t *testing.T) {
	tests := []struct {
		name        string
		dates       []string
		wantCurrent int
		wantBest    int
	}{
		{"empty", nil, 0, 0},
		{"three consecutive ending today", []string{day(-2), day(-1), day(0)}, 3, 3},
		{"gap without today", []string{day(-3), day(-1)}, 0, 1},
		{"gap with today", []string{day(-3), day(-1), day(0)}, 2, 2},
		{"best in the past", []string{day(-10), day(-9), day(-8), day(-7), day(0)}, 1, 4},
		{"duplicate dates count once", []string{day(-1), day(-1), day(0), day(0)}, 2, 2},
		{"yesterday only", []string{day(-1)}, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var log SessionLog
			for _, d := range tt.dates {
				log = append(log, SessionLogEntry{Date: d, Minutes: 25})
			}
			got := log.Streaks(today)
			assert.Equal(t, tt.wantCurrent, got.Current, "current streak")
			assert.Equal(t, tt.wantBest, got.Best, "best streak")
		})
	}
}

func TestSessionLog_StreakAcrossMonthBoundary(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.Local)
	log := SessionLog{
		{Date: "2026-02-27", Minutes: 25},
		{Date: "2026-02-28", Minutes: 25},
		{Date: "2026-03-01", Minutes: 25},
	}
	assert.Equal(t, Streaks{Current: 3, Best: 3}, log.Streaks(now))
}

func TestSessionLog_Totals(t *testing.T) {
	log := SessionLog{
		{Date: day(0), Minutes: 25},
		{Date: day(0), Minutes: 50},
		{Date: day(-3), Minutes: 25},
		{Date: day(-6), Minutes: 10},
		{Date: day(-7), Minutes: 40},
		{Date: day(-40), Minutes: 100},
	}

	assert.Equal(t, 75, log.TotalMinutes(day(0)))
	assert.Equal(t, 110, log.MinutesLastNDays(today, 7))
	assert.Equal(t, 150, log.MinutesLastNDays(today, 30))
	assert.Equal(t, 250, log.AllTime())
	assert.Equal(t, 3, log.DaysActive(today, 7))
}

func TestSessionLog_Summary(t *testing.T) {
	log := SessionLog{
		{Date: day(0), Minutes: 100},
		{Date: day(-1), Minutes: 200},
	}

	s := log.Summary(today, 600)
	assert.Equal(t, 100, s.Today)
	assert.Equal(t, 300, s.Week)
	assert.Equal(t, 2, s.Sessions)
	assert.Equal(t, 50, s.GoalPercent)
	assert.Equal(t, 300, s.GoalRemaining)
	assert.Equal(t, 2, s.DaysActiveWeek)

	reached := log.Summary(today, 60)
	assert.Equal(t, 100, reached.GoalPercent)
	assert.Equal(t, 0, reached.GoalRemaining)
}

func TestSessionLog_Chart(t *testing.T) {
	log := SessionLog{{Date: day(0), Minutes: 25}, {Date: day(-6), Minutes: 50}}

	chart := log.Chart(today, 7)
	if assert.Len(t, chart, 7) {
		assert.Equal(t, day(-6), chart[0].Date)
		assert.Equal(t, 50, chart[0].Minutes)
		assert.Equal(t, "Fri", chart[0].Label)
		assert.True(t, chart[6].IsToday)
		assert.Equal(t, "Thu", chart[6].Label)
		assert.Equal(t, 25, chart[6].Minutes)
	}
}

func TestClampWeeklyGoal(t *testing.T) {
	assert.Equal(t, 60, ClampWeeklyGoal(10))
	assert.Equal(t, 600, ClampWeeklyGoal(600))
	assert.Equal(t, 10080, ClampWeeklyGoal(20000))
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "0m", FormatMinutes(0))
	assert.Equal(t, "25m", FormatMinutes(25))
	assert.Equal(t, "1h 0m", FormatMinutes(60))
	assert.Equal(t, "2h 5m", FormatMinutes(125))
}

func TestSettings_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Settings
		want Settings
	}{
		{"defaults", DefaultSettings(), Settings{25, 5, 15}},
		{"zero values fall back", Settings{}, Settings{25, 5, 15}},
		{"negative values fall back", Settings{-4, -1, -9}, Settings{25, 5, 15}},
		{"clamped high", Settings{500, 90, 61}, Settings{120, 60, 60}},
		{"in range kept", Settings{50, 10, 30}, Settings{50, 10, 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestSettings_ModeTable(t *testing.T) {
	table := Settings{50, 10, 20}.ModeTable(4)
	assert.Equal(t, 50*time.Minute, table.Work)
	assert.Equal(t, 600, table.Seconds(ModeShort))
	assert.Equal(t, 20*time.Minute, table.Duration(ModeLong))
}

func TestAmbientKind_Next(t *testing.T) {
	assert.Equal(t, AmbientWhite, AmbientNone.Next())
	assert.Equal(t, AmbientBrown, AmbientWhite.Next())
	assert.Equal(t, AmbientRain, AmbientBrown.Next())
	assert.Equal(t, AmbientNone, AmbientRain.Next())
}

func TestTheme_Toggle(t *testing.T) {
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
}

func TestQuotePicker_NeverRepeats(t *testing.T) {
	p := NewQuotePicker()
	prev := p.Next()
	for i := 0; i < 200; i++ {
		q := p.Next()
		if q == prev {
			t.Fatalf("quote repeated at draw %d: %q", i, q.Text)
		}
		prev = q
	}
}

func TestQuotePicker_RetriesOnRepeat(t *testing.T) {
	draws := []int{3, 3, 3, 7}
	p := &QuotePicker{quotes: Quotes, last: -1, intn: func(int) int {
		v := draws[0]
		draws = draws[1:]
		return v
	}}
	assert.Equal(t, Quotes[3], p.Next())
	assert.Equal(t, Quotes[7], p.Next())
}
