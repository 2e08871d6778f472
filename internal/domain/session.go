package domain

import (
	"fmt"
	"sort"
	"time"
)

// Weekly goal bounds, in minutes.
const (
	MinWeeklyGoal     = 60
	MaxWeeklyGoal     = 10080
	DefaultWeeklyGoal = 600
)

// SessionLogEntry records one completed focus session.
type SessionLogEntry struct {
	Date    string // YYYY-MM-DD, local
	Minutes int
	Branch  string // git branch at completion, optional
}

// Valid reports whether the entry carries a date and a positive duration.
func (e SessionLogEntry) Valid() bool {
	return e.Date != "" && e.Minutes > 0
}

// SessionLog is the append-only focus history.
type SessionLog []SessionLogEntry

// Streaks holds the current and best run of consecutive active days.
type Streaks struct {
	Current int
	Best    int
}

// ChartDay is one column of the daily focus chart.
type ChartDay struct {
	Date    string
	Label   string
	Minutes int
	IsToday bool
}

// MetricsSummary aggregates the focus history as shown in the metrics pane.
type MetricsSummary struct {
	Today          int
	Week           int
	Month          int
	AllTime        int
	Sessions       int
	Streaks        Streaks
	DaysActiveWeek int
	WeeklyGoal     int
	GoalPercent    int
	GoalRemaining  int
}

// ClampWeeklyGoal bounds a goal to [MinWeeklyGoal, MaxWeeklyGoal].
func ClampWeeklyGoal(minutes int) int {
	return clamp(minutes, MinWeeklyGoal, MaxWeeklyGoal)
}

// TotalMinutes sums the minutes logged on a date.
func (l SessionLog) TotalMinutes(date string) int {
	total := 0
	for _, e := range l {
		if e.Date == date {
			total += e.Minutes
		}
	}
	return total
}

// MinutesLastNDays sums the minutes of the last n calendar days, today included.
func (l SessionLog) MinutesLastNDays(now time.Time, n int) int {
	keys := lastNDays(now, n)
	total := 0
	for _, e := range l {
		if keys[e.Date] {
			total += e.Minutes
		}
	}
	return total
}

// DaysActive counts the days among the last n with at least one logged minute.
func (l SessionLog) DaysActive(now time.Time, n int) int {
	active := l.activeDates()
	count := 0
	for key := range lastNDays(now, n) {
		if active[key] {
			count++
		}
	}
	return count
}

// AllTime sums every logged minute.
func (l SessionLog) AllTime() int {
	total := 0
	for _, e := range l {
		total += e.Minutes
	}
	return total
}

// Streaks computes the current and best streaks.
// The current streak counts back from today and is zero when today has no activity.
func (l SessionLog) Streaks(now time.Time) Streaks {
	active := l.activeDates()

	var s Streaks
	if active[DateKey(now)] {
		for i := 0; active[ShiftDateKey(now, -i)]; i++ {
			s.Current++
		}
	}

	dates := make([]string, 0, len(active))
	for key := range active {
		dates = append(dates, key)
	}
	sort.Strings(dates)

	run := 0
	var prev time.Time
	for i, key := range dates {
		day, err := ParseDateKey(key)
		if err != nil {
			continue
		}
		if i > 0 && ShiftDateKey(prev, 1) == key {
			run++
		} else {
			run = 1
		}
		if run > s.Best {
			s.Best = run
		}
		prev = day
	}
	return s
}

// Chart returns one column per day for the last n days, oldest first.
func (l SessionLog) Chart(now time.Time, n int) []ChartDay {
	days := make([]ChartDay, 0, n)
	for i := n - 1; i >= 0; i-- {
		key := ShiftDateKey(now, -i)
		label := key
		if t, err := ParseDateKey(key); err == nil {
			label = t.Weekday().String()[:3]
		}
		days = append(days, ChartDay{
			Date:    key,
			Label:   label,
			Minutes: l.TotalMinutes(key),
			IsToday: i == 0,
		})
	}
	return days
}

// Summary computes the metrics pane figures against a weekly goal.
func (l SessionLog) Summary(now time.Time, weeklyGoal int) MetricsSummary {
	goal := ClampWeeklyGoal(weeklyGoal)
	week := l.MinutesLastNDays(now, 7)

	pct := 0
	if goal > 0 {
		pct = clamp(int(float64(week)/float64(goal)*100+0.5), 0, 100)
	}
	remaining := goal - week
	if remaining < 0 {
		remaining = 0
	}

	return MetricsSummary{
		Today:          l.TotalMinutes(DateKey(now)),
		Week:           week,
		Month:          l.MinutesLastNDays(now, 30),
		AllTime:        l.AllTime(),
		Sessions:       len(l),
		Streaks:        l.Streaks(now),
		DaysActiveWeek: l.DaysActive(now, 7),
		WeeklyGoal:     goal,
		GoalPercent:    pct,
		GoalRemaining:  remaining,
	}
}

func (l SessionLog) activeDates() map[string]bool {
	active := make(map[string]bool, len(l))
	for _, e := range l {
		if e.Minutes > 0 {
			active[e.Date] = true
		}
	}
	return active
}

func lastNDays(now time.Time, n int) map[string]bool {
	keys := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		keys[ShiftDateKey(now, -i)] = true
	}
	return keys
}

// FormatMinutes renders minutes as "Xh Ym", or "Ym" below one hour.
func FormatMinutes(mins int) string {
	h := mins / 60
	m := mins % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
