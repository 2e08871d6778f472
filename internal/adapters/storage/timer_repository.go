package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// timerDocument is the stored form of the timer snapshot.
type timerDocument struct {
	Mode              string `json:"mode"`
	TimeLeft          int    `json:"timeLeft"`
	TotalTime         int    `json:"totalTime"`
	Running           bool   `json:"running"`
	EndTime           *int64 `json:"endTime"` // unix milliseconds
	SessionsCompleted int    `json:"sessionsCompleted"`
}

// dailyDocument is the stored form of the daily counter.
type dailyDocument struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// timerRepository implements ports.TimerRepository on the kv table.
type timerRepository struct {
	docs *documentStore
}

// newTimerRepository creates a new timer repository.
func newTimerRepository(docs *documentStore) ports.TimerRepository {
	return &timerRepository{docs: docs}
}

// Load retrieves the snapshot, decoding each field on its own so a single
// bad field does not discard the rest.
func (r *timerRepository) Load(ctx context.Context) (*domain.TimerRecord, error) {
	raw, ok, err := r.docs.get(ctx, keyTimerState)
	if err != nil || !ok {
		return nil, err
	}

	fields := object(raw)
	if fields == nil {
		return nil, nil
	}
	mode, ok := stringValue(fields["mode"])
	if !ok || !domain.Mode(mode).Valid() {
		return nil, nil
	}

	rec := &domain.TimerRecord{Mode: domain.Mode(mode)}
	if v, ok := finiteInt(fields["timeLeft"]); ok {
		rec.TimeLeft = &v
	}
	if v, ok := finiteInt(fields["totalTime"]); ok {
		rec.TotalTime = &v
	}
	if v, ok := finiteInt(fields["sessionsCompleted"]); ok {
		rec.SessionsCompleted = &v
	}
	if v, ok := boolValue(fields["running"]); ok {
		rec.Running = v
	}
	if ms, ok := finiteInt(fields["endTime"]); ok {
		end := time.UnixMilli(int64(ms))
		rec.EndTime = &end
	}
	return rec, nil
}

// LoadDaily retrieves the daily counter. Unreadable data yields a zero counter.
func (r *timerRepository) LoadDaily(ctx context.Context) (domain.DailyCounter, error) {
	raw, ok, err := r.docs.get(ctx, keyDaily)
	if err != nil || !ok {
		return domain.DailyCounter{}, err
	}

	fields := object(raw)
	date, ok := stringValue(fields["date"])
	if !ok {
		return domain.DailyCounter{}, nil
	}
	count, _ := finiteInt(fields["count"])
	return domain.DailyCounter{Date: date, Count: max(0, count)}, nil
}

// Save writes the snapshot and the daily counter in one transaction.
func (r *timerRepository) Save(ctx context.Context, state domain.TimerState) error {
	doc := timerDocument{
		Mode:              string(state.Mode),
		TimeLeft:          state.TimeLeft,
		TotalTime:         state.TotalTime,
		Running:           state.Running,
		SessionsCompleted: state.SessionsCompleted,
	}
	if state.Running && state.EndTime != nil {
		ms := state.EndTime.UnixMilli()
		doc.EndTime = &ms
	}
	daily := dailyDocument{Date: state.DateKey, Count: state.SessionsToday}

	return r.docs.withTx(ctx, func(tx *sql.Tx) error {
		if err := r.docs.put(ctx, tx, keyTimerState, doc); err != nil {
			return err
		}
		return r.docs.put(ctx, tx, keyDaily, daily)
	})
}
