package storage

import (
	"context"

	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

type settingsDocument struct {
	Work  int `json:"work"`
	Short int `json:"short"`
	Long  int `json:"long"`
}

// settingsRepository implements ports.SettingsRepository on the kv table.
type settingsRepository struct {
	docs *documentStore
}

func newSettingsRepository(docs *documentStore) ports.SettingsRepository {
	return &settingsRepository{docs: docs}
}

// Load returns the stored minutes. Fields that are missing or unreadable are zero.
func (r *settingsRepository) Load(ctx context.Context) (domain.Settings, error) {
	raw, ok, err := r.docs.get(ctx, keySettings)
	if err != nil || !ok {
		return domain.Settings{}, err
	}

	fields := object(raw)
	var s domain.Settings
	s.WorkMinutes, _ = looseInt(fields["work"])
	s.ShortMinutes, _ = looseInt(fields["short"])
	s.LongMinutes, _ = looseInt(fields["long"])
	return s, nil
}

// Save writes the settings.
func (r *settingsRepository) Save(ctx context.Context, s domain.Settings) error {
	return r.docs.put(ctx, r.docs.db, keySettings, settingsDocument{
		Work:  s.WorkMinutes,
		Short: s.ShortMinutes,
		Long:  s.LongMinutes,
	})
}
