package storage

import (
	"context"
	"database/sql"

	"github.com/xvierd/pomo-cli/internal/domain"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// preferenceRepository implements ports.PreferenceRepository, one kv key per flag.
type preferenceRepository struct {
	docs *documentStore
}

func newPreferenceRepository(docs *documentStore) ports.PreferenceRepository {
	return &preferenceRepository{docs: docs}
}

// Load returns the stored preferences, using defaults for absent or invalid keys.
func (r *preferenceRepository) Load(ctx context.Context) (domain.Preferences, error) {
	prefs := domain.DefaultPreferences()

	raw, ok, err := r.docs.get(ctx, keyTheme)
	if err != nil {
		return prefs, err
	}
	if s, valid := stringValue(raw); ok && valid {
		if theme, err := domain.ParseTheme(s); err == nil {
			prefs.Theme = theme
		}
	}

	raw, ok, err = r.docs.get(ctx, keySoundEnabled)
	if err != nil {
		return prefs, err
	}
	if b, valid := boolValue(raw); ok && valid {
		prefs.SoundEnabled = b
	}

	raw, ok, err = r.docs.get(ctx, keyAutoStart)
	if err != nil {
		return prefs, err
	}
	if b, valid := boolValue(raw); ok && valid {
		prefs.AutoStart = b
	}

	raw, ok, err = r.docs.get(ctx, keyNotifyPermission)
	if err != nil {
		return prefs, err
	}
	if s, valid := stringValue(raw); ok && valid {
		switch p := domain.NotifyPermission(s); p {
		case domain.PermissionGranted, domain.PermissionDenied, domain.PermissionDefault:
			prefs.NotifyPermission = p
		}
	}

	return prefs, nil
}

// Save writes every flag in one transaction.
func (r *preferenceRepository) Save(ctx context.Context, p domain.Preferences) error {
	return r.docs.withTx(ctx, func(tx *sql.Tx) error {
		if err := r.docs.put(ctx, tx, keyTheme, string(p.Theme)); err != nil {
			return err
		}
		if err := r.docs.put(ctx, tx, keySoundEnabled, p.SoundEnabled); err != nil {
			return err
		}
		if err := r.docs.put(ctx, tx, keyAutoStart, p.AutoStart); err != nil {
			return err
		}
		return r.docs.put(ctx, tx, keyNotifyPermission, string(p.NotifyPermission))
	})
}
