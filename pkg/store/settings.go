package store

import (
	"database/sql"
	stderrors "errors"

	"github.com/arthur-debert/sprout/pkg/errors"
)

// Settings returns every stored key/value pair.
func (s *Store) Settings() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStore, "failed to list settings")
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, errors.Wrap(err, errors.ErrStore, "failed to read settings row")
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrStore, "failed to list settings")
	}
	return settings, nil
}

// Setting returns the value for key, with ok false when unset.
func (s *Store) Setting(key string) (value string, ok bool, err error) {
	err = s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if stderrors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrStore, "failed to read setting %s", key)
	}
	return value, true, nil
}

// SetSetting stores value under key, replacing any existing value.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return errors.Wrapf(err, errors.ErrStore, "failed to set setting %s", key)
	}
	return nil
}

// DeleteSetting removes key and reports whether it existed.
func (s *Store) DeleteSetting(key string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrStore, "failed to delete setting %s", key)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrStore, "failed to delete setting %s", key)
	}
	return n > 0, nil
}
