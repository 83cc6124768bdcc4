package db

import (
	"encoding/json"

	"wfm-flipper/internal/config"
)

const configKey = "settings"

// LoadConfig reads persisted settings from SQLite over the given base config.
// With nothing persisted yet, the base comes back unchanged.
func (d *DB) LoadConfig(base *config.Config) *config.Config {
	if base == nil {
		base = config.Default()
	}
	var raw string
	err := d.sql.QueryRow("SELECT value FROM config WHERE key = ?", configKey).Scan(&raw)
	if err != nil {
		return base
	}

	cfg := *base
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return base
	}
	return &cfg
}

// SaveConfig persists the settings to SQLite.
func (d *DB) SaveConfig(cfg *config.Config) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = d.sql.Exec(
		`INSERT INTO config (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		configKey, string(raw),
	)
	return err
}
