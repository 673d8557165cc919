package store

import "database/sql"

// StateActivePlan is the app_state key holding the active plan's ID
const StateActivePlan = "active_plan_id"

// GetState retrieves an app state value by key
// Returns empty string if key doesn't exist
func (db *DB) GetState(key string) (string, error) {
	var value string
	err := db.QueryRow(`
		SELECT value FROM app_state WHERE key = ?
	`, key).Scan(&value)

	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetState sets an app state value
func (db *DB) SetState(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO app_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}
