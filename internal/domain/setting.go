package domain

import "time"

// SettingSystemPassword holds the hash of the shared access password.
const SettingSystemPassword = "system_password"

type Setting struct {
	Key       string    `json:"key" db:"key"`
	Value     string    `json:"-" db:"value"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
