package models

import "time"

// SettingAllowRegistration controls whether new accounts may sign up.
const SettingAllowRegistration = "ALLOW_REGISTRATION"

// Setting is a site-wide key/value configuration entry managed by admins.
type Setting struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Key         string    `gorm:"uniqueIndex;not null" json:"key"`
	Value       string    `gorm:"not null" json:"value"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
