package models

import "time"

// User is an account able to log in and own food log rows.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Username  string    `gorm:"uniqueIndex;size:255;not null" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt hash, never exposed in JSON
}
