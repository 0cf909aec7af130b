package model

import "time"

// User stores Telegram user metadata.
type User struct {
	ID         uint  `gorm:"primaryKey"`
	TelegramID int64 `gorm:"uniqueIndex"`
	FirstName  string
	LastName   string
	Username   string
	// Timezone is an IANA zone name; empty means the planner default.
	Timezone  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location resolves the user's zone, falling back to def when unset or unknown.
func (u User) Location(def *time.Location) *time.Location {
	if u.Timezone != "" {
		if loc, err := time.LoadLocation(u.Timezone); err == nil {
			return loc
		}
	}
	if def == nil {
		return time.Local
	}
	return def
}
