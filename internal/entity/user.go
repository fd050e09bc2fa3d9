package entity

import (
	"strings"
	"time"
)

// User is a quiz player identified by their chat account.
type User struct {
	ID         int64     `json:"id"`
	ExternalID int64     `json:"external_id"`
	Name       string    `json:"name"`
	Points     int64     `json:"points"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate validates the user entity
func (u *User) Validate() error {
	if u.ExternalID == 0 {
		return ErrInvalidUserID
	}
	if strings.TrimSpace(u.Name) == "" {
		return ErrInvalidUserName
	}
	return nil
}

// RatingEntry is one row of the leaderboard.
type RatingEntry struct {
	ExternalID int64  `json:"external_id"`
	Name       string `json:"name"`
	Points     int64  `json:"points"`
}
