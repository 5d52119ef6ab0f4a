// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"
)

// Session is an opaque bearer credential. A session is valid iff the current
// time is before ExpiresAt; expired rows are treated as invalid lazily and
// removed by the sweep.
type Session struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"not null;uniqueIndex" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func init() {
	AllModels = append(AllModels, &Session{})
}
