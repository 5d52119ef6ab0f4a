// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"
)

// UserGame links an account to a game in its library. Exactly one row exists
// per (user, game) pair; uninstall flips IsInstalled instead of deleting the
// row so PlayTimeMinutes and LastPlayed survive reinstalls.
type UserGame struct {
	ID              string     `gorm:"primaryKey" json:"id"`
	UserID          string     `gorm:"not null;uniqueIndex:idx_user_game" json:"user_id"`
	User            User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	GameID          string     `gorm:"not null;uniqueIndex:idx_user_game" json:"game_id"`
	Game            Game       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"game"`
	IsInstalled     bool       `gorm:"not null;default:false" json:"is_installed"`
	InstallPath     *string    `json:"install_path"`
	InstalledAt     *time.Time `json:"installed_at"`
	LastPlayed      *time.Time `json:"last_played"`
	PlayTimeMinutes int64      `gorm:"not null;default:0" json:"play_time_minutes"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (UserGame) TableName() string { return "user_games" }

func init() {
	AllModels = append(AllModels, &UserGame{})
}
