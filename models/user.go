// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"
)

var AllModels []any

type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"not null;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Email        *string   `gorm:"default:null" json:"email"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func init() {
	AllModels = append(AllModels, &User{})
}
