// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Game is a catalog entry, optionally linked to an IGDB record via IgdbID.
// IsAvailable gates visibility in the store catalog view.
type Game struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	IgdbID      *int64     `gorm:"index" json:"igdb_id"`
	Name        string     `gorm:"not null" json:"name"`
	Summary     *string    `gorm:"type:text" json:"summary"`
	Storyline   *string    `gorm:"type:text" json:"storyline"`
	Rating      *float64   `json:"rating"`
	ReleaseDate *time.Time `json:"release_date"`
	CoverURL    *string    `json:"cover_url"`
	// Screenshots, Genres and Platforms are stored as JSON arrays of
	// strings. Use the accessors below; the encoded form stays inside the
	// model layer.
	Screenshots datatypes.JSON `gorm:"type:json" json:"screenshots"`
	Genres      datatypes.JSON `gorm:"type:json" json:"genres"`
	Platforms   datatypes.JSON `gorm:"type:json" json:"platforms"`
	Developer   *string        `json:"developer"`
	Publisher   *string        `json:"publisher"`
	FilePath    *string        `json:"file_path"`
	FileSize    *int64         `json:"file_size"`
	IsAvailable bool           `gorm:"not null;default:false" json:"is_available"`
	AddedBy     *string        `json:"added_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (g *Game) GetScreenshots() []string { return decodeStringList(g.Screenshots) }
func (g *Game) GetGenres() []string      { return decodeStringList(g.Genres) }
func (g *Game) GetPlatforms() []string   { return decodeStringList(g.Platforms) }

func (g *Game) SetScreenshots(urls []string) { g.Screenshots = encodeStringList(urls) }
func (g *Game) SetGenres(names []string)     { g.Genres = encodeStringList(names) }
func (g *Game) SetPlatforms(names []string)  { g.Platforms = encodeStringList(names) }

func decodeStringList(raw datatypes.JSON) []string {
	var arr []string
	if len(raw) == 0 {
		return arr
	}
	_ = json.Unmarshal(raw, &arr)
	return arr
}

func encodeStringList(values []string) datatypes.JSON {
	b, _ := json.Marshal(values)
	return b
}

func init() {
	AllModels = append(AllModels, &Game{})
}
