// SPDX-License-Identifier: GPL-3.0-only

package igdb

// Game is a record returned by the IGDB /games endpoint, limited to the
// fields this server requests.
type Game struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	Summary           *string           `json:"summary"`
	Storyline         *string           `json:"storyline"`
	Rating            *float64          `json:"rating"`
	FirstReleaseDate  *int64            `json:"first_release_date"`
	Cover             *Image            `json:"cover"`
	Screenshots       []Image           `json:"screenshots"`
	Genres            []NamedRef        `json:"genres"`
	Platforms         []NamedRef        `json:"platforms"`
	InvolvedCompanies []InvolvedCompany `json:"involved_companies"`
}

// Image is a cover or screenshot reference. URL points at a t_thumb
// variant; larger sizes are derived by substitution.
type Image struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// NamedRef is a genre or platform reference.
type NamedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type InvolvedCompany struct {
	Company   NamedRef `json:"company"`
	Developer bool     `json:"developer"`
	Publisher bool     `json:"publisher"`
}
