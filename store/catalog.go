// SPDX-License-Identifier: GPL-3.0-only

// Package store holds the catalog and library data-access layers. Store
// failures are logged here and coerced to errs.ErrInternal; callers never
// see driver-level detail.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"game-library-server/commons"
	"game-library-server/errs"
	"game-library-server/igdb"
	"game-library-server/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultPerPage = 20

type CatalogStore struct {
	db *gorm.DB
}

func NewCatalogStore(conn *gorm.DB) *CatalogStore {
	return &CatalogStore{db: conn}
}

type CreateGameParams struct {
	Name     string
	IgdbID   *int64
	FilePath *string
	AddedBy  *string
}

type ListGamesParams struct {
	Page          int
	PerPage       int
	AvailableOnly bool
}

// UpdateGameParams carries partial updates; nil fields are left untouched.
type UpdateGameParams struct {
	Name        *string
	FilePath    *string
	FileSize    *int64
	IsAvailable *bool
}

// CreateGame adds a catalog entry. New entries default to the availability
// set by NEW_GAMES_AVAILABLE (false unless configured otherwise).
func (s *CatalogStore) CreateGame(ctx context.Context, p CreateGameParams) (*models.Game, error) {
	game := models.Game{
		ID:          uuid.NewString(),
		IgdbID:      p.IgdbID,
		Name:        p.Name,
		FilePath:    p.FilePath,
		AddedBy:     p.AddedBy,
		IsAvailable: commons.GetEnv("NEW_GAMES_AVAILABLE", "false") == "true",
	}
	if err := s.db.WithContext(ctx).Create(&game).Error; err != nil {
		commons.Logger.Errorf("Failed to create game: %v", err)
		return nil, errs.ErrInternal
	}
	return &game, nil
}

func (s *CatalogStore) GetGame(ctx context.Context, id string) (*models.Game, error) {
	var game models.Game
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		commons.Logger.Errorf("Failed to get game: %v", err)
		return nil, errs.ErrInternal
	}
	return &game, nil
}

// ListGames returns one page of games ordered newest first, plus the total
// count under the same filter. Page numbering starts at 1; out-of-range
// page/per_page values are clamped.
func (s *CatalogStore) ListGames(ctx context.Context, p ListGamesParams) ([]models.Game, int64, error) {
	page, perPage := normalizePage(p.Page, p.PerPage)

	query := s.db.WithContext(ctx).Model(&models.Game{})
	if p.AvailableOnly {
		query = query.Where("is_available = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		commons.Logger.Errorf("Failed to count games: %v", err)
		return nil, 0, errs.ErrInternal
	}

	var games []models.Game
	err := query.
		Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&games).Error
	if err != nil {
		commons.Logger.Errorf("Failed to list games: %v", err)
		return nil, 0, errs.ErrInternal
	}
	return games, total, nil
}

// UpdateGame applies each provided field as its own statement and returns
// the fresh row. The per-field statements are not wrapped in a transaction;
// concurrent conflicting updates can interleave.
func (s *CatalogStore) UpdateGame(ctx context.Context, id string, p UpdateGameParams) (*models.Game, error) {
	setField := func(column string, value any) error {
		err := s.db.WithContext(ctx).
			Model(&models.Game{}).
			Where("id = ?", id).
			Update(column, value).Error
		if err != nil {
			commons.Logger.Errorf("Failed to update game %s: %v", column, err)
			return errs.ErrInternal
		}
		return nil
	}

	if p.Name != nil {
		if err := setField("name", *p.Name); err != nil {
			return nil, err
		}
	}
	if p.FilePath != nil {
		if err := setField("file_path", *p.FilePath); err != nil {
			return nil, err
		}
	}
	if p.FileSize != nil {
		if err := setField("file_size", *p.FileSize); err != nil {
			return nil, err
		}
	}
	if p.IsAvailable != nil {
		if err := setField("is_available", *p.IsAvailable); err != nil {
			return nil, err
		}
	}

	return s.GetGame(ctx, id)
}

// DeleteGame removes the game and its library entries. Returns whether a
// game row disappeared.
func (s *CatalogStore) DeleteGame(ctx context.Context, id string) (bool, error) {
	if err := s.db.WithContext(ctx).Where("game_id = ?", id).Delete(&models.UserGame{}).Error; err != nil {
		commons.Logger.Errorf("Failed to delete library entries for game: %v", err)
		return false, errs.ErrInternal
	}
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Game{})
	if res.Error != nil {
		commons.Logger.Errorf("Failed to delete game: %v", res.Error)
		return false, errs.ErrInternal
	}
	return res.RowsAffected > 0, nil
}

// ApplyMetadata denormalizes an IGDB record onto the game's metadata
// columns. Availability, file and ownership fields are never touched.
// Absent provider fields null out the corresponding column, so a refresh
// fully replaces the previous sync.
func (s *CatalogStore) ApplyMetadata(ctx context.Context, id string, record *igdb.Game) error {
	updates := map[string]any{
		"summary":      record.Summary,
		"storyline":    record.Storyline,
		"rating":       record.Rating,
		"release_date": nil,
		"cover_url":    nil,
		"screenshots":  nil,
		"genres":       nil,
		"platforms":    nil,
		"developer":    firstCompany(record.InvolvedCompanies, func(c igdb.InvolvedCompany) bool { return c.Developer }),
		"publisher":    firstCompany(record.InvolvedCompanies, func(c igdb.InvolvedCompany) bool { return c.Publisher }),
	}

	if record.FirstReleaseDate != nil {
		updates["release_date"] = time.Unix(*record.FirstReleaseDate, 0).UTC()
	}
	if record.Cover != nil {
		updates["cover_url"] = igdbImageURL(record.Cover.URL, "t_cover_big")
	}
	if record.Screenshots != nil {
		urls := make([]string, 0, len(record.Screenshots))
		for _, shot := range record.Screenshots {
			urls = append(urls, igdbImageURL(shot.URL, "t_screenshot_med"))
		}
		var g models.Game
		g.SetScreenshots(urls)
		updates["screenshots"] = g.Screenshots
	}
	if record.Genres != nil {
		var g models.Game
		g.SetGenres(namesOf(record.Genres))
		updates["genres"] = g.Genres
	}
	if record.Platforms != nil {
		var g models.Game
		g.SetPlatforms(namesOf(record.Platforms))
		updates["platforms"] = g.Platforms
	}

	res := s.db.WithContext(ctx).Model(&models.Game{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		commons.Logger.Errorf("Failed to apply game metadata: %v", res.Error)
		return errs.ErrInternal
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// igdbImageURL rewrites an IGDB thumbnail URL into the requested size
// variant and makes it scheme-qualified.
func igdbImageURL(raw, size string) string {
	return fmt.Sprintf("https:%s", strings.Replace(raw, "t_thumb", size, 1))
}

func namesOf(refs []igdb.NamedRef) []string {
	names := make([]string, 0, len(refs))
	for _, r := range refs {
		names = append(names, r.Name)
	}
	return names
}

// firstCompany picks the first involved company matching the flag, in
// provider-returned order.
func firstCompany(companies []igdb.InvolvedCompany, match func(igdb.InvolvedCompany) bool) any {
	for _, c := range companies {
		if match(c) {
			return c.Company.Name
		}
	}
	return nil
}

func normalizePage(page, perPage int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return page, perPage
}
