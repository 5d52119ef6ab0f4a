// SPDX-License-Identifier: GPL-3.0-only

package store

import (
	"context"
	"errors"
	"time"

	"game-library-server/commons"
	"game-library-server/errs"
	"game-library-server/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LibraryStore struct {
	db *gorm.DB
}

func NewLibraryStore(conn *gorm.DB) *LibraryStore {
	return &LibraryStore{db: conn}
}

// Install adds the game to the account's library or refreshes an existing
// entry. A missing or unavailable game is a business outcome, not an error:
// the first return is false and err is nil. The (user_id, game_id) unique
// index resolves concurrent installs; play time and last-played are never
// reset.
func (s *LibraryStore) Install(ctx context.Context, userID, gameID string, installPath *string) (bool, error) {
	var game models.Game
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_available = ?", gameID, true).
		First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		commons.Logger.Errorf("Failed to check game availability: %v", err)
		return false, errs.ErrInternal
	}

	now := time.Now()
	entry := models.UserGame{
		ID:          uuid.NewString(),
		UserID:      userID,
		GameID:      gameID,
		IsInstalled: true,
		InstallPath: installPath,
		InstalledAt: &now,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "game_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"is_installed": true,
			"install_path": installPath,
			"installed_at": now,
			"updated_at":   now,
		}),
	}).Create(&entry).Error
	if err != nil {
		commons.Logger.Errorf("Failed to install game: %v", err)
		return false, errs.ErrInternal
	}
	return true, nil
}

// Uninstall flips the entry to not-installed and clears the path. The row
// is kept so play-time history survives a reinstall. Returns whether an
// entry was found.
func (s *LibraryStore) Uninstall(ctx context.Context, userID, gameID string) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.UserGame{}).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Updates(map[string]any{
			"is_installed": false,
			"install_path": nil,
		})
	if res.Error != nil {
		commons.Logger.Errorf("Failed to uninstall game: %v", res.Error)
		return false, errs.ErrInternal
	}
	return res.RowsAffected > 0, nil
}

// ListLibrary returns one page of the account's library entries with their
// games, ordered by entry creation newest first, plus the account's total.
func (s *LibraryStore) ListLibrary(ctx context.Context, userID string, page, perPage int) ([]models.UserGame, int64, error) {
	page, perPage = normalizePage(page, perPage)

	var total int64
	err := s.db.WithContext(ctx).
		Model(&models.UserGame{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		commons.Logger.Errorf("Failed to count library entries: %v", err)
		return nil, 0, errs.ErrInternal
	}

	var entries []models.UserGame
	err = s.db.WithContext(ctx).
		Preload("Game").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&entries).Error
	if err != nil {
		commons.Logger.Errorf("Failed to list library entries: %v", err)
		return nil, 0, errs.ErrInternal
	}
	return entries, total, nil
}

func (s *LibraryStore) GetLibraryEntry(ctx context.Context, userID, gameID string) (*models.UserGame, error) {
	var entry models.UserGame
	err := s.db.WithContext(ctx).
		Preload("Game").
		Where("user_id = ? AND game_id = ?", userID, gameID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		commons.Logger.Errorf("Failed to get library entry: %v", err)
		return nil, errs.ErrInternal
	}
	return &entry, nil
}

// AddPlaytime increments the cumulative play-time counter and stamps
// last-played. Returns whether a matching entry existed.
func (s *LibraryStore) AddPlaytime(ctx context.Context, userID, gameID string, minutes int64) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.UserGame{}).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Updates(map[string]any{
			"play_time_minutes": gorm.Expr("play_time_minutes + ?", minutes),
			"last_played":       time.Now(),
		})
	if res.Error != nil {
		commons.Logger.Errorf("Failed to add playtime: %v", res.Error)
		return false, errs.ErrInternal
	}
	return res.RowsAffected > 0, nil
}
