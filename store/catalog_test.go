// SPDX-License-Identifier: GPL-3.0-only

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"game-library-server/errs"
	"game-library-server/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := conn.AutoMigrate(models.AllModels...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return conn
}

// seedGame inserts a game with a controlled creation time so ordering
// assertions are deterministic.
func seedGame(t *testing.T, conn *gorm.DB, name string, available bool, createdAt time.Time) models.Game {
	t.Helper()
	game := models.Game{
		ID:          uuid.NewString(),
		Name:        name,
		IsAvailable: available,
		CreatedAt:   createdAt,
	}
	if err := conn.Create(&game).Error; err != nil {
		t.Fatalf("Failed to seed game %s: %v", name, err)
	}
	return game
}

func TestCreateGame(t *testing.T) {
	conn := newTestDB(t)
	catalog := NewCatalogStore(conn)
	ctx := context.Background()

	igdbID := int64(1942)
	path := "/games/witness.tar"
	owner := uuid.NewString()
	game, err := catalog.CreateGame(ctx, CreateGameParams{
		Name:     "The Witness",
		IgdbID:   &igdbID,
		FilePath: &path,
		AddedBy:  &owner,
	})
	if err != nil {
		t.Fatalf("CreateGame failed: %v", err)
	}
	if game.ID == "" {
		t.Error("Expected a generated game id")
	}
	if game.IsAvailable {
		t.Error("New games default to unavailable")
	}
	if game.IgdbID == nil || *game.IgdbID != igdbID {
		t.Errorf("Expected igdb id %d, got %v", igdbID, game.IgdbID)
	}
	if game.AddedBy == nil || *game.AddedBy != owner {
		t.Errorf("Expected owner stamp %s, got %v", owner, game.AddedBy)
	}
}

func TestGetGame(t *testing.T) {
	conn := newTestDB(t)
	catalog := NewCatalogStore(conn)
	ctx := context.Background()

	seeded := seedGame(t, conn, "Celeste", true, time.Now())
	game, err := catalog.GetGame(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetGame failed: %v", err)
	}
	if game.Name != "Celeste" {
		t.Errorf("Expected Celeste, got %s", game.Name)
	}

	if _, err := catalog.GetGame(ctx, "missing-id"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestListGamesPagination(t *testing.T) {
	conn := newTestDB(t)
	catalog := NewCatalogStore(conn)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 1; i <= 25; i++ {
		seedGame(t, conn, fmt.Sprintf("game-%02d", i), true, base.Add(time.Duration(i)*time.Minute))
	}

	games, total, err := catalog.ListGames(ctx, ListGamesParams{Page: 2, PerPage: 10})
	if err != nil {
		t.Fatalf("ListGames failed: %v", err)
	}
	if total != 25 {
		t.Errorf("Expected total 25, got %d", total)
	}
	if len(games) != 10 {
		t.Fatalf("Expected 10 games on page 2, got %d", len(games))
	}
	// Newest-first: page 2 holds rows 11-20, i.e. game-15 down to game-06.
	if games[0].Name != "game-15" {
		t.Errorf("Expected page to start at game-15, got %s", games[0].Name)
	}
	if games[9].Name != "game-06" {
		t.Errorf("Expected page to end at game-06, got %s", games[9].Name)
	}

	// page <= 0 is clamped to the first page, per_page <= 0 to the default.
	games, total, err = catalog.ListGames(ctx, ListGamesParams{Page: 0, PerPage: -1})
	if err != nil {
		t.Fatalf("ListGames with out-of-range paging failed: %v", err)
	}
	if total != 25 || len(games) != DefaultPerPage {
		t.Errorf("Expected clamped first page of %d rows, got %d (total %d)", DefaultPerPage, len(games), total)
	}
	if games[0].Name != "game-25" {
		t.Errorf("Expected clamped page to start at game-25, got %s", games[0].Name)
	}
}

func TestListGamesAvailableOnly(t *testing.T) {
	conn := newTestDB(t)
	catalog := NewCatalogStore(conn)
	ctx := context.Background()

	now := time.Now()
	seedGame(t, conn, "visible", true, now)
	seedGame(t, conn, "hidden", false, now.Add(time.Second))

	games, total, err := catalog.ListGames(ctx, ListGamesParams{AvailableOnly: true})
	if err != nil {
		t.Fatalf("ListGames failed: %v", err)
	}
	if total != 1 || len(games) != 1 {
		t.Fatalf("Expected a single available game, got %d (total %d)", len(games), total)
	}
	if games[0].Name != "visible" {
		t.Errorf("Expected the available game, got %s", games[0].Name)
	}
}

func TestUpdateGamePartial(t *testing.T) {
	conn := newTestDB(t)
	catalog := NewCatalogStore(conn)
	ctx := context.Background()

	path := "/games/old.bin"
	seeded := seedGame(t, conn, "Old Name", false, time.Now())
	if err := conn.Model(&seeded).Update("file_path", path).Error; err != nil {
		t.Fatalf("Failed to seed file path: %v", err)
	}

	newName := "New Name"
	available := true
	game, err := catalog.UpdateGame(ctx, seeded.ID, UpdateGameParams{
		Name:        &newName,
		IsAvailable: &available,
	})
	if err != nil {
		t.Fatalf("UpdateGame failed: %v", err)
	}
	if game.Name != "New Name" {
		t.Errorf("Expected updated name, got %s", game.Name)
	}
	if !game.IsAvailable {
		t.Error("Expected availability to be updated")
	}
	// Absent fields stay untouched rather than being nulled.
	if game.FilePath == nil || *game.FilePath != path {
		t.Errorf("Expected file path to survive a partial update, got %v", game.FilePath)
	}

	if _, err := catalog.UpdateGame(ctx, "missing-id", UpdateGameParams{Name: &newName}); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown game, got %v", err)
	}
}

func TestDeleteGame(t *testing.T) {
	conn := newTestDB(t)
	catalog := NewCatalogStore(conn)
	ctx := context.Background()

	seeded := seedGame(t, conn, "Doomed", true, time.Now())
	entry := models.UserGame{ID: uuid.NewString(), UserID: uuid.NewString(), GameID: seeded.ID}
	if err := conn.Create(&entry).Error; err != nil {
		t.Fatalf("Failed to seed library entry: %v", err)
	}

	deleted, err := catalog.DeleteGame(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("DeleteGame failed: %v", err)
	}
	if !deleted {
		t.Error("Expected a row to disappear")
	}

	var count int64
	conn.Model(&models.UserGame{}).Where("game_id = ?", seeded.ID).Count(&count)
	if count != 0 {
		t.Error("Expected library entries referencing the game to be deleted")
	}

	deleted, err = catalog.DeleteGame(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("Second DeleteGame failed: %v", err)
	}
	if deleted {
		t.Error("Expected no row to disappear on a second delete")
	}
}
