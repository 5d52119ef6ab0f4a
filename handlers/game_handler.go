// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"net/http"
	"strconv"

	"game-library-server/igdb"
	"game-library-server/middlewares"
	"game-library-server/store"

	"github.com/labstack/echo/v4"
)

// GameHandler serves the admin-only catalog CRUD plus the IGDB passthrough
// and metadata refresh.
type GameHandler struct {
	Catalog  *store.CatalogStore
	Provider *igdb.Client
}

func (h *GameHandler) CreateGame(c echo.Context) error {
	logger := c.Logger()

	var req CreateGameRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid create game request payload:", err)
		return badRequest(c, "invalid request payload")
	}
	if req.Name == "" {
		return badRequest(c, "name field is required")
	}

	params := store.CreateGameParams{
		Name:     req.Name,
		IgdbID:   req.IgdbID,
		FilePath: req.FilePath,
	}
	if user, err := middlewares.GetAuthenticatedUser(c); err == nil {
		params.AddedBy = &user.ID
	}

	game, err := h.Catalog.CreateGame(c.Request().Context(), params)
	if err != nil {
		logger.Error("Failed to create game: ", err)
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, game)
}

func (h *GameHandler) GetGame(c echo.Context) error {
	game, err := h.Catalog.GetGame(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, game)
}

func (h *GameHandler) ListGames(c echo.Context) error {
	page, perPage := parsePagination(c)
	games, total, err := h.Catalog.ListGames(c.Request().Context(), store.ListGamesParams{
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		c.Logger().Error("Failed to list games: ", err)
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, GameListResponse{
		Games:   games,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

func (h *GameHandler) UpdateGame(c echo.Context) error {
	logger := c.Logger()

	var req UpdateGameRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid update game request payload:", err)
		return badRequest(c, "invalid request payload")
	}

	game, err := h.Catalog.UpdateGame(c.Request().Context(), c.Param("id"), store.UpdateGameParams{
		Name:        req.Name,
		FilePath:    req.FilePath,
		FileSize:    req.FileSize,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		logger.Error("Failed to update game: ", err)
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, game)
}

func (h *GameHandler) DeleteGame(c echo.Context) error {
	deleted, err := h.Catalog.DeleteGame(c.Request().Context(), c.Param("id"))
	if err != nil {
		c.Logger().Error("Failed to delete game: ", err)
		return respondError(c, err)
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, APIResponse{Success: false, Error: "not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

// RefreshMetadata pulls the IGDB record linked to the game and denormalizes
// it onto the row. A game without an IGDB link is returned unchanged.
func (h *GameHandler) RefreshMetadata(c echo.Context) error {
	logger := c.Logger()
	ctx := c.Request().Context()
	id := c.Param("id")

	game, err := h.Catalog.GetGame(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	if game.IgdbID == nil {
		return respond(c, http.StatusOK, game)
	}

	record, err := h.Provider.GetGameByID(ctx, *game.IgdbID)
	if err != nil {
		logger.Error("Failed to fetch from IGDB: ", err)
		return respondError(c, err)
	}
	if record == nil {
		logger.Warnf("Game not found in IGDB: %d", *game.IgdbID)
		return c.JSON(http.StatusNotFound, APIResponse{Success: false, Error: "not found"})
	}

	if err := h.Catalog.ApplyMetadata(ctx, id, record); err != nil {
		logger.Error("Failed to apply game metadata: ", err)
		return respondError(c, err)
	}

	updated, err := h.Catalog.GetGame(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, updated)
}

// SearchIGDB proxies a metadata search to the provider.
func (h *GameHandler) SearchIGDB(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return badRequest(c, "q query parameter is required")
	}
	limit := 10
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	games, err := h.Provider.SearchGames(c.Request().Context(), query, limit)
	if err != nil {
		c.Logger().Error("Failed to search IGDB: ", err)
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, games)
}
