// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"net/http"

	"game-library-server/middlewares"
	"game-library-server/store"

	"github.com/labstack/echo/v4"
)

// LibraryHandler serves the store catalog view and the per-account library.
type LibraryHandler struct {
	Catalog *store.CatalogStore
	Library *store.LibraryStore
}

// StoreGames lists games available for installation.
func (h *LibraryHandler) StoreGames(c echo.Context) error {
	page, perPage := parsePagination(c)
	games, total, err := h.Catalog.ListGames(c.Request().Context(), store.ListGamesParams{
		Page:          page,
		PerPage:       perPage,
		AvailableOnly: true,
	})
	if err != nil {
		c.Logger().Error("Failed to list store games: ", err)
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, GameListResponse{
		Games:   games,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

// Install adds the game to the caller's library. A game that does not exist
// or is not available answers 404; it is a business outcome, not a server
// error.
func (h *LibraryHandler) Install(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to get authenticated user:", err)
		return echo.ErrUnauthorized
	}

	var req InstallGameRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid install request payload:", err)
		return badRequest(c, "invalid request payload")
	}

	installed, err := h.Library.Install(c.Request().Context(), user.ID, c.Param("game_id"), req.InstallPath)
	if err != nil {
		logger.Error("Failed to install game: ", err)
		return respondError(c, err)
	}
	if !installed {
		return c.JSON(http.StatusNotFound, APIResponse{Success: false, Error: "game is not available for installation"})
	}
	return c.NoContent(http.StatusCreated)
}

func (h *LibraryHandler) Uninstall(c echo.Context) error {
	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		c.Logger().Error("Failed to get authenticated user:", err)
		return echo.ErrUnauthorized
	}

	found, err := h.Library.Uninstall(c.Request().Context(), user.ID, c.Param("game_id"))
	if err != nil {
		c.Logger().Error("Failed to uninstall game: ", err)
		return respondError(c, err)
	}
	if !found {
		return c.JSON(http.StatusNotFound, APIResponse{Success: false, Error: "not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *LibraryHandler) ListLibrary(c echo.Context) error {
	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		c.Logger().Error("Failed to get authenticated user:", err)
		return echo.ErrUnauthorized
	}

	page, perPage := parsePagination(c)
	entries, total, err := h.Library.ListLibrary(c.Request().Context(), user.ID, page, perPage)
	if err != nil {
		c.Logger().Error("Failed to list library: ", err)
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, LibraryListResponse{
		Games:   entries,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

func (h *LibraryHandler) GetEntry(c echo.Context) error {
	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		c.Logger().Error("Failed to get authenticated user:", err)
		return echo.ErrUnauthorized
	}

	entry, err := h.Library.GetLibraryEntry(c.Request().Context(), user.ID, c.Param("game_id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, entry)
}

func (h *LibraryHandler) AddPlaytime(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to get authenticated user:", err)
		return echo.ErrUnauthorized
	}

	var req AddPlaytimeRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid playtime request payload:", err)
		return badRequest(c, "invalid request payload")
	}
	if req.Minutes < 0 {
		return badRequest(c, "minutes must not be negative")
	}

	found, err := h.Library.AddPlaytime(c.Request().Context(), user.ID, c.Param("game_id"), req.Minutes)
	if err != nil {
		logger.Error("Failed to add playtime: ", err)
		return respondError(c, err)
	}
	if !found {
		return c.JSON(http.StatusNotFound, APIResponse{Success: false, Error: "not found"})
	}
	return c.NoContent(http.StatusNoContent)
}
