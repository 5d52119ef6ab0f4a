// SPDX-License-Identifier: GPL-3.0-only

package routes

import (
	"game-library-server/auth"
	"game-library-server/commons"
	"game-library-server/handlers"
	"game-library-server/middlewares"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Users   *handlers.UserHandler
	Games   *handlers.GameHandler
	Library *handlers.LibraryHandler
}

func RegisterRoutes(e *echo.Echo, svc *auth.Service, h Handlers) {
	commons.Logger.Debug("Registering routes")

	requireUser := middlewares.RequireRole(svc, middlewares.RoleUser)
	requireAdmin := middlewares.RequireRole(svc, middlewares.RoleAdmin)

	e.GET("/health", handlers.Health)

	api := e.Group("/api")
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/logout", h.Auth.Logout, requireUser)
	api.GET("/auth/me", h.Auth.Me, requireUser)

	api.POST("/users", h.Users.CreateUser, requireAdmin)
	api.GET("/users", h.Users.ListUsers, requireAdmin)
	api.DELETE("/users/:id", h.Users.DeleteUser, requireAdmin)

	api.GET("/games", h.Games.ListGames, requireAdmin)
	api.POST("/games", h.Games.CreateGame, requireAdmin)
	api.GET("/games/:id", h.Games.GetGame, requireAdmin)
	api.PUT("/games/:id", h.Games.UpdateGame, requireAdmin)
	api.DELETE("/games/:id", h.Games.DeleteGame, requireAdmin)
	api.POST("/games/:id/metadata", h.Games.RefreshMetadata, requireAdmin)
	api.GET("/search/igdb", h.Games.SearchIGDB, requireAdmin)

	api.GET("/store/games", h.Library.StoreGames, requireUser)
	api.GET("/library", h.Library.ListLibrary, requireUser)
	api.GET("/library/:game_id", h.Library.GetEntry, requireUser)
	api.POST("/library/:game_id", h.Library.Install, requireUser)
	api.DELETE("/library/:game_id", h.Library.Uninstall, requireUser)
	api.POST("/library/:game_id/playtime", h.Library.AddPlaytime, requireUser)

	commons.Logger.Info("Routes registered successfully")
}
