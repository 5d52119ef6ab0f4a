// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"net/http"
	"strings"
	"time"

	"game-library-server/auth"
	"game-library-server/middlewares"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	Auth *auth.Service
}

// Login verifies credentials and returns the account plus a fresh bearer
// token. Every failure is reported identically to the caller.
func (h *AuthHandler) Login(c echo.Context) error {
	logger := c.Logger()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid login request payload:", err)
		return badRequest(c, "invalid request payload")
	}
	if req.Username == "" {
		return badRequest(c, "username field is required")
	}
	if req.Password == "" {
		return badRequest(c, "password field is required")
	}

	user, session, err := h.Auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		logger.Error("Login failed: ", err)
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, LoginResponse{
		User:  toUserResponse(user),
		Token: session.Token,
	})
}

// Logout deletes the presented session. Logging out an already-deleted
// token succeeds.
func (h *AuthHandler) Logout(c echo.Context) error {
	token := strings.TrimPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
	if err := h.Auth.Logout(c.Request().Context(), token); err != nil {
		c.Logger().Error("Logout failed: ", err)
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		c.Logger().Error("Failed to get authenticated user:", err)
		return &echo.HTTPError{
			Code:    http.StatusUnauthorized,
			Message: "Invalid or expired session token, please login again",
		}
	}
	return respond(c, http.StatusOK, toUserResponse(user))
}

// Health reports liveness; it is the only unauthenticated read.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
