// SPDX-License-Identifier: GPL-3.0-only

// Package middlewares implements the access gate: bearer-token checkpoints
// layered in front of route groups. The admin checkpoint subsumes the user
// checkpoint and adds the role test.
package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"game-library-server/auth"
	"game-library-server/models"

	"github.com/labstack/echo/v4"
)

type Role int

const (
	RoleUser Role = iota
	RoleAdmin
)

const accountContextKey = "account"

// RequireRole wraps handlers with a session check. A missing or malformed
// header and an invalid or expired token both end the request with 401; a
// valid session lacking the required role ends it with 403. On success the
// resolved account is attached to the request context.
func RequireRole(svc *auth.Service, role Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			logger := c.Logger()

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				logger.Error("Authorization header missing or invalid.")
				return &echo.HTTPError{
					Code:    http.StatusUnauthorized,
					Message: "Bearer token is required",
				}
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			account, err := svc.ValidateSession(c.Request().Context(), token)
			if err != nil {
				logger.Error("Session validation failed: ", err)
				return &echo.HTTPError{
					Code:    http.StatusUnauthorized,
					Message: "Invalid or expired session token, please login again",
				}
			}

			if role == RoleAdmin && !account.IsAdmin {
				logger.Error("Admin role required.")
				return &echo.HTTPError{
					Code:    http.StatusForbidden,
					Message: "Admin privileges are required",
				}
			}

			c.Set(accountContextKey, account)
			return next(c)
		}
	}
}

// GetAuthenticatedUser returns the account attached by RequireRole.
func GetAuthenticatedUser(c echo.Context) (*models.User, error) {
	if account, ok := c.Get(accountContextKey).(*models.User); ok {
		return account, nil
	}
	return nil, errors.New("no authenticated user found")
}
