// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"game-library-server/errs"
	"game-library-server/models"

	"github.com/labstack/echo/v4"
)

// APIResponse is the envelope for every JSON body: {success:true, data:...}
// on success, {success:false, error:...} on failure.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     *string   `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateUserRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    *string `json:"email"`
	IsAdmin  bool    `json:"is_admin"`
}

type CreateGameRequest struct {
	Name     string  `json:"name"`
	IgdbID   *int64  `json:"igdb_id"`
	FilePath *string `json:"file_path"`
}

type UpdateGameRequest struct {
	Name        *string `json:"name"`
	FilePath    *string `json:"file_path"`
	FileSize    *int64  `json:"file_size"`
	IsAvailable *bool   `json:"is_available"`
}

type GameListResponse struct {
	Games   []models.Game `json:"games"`
	Total   int64         `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}

type InstallGameRequest struct {
	InstallPath *string `json:"install_path"`
}

type AddPlaytimeRequest struct {
	Minutes int64 `json:"minutes"`
}

type LibraryListResponse struct {
	Games   []models.UserGame `json:"games"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

func respond(c echo.Context, code int, data any) error {
	return c.JSON(code, APIResponse{Success: true, Data: data})
}

// respondError maps the sentinel taxonomy to status codes. Anything
// unclassified is a 500 with no leaked internals.
func respondError(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrInvalidCredentials), errors.Is(err, errs.ErrSessionExpired):
		code = http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, errs.ErrUsernameExists):
		code = http.StatusBadRequest
	case errors.Is(err, errs.ErrNotFound), errors.Is(err, errs.ErrUserNotFound):
		code = http.StatusNotFound
	}
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = errs.ErrInternal.Error()
	}
	return c.JSON(code, APIResponse{Success: false, Error: message})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, APIResponse{Success: false, Error: message})
}

// parsePagination reads page/per_page query parameters with defaults 1/20.
func parsePagination(c echo.Context) (int, int) {
	page := 1
	perPage := 20
	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page = n
		}
	}
	if v := c.QueryParam("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			perPage = n
		}
	}
	return page, perPage
}
