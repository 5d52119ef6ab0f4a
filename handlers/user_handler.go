// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"net/http"

	"game-library-server/auth"
	"game-library-server/passwordcheck"

	"github.com/labstack/echo/v4"
)

// UserHandler serves the admin-only account catalog.
type UserHandler struct {
	Auth *auth.Service
}

func (h *UserHandler) CreateUser(c echo.Context) error {
	logger := c.Logger()

	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid create user request payload:", err)
		return badRequest(c, "invalid request payload")
	}
	if req.Username == "" {
		return badRequest(c, "username field is required")
	}
	if req.Password == "" {
		return badRequest(c, "password field is required")
	}
	if err := passwordcheck.ValidatePassword(c.Request().Context(), req.Password); err != nil {
		logger.Error("Password validation failed: ", err)
		return badRequest(c, err.Error())
	}

	user, err := h.Auth.CreateAccount(c.Request().Context(), req.Username, req.Password, req.Email, req.IsAdmin)
	if err != nil {
		logger.Error("Failed to create account: ", err)
		return respondError(c, err)
	}

	logger.Infof("Account %s created", user.Username)
	return respond(c, http.StatusCreated, toUserResponse(user))
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.Auth.ListAccounts(c.Request().Context())
	if err != nil {
		c.Logger().Error("Failed to list accounts: ", err)
		return respondError(c, err)
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, toUserResponse(&users[i]))
	}
	return respond(c, http.StatusOK, responses)
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	userID := c.Param("id")
	if err := h.Auth.DeleteAccount(c.Request().Context(), userID); err != nil {
		c.Logger().Error("Failed to delete account: ", err)
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
