// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"game-library-server/auth"
	"game-library-server/models"

	"github.com/labstack/echo/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := conn.AutoMigrate(models.AllModels...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return &AuthHandler{Auth: auth.NewService(conn)}
}

func postJSON(t *testing.T, handler echo.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestLoginHandler(t *testing.T) {
	h := newTestAuthHandler(t)
	if _, err := h.Auth.CreateAccount(context.Background(), "rosa", "Sup3rSecret", nil, false); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	rec := postJSON(t, h.Login, "/api/auth/login", `{"username":"rosa","password":"Sup3rSecret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			User  UserResponse `json:"user"`
			Token string       `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("Expected success envelope")
	}
	if resp.Data.User.Username != "rosa" {
		t.Errorf("Expected user rosa, got %s", resp.Data.User.Username)
	}
	if resp.Data.Token == "" {
		t.Error("Expected a session token")
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("Response must not leak password fields")
	}
}

func TestLoginHandlerInvalidCredentials(t *testing.T) {
	h := newTestAuthHandler(t)
	if _, err := h.Auth.CreateAccount(context.Background(), "sven", "Sup3rSecret", nil, false); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	for name, body := range map[string]string{
		"wrong password": `{"username":"sven","password":"nope"}`,
		"unknown user":   `{"username":"ghost","password":"Sup3rSecret"}`,
	} {
		rec := postJSON(t, h.Login, "/api/auth/login", body)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", name, rec.Code)
		}
		var resp APIResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: failed to decode response: %v", name, err)
		}
		if resp.Success {
			t.Errorf("%s: expected failure envelope", name)
		}
		if resp.Error == "" {
			t.Errorf("%s: expected an error message", name)
		}
	}
}

func TestLoginHandlerMissingFields(t *testing.T) {
	h := newTestAuthHandler(t)

	rec := postJSON(t, h.Login, "/api/auth/login", `{"username":"rosa"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a missing password, got %d", rec.Code)
	}
}
