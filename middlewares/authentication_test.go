// SPDX-License-Identifier: GPL-3.0-only

package middlewares

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"game-library-server/auth"
	"game-library-server/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestAuth(t *testing.T) (*auth.Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := conn.AutoMigrate(models.AllModels...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return auth.NewService(conn), conn
}

func gatedRequest(t *testing.T, svc *auth.Service, role Role, authHeader string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	handler := func(c echo.Context) error {
		user, err := GetAuthenticatedUser(c)
		if err != nil {
			t.Errorf("Expected account in context: %v", err)
		} else if user == nil || user.Username == "" {
			t.Error("Expected a resolved account")
		}
		return c.NoContent(http.StatusOK)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := RequireRole(svc, role)(handler)(c)
	return rec, err
}

func TestRequireRoleNoToken(t *testing.T) {
	svc, _ := newTestAuth(t)

	_, err := gatedRequest(t, svc, RoleUser, "")
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without a token, got %v", err)
	}

	_, err = gatedRequest(t, svc, RoleUser, "Basic dXNlcjpwYXNz")
	httpErr, ok = err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for a non-bearer header, got %v", err)
	}
}

func TestRequireRoleInvalidToken(t *testing.T) {
	svc, _ := newTestAuth(t)

	_, err := gatedRequest(t, svc, RoleUser, "Bearer st_bogus")
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for an unknown token, got %v", err)
	}
}

func TestRequireRoleExpiredToken(t *testing.T) {
	svc, conn := newTestAuth(t)

	user, err := svc.CreateAccount(context.Background(), "olga", "Sup3rSecret", nil, false)
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	expired := models.Session{
		ID:        uuid.NewString(),
		Token:     "st_expired",
		ExpiresAt: time.Now().Add(-time.Minute),
		UserID:    user.ID,
	}
	if err := conn.Create(&expired).Error; err != nil {
		t.Fatalf("Failed to insert expired session: %v", err)
	}

	_, err = gatedRequest(t, svc, RoleUser, "Bearer "+expired.Token)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for an expired token, got %v", err)
	}
}

func TestRequireRoleForbidden(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	user, err := svc.CreateAccount(ctx, "pete", "Sup3rSecret", nil, false)
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	session, err := svc.IssueSession(ctx, user.ID)
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}

	// A valid user session against the admin checkpoint is forbidden, not
	// unauthorized.
	_, err = gatedRequest(t, svc, RoleAdmin, "Bearer "+session.Token)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for a non-admin session, got %v", err)
	}

	rec, err := gatedRequest(t, svc, RoleUser, "Bearer "+session.Token)
	if err != nil {
		t.Fatalf("Expected user checkpoint to pass, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}

func TestRequireRoleAdmin(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	admin, err := svc.CreateAccount(ctx, "queen", "Sup3rSecret", nil, true)
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	session, err := svc.IssueSession(ctx, admin.ID)
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}

	rec, err := gatedRequest(t, svc, RoleAdmin, "Bearer "+session.Token)
	if err != nil {
		t.Fatalf("Expected admin checkpoint to pass, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}
