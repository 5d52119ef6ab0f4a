// SPDX-License-Identifier: GPL-3.0-only

// Package auth implements account and session management: account creation,
// login, opaque bearer-token validation, logout and expired-session sweeps.
package auth

import (
	"context"
	"errors"
	"time"

	"game-library-server/commons"
	"game-library-server/crypto"
	"game-library-server/errs"
	"game-library-server/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionTTL is the fixed lifetime of an issued session.
const SessionTTL = 24 * time.Hour

type Service struct {
	db     *gorm.DB
	crypto *crypto.Crypto
}

func NewService(conn *gorm.DB) *Service {
	return &Service{db: conn, crypto: crypto.NewCrypto()}
}

// CreateAccount registers a new account. The username check and the insert
// are two separate statements; under a concurrent conflicting create the
// insert can fail on the unique index instead, which surfaces as an
// internal error rather than ErrUsernameExists.
func (s *Service) CreateAccount(ctx context.Context, username, password string, email *string, isAdmin bool) (*models.User, error) {
	var existing models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil, errs.ErrUsernameExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		commons.Logger.Errorf("Failed to check username: %v", err)
		return nil, errs.ErrInternal
	}

	hash, err := s.crypto.HashPassword(password)
	if err != nil {
		commons.Logger.Errorf("Failed to hash password: %v", err)
		return nil, errs.ErrInternal
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		IsAdmin:      isAdmin,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		commons.Logger.Errorf("Failed to create user: %v", err)
		return nil, errs.ErrInternal
	}
	return &user, nil
}

// Login verifies the credentials and issues a brand-new session. An unknown
// username and a wrong password both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, *models.Session, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, errs.ErrInvalidCredentials
	}
	if err != nil {
		commons.Logger.Errorf("Failed to find user: %v", err)
		return nil, nil, errs.ErrInternal
	}

	if err := s.crypto.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, nil, errs.ErrInvalidCredentials
	}

	session, err := s.IssueSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return &user, session, nil
}

// IssueSession creates a session for the account with two independent random
// values: the row id and the bearer token. Expiry is now + SessionTTL.
func (s *Service) IssueSession(ctx context.Context, userID string) (*models.Session, error) {
	token, err := crypto.GenerateRandomString("st_", 32, "hex")
	if err != nil {
		commons.Logger.Errorf("Failed to generate session token: %v", err)
		return nil, errs.ErrInternal
	}

	session := models.Session{
		ID:        uuid.NewString(),
		Token:     token,
		ExpiresAt: time.Now().Add(SessionTTL),
		UserID:    userID,
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		commons.Logger.Errorf("Failed to create session: %v", err)
		return nil, errs.ErrInternal
	}
	return &session, nil
}

// ValidateSession resolves a bearer token to its owning account.
// ErrSessionExpired covers both a timed-out token and one that never
// existed. ErrUserNotFound guards against an orphaned session whose account
// row has been removed.
func (s *Service) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	var session models.Session
	err := s.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, time.Now()).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrSessionExpired
	}
	if err != nil {
		commons.Logger.Errorf("Failed to look up session: %v", err)
		return nil, errs.ErrInternal
	}

	var user models.User
	err = s.db.WithContext(ctx).Where("id = ?", session.UserID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrUserNotFound
	}
	if err != nil {
		commons.Logger.Errorf("Failed to load session owner: %v", err)
		return nil, errs.ErrInternal
	}
	return &user, nil
}

// Logout deletes the session matching token. Deleting a token that does not
// exist is not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error; err != nil {
		commons.Logger.Errorf("Failed to delete session: %v", err)
		return errs.ErrInternal
	}
	return nil
}

// SweepExpiredSessions removes sessions whose expiry has passed and returns
// the number of rows deleted. Validation already ignores expired rows, so
// the sweep is storage hygiene only.
func (s *Service) SweepExpiredSessions(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", time.Now()).Delete(&models.Session{})
	if res.Error != nil {
		commons.Logger.Errorf("Failed to sweep expired sessions: %v", res.Error)
		return 0, errs.ErrInternal
	}
	return res.RowsAffected, nil
}

// ListAccounts returns all accounts, newest first.
func (s *Service) ListAccounts(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		commons.Logger.Errorf("Failed to list accounts: %v", err)
		return nil, errs.ErrInternal
	}
	return users, nil
}

// DeleteAccount removes the account along with its sessions and library
// entries. Deleting an unknown id is a no-op.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	tx := s.db.WithContext(ctx)
	if err := tx.Where("user_id = ?", userID).Delete(&models.Session{}).Error; err != nil {
		commons.Logger.Errorf("Failed to delete sessions for user: %v", err)
		return errs.ErrInternal
	}
	if err := tx.Where("user_id = ?", userID).Delete(&models.UserGame{}).Error; err != nil {
		commons.Logger.Errorf("Failed to delete library entries for user: %v", err)
		return errs.ErrInternal
	}
	if err := tx.Where("id = ?", userID).Delete(&models.User{}).Error; err != nil {
		commons.Logger.Errorf("Failed to delete user: %v", err)
		return errs.ErrInternal
	}
	return nil
}

// EnsureAdminAccount creates the bootstrap admin when no admin exists yet.
func (s *Service) EnsureAdminAccount(ctx context.Context, username, password string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
		commons.Logger.Errorf("Failed to count admin accounts: %v", err)
		return errs.ErrInternal
	}
	if count > 0 {
		return nil
	}
	if _, err := s.CreateAccount(ctx, username, password, nil, true); err != nil {
		return err
	}
	commons.Logger.Warnf("Bootstrap admin account %q created; change its password", username)
	return nil
}
