package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"spellmaster/internal/models"
	"spellmaster/internal/repository"
	"spellmaster/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionExpired     = errors.New("session expired")
	ErrResetTokenInvalid  = errors.New("reset code is invalid or expired")
)

const pinResetTokenTTL = 30 * time.Minute

// AuthService handles parent account registration, login sessions,
// device tokens and the emailed PIN reset flow
type AuthService struct {
	userRepo        *repository.UserRepository
	emailService    *EmailService
	pinGate         *PinGateService
	tokens          *security.TokenIssuer
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, emailService *EmailService, pinGate *PinGateService, tokens *security.TokenIssuer, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		emailService:    emailService,
		pinGate:         pinGate,
		tokens:          tokens,
		sessionDuration: sessionDuration,
	}
}

// Register creates a parent account with a hashed password
func (s *AuthService) Register(email, password, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("invalid email address")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	hash, err := security.HashSecret(password)
	if err != nil {
		return nil, err
	}
	return s.userRepo.CreateUser(email, hash, name)
}

// Login verifies credentials and opens a session
func (s *AuthService) Login(email, password string) (*models.User, *models.Session, error) {
	user, err := s.userRepo.GetUserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}
	if !security.CheckSecret(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.createSession(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// OAuthLogin finds or creates the account matching an external
// identity, then opens a session
func (s *AuthService) OAuthLogin(provider, subject, email, name string) (*models.User, *models.Session, error) {
	user, err := s.userRepo.GetUserByOAuth(provider, subject)
	if errors.Is(err, repository.ErrUserNotFound) {
		// fall back to the email, linking the identity to an
		// existing account
		user, err = s.userRepo.GetUserByEmail(strings.ToLower(email))
		if errors.Is(err, repository.ErrUserNotFound) {
			user, err = s.userRepo.CreateUser(strings.ToLower(email), "", name)
			if err != nil {
				return nil, nil, err
			}
		} else if err != nil {
			return nil, nil, err
		}
		if err := s.userRepo.LinkOAuth(user.ID, provider, subject); err != nil {
			return nil, nil, err
		}
	} else if err != nil {
		return nil, nil, err
	}

	session, err := s.createSession(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

func (s *AuthService) createSession(userID int64) (*models.Session, error) {
	session := &models.Session{
		ID:        security.GenerateSessionID(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.sessionDuration),
	}
	if err := s.userRepo.CreateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// ValidateSession resolves a session cookie value to its user
func (s *AuthService) ValidateSession(sessionID string) (*models.User, error) {
	session, err := s.userRepo.GetSession(sessionID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, err
	}
	if session.IsExpired() {
		// best effort removal of the dead session
		_ = s.userRepo.DeleteSession(sessionID)
		return nil, ErrSessionExpired
	}
	return s.userRepo.GetUserByID(session.UserID)
}

// Logout closes a session
func (s *AuthService) Logout(sessionID string) error {
	return s.userRepo.DeleteSession(sessionID)
}

// CleanupExpiredSessions removes sessions past their expiry and
// returns how many were dropped
func (s *AuthService) CleanupExpiredSessions() (int64, error) {
	return s.userRepo.DeleteExpiredSessions()
}

// IssueDeviceToken signs an API token for a kid-facing device
func (s *AuthService) IssueDeviceToken(userID int64) (string, error) {
	return s.tokens.Issue(userID)
}

// VerifyDeviceToken validates a device API token
func (s *AuthService) VerifyDeviceToken(raw string) (*security.DeviceClaims, error) {
	return s.tokens.Verify(raw)
}

// RequestPinReset emails a single-use reset code to the parent. An
// unknown email is reported as success so addresses cannot be probed.
func (s *AuthService) RequestPinReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetUserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	token := &models.PinResetToken{
		Token:     uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(pinResetTokenTTL),
	}
	if err := s.userRepo.CreatePinResetToken(token); err != nil {
		return err
	}
	if err := s.emailService.SendPinResetEmail(ctx, user.Email, user.Name, token.Token); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// ConfirmPinReset redeems an emailed code and clears the parental PIN
func (s *AuthService) ConfirmPinReset(ctx context.Context, tokenValue string) error {
	token, err := s.userRepo.GetPinResetToken(tokenValue)
	if errors.Is(err, repository.ErrTokenNotFound) {
		return ErrResetTokenInvalid
	}
	if err != nil {
		return err
	}
	if token.Used || token.IsExpired() {
		return ErrResetTokenInvalid
	}

	if err := s.userRepo.MarkPinResetTokenUsed(tokenValue); err != nil {
		return err
	}
	return s.pinGate.Reset(ctx)
}
