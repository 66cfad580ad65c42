package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"spellmaster/internal/database"
	"spellmaster/internal/models"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrSessionNotFound = errors.New("session not found")
	ErrTokenNotFound   = errors.New("reset token not found")
)

// UserRepository handles parent accounts, their login sessions and PIN
// reset tokens.
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new parent account and returns it with the
// assigned ID
func (r *UserRepository) CreateUser(email, passwordHash, name string) (*models.User, error) {
	existing, err := r.GetUserByEmail(email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	id, err := r.db.ExecReturningID(
		"INSERT INTO users (email, password_hash, name) VALUES (?, ?, ?)",
		email, passwordHash, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return r.GetUserByID(id)
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(id int64) (*models.User, error) {
	return r.scanUser(r.db.QueryRow(
		"SELECT id, email, password_hash, name, oauth_provider, oauth_subject, created_at, updated_at FROM users WHERE id = ?", id))
}

// GetUserByEmail retrieves a user by email
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	return r.scanUser(r.db.QueryRow(
		"SELECT id, email, password_hash, name, oauth_provider, oauth_subject, created_at, updated_at FROM users WHERE email = ?", email))
}

// GetUserByOAuth retrieves a user by OAuth provider and subject
func (r *UserRepository) GetUserByOAuth(provider, subject string) (*models.User, error) {
	return r.scanUser(r.db.QueryRow(
		"SELECT id, email, password_hash, name, oauth_provider, oauth_subject, created_at, updated_at FROM users WHERE oauth_provider = ? AND oauth_subject = ?",
		provider, subject))
}

// LinkOAuth records the OAuth identity on an existing account
func (r *UserRepository) LinkOAuth(userID int64, provider, subject string) error {
	_, err := r.db.Exec(
		"UPDATE users SET oauth_provider = ?, oauth_subject = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		provider, subject, userID)
	if err != nil {
		return fmt.Errorf("failed to link oauth identity: %w", err)
	}
	return nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var provider, subject sql.NullString
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name,
		&provider, &subject, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	user.OAuthProvider = provider.String
	user.OAuthSubject = subject.String
	return &user, nil
}

// CreateSession inserts a login session
func (r *UserRepository) CreateSession(session *models.Session) error {
	_, err := r.db.Exec(
		"INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)",
		session.ID, session.UserID, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID
func (r *UserRepository) GetSession(id string) (*models.Session, error) {
	var session models.Session
	err := r.db.QueryRow(
		"SELECT id, user_id, expires_at, created_at FROM sessions WHERE id = ?", id).
		Scan(&session.ID, &session.UserID, &session.ExpiresAt, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// DeleteSession removes a session by ID
func (r *UserRepository) DeleteSession(id string) error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes all sessions past their expiry time
func (r *UserRepository) DeleteExpiredSessions() (int64, error) {
	result, err := r.db.Exec("DELETE FROM sessions WHERE expires_at < ?", time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}

// CreatePinResetToken inserts a single-use PIN reset token
func (r *UserRepository) CreatePinResetToken(token *models.PinResetToken) error {
	_, err := r.db.Exec(
		"INSERT INTO pin_reset_tokens (token, user_id, expires_at) VALUES (?, ?, ?)",
		token.Token, token.UserID, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

// GetPinResetToken retrieves a reset token by value
func (r *UserRepository) GetPinResetToken(value string) (*models.PinResetToken, error) {
	var token models.PinResetToken
	err := r.db.QueryRow(
		"SELECT token, user_id, expires_at, used, created_at FROM pin_reset_tokens WHERE token = ?", value).
		Scan(&token.Token, &token.UserID, &token.ExpiresAt, &token.Used, &token.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return &token, nil
}

// MarkPinResetTokenUsed flags a reset token so it cannot be replayed
func (r *UserRepository) MarkPinResetTokenUsed(value string) error {
	result, err := r.db.Exec("UPDATE pin_reset_tokens SET used = ? WHERE token = ?",
		true, value)
	if err != nil {
		return fmt.Errorf("failed to mark reset token used: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTokenNotFound
	}
	return nil
}
