package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"spellmaster/internal/database"
)

var ErrCredentialNotFound = errors.New("credential not found")

// CredentialRepository stores named secret digests in the credentials
// table. Digests are bcrypt hashes; plaintext never reaches this layer.
type CredentialRepository struct {
	db database.DBTX
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db database.DBTX) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// GetDigest returns the stored digest for name
func (r *CredentialRepository) GetDigest(name string) (string, error) {
	var digest string
	err := r.db.QueryRow("SELECT digest FROM credentials WHERE name = ?", name).Scan(&digest)
	if err == sql.ErrNoRows {
		return "", ErrCredentialNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get credential: %w", err)
	}
	return digest, nil
}

// Exists reports whether a digest is stored under name
func (r *CredentialRepository) Exists(name string) (bool, error) {
	_, err := r.GetDigest(name)
	if errors.Is(err, ErrCredentialNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetDigest inserts or replaces the digest under name
func (r *CredentialRepository) SetDigest(name, digest string) error {
	if _, err := r.db.Exec(r.db.GetDialect().UpsertCredential(), name, digest); err != nil {
		return fmt.Errorf("failed to set credential: %w", err)
	}
	return nil
}

// Delete removes the digest under name. Deleting an unset name is a
// no-op.
func (r *CredentialRepository) Delete(name string) error {
	if _, err := r.db.Exec("DELETE FROM credentials WHERE name = ?", name); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}
