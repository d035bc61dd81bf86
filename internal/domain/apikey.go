package domain

import "time"

// APIKey is an account-scoped machine credential. Only the hash is stored;
// the plaintext is shown once at creation time.
type APIKey struct {
	ID         string
	AccountID  string
	Name       string
	KeyHash    string
	LastUsedAt *time.Time
	RevokedAt  *time.Time
	CreatedAt  time.Time
}

// Revoked reports whether the key has been revoked.
func (k *APIKey) Revoked() bool {
	return k.RevokedAt != nil
}
