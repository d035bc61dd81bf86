package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/guard"
	"github.com/spec-kit/whatsapp-crm/internal/repository"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

const apiKeyPrefix = "wcrm_"

// APIKeyService manages account machine credentials.
type APIKeyService struct {
	keys     repository.APIKeyRepository
	audit    *AuditService
	keyGuard *guard.Guard[*domain.APIKey]
}

// NewAPIKeyService constructs the service.
func NewAPIKeyService(keys repository.APIKeyRepository, audit *AuditService) *APIKeyService {
	return &APIKeyService{
		keys:  keys,
		audit: audit,
		keyGuard: guard.New("api key", "API_KEY_NOT_FOUND",
			keys.GetByID,
			func(key *domain.APIKey) string { return key.AccountID },
		),
	}
}

// Create generates a key, stores its hash and returns the plaintext once.
func (s *APIKeyService) Create(ctx context.Context, tenantID string, actor Actor, accountID, name string, meta RequestMeta) (*domain.APIKey, string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", err
	}
	plaintext := apiKeyPrefix + hex.EncodeToString(raw)
	digest := sha256.Sum256([]byte(plaintext))

	key := &domain.APIKey{
		AccountID: accountID,
		Name:      strings.TrimSpace(name),
		KeyHash:   hex.EncodeToString(digest[:]),
	}
	if err := s.keys.Create(ctx, key); err != nil {
		return nil, "", err
	}

	s.audit.Record(ctx, tenantID, actor, domain.AuditAPIKeyCreated, key.ID, map[string]any{"name": key.Name}, meta)
	return key, plaintext, nil
}

// List returns the account's keys. Hashes are included; plaintexts are gone.
func (s *APIKeyService) List(ctx context.Context, accountID string) ([]domain.APIKey, error) {
	return s.keys.ListByAccount(ctx, accountID)
}

// Revoke disables a key after the ownership check. Revoking twice conflicts.
func (s *APIKeyService) Revoke(ctx context.Context, tenantID string, actor Actor, accountID, keyID string, meta RequestMeta) error {
	key, err := s.keyGuard.Require(ctx, keyID, accountID)
	if err != nil {
		return err
	}
	if key.Revoked() {
		return apperrors.NewConflict("API_KEY_REVOKED", "api key is already revoked", nil)
	}

	if err := s.keys.Revoke(ctx, key.ID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewConflict("API_KEY_REVOKED", "api key is already revoked", nil)
		}
		return err
	}

	s.audit.Record(ctx, tenantID, actor, domain.AuditAPIKeyRevoked, key.ID, map[string]any{"name": key.Name}, meta)
	return nil
}
