package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/campneus/cofre/internal/core/domain"
	"github.com/campneus/cofre/internal/core/policy"
	"github.com/campneus/cofre/internal/core/ports"
	"github.com/campneus/cofre/internal/core/secret"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	defaultExpiryWindowDays = 30
	maxExpiryWindowDays     = 365
)

// CredentialService owns the credential use cases. It authorizes every call
// before touching the repository, encrypts secrets before persistence, and
// decrypts only when the policy decision grants secret visibility.
type CredentialService struct {
	repo      ports.CredentialRepository
	locations ports.LocationRepository
	codec     secret.Codec
	logger    zerolog.Logger
}

func NewCredentialService(repo ports.CredentialRepository, locations ports.LocationRepository, codec secret.Codec, logger zerolog.Logger) *CredentialService {
	return &CredentialService{repo: repo, locations: locations, codec: codec, logger: logger}
}

// List returns credential metadata matching the filters. Secrets are never
// included in list responses for any role.
func (s *CredentialService) List(ctx context.Context, principal domain.Principal, input ports.ListCredentialsInput) (*ports.ListCredentialsResult, error) {
	if !policy.Authorize(policy.Role(principal.Role), policy.OpList, policy.ResourceCredential).Granted() {
		return nil, domain.ErrForbidden
	}

	if input.Category != "" && !domain.Category(input.Category).Valid() {
		return nil, domain.ErrInvalidCategory
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	items, total, err := s.repo.List(ctx, ports.CredentialFilter{
		Category:   input.Category,
		LocationID: input.LocationID,
		Search:     strings.TrimSpace(input.Search),
		Skip:       int64(page-1) * int64(limit),
		Limit:      int64(limit),
	})
	if err != nil {
		return nil, err
	}

	views := make([]ports.CredentialView, 0, len(items))
	for i := range items {
		views = append(views, toView(&items[i]))
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListCredentialsResult{
		Items:      views,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Get returns one credential. When the policy grants secret visibility the
// decrypted secret rides along; otherwise the view carries metadata only.
// A decrypt failure is logged as a security anomaly and degrades the response
// to metadata rather than failing the read.
func (s *CredentialService) Get(ctx context.Context, principal domain.Principal, id string) (*ports.CredentialView, error) {
	decision := policy.Authorize(policy.Role(principal.Role), policy.OpReadSecret, policy.ResourceCredential)
	if !decision.Granted() {
		return nil, domain.ErrForbidden
	}

	cred, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view := toView(cred)
	if decision == policy.AllowWithSecret {
		plaintext, err := s.codec.Decrypt(cred.SecretCiphertext)
		if err != nil {
			s.logger.Error().Err(err).Str("credential_id", cred.ID).Msg("stored secret failed to decrypt")
		} else {
			view.Secret = plaintext
		}
	}
	return &view, nil
}

// RevealSecret returns only the decrypted secret, for roles the policy grants
// full visibility. Unlike Get, a decrypt failure here is an error: the caller
// asked for nothing but the secret.
func (s *CredentialService) RevealSecret(ctx context.Context, principal domain.Principal, id string) (string, error) {
	decision := policy.Authorize(policy.Role(principal.Role), policy.OpReadSecret, policy.ResourceCredential)
	if decision != policy.AllowWithSecret {
		return "", domain.ErrForbidden
	}

	cred, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	plaintext, err := s.codec.Decrypt(cred.SecretCiphertext)
	if err != nil {
		s.logger.Error().Err(err).Str("credential_id", cred.ID).Msg("stored secret failed to decrypt")
		return "", domain.ErrSecretUnavailable
	}

	s.logger.Info().Str("credential_id", cred.ID).Str("user_id", principal.ID).Msg("secret revealed")
	return plaintext, nil
}

// Create encrypts the secret and persists a new credential. An encoding
// failure aborts the write; a credential is never stored without ciphertext.
func (s *CredentialService) Create(ctx context.Context, principal domain.Principal, input ports.CredentialInput) (*ports.CredentialView, error) {
	if !policy.Authorize(policy.Role(principal.Role), policy.OpCreate, policy.ResourceCredential).Granted() {
		return nil, domain.ErrForbidden
	}
	if err := s.validateInput(ctx, input, true); err != nil {
		return nil, err
	}

	ciphertext, err := s.codec.Encrypt(input.Secret)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cred := &domain.Credential{
		SystemName:       input.SystemName,
		Username:         input.Username,
		URL:              input.URL,
		Notes:            input.Notes,
		SecretCiphertext: ciphertext,
		Category:         input.Category,
		LocationID:       input.LocationID,
		ExpiryDate:       input.ExpiryDate,
		CreatedBy:        principal.ID,
		UpdatedBy:        principal.ID,
		CreatedAt:        now,
		LastUpdated:      now,
	}

	created, err := s.repo.Create(ctx, cred)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("credential_id", created.ID).Str("category", string(created.Category)).Str("user_id", principal.ID).Msg("credential created")
	view := toView(created)
	return &view, nil
}

// Update rewrites a credential's metadata and, when a new secret is supplied,
// re-encrypts it. An empty input secret keeps the stored ciphertext.
func (s *CredentialService) Update(ctx context.Context, principal domain.Principal, id string, input ports.CredentialInput) (*ports.CredentialView, error) {
	if !policy.Authorize(policy.Role(principal.Role), policy.OpUpdate, policy.ResourceCredential).Granted() {
		return nil, domain.ErrForbidden
	}
	if err := s.validateInput(ctx, input, false); err != nil {
		return nil, err
	}

	cred, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cred.SystemName = input.SystemName
	cred.Username = input.Username
	cred.URL = input.URL
	cred.Notes = input.Notes
	cred.Category = input.Category
	cred.LocationID = input.LocationID
	cred.ExpiryDate = input.ExpiryDate
	cred.UpdatedBy = principal.ID
	cred.LastUpdated = time.Now().UTC()

	if input.Secret != "" {
		ciphertext, err := s.codec.Encrypt(input.Secret)
		if err != nil {
			return nil, err
		}
		cred.SecretCiphertext = ciphertext
	}

	updated, err := s.repo.Update(ctx, cred)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("credential_id", updated.ID).Str("user_id", principal.ID).Msg("credential updated")
	view := toView(updated)
	return &view, nil
}

// Delete removes a credential permanently.
func (s *CredentialService) Delete(ctx context.Context, principal domain.Principal, id string) error {
	if !policy.Authorize(policy.Role(principal.Role), policy.OpDelete, policy.ResourceCredential).Granted() {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("credential_id", id).Str("user_id", principal.ID).Msg("credential deleted")
	return nil
}

// ExpiringWithin lists credentials whose expiry date falls inside the next
// days. Expiry informs alerts only; it never affects access decisions.
func (s *CredentialService) ExpiringWithin(ctx context.Context, principal domain.Principal, days int) ([]ports.CredentialView, error) {
	if !policy.Authorize(policy.Role(principal.Role), policy.OpList, policy.ResourceCredential).Granted() {
		return nil, domain.ErrForbidden
	}

	if days < 1 {
		days = defaultExpiryWindowDays
	}
	if days > maxExpiryWindowDays {
		days = maxExpiryWindowDays
	}

	now := time.Now().UTC()
	items, err := s.repo.ExpiringBetween(ctx, now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}

	views := make([]ports.CredentialView, 0, len(items))
	for i := range items {
		views = append(views, toView(&items[i]))
	}
	return views, nil
}

func (s *CredentialService) validateInput(ctx context.Context, input ports.CredentialInput, requireSecret bool) error {
	if !input.Category.Valid() {
		return domain.ErrInvalidCategory
	}
	if requireSecret && input.Secret == "" {
		return domain.ErrSecretRequired
	}
	if input.LocationID != "" {
		if _, err := s.locations.FindByID(ctx, input.LocationID); err != nil {
			return err
		}
	}
	return nil
}

// toView maps a stored credential to its client-facing shape. The ciphertext
// is dropped here, before serialization, so no response path can leak it.
func toView(c *domain.Credential) ports.CredentialView {
	return ports.CredentialView{
		ID:          c.ID,
		SystemName:  c.SystemName,
		Username:    c.Username,
		URL:         c.URL,
		Notes:       c.Notes,
		Category:    string(c.Category),
		LocationID:  c.LocationID,
		ExpiryDate:  c.ExpiryDate,
		CreatedBy:   c.CreatedBy,
		UpdatedBy:   c.UpdatedBy,
		CreatedAt:   c.CreatedAt,
		LastUpdated: c.LastUpdated,
	}
}
