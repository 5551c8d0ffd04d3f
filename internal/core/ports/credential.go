package ports

import (
	"context"
	"time"

	"github.com/campneus/cofre/internal/core/domain"
)

// CredentialInput carries the data for creating or updating a credential.
// Secret is the plaintext password; it is encrypted before persistence and
// never stored on this struct beyond the service call.
type CredentialInput struct {
	SystemName string
	Username   string
	Secret     string
	URL        string
	Notes      string
	Category   domain.Category
	LocationID string
	ExpiryDate *time.Time
}

// ListCredentialsInput carries the list/search parameters.
type ListCredentialsInput struct {
	Category   string
	LocationID string
	Search     string
	Page       int
	Limit      int
}

// CredentialView is the client-facing shape of a credential. It deliberately
// has no ciphertext field; Secret is populated only when the access policy
// grants secret visibility.
type CredentialView struct {
	ID          string     `json:"id"`
	SystemName  string     `json:"system_name"`
	Username    string     `json:"username"`
	URL         string     `json:"url,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Category    string     `json:"category"`
	LocationID  string     `json:"location_id"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	CreatedBy   string     `json:"created_by"`
	UpdatedBy   string     `json:"updated_by"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUpdated time.Time  `json:"last_updated"`
	Secret      string     `json:"secret,omitempty"`
}

// ListCredentialsResult is the paginated list response.
type ListCredentialsResult struct {
	Items      []CredentialView `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// CredentialService defines the vault's credential use cases. Every method
// authorizes the principal before touching the store or the codec.
type CredentialService interface {
	List(ctx context.Context, principal domain.Principal, input ListCredentialsInput) (*ListCredentialsResult, error)
	Get(ctx context.Context, principal domain.Principal, id string) (*CredentialView, error)
	RevealSecret(ctx context.Context, principal domain.Principal, id string) (string, error)
	Create(ctx context.Context, principal domain.Principal, input CredentialInput) (*CredentialView, error)
	Update(ctx context.Context, principal domain.Principal, id string, input CredentialInput) (*CredentialView, error)
	Delete(ctx context.Context, principal domain.Principal, id string) error
	ExpiringWithin(ctx context.Context, principal domain.Principal, days int) ([]CredentialView, error)
}

// CredentialFilter narrows repository queries.
type CredentialFilter struct {
	Category   string
	LocationID string
	Search     string
	Skip       int64
	Limit      int64
}

// CredentialRepository defines credential persistence.
type CredentialRepository interface {
	Create(ctx context.Context, c *domain.Credential) (*domain.Credential, error)
	Update(ctx context.Context, c *domain.Credential) (*domain.Credential, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Credential, error)
	List(ctx context.Context, filter CredentialFilter) ([]domain.Credential, int64, error)
	ExpiringBetween(ctx context.Context, from, until time.Time) ([]domain.Credential, error)
	CountByLocation(ctx context.Context, locationID string) (int64, error)
	CountByCategory(ctx context.Context) (map[domain.Category]int64, error)
	LatestUpdated(ctx context.Context, limit int64) ([]domain.Credential, error)
	Count(ctx context.Context) (int64, error)
}
