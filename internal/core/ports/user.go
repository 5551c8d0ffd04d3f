package ports

import (
	"context"
	"time"

	"github.com/campneus/cofre/internal/core/domain"
)

// CreateUserInput carries the data for creating a user account.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UpdateUserInput carries optional fields for updating a user account.
// Nil pointers leave the corresponding field untouched.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

// UserService defines admin-only user management. Deleting or deactivating
// one's own account is refused regardless of role.
type UserService interface {
	List(ctx context.Context, principal domain.Principal) ([]domain.User, error)
	Get(ctx context.Context, principal domain.Principal, id string) (*domain.User, error)
	Create(ctx context.Context, principal domain.Principal, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, principal domain.Principal, id string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, principal domain.Principal, id string) error
	SetActive(ctx context.Context, principal domain.Principal, id string, active bool) (*domain.User, error)
}

// UserRepository defines user persistence.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	CountActive(ctx context.Context) (int64, error)
	// TouchLastAccess stamps the account's last successful login time.
	TouchLastAccess(ctx context.Context, id string, at time.Time) error
}
