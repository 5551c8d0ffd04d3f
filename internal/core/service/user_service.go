package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/campneus/cofre/internal/core/domain"
	"github.com/campneus/cofre/internal/core/policy"
	"github.com/campneus/cofre/internal/core/ports"
)

// UserService owns admin-only account management. Self-delete and
// self-deactivate are refused for every role, admins included.
type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) List(ctx context.Context, principal domain.Principal) ([]domain.User, error) {
	if !policy.Authorize(policy.Role(principal.Role), policy.OpManageUsers, policy.ResourceUser).Granted() {
		return nil, domain.ErrForbidden
	}
	return s.repo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, principal domain.Principal, id string) (*domain.User, error) {
	if !policy.Authorize(policy.Role(principal.Role), policy.OpManageUsers, policy.ResourceUser).Granted() {
		return nil, domain.ErrForbidden
	}
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) Create(ctx context.Context, principal domain.Principal, input ports.CreateUserInput) (*domain.User, error) {
	if !policy.Authorize(policy.Role(principal.Role), policy.OpCreate, policy.ResourceUser).Granted() {
		return nil, domain.ErrForbidden
	}
	if _, ok := policy.ParseRole(input.Role); !ok {
		return nil, domain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role).Str("created_by", principal.ID).Msg("user created")
	return created, nil
}

func (s *UserService) Update(ctx context.Context, principal domain.Principal, id string, input ports.UpdateUserInput) (*domain.User, error) {
	if !policy.Authorize(policy.Role(principal.Role), policy.OpUpdate, policy.ResourceUser).Granted() {
		return nil, domain.ErrForbidden
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Role != nil {
		if _, ok := policy.ParseRole(*input.Role); !ok {
			return nil, domain.ErrInvalidRole
		}
		user.Role = *input.Role
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", updated.ID).Str("updated_by", principal.ID).Msg("user updated")
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, principal domain.Principal, id string) error {
	if policy.DeniesSelf(policy.OpDelete, principal.ID, id) {
		return domain.ErrSelfAction
	}
	if !policy.Authorize(policy.Role(principal.Role), policy.OpDelete, policy.ResourceUser).Granted() {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Str("deleted_by", principal.ID).Msg("user deleted")
	return nil
}

// SetActive toggles the authentication gate on an account. Deactivating one's
// own account is refused to prevent accidental lockout.
func (s *UserService) SetActive(ctx context.Context, principal domain.Principal, id string, active bool) (*domain.User, error) {
	if !active && policy.DeniesSelf(policy.OpDeactivate, principal.ID, id) {
		return nil, domain.ErrSelfAction
	}
	if !policy.Authorize(policy.Role(principal.Role), policy.OpDeactivate, policy.ResourceUser).Granted() {
		return nil, domain.ErrForbidden
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Active = active
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", updated.ID).Bool("active", active).Str("changed_by", principal.ID).Msg("user status changed")
	return updated, nil
}
