package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/campneus/cofre/internal/core/domain"
	"github.com/campneus/cofre/internal/core/policy"
	"github.com/campneus/cofre/internal/core/ports"
)

// LocationService owns location use cases. Any authenticated role may read
// locations; only admins mutate them, and deletion requires that no
// credential still references the location.
type LocationService struct {
	repo        ports.LocationRepository
	credentials ports.CredentialRepository
	logger      zerolog.Logger
}

func NewLocationService(repo ports.LocationRepository, credentials ports.CredentialRepository, logger zerolog.Logger) *LocationService {
	return &LocationService{repo: repo, credentials: credentials, logger: logger}
}

func (s *LocationService) List(ctx context.Context, principal domain.Principal) ([]domain.Location, error) {
	if !policy.Authorize(policy.Role(principal.Role), policy.OpList, policy.ResourceLocation).Granted() {
		return nil, domain.ErrForbidden
	}
	return s.repo.List(ctx)
}

func (s *LocationService) Get(ctx context.Context, principal domain.Principal, id string) (*domain.Location, error) {
	if !policy.Authorize(policy.Role(principal.Role), policy.OpList, policy.ResourceLocation).Granted() {
		return nil, domain.ErrForbidden
	}
	return s.repo.FindByID(ctx, id)
}

func (s *LocationService) Create(ctx context.Context, principal domain.Principal, input ports.LocationInput) (*domain.Location, error) {
	if !policy.Authorize(policy.Role(principal.Role), policy.OpCreate, policy.ResourceLocation).Granted() {
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	loc := &domain.Location{
		Name:      input.Name,
		Code:      input.Code,
		City:      input.City,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Active != nil {
		loc.Active = *input.Active
	}

	created, err := s.repo.Create(ctx, loc)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("location_id", created.ID).Str("user_id", principal.ID).Msg("location created")
	return created, nil
}

func (s *LocationService) Update(ctx context.Context, principal domain.Principal, id string, input ports.LocationInput) (*domain.Location, error) {
	if !policy.Authorize(policy.Role(principal.Role), policy.OpUpdate, policy.ResourceLocation).Granted() {
		return nil, domain.ErrForbidden
	}

	loc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	loc.Name = input.Name
	loc.Code = input.Code
	loc.City = input.City
	if input.Active != nil {
		loc.Active = *input.Active
	}
	loc.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, loc)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("location_id", updated.ID).Str("user_id", principal.ID).Msg("location updated")
	return updated, nil
}

// Delete removes a location, refusing while any credential references it.
func (s *LocationService) Delete(ctx context.Context, principal domain.Principal, id string) error {
	if !policy.Authorize(policy.Role(principal.Role), policy.OpDelete, policy.ResourceLocation).Granted() {
		return domain.ErrForbidden
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	refs, err := s.credentials.CountByLocation(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return domain.ErrLocationInUse
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("location_id", id).Str("user_id", principal.ID).Msg("location deleted")
	return nil
}
